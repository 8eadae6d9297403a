package schema

import (
	"errors"
	"testing"
)

func TestKinds(t *testing.T) {
	got := Kinds()
	want := []Kind{KindDesk, KindDoor, KindWindow, KindDrawerUnit, KindOfficeCabinet}
	if len(got) != len(want) {
		t.Fatalf("Kinds() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Kinds()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Mutating the result must not affect the registry.
	got[0] = "Shelf"
	if Kinds()[0] != KindDesk {
		t.Error("Kinds() returned shared slice")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		token   string
		want    Kind
		wantErr bool
	}{
		{"Desk", KindDesk, false},
		{"Door", KindDoor, false},
		{"Window", KindWindow, false},
		{"DrawerUnit", KindDrawerUnit, false},
		{"OfficeCabinet", KindOfficeCabinet, false},
		{"desk", "", true},
		{" Desk", "", true},
		{"Shelf", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseKind(tt.token)
			if tt.wantErr {
				var uk *UnknownKindError
				if !errors.As(err, &uk) {
					t.Fatalf("ParseKind(%q) error = %v, want *UnknownKindError", tt.token, err)
				}
				if uk.Token != tt.token {
					t.Errorf("UnknownKindError.Token = %q, want %q", uk.Token, tt.token)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind(%q) unexpected error: %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestFieldsFor(t *testing.T) {
	tests := []struct {
		kind     Kind
		names    []string
		required []string
	}{
		{
			kind:     KindDesk,
			names:    []string{DeskType, HeightAdjustable, MaximumHeight, Width, Depth},
			required: []string{DeskType, HeightAdjustable, MaximumHeight, Width, Depth},
		},
		{
			kind:     KindDoor,
			names:    []string{Height, Width, SwingDirection, UValue},
			required: []string{Height, Width, SwingDirection},
		},
		{
			kind:     KindWindow,
			names:    []string{Height, Width, OpeningType, HingeSide, UValue},
			required: []string{Height, Width, OpeningType},
		},
		{
			kind:     KindDrawerUnit,
			names:    []string{Height, Width, Depth, HasWheels},
			required: []string{Height, Width, Depth, HasWheels},
		},
		{
			kind:     KindOfficeCabinet,
			names:    []string{Height, Width, Depth, OpeningType},
			required: []string{Height, Width, Depth, OpeningType},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			specs, err := FieldsFor(tt.kind)
			if err != nil {
				t.Fatalf("FieldsFor(%q) error = %v", tt.kind, err)
			}
			if len(specs) != len(tt.names) {
				t.Fatalf("FieldsFor(%q) returned %d fields, want %d", tt.kind, len(specs), len(tt.names))
			}
			var required []string
			for i, s := range specs {
				if s.Name != tt.names[i] {
					t.Errorf("field %d = %q, want %q", i, s.Name, tt.names[i])
				}
				if s.Type == FieldEnum && len(s.EnumValues) == 0 {
					t.Errorf("enum field %q has no values", s.Name)
				}
				if s.Required {
					required = append(required, s.Name)
				}
			}
			if len(required) != len(tt.required) {
				t.Errorf("required = %v, want %v", required, tt.required)
			}
		})
	}
}

func TestFieldsFor_UnknownKind(t *testing.T) {
	_, err := FieldsFor("Shelf")
	var uk *UnknownKindError
	if !errors.As(err, &uk) {
		t.Fatalf("FieldsFor(Shelf) error = %v, want *UnknownKindError", err)
	}
}

func TestFieldSpecAllows(t *testing.T) {
	spec, ok := Field(KindDesk, DeskType)
	if !ok {
		t.Fatal("Field(Desk, deskType) not found")
	}
	if !spec.Allows("CORNER_DESK") {
		t.Error("Allows(CORNER_DESK) = false, want true")
	}
	for _, bad := range []string{"corner_desk", "ROUND_DESK", ""} {
		if spec.Allows(bad) {
			t.Errorf("Allows(%q) = true, want false", bad)
		}
	}
}

func TestField_NotApplicable(t *testing.T) {
	if _, ok := Field(KindDoor, HasWheels); ok {
		t.Error("Field(Door, hasWheels) ok = true, want false")
	}
}

func TestAllFields(t *testing.T) {
	got := AllFields()
	if len(got) != 11 {
		t.Fatalf("AllFields() len = %d, want 11: %v", len(got), got)
	}
	seen := make(map[string]bool)
	for _, f := range got {
		if seen[f] {
			t.Errorf("AllFields() duplicate %q", f)
		}
		seen[f] = true
	}
}

func TestHeaders(t *testing.T) {
	want := []string{
		"Name", "Category", "Material Type", "Condition", "Color", "Notes",
		"Width", "Height", "Depth", "Desk Type", "Height Adjustable", "Max Height",
		"Opening Type", "Hinge Side", "U-Value", "Swing Direction", "Has Wheels",
	}
	got := Headers()
	if len(got) != len(want) {
		t.Fatalf("Headers() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Headers()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestColumnsCoverEveryField(t *testing.T) {
	for _, f := range AllFields() {
		if ColumnIndex(f) < 0 {
			t.Errorf("no column carries variant field %q", f)
		}
	}
	if ColumnIndex("nope") != -1 {
		t.Error("ColumnIndex(nope) should be -1")
	}
}

func TestFieldsFor_ReturnsIndependentCopy(t *testing.T) {
	specs, err := FieldsFor(KindDoor)
	if err != nil {
		t.Fatalf("FieldsFor() error = %v", err)
	}
	for i := range specs {
		if specs[i].Name == SwingDirection {
			specs[i].EnumValues[0] = "UP"
			specs[i].Required = false
		}
	}

	spec, ok := Field(KindDoor, SwingDirection)
	if !ok {
		t.Fatal("Field(Door, swingDirection) not found")
	}
	if !spec.Allows("RIGHT") || spec.Allows("UP") || !spec.Required {
		t.Errorf("registry changed through FieldsFor copy: %+v", spec)
	}
	if SwingDirections[0] != "RIGHT" {
		t.Errorf("SwingDirections[0] = %q, want RIGHT", SwingDirections[0])
	}
}
