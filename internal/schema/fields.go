package schema

import (
	"fmt"
	"sync"
)

// FieldType represents the value type of a variant field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldNumeric
	FieldBool
)

func (t FieldType) String() string {
	switch t {
	case FieldText:
		return "text"
	case FieldEnum:
		return "enum"
	case FieldNumeric:
		return "numeric"
	case FieldBool:
		return "bool"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// Variant field names, as they appear on the flat transfer object.
const (
	Height           = "height"
	Width            = "width"
	Depth            = "depth"
	UValue           = "uValue"
	OpeningType      = "openingType"
	HingeSide        = "hingeSide"
	SwingDirection   = "swingDirection"
	HeightAdjustable = "heightAdjustable"
	HasWheels        = "hasWheels"
	DeskType         = "deskType"
	MaximumHeight    = "maximumHeight"
)

// Allowed enum tokens. Matching is exact and case-sensitive.
var (
	DeskTypes           = []string{"CORNER_DESK", "STRAIGHT_DESK"}
	SwingDirections     = []string{"RIGHT", "LEFT"}
	WindowOpeningTypes  = []string{"FIXED_PANE", "TOP_HUNG", "SIDE_HUNG", "TILT", "SLIDING"}
	HingeSides          = []string{"RIGHT", "LEFT", "TOP", "BOTTOM", "NONE"}
	CabinetOpeningTypes = []string{"DOORS", "SLIDING_DOORS", "NO_DOORS"}
)

// FieldSpec defines one variant field of a kind.
type FieldSpec struct {
	Name       string    // Key on the flat transfer object
	Type       FieldType // Value type
	Required   bool      // Must be present for the record to be valid
	EnumValues []string  // Allowed tokens for FieldEnum
}

// Allows reports whether token is one of the field's enum values.
func (s FieldSpec) Allows(token string) bool {
	for _, v := range s.EnumValues {
		if v == token {
			return true
		}
	}
	return false
}

var (
	registry   = make(map[Kind][]FieldSpec)
	registryMu sync.RWMutex
)

func register(kind Kind, specs ...FieldSpec) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[kind]; exists {
		panic(fmt.Sprintf("kind already registered: %s", kind))
	}
	registry[kind] = specs
}

func init() {
	register(KindDesk,
		FieldSpec{Name: DeskType, Type: FieldEnum, Required: true, EnumValues: DeskTypes},
		FieldSpec{Name: HeightAdjustable, Type: FieldBool, Required: true},
		FieldSpec{Name: MaximumHeight, Type: FieldNumeric, Required: true},
		FieldSpec{Name: Width, Type: FieldNumeric, Required: true},
		FieldSpec{Name: Depth, Type: FieldNumeric, Required: true},
	)
	register(KindDoor,
		FieldSpec{Name: Height, Type: FieldNumeric, Required: true},
		FieldSpec{Name: Width, Type: FieldNumeric, Required: true},
		FieldSpec{Name: SwingDirection, Type: FieldEnum, Required: true, EnumValues: SwingDirections},
		FieldSpec{Name: UValue, Type: FieldNumeric},
	)
	register(KindWindow,
		FieldSpec{Name: Height, Type: FieldNumeric, Required: true},
		FieldSpec{Name: Width, Type: FieldNumeric, Required: true},
		FieldSpec{Name: OpeningType, Type: FieldEnum, Required: true, EnumValues: WindowOpeningTypes},
		FieldSpec{Name: HingeSide, Type: FieldEnum, EnumValues: HingeSides},
		FieldSpec{Name: UValue, Type: FieldNumeric},
	)
	register(KindDrawerUnit,
		FieldSpec{Name: Height, Type: FieldNumeric, Required: true},
		FieldSpec{Name: Width, Type: FieldNumeric, Required: true},
		FieldSpec{Name: Depth, Type: FieldNumeric, Required: true},
		FieldSpec{Name: HasWheels, Type: FieldBool, Required: true},
	)
	register(KindOfficeCabinet,
		FieldSpec{Name: Height, Type: FieldNumeric, Required: true},
		FieldSpec{Name: Width, Type: FieldNumeric, Required: true},
		FieldSpec{Name: Depth, Type: FieldNumeric, Required: true},
		FieldSpec{Name: OpeningType, Type: FieldEnum, Required: true, EnumValues: CabinetOpeningTypes},
	)
}

// FieldsFor returns the ordered field specs of kind.
// The returned slice is a copy and may be modified by the caller.
func FieldsFor(kind Kind) ([]FieldSpec, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	specs, ok := registry[kind]
	if !ok {
		return nil, &UnknownKindError{Token: string(kind)}
	}
	out := make([]FieldSpec, len(specs))
	for i, s := range specs {
		s.EnumValues = append([]string(nil), s.EnumValues...)
		out[i] = s
	}
	return out, nil
}

// Field returns the FieldSpec named name within kind.
// ok is false when kind has no such field or kind is unknown.
func Field(kind Kind, name string) (FieldSpec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, s := range registry[kind] {
		if s.Name == name {
			return s, true
		}
	}
	return FieldSpec{}, false
}

// AllFields returns the union of variant field names across every kind,
// in first-seen order walking the kinds in declaration order.
func AllFields() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, k := range kinds {
		for _, s := range registry[k] {
			if !seen[s.Name] {
				seen[s.Name] = true
				out = append(out, s.Name)
			}
		}
	}
	return out
}
