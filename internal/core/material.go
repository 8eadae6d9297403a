package core

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JonMunkholm/materials/internal/schema"
)

// Common holds the attributes every material carries regardless of kind.
type Common struct {
	Name      string
	Category  string
	Condition string
	Color     string
	Notes     string
}

// CommonPatch is a partial update of Common. Nil fields are left unchanged.
type CommonPatch struct {
	Name      *string
	Category  *string
	Condition *string
	Color     *string
	Notes     *string
}

// Record is one catalogued material: common attributes plus exactly one
// kind-specific body. Records are built with NewRecord and changed with
// Update; the body cannot be swapped for another kind.
type Record struct {
	ID        int64 // Assigned by the store on first save
	Name      string
	Category  string
	Condition string
	Color     string
	Notes     string
	DateAdded time.Time

	body Variant
}

// NewRecord validates common and vals for kind and returns an unsaved record
// dated now.
func NewRecord(kind schema.Kind, common Common, vals Values, now time.Time) (*Record, error) {
	if !kind.Valid() {
		return nil, &UnknownKindError{Token: string(kind)}
	}
	if err := validateCommon(common); err != nil {
		return nil, err
	}
	body, err := buildVariant(kind, vals)
	if err != nil {
		return nil, err
	}
	return &Record{
		Name:      common.Name,
		Category:  common.Category,
		Condition: common.Condition,
		Color:     common.Color,
		Notes:     common.Notes,
		DateAdded: now,
		body:      body,
	}, nil
}

// Update applies a partial change and returns the resulting record. The
// receiver is not modified. A nil or absent entry in either patch keeps the
// current value; kind, ID and DateAdded never change.
func (r *Record) Update(patch CommonPatch, vals Values) (*Record, error) {
	next := *r
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Category != nil {
		next.Category = *patch.Category
	}
	if patch.Condition != nil {
		next.Condition = *patch.Condition
	}
	if patch.Color != nil {
		next.Color = *patch.Color
	}
	if patch.Notes != nil {
		next.Notes = *patch.Notes
	}
	if err := validateCommon(next.common()); err != nil {
		return nil, err
	}

	merged := r.body.values()
	for k, v := range vals {
		if present(v) {
			merged[k] = v
		}
	}
	body, err := buildVariant(r.Kind(), merged)
	if err != nil {
		return nil, err
	}
	next.body = body
	return &next, nil
}

// Kind returns the record's material kind.
func (r *Record) Kind() schema.Kind { return r.body.Kind() }

// Body returns the kind-specific body. Switch on its concrete type, or use
// the typed accessors.
func (r *Record) Body() Variant { return r.body }

func (r *Record) Desk() (Desk, bool) {
	d, ok := r.body.(Desk)
	return d, ok
}

func (r *Record) Door() (Door, bool) {
	d, ok := r.body.(Door)
	return d, ok
}

func (r *Record) Window() (Window, bool) {
	w, ok := r.body.(Window)
	return w, ok
}

func (r *Record) DrawerUnit() (DrawerUnit, bool) {
	d, ok := r.body.(DrawerUnit)
	return d, ok
}

func (r *Record) OfficeCabinet() (OfficeCabinet, bool) {
	c, ok := r.body.(OfficeCabinet)
	return c, ok
}

// VariantField returns the value of a variant field. Optional fields that
// are unset return nil. Fields outside the record's kind return
// *FieldNotApplicableError.
func (r *Record) VariantField(name string) (any, error) {
	if _, ok := schema.Field(r.Kind(), name); !ok {
		return nil, &FieldNotApplicableError{Kind: r.Kind(), Field: name}
	}
	return r.body.values()[name], nil
}

// VariantValues returns the set variant fields of the record.
func (r *Record) VariantValues() Values { return r.body.values() }

func (r *Record) common() Common {
	return Common{
		Name:      r.Name,
		Category:  r.Category,
		Condition: r.Condition,
		Color:     r.Color,
		Notes:     r.Notes,
	}
}

func validateCommon(c Common) error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: schema.Name, Reason: "required field is empty"}
	}
	if n := utf8.RuneCountInString(c.Name); n > schema.MaxNameLength {
		return &ValidationError{Field: schema.Name, Value: n, Reason: "name exceeds 100 characters"}
	}
	if strings.TrimSpace(c.Category) == "" {
		return &ValidationError{Field: schema.Category, Reason: "required field is empty"}
	}
	if strings.TrimSpace(c.Condition) == "" {
		return &ValidationError{Field: schema.Condition, Reason: "required field is empty"}
	}
	if n := utf8.RuneCountInString(c.Notes); n > schema.MaxNotesLength {
		return &ValidationError{Field: schema.Notes, Value: n, Reason: "notes exceed 500 characters"}
	}
	return nil
}
