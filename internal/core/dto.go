package core

import (
	"time"

	"github.com/JonMunkholm/materials/internal/schema"
)

// VariantSlots is the union of every kind's variant fields. Only the slots
// of a record's own kind are populated.
type VariantSlots struct {
	Height           *float64 `json:"height,omitempty"`
	Width            *float64 `json:"width,omitempty"`
	Depth            *float64 `json:"depth,omitempty"`
	UValue           *float64 `json:"uValue,omitempty"`
	OpeningType      *string  `json:"openingType,omitempty"`
	HingeSide        *string  `json:"hingeSide,omitempty"`
	SwingDirection   *string  `json:"swingDirection,omitempty"`
	HeightAdjustable *bool    `json:"heightAdjustable,omitempty"`
	HasWheels        *bool    `json:"hasWheels,omitempty"`
	DeskType         *string  `json:"deskType,omitempty"`
	MaximumHeight    *float64 `json:"maximumHeight,omitempty"`
}

// MaterialDTO is the flat transfer shape of a material.
type MaterialDTO struct {
	ID                int64        `json:"id,omitempty"`
	Name              string       `json:"name"`
	Category          string       `json:"category"`
	MaterialType      string       `json:"materialType"`
	MaterialCondition string       `json:"materialCondition"`
	Color             string       `json:"color,omitempty"`
	Notes             string       `json:"notes,omitempty"`
	DateAdded         *time.Time   `json:"dateAdded,omitempty"`
	Pictures          []PictureDTO `json:"pictures,omitempty"`
	VariantSlots
}

// MaterialPatchDTO is the transfer shape of a partial update. Absent common
// fields are left unchanged.
type MaterialPatchDTO struct {
	Name              *string `json:"name,omitempty"`
	Category          *string `json:"category,omitempty"`
	MaterialCondition *string `json:"materialCondition,omitempty"`
	Color             *string `json:"color,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	VariantSlots
}

// PictureDTO is picture metadata without the binary payload.
type PictureDTO struct {
	ID          int64     `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	FileSize    int64     `json:"fileSize"`
	UploadDate  time.Time `json:"uploadDate"`
	IsPrimary   bool      `json:"isPrimary"`
	Description string    `json:"description,omitempty"`
}

// ToDTO flattens r and the metadata of pics. For a Desk the generic height
// slot carries the maximum height, since a desk has no other height.
func ToDTO(r *Record, pics ...Picture) MaterialDTO {
	added := r.DateAdded
	dto := MaterialDTO{
		ID:                r.ID,
		Name:              r.Name,
		Category:          r.Category,
		MaterialType:      string(r.Kind()),
		MaterialCondition: r.Condition,
		Color:             r.Color,
		Notes:             r.Notes,
		DateAdded:         &added,
	}
	if added.IsZero() {
		dto.DateAdded = nil
	}
	dto.VariantSlots = slotsFromValues(r.body.values())
	if d, ok := r.Desk(); ok {
		h := d.MaximumHeight
		dto.Height = &h
	}
	for _, p := range pics {
		dto.Pictures = append(dto.Pictures, PictureToDTO(p))
	}
	return dto
}

// PictureToDTO drops the binary payload of p.
func PictureToDTO(p Picture) PictureDTO {
	return PictureDTO{
		ID:          p.ID,
		FileName:    p.FileName,
		ContentType: p.ContentType,
		FileSize:    p.FileSize,
		UploadDate:  p.UploadDate,
		IsPrimary:   p.IsPrimary,
		Description: p.Description,
	}
}

// FromDTO builds a record from its flat shape. MaterialType must name a kind
// exactly. Slots that do not belong to that kind are ignored. ID and
// DateAdded are carried over when present; otherwise DateAdded is now.
func FromDTO(dto MaterialDTO, now time.Time) (*Record, error) {
	kind, err := schema.ParseKind(dto.MaterialType)
	if err != nil {
		return nil, err
	}
	added := now
	if dto.DateAdded != nil {
		added = *dto.DateAdded
	}
	rec, err := NewRecord(kind, Common{
		Name:      dto.Name,
		Category:  dto.Category,
		Condition: dto.MaterialCondition,
		Color:     dto.Color,
		Notes:     dto.Notes,
	}, dto.VariantSlots.valuesFor(kind), added)
	if err != nil {
		return nil, err
	}
	rec.ID = dto.ID
	return rec, nil
}

// PatchFromDTO converts an update body into patches for a record of kind.
// Slots outside kind are ignored, as in FromDTO.
func PatchFromDTO(kind schema.Kind, dto MaterialPatchDTO) (CommonPatch, Values, error) {
	if !kind.Valid() {
		return CommonPatch{}, nil, &UnknownKindError{Token: string(kind)}
	}
	return CommonPatch{
		Name:      dto.Name,
		Category:  dto.Category,
		Condition: dto.MaterialCondition,
		Color:     dto.Color,
		Notes:     dto.Notes,
	}, dto.VariantSlots.valuesFor(kind), nil
}

// valuesFor returns the populated slots that belong to kind.
func (s VariantSlots) valuesFor(kind schema.Kind) Values {
	all := map[string]any{
		schema.Height:           s.Height,
		schema.Width:            s.Width,
		schema.Depth:            s.Depth,
		schema.UValue:           s.UValue,
		schema.OpeningType:      s.OpeningType,
		schema.HingeSide:        s.HingeSide,
		schema.SwingDirection:   s.SwingDirection,
		schema.HeightAdjustable: s.HeightAdjustable,
		schema.HasWheels:        s.HasWheels,
		schema.DeskType:         s.DeskType,
		schema.MaximumHeight:    s.MaximumHeight,
	}
	vals := make(Values)
	specs, _ := schema.FieldsFor(kind)
	for _, spec := range specs {
		if v := all[spec.Name]; present(v) {
			vals[spec.Name] = v
		}
	}
	return vals
}

func slotsFromValues(vals Values) VariantSlots {
	var s VariantSlots
	num := func(name string) *float64 {
		if f, ok := vals[name].(float64); ok {
			return &f
		}
		return nil
	}
	str := func(name string) *string {
		if v, ok := vals[name].(string); ok {
			return &v
		}
		return nil
	}
	flag := func(name string) *bool {
		if b, ok := vals[name].(bool); ok {
			return &b
		}
		return nil
	}
	s.Height = num(schema.Height)
	s.Width = num(schema.Width)
	s.Depth = num(schema.Depth)
	s.UValue = num(schema.UValue)
	s.OpeningType = str(schema.OpeningType)
	s.HingeSide = str(schema.HingeSide)
	s.SwingDirection = str(schema.SwingDirection)
	s.HeightAdjustable = flag(schema.HeightAdjustable)
	s.HasWheels = flag(schema.HasWheels)
	s.DeskType = str(schema.DeskType)
	s.MaximumHeight = num(schema.MaximumHeight)
	return s
}
