package core

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/JonMunkholm/materials/internal/schema"
)

// DeskType is the shape of a desk.
type DeskType string

const (
	CornerDesk   DeskType = "CORNER_DESK"
	StraightDesk DeskType = "STRAIGHT_DESK"
)

// SwingDirection is the side a door swings towards.
type SwingDirection string

const (
	SwingRight SwingDirection = "RIGHT"
	SwingLeft  SwingDirection = "LEFT"
)

// WindowOpening is how a window opens.
type WindowOpening string

const (
	FixedPane WindowOpening = "FIXED_PANE"
	TopHung   WindowOpening = "TOP_HUNG"
	SideHung  WindowOpening = "SIDE_HUNG"
	Tilt      WindowOpening = "TILT"
	Sliding   WindowOpening = "SLIDING"
)

// HingeSide is the edge a window is hinged on.
type HingeSide string

const (
	HingeRight  HingeSide = "RIGHT"
	HingeLeft   HingeSide = "LEFT"
	HingeTop    HingeSide = "TOP"
	HingeBottom HingeSide = "BOTTOM"
	HingeNone   HingeSide = "NONE"
)

// CabinetOpening is how an office cabinet closes.
type CabinetOpening string

const (
	CabinetDoors        CabinetOpening = "DOORS"
	CabinetSlidingDoors CabinetOpening = "SLIDING_DOORS"
	CabinetNoDoors      CabinetOpening = "NO_DOORS"
)

// Variant is the kind-specific body of a record. The set of implementations
// is closed: Desk, Door, Window, DrawerUnit and OfficeCabinet.
type Variant interface {
	Kind() schema.Kind
	values() Values
}

// Desk dimensions are in centimeters. A desk has no separate current height.
type Desk struct {
	DeskType         DeskType
	HeightAdjustable bool
	MaximumHeight    float64
	Width            float64
	Depth            float64
}

type Door struct {
	Height         float64
	Width          float64
	SwingDirection SwingDirection
	UValue         *float64
}

type Window struct {
	Height      float64
	Width       float64
	OpeningType WindowOpening
	HingeSide   *HingeSide
	UValue      *float64
}

type DrawerUnit struct {
	Height    float64
	Width     float64
	Depth     float64
	HasWheels bool
}

type OfficeCabinet struct {
	Height      float64
	Width       float64
	Depth       float64
	OpeningType CabinetOpening
}

func (Desk) Kind() schema.Kind          { return schema.KindDesk }
func (Door) Kind() schema.Kind          { return schema.KindDoor }
func (Window) Kind() schema.Kind        { return schema.KindWindow }
func (DrawerUnit) Kind() schema.Kind    { return schema.KindDrawerUnit }
func (OfficeCabinet) Kind() schema.Kind { return schema.KindOfficeCabinet }

func (d Desk) values() Values {
	return Values{
		schema.DeskType:         string(d.DeskType),
		schema.HeightAdjustable: d.HeightAdjustable,
		schema.MaximumHeight:    d.MaximumHeight,
		schema.Width:            d.Width,
		schema.Depth:            d.Depth,
	}
}

func (d Door) values() Values {
	v := Values{
		schema.Height:         d.Height,
		schema.Width:          d.Width,
		schema.SwingDirection: string(d.SwingDirection),
	}
	if d.UValue != nil {
		v[schema.UValue] = *d.UValue
	}
	return v
}

func (w Window) values() Values {
	v := Values{
		schema.Height:      w.Height,
		schema.Width:       w.Width,
		schema.OpeningType: string(w.OpeningType),
	}
	if w.HingeSide != nil {
		v[schema.HingeSide] = string(*w.HingeSide)
	}
	if w.UValue != nil {
		v[schema.UValue] = *w.UValue
	}
	return v
}

func (d DrawerUnit) values() Values {
	return Values{
		schema.Height:    d.Height,
		schema.Width:     d.Width,
		schema.Depth:     d.Depth,
		schema.HasWheels: d.HasWheels,
	}
}

func (c OfficeCabinet) values() Values {
	return Values{
		schema.Height:      c.Height,
		schema.Width:       c.Width,
		schema.Depth:       c.Depth,
		schema.OpeningType: string(c.OpeningType),
	}
}

// Values holds variant field values keyed by field name.
// Numeric fields take float64 (or any Go integer/float, or *float64), bool
// fields take bool or *bool, and enum fields take string, *string or one of
// the typed enum constants. A nil entry, or a nil pointer, is absent.
type Values map[string]any

// present reports whether v carries a value.
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case *float64:
		return x != nil
	case *bool:
		return x != nil
	case *string:
		return x != nil
	default:
		return true
	}
}

// buildVariant validates vals against the fields of kind and assembles the
// body. Every key in vals must belong to kind.
func buildVariant(kind schema.Kind, vals Values) (Variant, error) {
	specs, err := schema.FieldsFor(kind)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !present(vals[k]) {
			continue
		}
		if _, ok := schema.Field(kind, k); !ok {
			return nil, &FieldNotApplicableError{Kind: kind, Field: k}
		}
	}

	parsed := make(map[string]any, len(specs))
	for _, spec := range specs {
		v, ok, err := coerce(spec, vals[spec.Name])
		if err != nil {
			return nil, err
		}
		if !ok {
			if spec.Required {
				return nil, &ValidationError{Field: spec.Name, Reason: "required field is missing"}
			}
			continue
		}
		parsed[spec.Name] = v
	}

	num := func(name string) float64 { return parsed[name].(float64) }
	flag := func(name string) bool { return parsed[name].(bool) }
	token := func(name string) string { return parsed[name].(string) }

	switch kind {
	case schema.KindDesk:
		return Desk{
			DeskType:         DeskType(token(schema.DeskType)),
			HeightAdjustable: flag(schema.HeightAdjustable),
			MaximumHeight:    num(schema.MaximumHeight),
			Width:            num(schema.Width),
			Depth:            num(schema.Depth),
		}, nil
	case schema.KindDoor:
		return Door{
			Height:         num(schema.Height),
			Width:          num(schema.Width),
			SwingDirection: SwingDirection(token(schema.SwingDirection)),
			UValue:         optNumber(parsed, schema.UValue),
		}, nil
	case schema.KindWindow:
		w := Window{
			Height:      num(schema.Height),
			Width:       num(schema.Width),
			OpeningType: WindowOpening(token(schema.OpeningType)),
			UValue:      optNumber(parsed, schema.UValue),
		}
		if s, ok := parsed[schema.HingeSide].(string); ok {
			hs := HingeSide(s)
			w.HingeSide = &hs
		}
		return w, nil
	case schema.KindDrawerUnit:
		return DrawerUnit{
			Height:    num(schema.Height),
			Width:     num(schema.Width),
			Depth:     num(schema.Depth),
			HasWheels: flag(schema.HasWheels),
		}, nil
	case schema.KindOfficeCabinet:
		return OfficeCabinet{
			Height:      num(schema.Height),
			Width:       num(schema.Width),
			Depth:       num(schema.Depth),
			OpeningType: CabinetOpening(token(schema.OpeningType)),
		}, nil
	}
	return nil, &UnknownKindError{Token: string(kind)}
}

func optNumber(parsed map[string]any, name string) *float64 {
	f, ok := parsed[name].(float64)
	if !ok {
		return nil
	}
	return &f
}

// coerce converts raw into the canonical Go type for the field and checks its
// range or enum membership. ok is false when raw is absent.
func coerce(spec schema.FieldSpec, raw any) (v any, ok bool, err error) {
	if !present(raw) {
		return nil, false, nil
	}

	switch spec.Type {
	case schema.FieldNumeric:
		f, valid := toFloat(raw)
		if !valid || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false, &ValidationError{Field: spec.Name, Value: raw, Reason: "invalid number"}
		}
		if spec.Name == schema.UValue {
			if f < 0 {
				return nil, false, &ValidationError{Field: spec.Name, Value: f, Reason: "must not be negative"}
			}
		} else if f <= 0 {
			return nil, false, &ValidationError{Field: spec.Name, Value: f, Reason: "must be greater than zero"}
		}
		return f, true, nil

	case schema.FieldBool:
		switch x := raw.(type) {
		case bool:
			return x, true, nil
		case *bool:
			return *x, true, nil
		}
		return nil, false, &ValidationError{Field: spec.Name, Value: raw, Reason: "invalid boolean"}

	case schema.FieldEnum, schema.FieldText:
		var s string
		switch x := raw.(type) {
		case string:
			s = x
		case *string:
			s = *x
		case fmt.Stringer:
			s = x.String()
		case DeskType:
			s = string(x)
		case SwingDirection:
			s = string(x)
		case WindowOpening:
			s = string(x)
		case HingeSide:
			s = string(x)
		case CabinetOpening:
			s = string(x)
		default:
			return nil, false, &ValidationError{Field: spec.Name, Value: raw, Reason: "invalid text value"}
		}
		if spec.Type == schema.FieldEnum && !spec.Allows(s) {
			return nil, false, &ValidationError{
				Field:  spec.Name,
				Value:  s,
				Reason: "invalid enum value, allowed: " + strings.Join(spec.EnumValues, ", "),
			}
		}
		return s, true, nil
	}

	return nil, false, &ValidationError{Field: spec.Name, Value: raw, Reason: "unsupported field type " + spec.Type.String()}
}

func toFloat(raw any) (float64, bool) {
	switch x := raw.(type) {
	case float64:
		return x, true
	case *float64:
		return *x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}
