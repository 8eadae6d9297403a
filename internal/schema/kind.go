// Package schema describes the closed set of material kinds and the fields
// each kind carries. Every codec in the module reads field lists from here
// instead of hard-coding them.
package schema

import "fmt"

// Kind discriminates which variant body a material record carries.
type Kind string

const (
	KindDesk          Kind = "Desk"
	KindDoor          Kind = "Door"
	KindWindow        Kind = "Window"
	KindDrawerUnit    Kind = "DrawerUnit"
	KindOfficeCabinet Kind = "OfficeCabinet"
)

// kinds is the declaration order used for listings, templates and stats.
var kinds = []Kind{KindDesk, KindDoor, KindWindow, KindDrawerUnit, KindOfficeCabinet}

// Kinds returns the five material kinds in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// KindNames returns the kind tokens as plain strings.
func KindNames() []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

// ParseKind matches token exactly against the kind names.
// "desk" and " Desk" are both rejected.
func ParseKind(token string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == token {
			return k, nil
		}
	}
	return "", &UnknownKindError{Token: token}
}

// Valid reports whether k is one of the five kinds.
func (k Kind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

func (k Kind) String() string { return string(k) }

// UnknownKindError is returned when a material type token names no kind.
type UnknownKindError struct {
	Token string
}

func (e *UnknownKindError) Error() string {
	if e.Token == "" {
		return "unknown material type: material type is empty"
	}
	return fmt.Sprintf("unknown material type %q", e.Token)
}
