package core

// convert.go provides cell-level conversion between spreadsheet text and
// field values.
//
// Spreadsheet cells arrive messy:
//   - Excel formula prefixes (="value")
//   - Stray surrounding quotes and whitespace
//   - Numbers typed as text, with thousands separators
//
// Free-text columns only get whitespace trimmed (see CleanText); the quote
// and formula cleanup applies to typed cells only.
//   - Booleans as true/false in any case, or as 0/1
//
// Parse* functions return ok=false for blank input so callers can treat the
// field as absent, and an error when the cell has content that cannot be
// read as the requested type.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// groupedRegex matches numbers with well-formed thousands groups ("1,200.5").
// Any other comma, such as a decimal comma in "0,8", is rejected.
var groupedRegex = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d*)?$`)

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// CleanText trims whitespace from a free-text cell and leaves the rest of
// the text as written.
func CleanText(s string) string {
	return strings.TrimSpace(s)
}

// ParseNumber reads a decimal number from a cell.
func ParseNumber(cell string) (f float64, ok bool, err error) {
	s := CleanCell(cell)
	if s == "" {
		return 0, false, nil
	}
	if groupedRegex.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	if !numericRegex.MatchString(s) {
		return 0, false, fmt.Errorf("invalid number %q", cell)
	}
	f, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid number %q: %w", cell, err)
	}
	return f, true, nil
}

// ParseBool reads a boolean from a cell. "true"/"false" match in any case;
// numeric cells are false when zero and true otherwise.
func ParseBool(cell string) (b bool, ok bool, err error) {
	s := CleanCell(cell)
	if s == "" {
		return false, false, nil
	}
	switch strings.ToLower(s) {
	case "true":
		return true, true, nil
	case "false":
		return false, true, nil
	}
	if f, numOK, numErr := ParseNumber(s); numErr == nil && numOK {
		return f != 0, true, nil
	}
	return false, false, fmt.Errorf("invalid boolean %q", cell)
}

// FormatNumber renders f with the fewest digits that read back exactly.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatBool renders b as "true" or "false".
func FormatBool(b bool) string {
	return strconv.FormatBool(b)
}
