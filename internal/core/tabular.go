package core

// tabular.go implements the fixed 17-column spreadsheet format used for
// bulk import and export.
//
// Import is row-isolated: a row that fails to parse or validate becomes a
// RowError and processing continues with the next row. The caller receives
// both the built records and the errors. Rows are numbered from 1 starting
// at the first data row, so row N sits on spreadsheet line N+1.

import (
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/materials/internal/schema"
)

// ImportBatch is the outcome of importing a set of data rows.
type ImportBatch struct {
	Records []*Record  // Valid rows, in spreadsheet order
	Rows    []int      // Data row number of each entry in Records
	Errors  []RowError // Rejected rows, in spreadsheet order
	Blank   int        // Wholly blank rows that were skipped
}

// Total returns the number of data rows examined, blank rows included.
func (b ImportBatch) Total() int {
	return len(b.Records) + len(b.Errors) + b.Blank
}

// ExportRows returns the header row followed by one row per record.
func ExportRows(records []*Record) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, schema.Headers())
	for _, r := range records {
		rows = append(rows, ExportRow(r))
	}
	return rows
}

// ExportRow renders one record in column order. Columns that do not apply to
// the record's kind are blank. A Window writes 0 into Depth; a Desk writes
// its maximum height into both Height and Max Height.
func ExportRow(r *Record) []string {
	row := make([]string, len(schema.Columns()))
	set := func(field, value string) {
		if i := schema.ColumnIndex(field); i >= 0 {
			row[i] = value
		}
	}

	set(schema.Name, r.Name)
	set(schema.Category, r.Category)
	set(schema.MaterialType, string(r.Kind()))
	set(schema.Condition, r.Condition)
	set(schema.Color, r.Color)
	set(schema.Notes, r.Notes)

	for name, v := range r.body.values() {
		switch x := v.(type) {
		case float64:
			set(name, FormatNumber(x))
		case bool:
			set(name, FormatBool(x))
		case string:
			set(name, x)
		}
	}

	switch b := r.body.(type) {
	case Desk:
		set(schema.Height, FormatNumber(b.MaximumHeight))
	case Window:
		set(schema.Depth, "0")
	}
	return row
}

// ImportRow parses one data row. rowIndex is the 1-based data row number
// reported on failure. Cells of columns that do not apply to the row's
// material type are ignored.
func ImportRow(row []string, rowIndex int, now time.Time) (*Record, *RowError) {
	fail := func(err error) (*Record, *RowError) {
		return nil, &RowError{Row: rowIndex, Cause: err, Data: append([]string(nil), row...)}
	}

	cell := func(i int) string {
		if i < len(row) {
			return CleanCell(row[i])
		}
		return ""
	}
	text := func(i int) string {
		if i < len(row) {
			return CleanText(row[i])
		}
		return ""
	}

	kind, err := schema.ParseKind(cell(schema.ColumnIndex(schema.MaterialType)))
	if err != nil {
		return fail(err)
	}

	dto := MaterialDTO{MaterialType: string(kind)}
	vals := make(Values)

	for i, col := range schema.Columns() {
		switch col.Field {
		case schema.Name:
			dto.Name = text(i)
			continue
		case schema.Category:
			dto.Category = text(i)
			continue
		case schema.Condition:
			dto.MaterialCondition = text(i)
			continue
		case schema.Color:
			dto.Color = text(i)
			continue
		case schema.Notes:
			dto.Notes = text(i)
			continue
		case schema.MaterialType:
			continue
		}

		if _, ok := schema.Field(kind, col.Field); !ok {
			continue
		}
		raw := cell(i)
		switch col.Type {
		case schema.FieldNumeric:
			f, ok, err := ParseNumber(raw)
			if err != nil {
				return fail(&ValidationError{Field: col.Field, Value: raw, Reason: "invalid number in column " + col.Header})
			}
			if ok {
				vals[col.Field] = f
			}
		case schema.FieldBool:
			b, ok, err := ParseBool(raw)
			if err != nil {
				return fail(&ValidationError{Field: col.Field, Value: raw, Reason: "invalid boolean in column " + col.Header})
			}
			if ok {
				vals[col.Field] = b
			}
		default:
			if raw != "" {
				vals[col.Field] = raw
			}
		}
	}
	dto.VariantSlots = slotsFromValues(vals)

	rec, err := FromDTO(dto, now)
	if err != nil {
		return fail(err)
	}
	return rec, nil
}

// ImportRows imports a whole sheet. rows[0] must be the header row; a header
// that does not match the column layout fails the whole call. Wholly blank
// data rows are counted and skipped.
func ImportRows(rows [][]string, now time.Time) (ImportBatch, error) {
	if len(rows) == 0 {
		return ImportBatch{}, fmt.Errorf("empty file: no header row")
	}
	if err := CheckHeader(rows[0]); err != nil {
		return ImportBatch{}, err
	}

	var batch ImportBatch
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			batch.Blank++
			continue
		}
		rec, rowErr := ImportRow(row, i+1, now)
		if rowErr != nil {
			batch.Errors = append(batch.Errors, *rowErr)
			continue
		}
		batch.Records = append(batch.Records, rec)
		batch.Rows = append(batch.Rows, i+1)
	}
	return batch, nil
}

// CheckHeader verifies header against the column layout. Matching ignores
// case and surrounding whitespace; extra trailing columns are allowed.
func CheckHeader(header []string) error {
	want := schema.Headers()
	for i, h := range want {
		if i >= len(header) {
			return fmt.Errorf("missing required column %q at position %d", h, i+1)
		}
		if !strings.EqualFold(CleanCell(header[i]), h) {
			return fmt.Errorf("column not found: expected %q at position %d, got %q", h, i+1, header[i])
		}
	}
	return nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if CleanCell(c) != "" {
			return false
		}
	}
	return true
}
