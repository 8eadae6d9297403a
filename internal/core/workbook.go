package core

// workbook.go moves row data in and out of .xlsx and .csv files. The row
// shape is the same for both formats; only the .xlsx writer carries cell
// types, styling and template guidance.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JonMunkholm/materials/internal/schema"
	"github.com/xuri/excelize/v2"
)

// Sheet names used by generated workbooks.
const (
	ExportSheet   = "Materials"
	TemplateSheet = "Material Template"
)

// templateValidationRows is how many data rows the template's drop-down
// lists cover.
const templateValidationRows = 100

// Format identifies a spreadsheet file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "xlsx" or "csv" in any case; empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xlsx":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("invalid format %q: use xlsx or csv", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// DetectFormat guesses the format of an uploaded file from its name, falling
// back to the zip signature every .xlsx file starts with.
func DetectFormat(fileName string, head []byte) Format {
	name := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(name, ".xlsx"):
		return FormatXLSX
	case strings.HasSuffix(name, ".csv"):
		return FormatCSV
	case bytes.HasPrefix(head, []byte("PK\x03\x04")):
		return FormatXLSX
	}
	return FormatCSV
}

// ReadRows reads every row of the first sheet (xlsx) or the file (csv).
func ReadRows(r io.Reader, format Format) ([][]string, error) {
	if format == FormatCSV {
		return ReadCSV(r)
	}
	return ReadWorkbook(r)
}

// WriteRows writes rows as an export file in format.
func WriteRows(w io.Writer, rows [][]string, format Format) error {
	if format == FormatCSV {
		return WriteCSV(w, rows)
	}
	return WriteWorkbook(w, rows)
}

// ReadWorkbook returns the rows of the first sheet of an .xlsx file.
func ReadWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("empty file: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// WriteWorkbook writes rows to a single-sheet .xlsx file. rows[0] is the
// header and is set in bold. Numeric and boolean columns are written as
// typed cells so spreadsheets can sort and sum them.
func WriteWorkbook(w io.Writer, rows [][]string) error {
	f, err := newWorkbook(ExportSheet)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writeSheetRows(f, ExportSheet, rows); err != nil {
		return err
	}
	if err := styleHeader(f, ExportSheet, nil); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteTemplateWorkbook writes t as an .xlsx import template: header comments,
// required headers in red, the instruction row merged across the sheet and
// drop-down lists on constrained columns.
func WriteTemplateWorkbook(w io.Writer, t Template) error {
	f, err := newWorkbook(TemplateSheet)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writeSheetRows(f, TemplateSheet, t.Rows()); err != nil {
		return err
	}
	if err := styleHeader(f, TemplateSheet, t.Required); err != nil {
		return err
	}

	for i, h := range t.Header {
		text := t.Guidance[h]
		if text == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.AddComment(TemplateSheet, excelize.Comment{
			Author: "Catalog",
			Cell:   cell,
			Text:   text,
		}); err != nil {
			return fmt.Errorf("comment %s: %w", h, err)
		}
	}

	instrRow := t.InstructionRow() + 1
	start, _ := excelize.CoordinatesToCellName(1, instrRow)
	end, _ := excelize.CoordinatesToCellName(9, instrRow)
	if err := f.MergeCell(TemplateSheet, start, end); err != nil {
		return fmt.Errorf("merge instruction row: %w", err)
	}

	for _, dv := range mergeChoiceLists(t.Choices) {
		idx := indexOf(t.Header, dv.Column)
		if idx < 0 {
			continue
		}
		col, err := excelize.ColumnNumberToName(idx + 1)
		if err != nil {
			return err
		}
		v := excelize.NewDataValidation(true)
		v.Sqref = fmt.Sprintf("%s2:%s%d", col, col, templateValidationRows+1)
		if err := v.SetDropList(dv.Values); err != nil {
			return fmt.Errorf("choices for %s: %w", dv.Column, err)
		}
		v.SetError(excelize.DataValidationErrorStyleStop, "Invalid value",
			"Choose one of: "+strings.Join(dv.Values, ", "))
		if err := f.AddDataValidation(TemplateSheet, v); err != nil {
			return fmt.Errorf("add validation for %s: %w", dv.Column, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

// mergeChoiceLists combines lists that share a column. A cell range can hold
// only one validation, so the Window and OfficeCabinet opening types end up
// in a single list on the Opening Type column.
func mergeChoiceLists(lists []ChoiceList) []ChoiceList {
	var out []ChoiceList
	pos := make(map[string]int)
	for _, l := range lists {
		i, ok := pos[l.Column]
		if !ok {
			pos[l.Column] = len(out)
			out = append(out, ChoiceList{Column: l.Column, Values: copyStrings(l.Values)})
			continue
		}
		for _, v := range l.Values {
			if indexOf(out[i].Values, v) < 0 {
				out[i].Values = append(out[i].Values, v)
			}
		}
	}
	return out
}

func newWorkbook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	return f, nil
}

func writeSheetRows(f *excelize.File, sheet string, rows [][]string) error {
	cols := schema.Columns()
	for r, row := range rows {
		for c, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, typedCell(cols, r, c, v)); err != nil {
				return fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		last, err := excelize.ColumnNumberToName(len(rows[0]))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
			return err
		}
	}
	return nil
}

// typedCell converts data cells of numeric and boolean columns. Header cells
// and anything that does not parse stay text.
func typedCell(cols []schema.Column, row, col int, v string) any {
	if row == 0 || col >= len(cols) {
		return v
	}
	switch cols[col].Type {
	case schema.FieldNumeric:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	case schema.FieldBool:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return v
}

// styleHeader sets the header row bold; headers listed in required are also red.
func styleHeader(f *excelize.File, sheet string, required []string) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	red, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: "FF0000"}})
	if err != nil {
		return err
	}

	headers := schema.Headers()
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		style := bold
		if indexOf(required, h) >= 0 {
			style = red
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

// ReadCSV reads all records of a CSV file. A leading UTF-8 byte order mark
// is dropped and rows may have differing lengths.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// WriteCSV writes rows as CSV.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
