package core

import (
	"time"

	"github.com/JonMunkholm/materials/internal/schema"
)

// TemplateInstruction is the guidance line placed below the example rows.
const TemplateInstruction = "Instructions: Delete these sample rows before importing. " +
	"Fill one row per material and leave columns that do not apply to its material type empty. " +
	"Required fields: Name, Category, Material Type, Condition."

// ChoiceList is a constrained set of values for one column. A nil AppliesTo
// means the list applies to every row.
type ChoiceList struct {
	Column    string
	AppliesTo []schema.Kind
	Values    []string
}

// Template is an import template: header, examples and guidance metadata.
// The metadata is advisory; ImportRows does not consult it.
type Template struct {
	Header      []string
	Examples    [][]string        // One row per kind, in kind order
	Instruction string            // Placed one blank row below the examples
	Guidance    map[string]string // Header comment per column
	Required    []string          // Headers of columns every row must fill
	Choices     []ChoiceList
}

// Rows returns the template as plain rows: header, examples, a blank
// separator row and the instruction row.
func (t Template) Rows() [][]string {
	rows := make([][]string, 0, len(t.Examples)+3)
	rows = append(rows, t.Header)
	rows = append(rows, t.Examples...)
	rows = append(rows, []string{}, []string{t.Instruction})
	return rows
}

// InstructionRow returns the 0-based row index of the instruction line.
func (t Template) InstructionRow() int {
	return len(t.Examples) + 2
}

// exampleRecords returns one illustrative material per kind.
func exampleRecords() []*Record {
	now := time.Time{}
	must := func(r *Record, err error) *Record {
		if err != nil {
			panic("template example: " + err.Error())
		}
		return r
	}
	uWindow, uDoor := 1.2, 1.8

	return []*Record{
		must(NewRecord(schema.KindDesk, Common{
			Name: "Corner Office Desk", Category: "Office Furniture", Condition: "Good", Color: "Oak",
			Notes: "Electric height adjustment",
		}, Values{
			schema.DeskType: CornerDesk, schema.HeightAdjustable: true,
			schema.MaximumHeight: 120.0, schema.Width: 160.0, schema.Depth: 80.0,
		}, now)),
		must(NewRecord(schema.KindDoor, Common{
			Name: "Office Door", Category: "Interior Doors", Condition: "Good", Color: "Maple",
		}, Values{
			schema.Height: 210.0, schema.Width: 90.0, schema.SwingDirection: SwingRight, schema.UValue: uDoor,
		}, now)),
		must(NewRecord(schema.KindWindow, Common{
			Name: "Side-hung Window", Category: "Building Materials", Condition: "Excellent", Color: "White",
		}, Values{
			schema.Height: 120.0, schema.Width: 90.0, schema.OpeningType: SideHung,
			schema.HingeSide: HingeLeft, schema.UValue: uWindow,
		}, now)),
		must(NewRecord(schema.KindDrawerUnit, Common{
			Name: "Mobile Pedestal", Category: "Office Storage", Condition: "Fair", Color: "Grey",
		}, Values{
			schema.Height: 60.0, schema.Width: 40.0, schema.Depth: 55.0, schema.HasWheels: true,
		}, now)),
		must(NewRecord(schema.KindOfficeCabinet, Common{
			Name: "Tall Storage Cabinet", Category: "Office Storage", Condition: "Excellent", Color: "Beech",
		}, Values{
			schema.Height: 200.0, schema.Width: 80.0, schema.Depth: 45.0, schema.OpeningType: CabinetDoors,
		}, now)),
	}
}

// GenerateTemplate builds the import template. Every example row imports
// cleanly through ImportRow.
func GenerateTemplate() Template {
	t := Template{
		Header:      schema.Headers(),
		Instruction: TemplateInstruction,
		Guidance:    make(map[string]string),
	}
	for _, r := range exampleRecords() {
		t.Examples = append(t.Examples, ExportRow(r))
	}
	for _, c := range schema.Columns() {
		t.Guidance[c.Header] = c.Guidance
		if c.Required {
			t.Required = append(t.Required, c.Header)
		}
	}

	t.Choices = []ChoiceList{
		{Column: "Material Type", Values: schema.KindNames()},
		{Column: "Desk Type", AppliesTo: []schema.Kind{schema.KindDesk}, Values: copyStrings(schema.DeskTypes)},
		{Column: "Opening Type", AppliesTo: []schema.Kind{schema.KindWindow}, Values: copyStrings(schema.WindowOpeningTypes)},
		{Column: "Opening Type", AppliesTo: []schema.Kind{schema.KindOfficeCabinet}, Values: copyStrings(schema.CabinetOpeningTypes)},
		{Column: "Hinge Side", AppliesTo: []schema.Kind{schema.KindWindow}, Values: copyStrings(schema.HingeSides)},
		{Column: "Swing Direction", AppliesTo: []schema.Kind{schema.KindDoor}, Values: copyStrings(schema.SwingDirections)},
	}
	return t
}

func copyStrings(s []string) []string {
	return append([]string(nil), s...)
}
