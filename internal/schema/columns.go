package schema

// Common field names on the flat transfer object.
const (
	Name         = "name"
	Category     = "category"
	MaterialType = "materialType"
	Condition    = "condition"
	Color        = "color"
	Notes        = "notes"
)

// Length limits for common text fields, in characters.
const (
	MaxNameLength  = 100
	MaxNotesLength = 500
)

// Conditions is the recommended condition vocabulary. Condition is stored as
// free text; these values feed template guidance only.
var Conditions = []string{"New", "Excellent", "Good", "Fair", "Repairable", "Damaged"}

// Column describes one column of the spreadsheet format.
type Column struct {
	Header   string    // Header cell text
	Field    string    // Common or variant field name the column carries
	Type     FieldType // Cell type
	Required bool      // Required for every kind
	Guidance string    // Header comment shown in generated templates
}

// columns is the fixed import/export layout. Order and headers are part of
// the file format and must not change.
var columns = []Column{
	{Header: "Name", Field: Name, Type: FieldText, Required: true,
		Guidance: "Required. Short descriptive name, at most 100 characters."},
	{Header: "Category", Field: Category, Type: FieldText, Required: true,
		Guidance: "Required. Free-text category, for example Office Furniture, Building Materials, Interior Doors or Office Storage."},
	{Header: "Material Type", Field: MaterialType, Type: FieldEnum, Required: true,
		Guidance: "Required. Exactly one of: Desk, Door, Window, DrawerUnit, OfficeCabinet."},
	{Header: "Condition", Field: Condition, Type: FieldText, Required: true,
		Guidance: "Required. Suggested values: New, Excellent, Good, Fair, Repairable, Damaged."},
	{Header: "Color", Field: Color, Type: FieldText,
		Guidance: "Optional color or finish, for example White, Oak, Maple or Grey."},
	{Header: "Notes", Field: Notes, Type: FieldText,
		Guidance: "Optional notes, at most 500 characters."},
	{Header: "Width", Field: Width, Type: FieldNumeric,
		Guidance: "Width in cm. Required for every material type."},
	{Header: "Height", Field: Height, Type: FieldNumeric,
		Guidance: "Height in cm. Required for every type except Desk, which uses Max Height."},
	{Header: "Depth", Field: Depth, Type: FieldNumeric,
		Guidance: "Depth in cm. Required for Desk, DrawerUnit and OfficeCabinet."},
	{Header: "Desk Type", Field: DeskType, Type: FieldEnum,
		Guidance: "Desk only. CORNER_DESK or STRAIGHT_DESK."},
	{Header: "Height Adjustable", Field: HeightAdjustable, Type: FieldBool,
		Guidance: "Desk only. true or false."},
	{Header: "Max Height", Field: MaximumHeight, Type: FieldNumeric,
		Guidance: "Desk only. Maximum working height in cm."},
	{Header: "Opening Type", Field: OpeningType, Type: FieldEnum,
		Guidance: "Window: FIXED_PANE, TOP_HUNG, SIDE_HUNG, TILT or SLIDING.\nOfficeCabinet: DOORS, SLIDING_DOORS or NO_DOORS."},
	{Header: "Hinge Side", Field: HingeSide, Type: FieldEnum,
		Guidance: "Window only, optional. RIGHT, LEFT, TOP, BOTTOM or NONE."},
	{Header: "U-Value", Field: UValue, Type: FieldNumeric,
		Guidance: "Window and Door only, optional. Thermal transmittance; lower insulates better."},
	{Header: "Swing Direction", Field: SwingDirection, Type: FieldEnum,
		Guidance: "Door only. RIGHT or LEFT."},
	{Header: "Has Wheels", Field: HasWheels, Type: FieldBool,
		Guidance: "DrawerUnit only. true or false."},
}

// Columns returns the spreadsheet columns in file order.
func Columns() []Column {
	out := make([]Column, len(columns))
	copy(out, columns)
	return out
}

// Headers returns the header row of the spreadsheet format.
func Headers() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Header
	}
	return out
}

// ColumnIndex returns the position of the column carrying field, or -1.
func ColumnIndex(field string) int {
	for i, c := range columns {
		if c.Field == field {
			return i
		}
	}
	return -1
}
