package roster

// Kind is the semantic type of a column.
type Kind int

const (
	KindRequired Kind = iota
	KindOptString
	KindOptDecimal
)

func (k Kind) String() string {
	switch k {
	case KindRequired:
		return "required"
	case KindOptString:
		return "optional-string"
	case KindOptDecimal:
		return "optional-decimal"
	default:
		return "unknown"
	}
}

// Header names. Downstream consumers match on these exactly.
const (
	ColumnUserID              = "User ID"
	ColumnPRGroup2025         = "PR Group 2025"
	ColumnFirstName           = "First Name"
	ColumnLastName            = "Last Name"
	ColumnCurrentPosition     = "Current Position"
	ColumnCurrentTempPosition = "Current Temp Position"
	ColumnPR2021              = "PR2021"
	ColumnPR2022              = "PR2022"
	ColumnPR2023              = "PR2023"
	ColumnPR2024              = "PR2024"
	ColumnUser9Box2024        = "User 9Box 2024"
	ColumnUser9Box2025        = "User 9Box 2025"
	ColumnNotes               = "Notes"
	ColumnCurrentLabel        = "Current Label"
	ColumnEmail               = "Email"
	ColumnManagerID           = "Manager ID"
	ColumnDepartment          = "Department"
	ColumnLocation            = "Location"
	ColumnHireDate            = "Hire Date"
)

// Column binds one header name to one Employee field. Exactly one of the
// accessor pairs is set, matching Kind.
type Column struct {
	Name string
	Kind Kind

	str    func(*Employee) *string
	optStr func(*Employee) *OptString
	optDec func(*Employee) *OptFloat
}

func required(name string, field func(*Employee) *string) Column {
	return Column{Name: name, Kind: KindRequired, str: field}
}

func optString(name string, field func(*Employee) *OptString) Column {
	return Column{Name: name, Kind: KindOptString, optStr: field}
}

func optDecimal(name string, field func(*Employee) *OptFloat) Column {
	return Column{Name: name, Kind: KindOptDecimal, optDec: field}
}

var columns = []Column{
	required(ColumnUserID, func(e *Employee) *string { return &e.UserID }),
	required(ColumnPRGroup2025, func(e *Employee) *string { return &e.PRGroup2025 }),
	required(ColumnFirstName, func(e *Employee) *string { return &e.FirstName }),
	required(ColumnLastName, func(e *Employee) *string { return &e.LastName }),
	required(ColumnCurrentPosition, func(e *Employee) *string { return &e.CurrentPosition }),
	optString(ColumnCurrentTempPosition, func(e *Employee) *OptString { return &e.CurrentTempPosition }),
	optDecimal(ColumnPR2021, func(e *Employee) *OptFloat { return &e.PR2021 }),
	optDecimal(ColumnPR2022, func(e *Employee) *OptFloat { return &e.PR2022 }),
	optDecimal(ColumnPR2023, func(e *Employee) *OptFloat { return &e.PR2023 }),
	optDecimal(ColumnPR2024, func(e *Employee) *OptFloat { return &e.PR2024 }),
	optString(ColumnUser9Box2024, func(e *Employee) *OptString { return &e.User9Box2024 }),
	optString(ColumnUser9Box2025, func(e *Employee) *OptString { return &e.User9Box2025 }),
	optString(ColumnNotes, func(e *Employee) *OptString { return &e.Notes }),
	optString(ColumnCurrentLabel, func(e *Employee) *OptString { return &e.CurrentLabel }),
	optString(ColumnEmail, func(e *Employee) *OptString { return &e.Email }),
	optString(ColumnManagerID, func(e *Employee) *OptString { return &e.ManagerID }),
	optString(ColumnDepartment, func(e *Employee) *OptString { return &e.Department }),
	optString(ColumnLocation, func(e *Employee) *OptString { return &e.Location }),
	optString(ColumnHireDate, func(e *Employee) *OptString { return &e.HireDate }),
}

// Columns returns the column table in export order.
func Columns() []Column {
	out := make([]Column, len(columns))
	copy(out, columns)
	return out
}

// Header returns the header names in export order.
func Header() []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	return names
}

// cell renders the column's value for e. An absent optional renders empty.
func (c Column) cell(e *Employee) string {
	switch c.Kind {
	case KindRequired:
		return *c.str(e)
	case KindOptString:
		v, _ := c.optStr(e).Get()
		return v
	case KindOptDecimal:
		if v, ok := c.optDec(e).Get(); ok {
			return formatDecimal(v)
		}
		return ""
	}
	return ""
}

// set stores raw into the column's field on e. Only decimal columns can fail.
func (c Column) set(e *Employee, raw string) error {
	switch c.Kind {
	case KindRequired:
		*c.str(e) = raw
	case KindOptString:
		if raw == "" {
			*c.optStr(e) = NoString()
		} else {
			*c.optStr(e) = SomeString(raw)
		}
	case KindOptDecimal:
		if raw == "" {
			*c.optDec(e) = NoFloat()
			return nil
		}
		v, err := parseDecimal(raw)
		if err != nil {
			return err
		}
		*c.optDec(e) = SomeFloat(v)
	}
	return nil
}
