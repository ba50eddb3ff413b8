package sheetforge

// ValidationType selects the kind of constraint a data validation checks.
type ValidationType string

const (
	ValidationWhole    ValidationType = "whole"
	ValidationDecimal  ValidationType = "decimal"
	ValidationList     ValidationType = "list"
	ValidationDate     ValidationType = "date"
	ValidationTime     ValidationType = "time"
	ValidationTextLen  ValidationType = "textLength"
	ValidationCustom   ValidationType = "custom"
)

// ValidationOperator is the comparison the validation's formula(s) apply,
// meaningful for every type except List and Custom.
type ValidationOperator string

const (
	ValidationBetween          ValidationOperator = "between"
	ValidationNotBetween       ValidationOperator = "notBetween"
	ValidationEqual            ValidationOperator = "equal"
	ValidationNotEqual         ValidationOperator = "notEqual"
	ValidationGreaterThan      ValidationOperator = "greaterThan"
	ValidationLessThan         ValidationOperator = "lessThan"
	ValidationGreaterEqual     ValidationOperator = "greaterThanOrEqual"
	ValidationLessEqual        ValidationOperator = "lessThanOrEqual"
)

// DataValidation is the supplemented feature grounded on
// original_source/src/data_validation.rs: a constraint plus an optional
// input prompt and error alert, applied over one or more cell ranges.
type DataValidation struct {
	Type     ValidationType
	Operator ValidationOperator

	Formula1 string
	Formula2 string // only used when Operator is Between/NotBetween

	AllowBlank       bool
	ShowDropDown     bool // List only: suppress the in-cell dropdown arrow when true (excelize's inverted sense)
	ShowInputMessage bool
	ShowErrorMessage bool

	PromptTitle string
	Prompt      string
	ErrorTitle  string
	ErrorStyle  string // "stop", "warning", "information"
	Error       string

	ranges []cellRangeRef
}

// AddDataValidation registers a validation over [firstRow,firstCol]-
// [lastRow,lastCol]. Calling it again with the same *DataValidation value
// (returned from a previous call) extends it over an additional
// non-contiguous range, matching how Excel lets one validation apply to a
// multi-area sqref.
func (ws *Worksheet) AddDataValidation(firstRow, firstCol, lastRow, lastCol int, dv *DataValidation) (*DataValidation, error) {
	if err := checkRange(firstRow, firstCol, lastRow, lastCol); err != nil {
		return nil, err
	}
	if dv == nil {
		dv = &DataValidation{ShowErrorMessage: true, ErrorStyle: "stop"}
	}
	if dv.Type == "" {
		return nil, ErrParameterInvalid
	}
	if dv.Type != ValidationList && dv.Type != ValidationCustom && dv.Operator == "" {
		dv.Operator = ValidationBetween
	}
	if dv.Formula1 == "" {
		return nil, ErrParameterInvalid
	}
	dv.ranges = append(dv.ranges, cellRangeRef{firstRow, firstCol, lastRow, lastCol})
	alreadyTracked := false
	for _, existing := range ws.validations {
		if existing == dv {
			alreadyTracked = true
			break
		}
	}
	if !alreadyTracked {
		ws.validations = append(ws.validations, dv)
	}
	return dv, nil
}

// sqref renders the validation's multi-area reference string, e.g.
// "A1:A10 C1:C10".
func (dv *DataValidation) sqref() string {
	out := ""
	for i, r := range dv.ranges {
		s, _ := CellRangeString(r.FirstRow, r.FirstCol, r.LastRow, r.LastCol)
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}
