package sheetforge

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// FilterOperator is one of the custom-filter comparison operators spec.md
// §4.G lists.
type FilterOperator string

const (
	FilterEQ         FilterOperator = "=="
	FilterNE         FilterOperator = "!="
	FilterLT         FilterOperator = "<"
	FilterLE         FilterOperator = "<="
	FilterGT         FilterOperator = ">"
	FilterGE         FilterOperator = ">="
	FilterBegins     FilterOperator = "begins"
	FilterNotBegins  FilterOperator = "!begins"
	FilterEnds       FilterOperator = "ends"
	FilterNotEnds    FilterOperator = "!ends"
	FilterContains   FilterOperator = "contains"
	FilterNotContain FilterOperator = "!contains"
)

// FilterCriterion is one operand/operator pair of a custom filter.
type FilterCriterion struct {
	Operator FilterOperator
	Value    string
}

// FilterCondition is either a list filter (literal value matches, with an
// optional "match blanks" flag) or a custom filter (1-2 criteria joined by
// AND/OR); the two kinds are mutually exclusive per column.
type FilterCondition struct {
	ListValues  []string
	MatchBlanks bool

	Criteria []FilterCriterion
	JoinOr   bool // false = AND (default)
}

func (c *FilterCondition) isList() bool { return len(c.ListValues) > 0 || c.MatchBlanks }

// AutoFilter sets the filter range and registers the `_xlnm._FilterDatabase`
// defined name (emitted by the workbook assembler). Only one autofilter
// range is supported per worksheet.
func (ws *Worksheet) AutoFilter(firstRow, firstCol, lastRow, lastCol int) error {
	if err := checkRange(firstRow, firstCol, lastRow, lastCol); err != nil {
		return err
	}
	ws.autofilterRange = &cellRangeRef{firstRow, firstCol, lastRow, lastCol}
	ws.filterColumns = map[int]*FilterCondition{}
	return nil
}

// FilterColumn registers a filter condition on col (absolute column
// index, must lie within the autofilter range).
func (ws *Worksheet) FilterColumn(col int, cond *FilterCondition) error {
	if ws.autofilterRange == nil {
		return ErrParameterInvalid
	}
	if col < ws.autofilterRange.FirstCol || col > ws.autofilterRange.LastCol {
		return ErrParameterInvalid
	}
	if cond == nil || (len(cond.ListValues) == 0 && !cond.MatchBlanks && len(cond.Criteria) == 0) {
		return ErrParameterInvalid
	}
	// Sorted for deterministic <filters> emission regardless of the order
	// the caller built the list in.
	slices.SortFunc(cond.ListValues, func(a, b string) int { return strings.Compare(strings.ToLower(a), strings.ToLower(b)) })
	ws.filterColumns[col] = cond
	return nil
}

// applyAutofilterHiding walks every data row below the header within the
// autofilter range and hides rows whose cells fail any registered filter
// column, per spec.md §4.G/4.H ("Excel relies on explicit hidden="1" row
// attributes rather than recomputing filters on open").
func (ws *Worksheet) applyAutofilterHiding() {
	af := ws.autofilterRange
	if af == nil {
		return
	}
	for row := af.FirstRow + 1; row <= af.LastRow; row++ {
		hide := false
		for col, cond := range ws.filterColumns {
			c, ok := ws.cells.get(row, col)
			if !matchesFilter(c, ok, cond) {
				hide = true
				break
			}
		}
		if hide {
			ws.cells.rowOptions(row).Hidden = true
		}
	}
}

func cellTextValue(c Cell, ok bool) (text string, num float64, isNum, isBlank bool) {
	if !ok || c.emptyBlank() {
		return "", 0, false, true
	}
	switch c.Kind {
	case CellNumber, CellDateTime:
		return formatFloat(c.Num), c.Num, true, false
	case CellBoolean:
		if c.Bool {
			return "TRUE", 0, false, false
		}
		return "FALSE", 0, false, false
	case CellBlank:
		return "", 0, false, true
	default:
		return c.RawText, 0, false, c.RawText == ""
	}
}

func matchesFilter(c Cell, ok bool, cond *FilterCondition) bool {
	text, num, isNum, isBlank := cellTextValue(c, ok)
	if cond.isList() {
		if isBlank {
			return cond.MatchBlanks
		}
		lower := strings.ToLower(strings.TrimSpace(text))
		for _, v := range cond.ListValues {
			if isNum {
				if f, err := strconv.ParseFloat(v, 64); err == nil && f == num {
					return true
				}
			}
			if strings.ToLower(strings.TrimSpace(v)) == lower {
				return true
			}
		}
		return false
	}
	results := make([]bool, len(cond.Criteria))
	for i, crit := range cond.Criteria {
		results[i] = matchesCriterion(text, num, isNum, isBlank, crit)
	}
	if len(results) == 0 {
		return true
	}
	if cond.JoinOr {
		for _, r := range results {
			if r {
				return true
			}
		}
		return false
	}
	for _, r := range results {
		if !r {
			return false
		}
	}
	return true
}

func matchesCriterion(text string, num float64, isNum, isBlank bool, crit FilterCriterion) bool {
	// Sentinel: operator=!= value=" " means "match non-blanks".
	if crit.Operator == FilterNE && crit.Value == " " {
		return !isBlank
	}
	lowerText := strings.ToLower(strings.TrimSpace(text))
	lowerVal := strings.ToLower(strings.TrimSpace(crit.Value))
	switch crit.Operator {
	case FilterEQ:
		return lowerText == lowerVal
	case FilterNE:
		return lowerText != lowerVal
	case FilterBegins:
		return strings.HasPrefix(lowerText, lowerVal)
	case FilterNotBegins:
		return !strings.HasPrefix(lowerText, lowerVal)
	case FilterEnds:
		return strings.HasSuffix(lowerText, lowerVal)
	case FilterNotEnds:
		return !strings.HasSuffix(lowerText, lowerVal)
	case FilterContains:
		return strings.Contains(lowerText, lowerVal)
	case FilterNotContain:
		return !strings.Contains(lowerText, lowerVal)
	case FilterLT, FilterLE, FilterGT, FilterGE:
		if !isNum {
			return false
		}
		critNum, err := strconv.ParseFloat(crit.Value, 64)
		if err != nil {
			return false
		}
		switch crit.Operator {
		case FilterLT:
			return num < critNum
		case FilterLE:
			return num <= critNum
		case FilterGT:
			return num > critNum
		case FilterGE:
			return num >= critNum
		}
	}
	return false
}
