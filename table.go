package sheetforge

import "strconv"

// TableStyle is one of the built-in table style names Excel ships.
type TableStyle string

// TableColumn describes one header column of a Table; Name must be
// non-empty and unique within the table, matching the header cell's own
// text (the emitter does not re-derive it from cell contents).
type TableColumn struct {
	Name          string
	TotalsRowLabel string
	TotalsRowFunc  string // "sum", "average", "count", "max", "min", "", ...
}

// Table is the supplemented feature spec.md's distillation dropped but
// original_source/tests/table19.rs exercises: a structured range with a
// header row, an optional totals row, and a named column set, rendered as
// its own `xl/tables/tableN.xml` part and referenced from the worksheet
// via a `<tableParts>` entry.
type Table struct {
	Name          string
	FirstRow, FirstCol int
	LastRow, LastCol   int
	Columns       []TableColumn
	Style         TableStyle
	ShowFirstColumn   bool
	ShowLastColumn    bool
	ShowRowStripes    bool
	ShowColumnStripes bool
	ShowHeaderRow     bool
	ShowTotalsRow     bool
	AutoFilter        bool

	id    int
	relID string
}

// AddTable registers a table over [firstRow,firstCol]-[lastRow,lastCol].
// A table needs at least a header row plus one data row (two rows total);
// per the teacher's own correction rule, a single-row range is expanded
// by one row rather than rejected. Column names default to "Column1",
// "Column2", ... when the caller leaves Columns empty.
func (ws *Worksheet) AddTable(firstRow, firstCol, lastRow, lastCol int, name string, style TableStyle, columns []TableColumn) (*Table, error) {
	if err := checkRange(firstRow, firstCol, lastRow, lastCol); err != nil {
		return nil, err
	}
	if lastRow == firstRow {
		lastRow++
		if lastRow >= MaxRows {
			return nil, ErrRowNumber
		}
	}
	width := lastCol - firstCol + 1
	if len(columns) == 0 {
		columns = make([]TableColumn, width)
		for i := range columns {
			columns[i] = TableColumn{Name: "Column" + strconv.Itoa(i+1)}
		}
	}
	if len(columns) != width {
		return nil, ErrParameterInvalid
	}
	seen := map[string]bool{}
	for _, c := range columns {
		if c.Name == "" || seen[c.Name] {
			return nil, ErrParameterInvalid
		}
		seen[c.Name] = true
	}
	for _, t := range ws.tables {
		if rangesOverlap(firstRow, firstCol, lastRow, lastCol, t.FirstRow, t.FirstCol, t.LastRow, t.LastCol) {
			return nil, ErrMergeCellOverlap
		}
	}
	if name == "" {
		name = "Table" + strconv.Itoa(len(ws.tables)+1)
	}
	t := &Table{
		Name: name, FirstRow: firstRow, FirstCol: firstCol, LastRow: lastRow, LastCol: lastCol,
		Columns: columns, Style: style, ShowRowStripes: true, ShowHeaderRow: true, AutoFilter: true,
	}
	ws.tables = append(ws.tables, t)
	return t, nil
}

func rangesOverlap(r1, c1, r2, c2, r3, c3, r4, c4 int) bool {
	return r1 <= r4 && r3 <= r2 && c1 <= c4 && c3 <= c2
}

// rangeRef renders the table's A1-style range, e.g. "B2:D9".
func (t *Table) rangeRef() string {
	s, _ := CellRangeString(t.FirstRow, t.FirstCol, t.LastRow, t.LastCol)
	return s
}
