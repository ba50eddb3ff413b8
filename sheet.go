package sheetforge

import (
	"fmt"
	"strings"
	"time"
)

// Hyperlink classifies and stores one `<hyperlink>` entry.
type Hyperlink struct {
	Kind      string // "external-url", "external-file", "internal"
	Target    string // URL / file path / internal location
	Location  string
	Display   string
	Tooltip   string
	RelID     string // assigned when the rels part is built
}

// mergedRange is one entry in the overlap-checked merge index.
type mergedRange struct {
	firstRow, firstCol, lastRow, lastCol int
}

func (m mergedRange) overlaps(o mergedRange) bool {
	return m.firstRow <= o.lastRow && o.firstRow <= m.lastRow &&
		m.firstCol <= o.lastCol && o.firstCol <= m.lastCol
}

// Pane describes a freeze/split configuration.
type Pane struct {
	Row, Col     int
	TopLeftCell  string
	ActivePane   string
}

// Worksheet owns one sheet's cell store, row/column options, merges,
// hyperlinks, images, charts, autofilter, protection, page setup and
// local format registry, per spec.md §3.
type Worksheet struct {
	Name       string
	Visible    bool
	Active     bool
	TabColor   string
	RightToLeft bool
	Zoom       int

	cells    *cellStore
	formats  *formatRegistry

	merges     []mergedRange
	mergeIndex map[[2]int]int // (row,col) -> index into merges

	hyperlinks map[string]*Hyperlink // cellRef -> link

	images []*placedImage
	charts []*placedChart

	autofilterRange   *cellRangeRef
	filterColumns     map[int]*FilterCondition

	protection *sheetProtection
	unprotected []unprotectedRange

	pane       *Pane
	selection  string
	topLeft    string

	pageSetup  PageSetup
	rowBreaks  []int
	colBreaks  []int

	printArea  string
	repeatRows string
	repeatCols string

	headerFooter HeaderFooter

	tables []*Table
	validations []*DataValidation

	defaultRowHeight float64
	hasDynamicArrays bool

	drawingRelID string
	legacyDrawingRelID string
}

// cellRangeRef is a zero-indexed bounding box, used internally by the
// autofilter engine and merge/range helpers.
type cellRangeRef struct {
	FirstRow, FirstCol, LastRow, LastCol int
}

func newWorksheet(name string) *Worksheet {
	return &Worksheet{
		Name:             name,
		Visible:          true,
		cells:            newCellStore(),
		formats:          newFormatRegistry(),
		mergeIndex:       map[[2]int]int{},
		hyperlinks:       map[string]*Hyperlink{},
		filterColumns:    map[int]*FilterCondition{},
		defaultRowHeight: defaultRowHeight,
	}
}

func checkCoord(row, col int) error {
	if row < 0 || row >= MaxRows {
		return ErrRowNumber
	}
	if col < 0 || col >= MaxCols {
		return ErrColumnNumber
	}
	return nil
}

func checkRange(firstRow, firstCol, lastRow, lastCol int) error {
	if err := checkCoord(firstRow, firstCol); err != nil {
		return err
	}
	if err := checkCoord(lastRow, lastCol); err != nil {
		return err
	}
	if firstRow > lastRow || firstCol > lastCol {
		return ErrRowColumnOrder
	}
	return nil
}

// localXf registers fmtSpec (which may be nil, meaning the default format)
// in this worksheet's local format registry and returns its local index.
func (ws *Worksheet) localXf(fmtSpec *Format) int {
	return ws.formats.add(fmtSpec)
}

// --- typed cell writers ----------------------------------------------------

// WriteNumber writes a Number cell.
func (ws *Worksheet) WriteNumber(row, col int, v float64, fmtSpec *Format) error {
	if err := checkCoord(row, col); err != nil {
		return err
	}
	ws.cells.set(row, col, numberCell(v, ws.localXf(fmtSpec)))
	return nil
}

// WriteBoolean writes a Boolean cell.
func (ws *Worksheet) WriteBoolean(row, col int, v bool, fmtSpec *Format) error {
	if err := checkCoord(row, col); err != nil {
		return err
	}
	ws.cells.set(row, col, booleanCell(v, ws.localXf(fmtSpec)))
	return nil
}

// WriteBlank writes an explicitly-blank cell. Passing a nil format and
// relying on row/column formatting produces a cell that the emitter will
// skip entirely (spec.md §3 Cell invariant).
func (ws *Worksheet) WriteBlank(row, col int, fmtSpec *Format) error {
	if err := checkCoord(row, col); err != nil {
		return err
	}
	ws.cells.set(row, col, blankCell(ws.localXf(fmtSpec)))
	return nil
}

// WriteString writes a String cell, interning the text into the caller's
// shared string table.
func (ws *Worksheet) WriteString(sst *SharedStringTable, row, col int, s string, fmtSpec *Format) error {
	if err := checkCoord(row, col); err != nil {
		return err
	}
	if len([]rune(s)) > MaxStringLength {
		return ErrMaxStringLength
	}
	idx := sst.Intern(s)
	ws.cells.set(row, col, stringCell(idx, s, ws.localXf(fmtSpec)))
	return nil
}

// WriteRichString writes a RichString cell. markupXML is the pre-rendered
// `<r>` run body; rawText is the flattened text used for autofit/width
// estimation. Both are interned into the shared string table as one
// entry keyed by the markup.
func (ws *Worksheet) WriteRichString(sst *SharedStringTable, row, col int, markupXML, rawText string, fmtSpec *Format) error {
	if err := checkCoord(row, col); err != nil {
		return err
	}
	if markupXML == "" {
		return fmt.Errorf("%w: empty rich string segment", ErrParameterInvalid)
	}
	idx := sst.InternRich(markupXML)
	ws.cells.set(row, col, richStringCell(idx, rawText, ws.localXf(fmtSpec)))
	return nil
}

// WriteFormula writes a Formula cell. The body is run through
// PrepareFormula; if the resulting formula is itself a dynamic function
// call, WriteFormula promotes it to a single-cell dynamic array formula
// per spec.md's "Dynamic‑array promotion" scenario.
func (ws *Worksheet) WriteFormula(row, col int, formula, cachedResult string, resultIsNum bool, fmtSpec *Format) error {
	if err := checkCoord(row, col); err != nil {
		return err
	}
	prepared := PrepareFormula(formula, false)
	xf := ws.localXf(fmtSpec)
	if IsDynamicFunction(formula) {
		ref, _ := CoordinatesToCell(col, row)
		result := cachedResult
		if result == "" {
			result = "0"
		}
		ws.cells.set(row, col, arrayFormulaCell(prepared, result, resultIsNum, true, ref, xf))
		ws.hasDynamicArrays = true
		return nil
	}
	result := cachedResult
	if result == "" {
		result = "0"
	}
	ws.cells.set(row, col, formulaCell(prepared, result, resultIsNum, xf))
	return nil
}

// WriteArrayFormula writes an ArrayFormula cell spanning
// (firstRow,firstCol)-(lastRow,lastCol); the anchor cell (firstRow,
// firstCol) carries the `<f t="array">` body and every other cell in the
// range is padded with a zero Number cell in the same format per spec.md §4.G.
func (ws *Worksheet) WriteArrayFormula(firstRow, firstCol, lastRow, lastCol int, formula, cachedResult string, resultIsNum bool, fmtSpec *Format) error {
	if err := checkRange(firstRow, firstCol, lastRow, lastCol); err != nil {
		return err
	}
	prepared := PrepareFormula(formula, false)
	dynamic := IsDynamicFunction(formula)
	rangeRef, err := CellRangeString(firstRow, firstCol, lastRow, lastCol)
	if err != nil {
		return err
	}
	xf := ws.localXf(fmtSpec)
	result := cachedResult
	if result == "" {
		result = "0"
	}
	ws.cells.set(firstRow, firstCol, arrayFormulaCell(prepared, result, resultIsNum, dynamic, rangeRef, xf))
	if dynamic {
		// Array formulas containing a dynamic function mark the whole
		// worksheet as containing dynamic arrays (spec.md §4.E).
		ws.hasDynamicArrays = true
	}
	for r := firstRow; r <= lastRow; r++ {
		for c := firstCol; c <= lastCol; c++ {
			if r == firstRow && c == firstCol {
				continue
			}
			ws.cells.set(r, c, numberCell(0, xf))
		}
	}
	return nil
}

// WriteDate writes a date-only value using DateToExcelSerial.
func (ws *Worksheet) WriteDate(row, col, year, month, day int, fmtSpec *Format) error {
	return ws.WriteNumber(row, col, DateToExcelSerial(year, time.Month(month), day), fmtSpec)
}

// WriteDateTime writes a DateTime cell holding serial, an Excel serial
// date-time as produced by TimeToExcelSerial.
func (ws *Worksheet) WriteDateTime(row, col int, serial float64, fmtSpec *Format) error {
	if err := checkCoord(row, col); err != nil {
		return err
	}
	ws.cells.set(row, col, dateTimeCell(serial, ws.localXf(fmtSpec)))
	return nil
}

// WriteTime writes a time-of-day-only value in [0,1).
func (ws *Worksheet) WriteTime(row, col, hour, minute, second, nanosecond int, fmtSpec *Format) error {
	return ws.WriteDateTime(row, col, TimeOfDayToExcelSerial(hour, minute, second, nanosecond), fmtSpec)
}

// WriteURL writes a hyperlink cell: the display text is written as a
// String cell (or the URL itself if display is empty) and a Hyperlink
// entry classified by scheme is registered for the rels graph.
func (ws *Worksheet) WriteURL(sst *SharedStringTable, row, col int, url, display, tooltip string, fmtSpec *Format) error {
	if err := checkCoord(row, col); err != nil {
		return err
	}
	if len(url) > MaxURLLength {
		return ErrMaxURLLength
	}
	if len(tooltip) > MaxScreenTipLength {
		return ErrScreenTipLength
	}
	kind, target, location, err := classifyHyperlink(url)
	if err != nil {
		return err
	}
	text := display
	if text == "" {
		text = url
	}
	effFmt := fmtSpec
	if effFmt == nil {
		effFmt = defaultHyperlinkFormat()
	}
	if err := ws.WriteString(sst, row, col, text, effFmt); err != nil {
		return err
	}
	ref, _ := CoordinatesToCell(col, row)
	ws.hyperlinks[ref] = &Hyperlink{Kind: kind, Target: target, Location: location, Display: display, Tooltip: tooltip}
	return nil
}

// classifyHyperlink implements the §4.G classification table.
func classifyHyperlink(url string) (kind, target, location string, err error) {
	switch {
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"),
		strings.HasPrefix(url, "ftp://"), strings.HasPrefix(url, "ftps://"), strings.HasPrefix(url, "mailto:"):
		return "external-url", url, "", nil
	case strings.HasPrefix(url, "file://"):
		p := strings.TrimPrefix(url, "file://")
		if !strings.HasPrefix(p, "//") && !(len(p) > 1 && p[1] == ':') {
			p = strings.TrimPrefix(p, "/")
		}
		return "external-file", p, "", nil
	case strings.HasPrefix(url, "internal:"):
		loc := strings.TrimPrefix(url, "internal:")
		return "internal", "", loc, nil
	default:
		return "", "", "", fmt.Errorf("%w: %q", ErrUnknownURLType, url)
	}
}

func defaultHyperlinkFormat() *Format {
	return &Format{
		Font:      &Font{Color: "0563C1", Underline: "single"},
		hyperlink: true,
	}
}

// --- merges ------------------------------------------------------------

// MergeCell merges the rectangle (firstRow,firstCol)-(lastRow,lastCol):
// the first cell keeps its value/format and every other cell in the
// range is written as a same-format blank.
func (ws *Worksheet) MergeCell(firstRow, firstCol, lastRow, lastCol int) error {
	if err := checkRange(firstRow, firstCol, lastRow, lastCol); err != nil {
		return err
	}
	if firstRow == lastRow && firstCol == lastCol {
		return ErrMergeCellSingle
	}
	m := mergedRange{firstRow, firstCol, lastRow, lastCol}
	for _, existing := range ws.merges {
		if m.overlaps(existing) {
			return ErrMergeCellOverlap
		}
	}
	anchor, ok := ws.cells.get(firstRow, firstCol)
	xf := 0
	if ok {
		xf = anchor.Xf
	}
	idx := len(ws.merges)
	ws.merges = append(ws.merges, m)
	for r := firstRow; r <= lastRow; r++ {
		for c := firstCol; c <= lastCol; c++ {
			ws.mergeIndex[[2]int{r, c}] = idx
			if r == firstRow && c == firstCol {
				continue
			}
			ws.cells.set(r, c, blankCell(xf))
		}
	}
	return nil
}

// --- row / column options ------------------------------------------------

// SetRowHeight sets the height (points) of row. A height of 0 hides the
// row, matching spec.md's documented open question resolution: callers
// wanting a zero-height *visible* row have no representation.
func (ws *Worksheet) SetRowHeight(row int, height float64) error {
	if row < 0 || row >= MaxRows {
		return ErrRowNumber
	}
	o := ws.cells.rowOptions(row)
	o.Height = height
	o.HeightSet = true
	return nil
}

// SetRowFormat sets the row-level local format index applied to any cell
// in the row whose own xf is 0.
func (ws *Worksheet) SetRowFormat(row int, fmtSpec *Format) error {
	if row < 0 || row >= MaxRows {
		return ErrRowNumber
	}
	ws.cells.rowOptions(row).Xf = ws.localXf(fmtSpec)
	return nil
}

// SetRowHidden hides or shows row.
func (ws *Worksheet) SetRowHidden(row int, hidden bool) error {
	if row < 0 || row >= MaxRows {
		return ErrRowNumber
	}
	ws.cells.rowOptions(row).Hidden = hidden
	return nil
}

// SetRowOutlineLevel sets the grouping outline level (0-7).
func (ws *Worksheet) SetRowOutlineLevel(row int, level uint8) error {
	if row < 0 || row >= MaxRows {
		return ErrRowNumber
	}
	if level > 7 {
		return ErrOutlineLevel
	}
	ws.cells.rowOptions(row).OutlineLevel = level
	return nil
}

// SetColWidth sets the width (character units) of every column in
// [firstCol,lastCol].
func (ws *Worksheet) SetColWidth(firstCol, lastCol int, width float64) error {
	if width > 255 {
		return ErrColumnWidth
	}
	if firstCol > lastCol {
		firstCol, lastCol = lastCol, firstCol
	}
	for c := firstCol; c <= lastCol; c++ {
		if c < 0 || c >= MaxCols {
			return ErrColumnNumber
		}
		o := ws.cells.colOptions(c)
		o.Width = width
		o.WidthSet = true
		o.autofit = false
	}
	return nil
}

// SetColFormat sets the local format applied to unformatted cells in
// [firstCol,lastCol].
func (ws *Worksheet) SetColFormat(firstCol, lastCol int, fmtSpec *Format) error {
	if firstCol > lastCol {
		firstCol, lastCol = lastCol, firstCol
	}
	xf := ws.localXf(fmtSpec)
	for c := firstCol; c <= lastCol; c++ {
		if c < 0 || c >= MaxCols {
			return ErrColumnNumber
		}
		ws.cells.colOptions(c).Xf = xf
	}
	return nil
}

// SetColHidden hides or shows every column in [firstCol,lastCol].
func (ws *Worksheet) SetColHidden(firstCol, lastCol int, hidden bool) error {
	if firstCol > lastCol {
		firstCol, lastCol = lastCol, firstCol
	}
	for c := firstCol; c <= lastCol; c++ {
		if c < 0 || c >= MaxCols {
			return ErrColumnNumber
		}
		ws.cells.colOptions(c).Hidden = hidden
	}
	return nil
}

// SetColOutlineLevel sets the grouping outline level (0-7) of every
// column in [firstCol,lastCol].
func (ws *Worksheet) SetColOutlineLevel(firstCol, lastCol int, level uint8) error {
	if level > 7 {
		return ErrOutlineLevel
	}
	if firstCol > lastCol {
		firstCol, lastCol = lastCol, firstCol
	}
	for c := firstCol; c <= lastCol; c++ {
		if c < 0 || c >= MaxCols {
			return ErrColumnNumber
		}
		ws.cells.colOptions(c).OutlineLevel = level
	}
	return nil
}

// --- panes / selection ---------------------------------------------------

// FreezePanes freezes rows [0,row) and columns [0,col).
func (ws *Worksheet) FreezePanes(row, col int) {
	p := &Pane{Row: row, Col: col}
	topLeft, _ := CoordinatesToCell(col, row)
	p.TopLeftCell = topLeft
	switch {
	case row > 0 && col > 0:
		p.ActivePane = "bottomRight"
	case row > 0:
		p.ActivePane = "bottomLeft"
	case col > 0:
		p.ActivePane = "topRight"
	}
	ws.pane = p
}

// SetTopLeftCell overrides the pane's default scroll-to cell.
func (ws *Worksheet) SetTopLeftCell(cell string) {
	if ws.pane == nil {
		ws.pane = &Pane{}
	}
	ws.pane.TopLeftCell = cell
}

// SetSelection sets the active-cell selection range string (e.g. "A1:B2").
func (ws *Worksheet) SetSelection(sel string) { ws.selection = sel }

// SetTabColor sets the sheet tab's display color as an "RRGGBB" hex string,
// emitted in <sheetPr><tabColor rgb="FF..."/></sheetPr>.
func (ws *Worksheet) SetTabColor(rgb string) { ws.TabColor = rgb }
