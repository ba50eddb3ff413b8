package sheetforge

import "sort"

// buildWorksheetXML renders one `xl/worksheets/sheetN.xml` part. localToGlobal
// translates the worksheet's local format indices (assigned by localXf) to
// the workbook-global cellXfs indices assembleStyles produced. drawingRID,
// when non-empty, is the relationship id of this sheet's `<drawing>` part.
func buildWorksheetXML(ws *Worksheet, localToGlobal []int, drawingRID string) []byte {
	ws.applyAutofilterHiding()

	w := newXMLWriter()
	w.Declaration()
	w.Start("worksheet",
		A("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main"),
		A("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships"))

	writeSheetPr(w, ws)
	w.Empty("dimension", A("ref", ws.cells.dim.ref()))

	writeSheetViews(w, ws)

	if ws.defaultRowHeight != 0 {
		w.Empty("sheetFormatPr", A("defaultRowHeight", formatFloat(ws.defaultRowHeight)))
	} else {
		w.Empty("sheetFormatPr", A("defaultRowHeight", formatFloat(defaultRowHeight)))
	}

	writeCols(w, ws)
	writeSheetData(w, ws, localToGlobal)

	if ws.protection != nil {
		writeSheetProtection(w, ws.protection)
	}
	if len(ws.unprotected) > 0 {
		w.Start("protectedRanges")
		for _, r := range ws.unprotected {
			attrs := []attr{A("name", r.Name), A("sqref", r.RangeRef)}
			if r.hasPassword {
				attrs = append(attrs, A("password", hex4(r.passwordHash)))
			}
			w.Empty("protectedRange", attrs...)
		}
		w.End("protectedRanges")
	}

	if ws.autofilterRange != nil {
		ref, _ := CellRangeString(ws.autofilterRange.FirstRow, ws.autofilterRange.FirstCol, ws.autofilterRange.LastRow, ws.autofilterRange.LastCol)
		writeAutoFilter(w, ref, ws.filterColumns)
	}

	if len(ws.merges) > 0 {
		w.Start("mergeCells", A("count", itoa(len(ws.merges))))
		for _, m := range ws.merges {
			ref, _ := CellRangeString(m.firstRow, m.firstCol, m.lastRow, m.lastCol)
			w.Empty("mergeCell", A("ref", ref))
		}
		w.End("mergeCells")
	}

	writeDataValidations(w, ws)

	if len(ws.hyperlinks) > 0 {
		w.Start("hyperlinks")
		for _, ref := range sortedHyperlinkRefs(ws.hyperlinks) {
			h := ws.hyperlinks[ref]
			attrs := []attr{A("ref", ref)}
			switch h.Kind {
			case "internal":
				attrs = append(attrs, A("location", h.Location))
			default:
				attrs = append(attrs, A("r:id", h.RelID))
			}
			if h.Tooltip != "" {
				attrs = append(attrs, A("tooltip", h.Tooltip))
			}
			w.Empty("hyperlink", attrs...)
		}
		w.End("hyperlinks")
	}

	writePageSetup(w, ws)

	if drawingRID != "" {
		w.Empty("drawing", A("r:id", drawingRID))
	}

	if len(ws.tables) > 0 {
		w.Start("tableParts", A("count", itoa(len(ws.tables))))
		for _, t := range ws.tables {
			w.Empty("tablePart", A("r:id", t.relID))
		}
		w.End("tableParts")
	}

	w.End("worksheet")
	return w.Bytes()
}

// writeSheetPr emits <sheetPr> only when the sheet has an active autofilter,
// fit-to-page is requested, or a tab color is set — per spec.md §4.G, an
// empty <sheetPr> is never written.
func writeSheetPr(w *xmlWriter, ws *Worksheet) {
	filterMode := ws.autofilterRange != nil
	fitToPage := ws.pageSetup.FitToPage
	tabColor := ws.TabColor != ""
	if !filterMode && !fitToPage && !tabColor {
		return
	}
	attrs := []attr{}
	if filterMode {
		attrs = append(attrs, A("filterMode", "1"))
	}
	hasChildren := fitToPage || tabColor
	if !hasChildren {
		w.Empty("sheetPr", attrs...)
		return
	}
	w.Start("sheetPr", attrs...)
	if tabColor {
		w.Empty("tabColor", A("rgb", "FF"+ws.TabColor))
	}
	if fitToPage {
		w.Empty("pageSetUpPr", A("fitToPage", "1"))
	}
	w.End("sheetPr")
}

func sortedHyperlinkRefs(m map[string]*Hyperlink) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func writeSheetViews(w *xmlWriter, ws *Worksheet) {
	w.Start("sheetViews")
	attrs := []attr{A("workbookViewId", "0")}
	if ws.RightToLeft {
		attrs = append(attrs, A("rightToLeft", "1"))
	}
	if ws.Active {
		attrs = append(attrs, A("tabSelected", "1"))
	}
	if ws.Zoom != 0 && ws.Zoom != 100 {
		attrs = append(attrs, A("zoomScale", itoa(ws.Zoom)))
	}
	if ws.pane != nil && ws.pane.TopLeftCell != "" && ws.pane.Row == 0 && ws.pane.Col == 0 {
		attrs = append(attrs, A("topLeftCell", ws.pane.TopLeftCell))
	}
	framed := ws.pane != nil && (ws.pane.Row > 0 || ws.pane.Col > 0)
	hasChildren := framed || ws.selection != ""
	if !hasChildren {
		w.Empty("sheetView", attrs...)
		w.End("sheetViews")
		return
	}
	w.Start("sheetView", attrs...)
	if framed {
		p := ws.pane
		paneAttrs := []attr{A("state", "frozen")}
		if p.Col > 0 {
			paneAttrs = append(paneAttrs, A("xSplit", itoa(p.Col)))
		}
		if p.Row > 0 {
			paneAttrs = append(paneAttrs, A("ySplit", itoa(p.Row)))
		}
		if p.TopLeftCell != "" {
			paneAttrs = append(paneAttrs, A("topLeftCell", p.TopLeftCell))
		}
		if p.ActivePane != "" {
			paneAttrs = append(paneAttrs, A("activePane", p.ActivePane))
		}
		w.Empty("pane", paneAttrs...)
		// A two-way freeze emits all three corner selections so Excel
		// restores the scroll position of every pane; a one-way freeze
		// emits only the pane on the far side of the split.
		switch {
		case p.Row > 0 && p.Col > 0:
			w.Empty("selection", A("pane", "topRight"))
			w.Empty("selection", A("pane", "bottomLeft"))
			w.Empty("selection", A("pane", "bottomRight"), A("activeCell", p.TopLeftCell), A("sqref", p.TopLeftCell))
		case p.Row > 0:
			w.Empty("selection", A("pane", "bottomLeft"), A("activeCell", p.TopLeftCell), A("sqref", p.TopLeftCell))
		case p.Col > 0:
			w.Empty("selection", A("pane", "topRight"), A("activeCell", p.TopLeftCell), A("sqref", p.TopLeftCell))
		}
	} else if ws.selection != "" {
		w.Empty("selection", A("activeCell", selectionActiveCell(ws.selection)), A("sqref", ws.selection))
	}
	w.End("sheetView")
	w.End("sheetViews")
}

func selectionActiveCell(sel string) string {
	for i := 0; i < len(sel); i++ {
		if sel[i] == ':' {
			return sel[:i]
		}
	}
	return sel
}

func writeCols(w *xmlWriter, ws *Worksheet) {
	cols := sortedIntKeysColOpts(ws.cells.cOpts)
	if len(cols) == 0 {
		return
	}
	w.Start("cols")
	for _, c := range cols {
		o := ws.cells.cOpts[c]
		attrs := []attr{A("min", itoa(c+1)), A("max", itoa(c+1))}
		width := o.Width
		if !o.WidthSet {
			width = defaultColWidth
		}
		attrs = append(attrs, A("width", formatFloat(width)))
		attrs = append(attrs, A("customWidth", "1"))
		if o.Xf != 0 {
			attrs = append(attrs, A("style", itoa(o.Xf)))
		}
		if o.Hidden {
			attrs = append(attrs, A("hidden", "1"))
		}
		if o.OutlineLevel != 0 {
			attrs = append(attrs, A("outlineLevel", itoa(int(o.OutlineLevel))))
		}
		if o.Collapsed {
			attrs = append(attrs, A("collapsed", "1"))
		}
		w.Empty("col", attrs...)
	}
	w.End("cols")
}

func sortedIntKeysColOpts(m map[int]*ColOptions) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// rowSpanBlocks computes, for every 16-row block containing at least one
// touched row, the [minCol+1, maxCol+1] span shared by every row in that
// block, matching the teacher's own blockwise `spans` attribute.
func rowSpanBlocks(rows []int, cellRows map[int]map[int]Cell) map[int]string {
	type box struct{ min, max int }
	blocks := map[int]*box{}
	for _, r := range rows {
		cells := cellRows[r]
		if len(cells) == 0 {
			continue
		}
		block := r / 16
		b := blocks[block]
		for col := range cells {
			if b == nil {
				b = &box{min: col, max: col}
				blocks[block] = b
				continue
			}
			if col < b.min {
				b.min = col
			}
			if col > b.max {
				b.max = col
			}
		}
	}
	out := map[int]string{}
	for block, b := range blocks {
		out[block] = itoa(b.min+1) + ":" + itoa(b.max+1)
	}
	return out
}

func writeSheetData(w *xmlWriter, ws *Worksheet, localToGlobal []int) {
	w.Start("sheetData")
	rows := ws.cells.sortedRowKeys()
	spans := rowSpanBlocks(rows, ws.cells.rows)
	for _, r := range rows {
		rowCells := ws.cells.rows[r]
		opt := ws.cells.rOpts[r]
		attrs := []attr{A("r", itoa(r+1))}
		if span, ok := spans[r/16]; ok && len(rowCells) > 0 {
			attrs = append(attrs, A("spans", span))
		}
		rowXf := 0
		if opt != nil {
			if opt.HeightSet {
				attrs = append(attrs, A("ht", formatFloat(opt.Height)), A("customHeight", "1"))
			}
			if opt.Hidden {
				attrs = append(attrs, A("hidden", "1"))
			}
			if opt.OutlineLevel != 0 {
				attrs = append(attrs, A("outlineLevel", itoa(int(opt.OutlineLevel))))
			}
			if opt.Collapsed {
				attrs = append(attrs, A("collapsed", "1"))
			}
			if opt.Xf != 0 {
				attrs = append(attrs, A("s", itoa(resolveCellXf(0, opt.Xf, 0, localToGlobal))), A("customFormat", "1"))
			}
			rowXf = opt.Xf
		}
		cols := sortedIntKeysCells(rowCells)
		if len(cols) == 0 {
			w.Empty("row", attrs...)
			continue
		}
		w.Start("row", attrs...)
		for _, c := range cols {
			cell := rowCells[c]
			if cell.emptyBlank() {
				continue
			}
			writeCellXML(w, ws, r, c, cell, rowXf, localToGlobal)
		}
		w.End("row")
	}
	w.End("sheetData")
}

func writeCellXML(w *xmlWriter, ws *Worksheet, row, col int, c Cell, rowXf int, localToGlobal []int) {
	colXf := 0
	if o := ws.cells.cOpts[col]; o != nil {
		colXf = o.Xf
	}
	globalXfIdx := resolveCellXf(c.Xf, rowXf, colXf, localToGlobal)
	ref, _ := CoordinatesToCell(col, row)
	attrs := []attr{A("r", ref)}
	if globalXfIdx != 0 {
		attrs = append(attrs, A("s", itoa(globalXfIdx)))
	}

	switch c.Kind {
	case CellBlank:
		w.Empty("c", attrs...)
	case CellNumber, CellDateTime:
		w.Start("c", attrs...)
		w.Data("v", formattedNumber(c.Num))
		w.End("c")
	case CellBoolean:
		attrs = append(attrs, A("t", "b"))
		w.Start("c", attrs...)
		v := "0"
		if c.Bool {
			v = "1"
		}
		w.Data("v", v)
		w.End("c")
	case CellString, CellRichString:
		attrs = append(attrs, A("t", "s"))
		w.Start("c", attrs...)
		w.Data("v", itoa(c.StrIdx))
		w.End("c")
	case CellFormula:
		if !c.ResultIsNum {
			attrs = append(attrs, A("t", "str"))
		}
		w.Start("c", attrs...)
		w.Data("f", c.Formula)
		w.Data("v", c.CachedResult)
		w.End("c")
	case CellArrayFormula:
		if !c.ResultIsNum {
			attrs = append(attrs, A("t", "str"))
		}
		w.Start("c", attrs...)
		fAttrs := []attr{A("t", "array"), A("ref", c.ArrayRange)}
		if c.IsDynamic {
			fAttrs = append(fAttrs, A("cm", "1"))
		}
		w.Start("f", fAttrs...)
		w.b.WriteString(EscapeText(c.Formula))
		w.End("f")
		w.Data("v", c.CachedResult)
		w.End("c")
	}
}

func writeSheetProtection(w *xmlWriter, p *sheetProtection) {
	attrs := []attr{A("sheet", "1")}
	if p.hasPassword {
		attrs = append(attrs, A("password", hex4(p.passwordHash)))
	}
	// These attributes default to prohibiting the action, so allowing it
	// needs an explicit "0".
	defaultsToDisallow := map[string]bool{
		"formatCells": true, "formatColumns": true, "formatRows": true, "insertColumns": true,
		"insertRows": true, "insertHyperlinks": true, "deleteColumns": true, "deleteRows": true,
		"sort": true, "autoFilter": true, "pivotTables": true,
	}
	appendBool := func(name string, allow bool) {
		if !allow {
			attrs = append(attrs, A(name, "1"))
		} else if defaultsToDisallow[name] {
			attrs = append(attrs, A(name, "0"))
		}
	}
	o := p.options
	appendBool("selectLockedCells", o.SelectLockedCells)
	appendBool("selectUnlockedCells", o.SelectUnlockedCells)
	appendBool("formatCells", o.FormatCells)
	appendBool("formatColumns", o.FormatColumns)
	appendBool("formatRows", o.FormatRows)
	appendBool("insertColumns", o.InsertColumns)
	appendBool("insertRows", o.InsertRows)
	appendBool("insertHyperlinks", o.InsertHyperlinks)
	appendBool("deleteColumns", o.DeleteColumns)
	appendBool("deleteRows", o.DeleteRows)
	appendBool("sort", o.Sort)
	appendBool("autoFilter", o.AutoFilter)
	appendBool("pivotTables", o.PivotTables)
	appendBool("objects", o.Objects)
	appendBool("scenarios", o.Scenarios)
	w.Empty("sheetProtection", attrs...)
}

func hex4(v uint16) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[(v>>12)&0xF], digits[(v>>8)&0xF], digits[(v>>4)&0xF], digits[v&0xF]})
}

func writeAutoFilter(w *xmlWriter, ref string, columns map[int]*FilterCondition) {
	if len(columns) == 0 {
		w.Empty("autoFilter", A("ref", ref))
		return
	}
	w.Start("autoFilter", A("ref", ref))
	cols := make([]int, 0, len(columns))
	for c := range columns {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	for _, c := range cols {
		cond := columns[c]
		w.Start("filterColumn", A("colId", itoa(c)))
		if cond.isList() {
			w.Start("filters")
			if cond.MatchBlanks {
				w.Empty("filter", A("blank", "1"))
			}
			for _, v := range cond.ListValues {
				w.Empty("filter", A("val", v))
			}
			w.End("filters")
		} else {
			andVal := "1"
			if cond.JoinOr {
				andVal = "0"
			}
			w.Start("customFilters", A("and", andVal))
			for _, crit := range cond.Criteria {
				w.Empty("customFilter", A("operator", customFilterOperatorName(crit.Operator)), A("val", crit.Value))
			}
			w.End("customFilters")
		}
		w.End("filterColumn")
	}
	w.End("autoFilter")
}

func customFilterOperatorName(op FilterOperator) string {
	switch op {
	case FilterEQ:
		return "equal"
	case FilterNE:
		return "notEqual"
	case FilterLT:
		return "lessThan"
	case FilterLE:
		return "lessThanOrEqual"
	case FilterGT:
		return "greaterThan"
	case FilterGE:
		return "greaterThanOrEqual"
	default:
		return "equal"
	}
}

func writeDataValidations(w *xmlWriter, ws *Worksheet) {
	if len(ws.validations) == 0 {
		return
	}
	w.Start("dataValidations", A("count", itoa(len(ws.validations))))
	for _, dv := range ws.validations {
		attrs := []attr{A("type", string(dv.Type))}
		if dv.Type != ValidationList && dv.Type != ValidationCustom {
			attrs = append(attrs, A("operator", string(dv.Operator)))
		}
		if dv.AllowBlank {
			attrs = append(attrs, A("allowBlank", "1"))
		}
		if dv.Type == ValidationList && !dv.ShowDropDown {
			attrs = append(attrs, A("showDropDown", "0"))
		}
		if dv.ShowInputMessage {
			attrs = append(attrs, A("showInputMessage", "1"))
		}
		if dv.ShowErrorMessage {
			attrs = append(attrs, A("showErrorMessage", "1"))
		}
		if dv.ErrorStyle != "" && dv.ErrorStyle != "stop" {
			attrs = append(attrs, A("errorStyle", dv.ErrorStyle))
		}
		if dv.ErrorTitle != "" {
			attrs = append(attrs, A("errorTitle", dv.ErrorTitle))
		}
		if dv.Error != "" {
			attrs = append(attrs, A("error", dv.Error))
		}
		if dv.PromptTitle != "" {
			attrs = append(attrs, A("promptTitle", dv.PromptTitle))
		}
		if dv.Prompt != "" {
			attrs = append(attrs, A("prompt", dv.Prompt))
		}
		attrs = append(attrs, A("sqref", dv.sqref()))
		w.Start("dataValidation", attrs...)
		w.Data("formula1", dv.Formula1)
		if dv.Formula2 != "" {
			w.Data("formula2", dv.Formula2)
		}
		w.End("dataValidation")
	}
	w.End("dataValidations")
}

// writePageSetup emits pageMargins/pageSetup/headerFooter/breaks. Print
// area and print titles are not part of this element — they become
// `_xlnm.Print_Area`/`_xlnm.Print_Titles` defined names at the workbook
// level (see workbook.go).
func writePageSetup(w *xmlWriter, ws *Worksheet) {
	p := ws.pageSetup
	w.Empty("pageMargins",
		A("left", formatFloat(nzOr(p.MarginLeft, 0.7))),
		A("right", formatFloat(nzOr(p.MarginRight, 0.7))),
		A("top", formatFloat(nzOr(p.MarginTop, 0.75))),
		A("bottom", formatFloat(nzOr(p.MarginBottom, 0.75))),
		A("header", formatFloat(nzOr(p.MarginHeader, 0.3))),
		A("footer", formatFloat(nzOr(p.MarginFooter, 0.3))))

	attrs := []attr{}
	if p.PaperSize != 0 {
		attrs = append(attrs, A("paperSize", itoa(p.PaperSize)))
	}
	if p.Scale != 0 {
		attrs = append(attrs, A("scale", itoa(p.Scale)))
	}
	if p.FitToPage {
		if p.FitToWidth != 0 {
			attrs = append(attrs, A("fitToWidth", itoa(p.FitToWidth)))
		}
		if p.FitToHeight != 0 {
			attrs = append(attrs, A("fitToHeight", itoa(p.FitToHeight)))
		}
	}
	if p.Orientation != "" {
		attrs = append(attrs, A("orientation", p.Orientation))
	}
	if p.PrintGridlines {
		attrs = append(attrs, A("gridLines", "1"))
	}
	if p.BlackAndWhite {
		attrs = append(attrs, A("blackAndWhite", "1"))
	}
	if p.FirstPageNumber != 0 {
		attrs = append(attrs, A("firstPageNumber", itoa(p.FirstPageNumber)), A("useFirstPageNumber", "1"))
	}
	if len(attrs) > 0 {
		w.Empty("pageSetup", attrs...)
	}

	hf := ws.headerFooter
	if hf.HeaderLeft != "" || hf.HeaderCenter != "" || hf.HeaderRight != "" ||
		hf.FooterLeft != "" || hf.FooterCenter != "" || hf.FooterRight != "" {
		hfAttrs := []attr{}
		if hf.DifferentFirst {
			hfAttrs = append(hfAttrs, A("differentFirst", "1"))
		}
		if hf.DifferentOddEven {
			hfAttrs = append(hfAttrs, A("differentOddEven", "1"))
		}
		w.Start("headerFooter", hfAttrs...)
		w.Data("oddHeader", hf.HeaderLeft+hf.HeaderCenter+hf.HeaderRight)
		w.Data("oddFooter", hf.FooterLeft+hf.FooterCenter+hf.FooterRight)
		w.End("headerFooter")
	}

	if len(ws.rowBreaks) > 0 {
		w.Start("rowBreaks", A("count", itoa(len(ws.rowBreaks))), A("manualBreakCount", itoa(len(ws.rowBreaks))))
		for _, b := range ws.rowBreaks {
			w.Empty("brk", A("id", itoa(b)), A("max", "16383"), A("man", "1"))
		}
		w.End("rowBreaks")
	}
	if len(ws.colBreaks) > 0 {
		w.Start("colBreaks", A("count", itoa(len(ws.colBreaks))), A("manualBreakCount", itoa(len(ws.colBreaks))))
		for _, b := range ws.colBreaks {
			w.Empty("brk", A("id", itoa(b)), A("max", "1048575"), A("man", "1"))
		}
		w.End("colBreaks")
	}
}

func nzOr(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
