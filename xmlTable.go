package sheetforge

// buildTableXML renders one `xl/tables/tableN.xml` part for t.
func buildTableXML(t *Table) []byte {
	w := newXMLWriter()
	w.Declaration()
	attrs := []attr{
		A("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main"),
		A("id", itoa(t.id)),
		A("name", t.Name),
		A("displayName", t.Name),
		A("ref", t.rangeRef()),
	}
	if t.ShowTotalsRow {
		attrs = append(attrs, A("totalsRowShown", "1"))
	} else {
		attrs = append(attrs, A("totalsRowShown", "0"))
	}
	w.Start("table", attrs...)

	if t.AutoFilter {
		w.Empty("autoFilter", A("ref", t.rangeRef()))
	}

	w.Start("tableColumns", A("count", itoa(len(t.Columns))))
	for i, col := range t.Columns {
		colAttrs := []attr{A("id", itoa(i+1)), A("name", col.Name)}
		if col.TotalsRowFunc != "" {
			colAttrs = append(colAttrs, A("totalsRowFunction", col.TotalsRowFunc))
		}
		if col.TotalsRowLabel != "" {
			colAttrs = append(colAttrs, A("totalsRowLabel", col.TotalsRowLabel))
		}
		w.Empty("tableColumn", colAttrs...)
	}
	w.End("tableColumns")

	styleAttrs := []attr{A("name", string(t.Style))}
	if t.ShowFirstColumn {
		styleAttrs = append(styleAttrs, A("showFirstColumn", "1"))
	}
	if t.ShowLastColumn {
		styleAttrs = append(styleAttrs, A("showLastColumn", "1"))
	}
	rowStripes := "0"
	if t.ShowRowStripes {
		rowStripes = "1"
	}
	colStripes := "0"
	if t.ShowColumnStripes {
		colStripes = "1"
	}
	styleAttrs = append(styleAttrs, A("showRowStripes", rowStripes), A("showColumnStripes", colStripes))
	w.Empty("tableStyleInfo", styleAttrs...)

	w.End("table")
	return w.Bytes()
}
