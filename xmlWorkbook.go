package sheetforge

// buildWorkbookXML renders `xl/workbook.xml`: the sheet list (name, sheetId,
// r:id, state), the workbook-wide view (active tab), and the defined names
// table in the order assembleDefinedNames produced.
func buildWorkbookXML(sheets []*Worksheet, sheetRIDs []string, activeIdx int, names []DefinedName, structureProtection *strongPassword) []byte {
	w := newXMLWriter()
	w.Declaration()
	w.Start("workbook",
		A("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main"),
		A("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships"))

	w.Empty("fileVersion", A("appName", "sheetforge"))
	w.Empty("workbookPr", A("defaultThemeVersion", "124226"))

	if structureProtection != nil {
		w.Empty("workbookProtection",
			A("lockStructure", "1"),
			A("algorithmName", structureProtection.Algorithm),
			A("hashValue", base64String(structureProtection.HashValue)),
			A("saltValue", base64String(structureProtection.SaltValue)),
			A("spinCount", itoa(structureProtection.SpinCount)))
	}

	w.Start("bookViews")
	w.Empty("workbookView", A("activeTab", itoa(activeIdx)))
	w.End("bookViews")

	w.Start("sheets")
	for i, sh := range sheets {
		attrs := []attr{A("name", sh.Name), A("sheetId", itoa(i+1)), A("r:id", sheetRIDs[i])}
		if !sh.Visible {
			attrs = append(attrs, A("state", "hidden"))
		}
		w.Empty("sheet", attrs...)
	}
	w.End("sheets")

	if len(names) > 0 {
		w.Start("definedNames")
		for _, dn := range names {
			attrs := []attr{A("name", dn.Name)}
			if dn.SheetIndex >= 0 {
				attrs = append(attrs, A("localSheetId", itoa(dn.SheetIndex)))
			}
			if dn.Type == DefinedNameAutofilter {
				attrs = append(attrs, A("hidden", "1"))
			}
			w.Start("definedName", attrs...)
			w.b.WriteString(EscapeText(dn.RangeRef))
			w.End("definedName")
		}
		w.End("definedNames")
	}

	w.Empty("calcPr", A("calcId", "0"))
	w.End("workbook")
	return w.Bytes()
}
