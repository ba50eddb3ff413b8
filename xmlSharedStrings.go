package sheetforge

// buildSharedStringsXML renders `xl/sharedStrings.xml`: the `count` attr
// is the sum of every intern occurrence, `uniqueCount` the number of
// distinct entries, each rendered in insertion order via
// xmlWriter.SharedStringItem (plain text) or RawSharedStringItem (rich
// text run markup).
func buildSharedStringsXML(sst *SharedStringTable) []byte {
	w := newXMLWriter()
	w.Declaration()
	w.Start("sst",
		A("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main"),
		A("count", itoa(sst.Count())),
		A("uniqueCount", itoa(sst.UniqueCount())))
	for _, e := range sst.rawEntries() {
		if e.rich {
			w.RawSharedStringItem(e.text)
		} else {
			w.SharedStringItem(e.text)
		}
	}
	w.End("sst")
	return w.Bytes()
}
