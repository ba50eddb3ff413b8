package sheetforge

import (
	"fmt"
	"strings"
)

// buildStylesXML renders `xl/styles.xml` from the assembled, deduplicated
// style table (see styles.go assembleStyles): numFmts, fonts, fills,
// borders, cellStyleXfs, cellXfs, cellStyles, dxfs (always empty, this
// library never emits conditional-format differential styles) and
// tableStyles, in the fixed order the schema requires.
func buildStylesXML(st *styleTable) []byte {
	w := newXMLWriter()
	w.Declaration()
	w.Start("styleSheet", A("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main"))

	if len(st.customFmts) > 0 {
		w.Start("numFmts", A("count", itoa(len(st.customFmts))))
		for _, nf := range st.customFmts {
			w.Empty("numFmt", A("numFmtId", itoa(nf.id)), A("formatCode", nf.code))
		}
		w.End("numFmts")
	}

	w.Start("fonts", A("count", itoa(len(st.fonts))))
	for _, f := range st.fonts {
		writeFontXML(w, f)
	}
	w.End("fonts")

	w.Start("fills", A("count", itoa(len(st.fills))))
	for _, fl := range st.fills {
		writeFillXML(w, fl)
	}
	w.End("fills")

	w.Start("borders", A("count", itoa(len(st.borders))))
	for _, b := range st.borders {
		writeBorderXML(w, b)
	}
	w.End("borders")

	w.Start("cellStyleXfs", A("count", "1"))
	w.Empty("xf", A("numFmtId", "0"), A("fontId", "0"), A("fillId", "0"), A("borderId", "0"))
	w.End("cellStyleXfs")

	w.Start("cellXfs", A("count", itoa(len(st.xfs))))
	for _, xf := range st.xfs {
		writeXfXML(w, xf)
	}
	w.End("cellXfs")

	w.Start("cellStyles", A("count", "1"))
	w.Empty("cellStyle", A("name", "Normal"), A("xfId", "0"), A("builtinId", "0"))
	w.End("cellStyles")

	w.Empty("dxfs", A("count", "0"))
	w.Empty("tableStyles", A("count", "0"), A("defaultTableStyle", "TableStyleMedium9"), A("defaultPivotStyle", "PivotStyleLight16"))

	w.End("styleSheet")
	return w.Bytes()
}

func writeFontXML(w *xmlWriter, f *Font) {
	w.Start("font")
	if f.Bold {
		w.Empty("b")
	}
	if f.Italic {
		w.Empty("i")
	}
	if f.Strike {
		w.Empty("strike")
	}
	if f.Underline != "" {
		if f.Underline == "single" {
			w.Empty("u")
		} else {
			w.Empty("u", A("val", f.Underline))
		}
	}
	if f.VertAlign != "" {
		w.Empty("vertAlign", A("val", f.VertAlign))
	}
	size := f.Size
	if size == 0 {
		size = 11
	}
	w.Empty("sz", A("val", formatFloat(size)))
	if f.Color != "" {
		w.Empty("color", A("rgb", "FF"+f.Color))
	} else {
		w.Empty("color", A("theme", "1"))
	}
	name := f.Name
	if name == "" {
		name = "Calibri"
	}
	w.Empty("name", A("val", name))
	family := f.Family
	if family == 0 {
		family = 2
	}
	w.Empty("family", A("val", itoa(family)))
	if f.Charset != 0 {
		w.Empty("charset", A("val", itoa(f.Charset)))
	}
	scheme := f.Scheme
	if scheme == "" {
		scheme = "minor"
	}
	w.Empty("scheme", A("val", scheme))
	w.End("font")
}

func writeFillXML(w *xmlWriter, fl *Fill) {
	w.Start("fill")
	if fl.Type == "gradient" {
		w.Start("gradientFill")
		for _, c := range fl.Color {
			w.Empty("stop", A("color", c))
		}
		w.End("gradientFill")
	} else {
		patternType := patternTypeName(fl.Pattern)
		w.Start("patternFill", A("patternType", patternType))
		if len(fl.Color) > 0 && fl.Color[0] != "" {
			w.Empty("fgColor", A("rgb", "FF"+fl.Color[0]))
		}
		if len(fl.Color) > 1 && fl.Color[1] != "" {
			w.Empty("bgColor", A("rgb", "FF"+fl.Color[1]))
		}
		w.End("patternFill")
	}
	w.End("fill")
}

func patternTypeName(p int) string {
	switch p {
	case 0:
		return "none"
	case 17:
		return "gray125"
	default:
		return "solid"
	}
}

func writeBorderXML(w *xmlWriter, b *Border) {
	var attrs []attr
	if b.DiagUp {
		attrs = append(attrs, A("diagonalUp", "1"))
	}
	if b.DiagDown {
		attrs = append(attrs, A("diagonalDown", "1"))
	}
	w.Start("border", attrs...)
	writeBorderEdge(w, "left", b.Left)
	writeBorderEdge(w, "right", b.Right)
	writeBorderEdge(w, "top", b.Top)
	writeBorderEdge(w, "bottom", b.Bottom)
	writeBorderEdge(w, "diagonal", b.Diagonal)
	w.End("border")
}

func writeBorderEdge(w *xmlWriter, name string, e BorderStyle) {
	if e.Style == 0 {
		w.Empty(name)
		return
	}
	w.Start(name, A("style", borderStyleName(e.Style)))
	if e.Color != "" {
		w.Empty("color", A("rgb", "FF"+e.Color))
	}
	w.End(name)
}

var borderStyleNames = []string{
	"none", "thin", "medium", "dashed", "dotted", "thick", "double", "hair",
	"mediumDashed", "dashDot", "mediumDashDot", "dashDotDot", "mediumDashDotDot", "slantDashDot",
}

func borderStyleName(i int) string {
	if i < 0 || i >= len(borderStyleNames) {
		return "thin"
	}
	return borderStyleNames[i]
}

func writeXfXML(w *xmlWriter, xf globalXf) {
	attrs := []attr{
		A("numFmtId", itoa(xf.numFmtID)),
		A("fontId", itoa(xf.fontIdx)),
		A("fillId", itoa(xf.fillIdx)),
		A("borderId", itoa(xf.borderIdx)),
		A("xfId", "0"),
	}
	if xf.numFmtID != 0 {
		attrs = append(attrs, A("applyNumberFormat", "1"))
	}
	if xf.fontIdx != 0 {
		attrs = append(attrs, A("applyFont", "1"))
	}
	if xf.fillIdx != 0 {
		attrs = append(attrs, A("applyFill", "1"))
	}
	if xf.borderIdx != 0 {
		attrs = append(attrs, A("applyBorder", "1"))
	}
	if xf.quote {
		attrs = append(attrs, A("quotePrefix", "1"))
	}
	hasChildren := xf.alignment != nil || xf.protection != nil
	if !hasChildren {
		w.Empty("xf", attrs...)
		return
	}
	if xf.alignment != nil {
		attrs = append(attrs, A("applyAlignment", "1"))
	}
	if xf.protection != nil {
		attrs = append(attrs, A("applyProtection", "1"))
	}
	w.Start("xf", attrs...)
	if a := xf.alignment; a != nil {
		var alignAttrs []attr
		if a.Horizontal != "" {
			alignAttrs = append(alignAttrs, A("horizontal", a.Horizontal))
		}
		if a.Vertical != "" {
			alignAttrs = append(alignAttrs, A("vertical", a.Vertical))
		}
		if a.Indent != 0 {
			alignAttrs = append(alignAttrs, A("indent", itoa(a.Indent)))
		}
		if a.WrapText {
			alignAttrs = append(alignAttrs, A("wrapText", "1"))
		}
		if a.ShrinkToFit {
			alignAttrs = append(alignAttrs, A("shrinkToFit", "1"))
		}
		if a.JustifyLastLine {
			alignAttrs = append(alignAttrs, A("justifyLastLine", "1"))
		}
		if a.TextRotation != 0 {
			alignAttrs = append(alignAttrs, A("textRotation", itoa(a.TextRotation)))
		}
		if a.ReadingOrder != 0 {
			alignAttrs = append(alignAttrs, A("readingOrder", fmt.Sprintf("%d", a.ReadingOrder)))
		}
		w.Empty("alignment", alignAttrs...)
	}
	if p := xf.protection; p != nil {
		locked := "1"
		if !p.Locked {
			locked = "0"
		}
		hidden := "0"
		if p.Hidden {
			hidden = "1"
		}
		w.Empty("protection", A("locked", locked), A("hidden", hidden))
	}
	w.End("xf")
}

func itoa(n int) string {
	return strings.TrimSpace(fmt.Sprintf("%d", n))
}
