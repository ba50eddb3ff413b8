package sheetforge

import (
	"fmt"
	"log"
	"strings"

	"github.com/mohae/deepcopy"
	"github.com/xuri/nfp"
)

// Font describes a cell's typeface, matching the subset of `<font>`
// properties the styles emitter writes.
type Font struct {
	Bold      bool
	Italic    bool
	Strike    bool
	Underline string // "", "single", "double"
	VertAlign string // "", "superscript", "subscript"
	Size      float64
	Color     string // "RRGGBB" or "" for automatic
	Name      string
	Family    int
	Charset   int
	Scheme    string // "minor", "major", ""
}

// Clone returns a deep copy of f, used when a caller derives a new Format
// from an existing one (e.g. a hyperlink format starting from a base
// format). Grounded on the teacher's reliance on mohae/deepcopy for
// style-object copies rather than hand-rolled field assignment.
func (f *Font) Clone() *Font {
	if f == nil {
		return nil
	}
	return deepcopy.Copy(f).(*Font)
}

// Alignment describes `<alignment>` cell-format properties.
type Alignment struct {
	Horizontal      string
	Vertical        string
	Indent          int
	WrapText        bool
	ShrinkToFit     bool
	JustifyLastLine bool
	TextRotation    int
	ReadingOrder    uint64
}

// BorderStyle is one edge (left/right/top/bottom/diagonal) of a cell
// border.
type BorderStyle struct {
	Style int // 0 = none, otherwise an OOXML border style index
	Color string
}

// Border groups the four edges plus the diagonal.
type Border struct {
	Left     BorderStyle
	Right    BorderStyle
	Top      BorderStyle
	Bottom   BorderStyle
	Diagonal BorderStyle
	DiagUp   bool
	DiagDown bool
}

// Fill describes `<fill>` cell-format properties. Type is "pattern" or
// "gradient"; for a pattern fill, Color[0] is the foreground and Color[1]
// (if present) the background.
type Fill struct {
	Type    string
	Pattern int
	Color   []string
	Shading int
}

// Protection holds the locked/hidden bits stored per cell format.
type Protection struct {
	Locked bool
	Hidden bool
}

// Format groups every style facet a cell, row or column can reference. Two
// Formats with structurally identical fields collapse to the same style
// index; equality is by value, never by pointer identity.
type Format struct {
	Font        *Font
	Fill        *Fill
	Border      *Border
	Alignment   *Alignment
	Protection  *Protection
	NumFmt      string // custom format code, empty if NumFmtID names a builtin
	NumFmtID    int    // 0-49 builtin, or a custom index assigned at save time
	QuotePrefix bool
	hyperlink   bool // internal: true if this format backs a hyperlink style
}

// Clone returns a deep copy of fmtSpec.
func (fmtSpec *Format) Clone() *Format {
	if fmtSpec == nil {
		return nil
	}
	return deepcopy.Copy(fmtSpec).(*Format)
}

// defaultFormat is the structurally-empty Format every worksheet's local
// index 0 and the workbook's global index 0 refer to.
func defaultFormat() *Format { return &Format{} }

// key renders a deterministic, order-fixed serialization of every field in
// Format so that two Formats built independently but with equal contents
// produce identical keys (and therefore the same registry index).
func (fmtSpec *Format) key() string {
	if fmtSpec == nil {
		fmtSpec = defaultFormat()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "numfmt:%d:%s|", fmtSpec.NumFmtID, fmtSpec.NumFmt)
	if f := fmtSpec.Font; f != nil {
		fmt.Fprintf(&b, "font:%v:%v:%v:%s:%s:%g:%s:%s:%d:%d:%s|",
			f.Bold, f.Italic, f.Strike, f.Underline, f.VertAlign, f.Size, f.Color, f.Name, f.Family, f.Charset, f.Scheme)
	} else {
		b.WriteString("font:nil|")
	}
	if fl := fmtSpec.Fill; fl != nil {
		fmt.Fprintf(&b, "fill:%s:%d:%v:%d|", fl.Type, fl.Pattern, fl.Color, fl.Shading)
	} else {
		b.WriteString("fill:nil|")
	}
	if bd := fmtSpec.Border; bd != nil {
		fmt.Fprintf(&b, "border:%v:%v:%v:%v:%v:%v:%v|", bd.Left, bd.Right, bd.Top, bd.Bottom, bd.Diagonal, bd.DiagUp, bd.DiagDown)
	} else {
		b.WriteString("border:nil|")
	}
	if a := fmtSpec.Alignment; a != nil {
		fmt.Fprintf(&b, "align:%+v|", *a)
	} else {
		b.WriteString("align:nil|")
	}
	if p := fmtSpec.Protection; p != nil {
		fmt.Fprintf(&b, "prot:%v:%v|", p.Locked, p.Hidden)
	} else {
		b.WriteString("prot:nil|")
	}
	fmt.Fprintf(&b, "quote:%v|hlink:%v", fmtSpec.QuotePrefix, fmtSpec.hyperlink)
	return b.String()
}

// formatRegistry is a per-worksheet format-key -> local xf_index table.
// Local index 0 is always the default format; every other index is
// assigned monotonically the first time a distinct key is seen.
type formatRegistry struct {
	keyToIndex map[string]int
	formats    []*Format
}

func newFormatRegistry() *formatRegistry {
	return &formatRegistry{
		keyToIndex: map[string]int{defaultFormat().key(): 0},
		formats:    []*Format{defaultFormat()},
	}
}

// add inserts fmtSpec if unseen and returns its local index.
func (r *formatRegistry) add(fmtSpec *Format) int {
	if fmtSpec == nil {
		return 0
	}
	k := fmtSpec.key()
	if i, ok := r.keyToIndex[k]; ok {
		return i
	}
	i := len(r.formats)
	r.keyToIndex[k] = i
	r.formats = append(r.formats, fmtSpec)
	return i
}

// --- Workbook-wide style table -------------------------------------------------

const (
	numFmtBuiltinMax = 49
	numFmtCustomBase = 164
)

// builtinNumFmts maps the 0-49 reserved builtin format codes to their
// format strings, used to recognize when a caller-supplied NumFmt string
// is actually a builtin and should reuse its reserved index instead of
// being assigned a custom 164+ slot.
var builtinNumFmts = map[int]string{
	0: "General", 1: "0", 2: "0.00", 3: "#,##0", 4: "#,##0.00",
	9: "0%", 10: "0.00%", 11: "0.00E+00", 12: "# ?/?", 13: "# ??/??",
	14: "m/d/yyyy", 15: "d-mmm-yy", 16: "d-mmm", 17: "mmm-yy", 18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM", 20: "h:mm", 21: "h:mm:ss", 22: "m/d/yyyy h:mm",
	37: "#,##0 ;(#,##0)", 38: "#,##0 ;[Red](#,##0)", 39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)", 45: "mm:ss", 46: "[h]:mm:ss", 47: "mmss.0",
	48: "##0.0E+0", 49: "@",
}

func builtinNumFmtIndex(code string) (int, bool) {
	for id, c := range builtinNumFmts {
		if c == code {
			return id, true
		}
	}
	return 0, false
}

// styleTable is the workbook-global, deduplicated style assembly produced
// by assembleStyles (component 4.C / 4.K). It owns the final font, fill,
// border, numFmt and cellXfs tables plus each worksheet's local->global xf
// index mapping.
type styleTable struct {
	fonts       []*Font
	fills       []*Fill
	borders     []*Border
	customFmts  []customNumFmt
	xfs         []globalXf
	xfIndex     map[string]int
	hyperlinkXf int // -1 if no hyperlink format registered
}

type customNumFmt struct {
	id   int
	code string
}

type globalXf struct {
	numFmtID   int
	fontIdx    int
	fillIdx    int
	borderIdx  int
	alignment  *Alignment
	protection *Protection
	quote      bool
	hyperlink  bool
}

// assembleStyles runs the three-pass global dedup described in spec.md
// §4.C: (1) numFmt indices, (2) font/fill/border sub-indices, (3) final xf
// rows. It receives every worksheet's local formatRegistry and returns the
// shared table plus, per worksheet, a local->global index slice.
func assembleStyles(registries []*formatRegistry) (*styleTable, [][]int) {
	st := &styleTable{
		fonts:       []*Font{{}}, // default font, referenced by the default xf
		fills:       []*Fill{{Type: "pattern", Pattern: 0}, {Type: "pattern", Pattern: 17}}, // none, gray125
		borders:     []*Border{{}}, // no border, referenced by the default xf
		xfIndex:     map[string]int{},
		hyperlinkXf: -1,
	}
	fontIdx := map[string]int{st.fonts[0].key(): 0}
	fillIdx := map[string]int{st.fills[0].key(): 0, st.fills[1].key(): 1}
	borderIdx := map[string]int{st.borders[0].key(): 0}
	numFmtIdx := map[string]int{}
	nextCustom := numFmtCustomBase

	// index 0 is always the default global format.
	st.xfs = append(st.xfs, globalXf{})
	st.xfIndex[defaultFormat().key()] = 0

	localToGlobal := make([][]int, len(registries))
	for si, reg := range registries {
		mapping := make([]int, len(reg.formats))
		for li, fmtSpec := range reg.formats {
			if li == 0 {
				mapping[0] = 0
				continue
			}
			gx := globalXf{quote: fmtSpec.QuotePrefix, hyperlink: fmtSpec.hyperlink}

			// Pass 1: number format.
			switch {
			case fmtSpec.NumFmt == "" && fmtSpec.NumFmtID == 0:
				gx.numFmtID = 0
			case fmtSpec.NumFmt != "":
				if id, ok := builtinNumFmtIndex(fmtSpec.NumFmt); ok {
					gx.numFmtID = id
				} else if id, ok := numFmtIdx[fmtSpec.NumFmt]; ok {
					gx.numFmtID = id
				} else {
					id := nextCustom
					nextCustom++
					numFmtIdx[fmtSpec.NumFmt] = id
					st.customFmts = append(st.customFmts, customNumFmt{id: id, code: fmtSpec.NumFmt})
					gx.numFmtID = id
				}
			default:
				gx.numFmtID = fmtSpec.NumFmtID
			}

			// Pass 2: font/fill/border sub-indices.
			font := fmtSpec.Font
			if font == nil {
				font = &Font{}
			}
			fk := font.key()
			if idx, ok := fontIdx[fk]; ok {
				gx.fontIdx = idx
			} else {
				idx = len(st.fonts)
				fontIdx[fk] = idx
				st.fonts = append(st.fonts, font)
				gx.fontIdx = idx
			}

			fill := fmtSpec.Fill
			if fill == nil {
				gx.fillIdx = 0
			} else {
				fk := fill.key()
				if idx, ok := fillIdx[fk]; ok {
					gx.fillIdx = idx
				} else {
					idx = len(st.fills)
					fillIdx[fk] = idx
					st.fills = append(st.fills, fill)
					gx.fillIdx = idx
				}
			}

			border := fmtSpec.Border
			if border == nil {
				border = &Border{}
			}
			bk := border.key()
			if idx, ok := borderIdx[bk]; ok {
				gx.borderIdx = idx
			} else {
				idx = len(st.borders)
				borderIdx[bk] = idx
				st.borders = append(st.borders, border)
				gx.borderIdx = idx
			}

			gx.alignment = fmtSpec.Alignment
			gx.protection = fmtSpec.Protection

			// Pass 3: final xf tuple dedup.
			xfKey := fmt.Sprintf("%d|%d|%d|%d|%+v|%+v|%v|%v", gx.numFmtID, gx.fontIdx, gx.fillIdx, gx.borderIdx, gx.alignment, gx.protection, gx.quote, gx.hyperlink)
			idx, ok := st.xfIndex[xfKey]
			if !ok {
				idx = len(st.xfs)
				st.xfIndex[xfKey] = idx
				st.xfs = append(st.xfs, gx)
				if gx.hyperlink && st.hyperlinkXf == -1 {
					st.hyperlinkXf = idx
				}
			}
			mapping[li] = idx
		}
		localToGlobal[si] = mapping
	}
	return st, localToGlobal
}

func (f *Font) key() string {
	if f == nil {
		f = &Font{}
	}
	return fmt.Sprintf("%v:%v:%v:%s:%s:%g:%s:%s:%d:%d:%s", f.Bold, f.Italic, f.Strike, f.Underline, f.VertAlign, f.Size, f.Color, f.Name, f.Family, f.Charset, f.Scheme)
}

func (fl *Fill) key() string {
	if fl == nil {
		return "nil"
	}
	return fmt.Sprintf("%s:%d:%v:%d", fl.Type, fl.Pattern, fl.Color, fl.Shading)
}

func (b *Border) key() string {
	if b == nil {
		b = &Border{}
	}
	return fmt.Sprintf("%v:%v:%v:%v:%v:%v:%v", b.Left, b.Right, b.Top, b.Bottom, b.Diagonal, b.DiagUp, b.DiagDown)
}

// SetTextRotation sets Alignment.TextRotation. Out-of-range values (valid
// range is -90..90, plus the literal 255 meaning "stacked vertical text")
// are logged as a warning and otherwise ignored, matching spec.md §7's one
// documented downgrade-to-warning path rather than returning an error.
func (fmtSpec *Format) SetTextRotation(degrees int) {
	if (degrees < -90 || degrees > 90) && degrees != 255 {
		log.Printf("sheetforge: text rotation %d out of range [-90,90] (or 255), ignoring", degrees)
		return
	}
	if fmtSpec.Alignment == nil {
		fmtSpec.Alignment = &Alignment{}
	}
	fmtSpec.Alignment.TextRotation = degrees
}

// SetReadingOrder sets Alignment.ReadingOrder (0 = context, 1 = LTR, 2 =
// RTL). Any other value is logged and ignored rather than erroring.
func (fmtSpec *Format) SetReadingOrder(order uint64) {
	if order > 2 {
		log.Printf("sheetforge: reading order %d out of range [0,2], ignoring", order)
		return
	}
	if fmtSpec.Alignment == nil {
		fmtSpec.Alignment = &Alignment{}
	}
	fmtSpec.Alignment.ReadingOrder = order
}

// numFmtKind classifies a number-format code using the same token grammar
// Excel itself parses, via xuri/nfp, rather than a hand-rolled regex over
// the format string. Used by the autofit pass (drawing.go) to estimate a
// Number cell's rendered pixel width using the datetime width table when
// its format code is actually a date/time pattern.
func numFmtKind(code string) string {
	if code == "" || code == "General" {
		return "numeric"
	}
	parser := nfp.NewNumberFormatParser()
	tokens := parser.Parse(code)
	for _, tok := range tokens {
		switch tok.TType {
		case nfp.TokenTypeDateTimes:
			return "datetime"
		case nfp.TokenTypeLiteral:
			if tok.TValue == "@" {
				return "text"
			}
		}
	}
	return "numeric"
}

// resolveCellXf implements the §4.C fallback chain: a cell's own local xf
// wins if non-zero; otherwise the row's; otherwise the column's; the
// result is translated through local->global before being written.
func resolveCellXf(cellXf, rowXf, colXf int, localToGlobal []int) int {
	xf := cellXf
	if xf == 0 {
		xf = rowXf
	}
	if xf == 0 {
		xf = colXf
	}
	if xf < 0 || xf >= len(localToGlobal) {
		return 0
	}
	return localToGlobal[xf]
}
