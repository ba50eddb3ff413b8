package sheetforge

// MovementPolicy controls how a picture or chart reacts to row/column
// resize, hide, and insert/delete operations, mirroring the four options
// Excel exposes on a drawing object's "Properties" tab.
type MovementPolicy int

const (
	MoveAndSize MovementPolicy = iota
	MoveNoSize
	NoMoveNoSize
	MoveAndSizeAfterHidden
)

// anchorPoint is one end of a two-cell anchor: a cell coordinate plus a
// sub-cell pixel offset.
type anchorPoint struct {
	Col, Row       int
	ColOffPx       int
	RowOffPx       int
}

// TwoCellAnchor is the placement result handed to the worksheet/drawing
// emitter: a from/to cell pair with EMU offsets.
type TwoCellAnchor struct {
	FromCol, FromRow             int
	FromColOffEMU, FromRowOffEMU int
	ToCol, ToRow                 int
	ToColOffEMU, ToRowOffEMU     int
}

// colPixelWidth returns the rendered pixel width of column col. A hidden
// column contributes 0px unless movement is MoveAndSizeAfterHidden, in
// which case its nominal (unhidden) width is used.
func (ws *Worksheet) colPixelWidth(col int, movement MovementPolicy) int {
	opt := ws.cells.cOpts[col]
	if opt == nil {
		return defaultColPixels
	}
	if opt.Hidden && movement != MoveAndSizeAfterHidden {
		return 0
	}
	if opt.WidthSet {
		return charWidthToPixels(opt.Width)
	}
	return defaultColPixels
}

// rowPixelHeight is the row analogue of colPixelWidth. A row explicitly
// set to height 0 is "hidden" per spec.md's open-question resolution and
// contributes 0px regardless of movement policy, since there is no
// distinct representation for a zero-height *visible* row.
func (ws *Worksheet) rowPixelHeight(row int, movement MovementPolicy) int {
	opt := ws.cells.rOpts[row]
	if opt == nil {
		return defaultRowPixels
	}
	if opt.HeightSet && opt.Height == 0 {
		return 0
	}
	if opt.Hidden && movement != MoveAndSizeAfterHidden {
		return 0
	}
	if opt.HeightSet {
		return int(round(convertRowHeightToPixels(opt.Height)))
	}
	return defaultRowPixels
}

// PlaceAnchor converts a (row, col, xOffsetPx, yOffsetPx) cell anchor plus
// an object's rendered width/height in pixels into a two-cell EMU anchor,
// walking forward through column/row pixel sizes exactly as spec.md §4.I
// describes: advance while the offset exceeds the next cell's size, then
// do the same for the end coordinate using offset+dimension.
func (ws *Worksheet) PlaceAnchor(row, col, xOffsetPx, yOffsetPx, widthPx, heightPx int, movement MovementPolicy) TwoCellAnchor {
	colStart, colOff := advance(col, xOffsetPx, func(c int) int { return ws.colPixelWidth(c, movement) })
	rowStart, rowOff := advance(row, yOffsetPx, func(r int) int { return ws.rowPixelHeight(r, movement) })

	colEnd, colOffEnd := advance(col, xOffsetPx+widthPx, func(c int) int { return ws.colPixelWidth(c, movement) })
	rowEnd, rowOffEnd := advance(row, yOffsetPx+heightPx, func(r int) int { return ws.rowPixelHeight(r, movement) })

	return TwoCellAnchor{
		FromCol: colStart, FromRow: rowStart,
		FromColOffEMU: pxToEMU(colOff), FromRowOffEMU: pxToEMU(rowOff),
		ToCol: colEnd, ToRow: rowEnd,
		ToColOffEMU: pxToEMU(colOffEnd), ToRowOffEMU: pxToEMU(rowOffEnd),
	}
}

// advance walks forward from `start` consuming whole cells out of
// `offset` (via sizeOf) until the remainder fits inside the current cell,
// returning the final index and the remaining sub-cell pixel offset. A
// zero-pixel cell (fully hidden) is skipped without consuming any offset,
// preventing an infinite loop.
func advance(start, offset int, sizeOf func(int) int) (idx, rem int) {
	idx, rem = start, offset
	for {
		size := sizeOf(idx)
		if size == 0 {
			idx++
			continue
		}
		if rem < size {
			return idx, rem
		}
		rem -= size
		idx++
	}
}

func pxToEMU(px int) int { return int(round(float64(px) * EMUPerPixel)) }

// --- Autofit --------------------------------------------------------------

// calibri11Widths gives the approximate per-glyph pixel width of common
// ASCII characters rendered in Calibri 11pt, the font Excel assumes when
// autofitting a column. Digits not listed here use 5.99px; every other code
// point outside this table falls back to the average width.
var calibri11Widths = map[rune]float64{
	' ': 2.57, '!': 2.86, '"': 3.57, '#': 5.99, '$': 5.99, '%': 9.71, '&': 7.28,
	'\'': 1.85, '(': 3.57, ')': 3.57, '*': 4.28, '+': 6.27, ',': 2.86, '-': 3.43,
	'.': 2.86, '/': 3.14,
}

const avgGlyphWidth = 6.4

func glyphWidth(r rune) float64 {
	if w, ok := calibri11Widths[r]; ok {
		return w
	}
	if r >= '0' && r <= '9' {
		return 5.99
	}
	return avgGlyphWidth
}

// stringPixelWidth renders the Calibri-11 pixel width of s, taking the
// widest line when s spans multiple lines.
func stringPixelWidth(s string) float64 {
	max := 0.0
	cur := 0.0
	for _, r := range s {
		if r == '\n' {
			if cur > max {
				max = cur
			}
			cur = 0
			continue
		}
		cur += glyphWidth(r)
	}
	if cur > max {
		max = cur
	}
	return max
}

// AutoFitColumns scans every touched cell in [firstCol,lastCol] and sets
// each column's width to the widest rendered value plus one character of
// padding, capped at 255 characters. A width set with SetColWidth is kept
// unless the autofit width is larger; a width from an earlier
// AutoFitColumns call is always replaced. SetColWidth after AutoFitColumns
// wins (the teacher's own last-write convention).
func (ws *Worksheet) AutoFitColumns(firstCol, lastCol int) {
	if firstCol > lastCol {
		firstCol, lastCol = lastCol, firstCol
	}
	widest := map[int]float64{}
	for row, cols := range ws.cells.rows {
		for col, c := range cols {
			if col < firstCol || col > lastCol {
				continue
			}
			text := c.RawText
			if c.Kind == CellFormula || c.Kind == CellArrayFormula {
				text = c.CachedResult
			}
			px := autofitPixelWidth(c, text)
			if c.Kind == CellNumber && px > 0 {
				if fmtSpec := ws.formats.formats[c.Xf]; numFmtKind(fmtSpec.NumFmt) == "datetime" {
					px = 68
				}
			}
			if px > widest[col] {
				widest[col] = px
			}
			_ = row
		}
	}
	for col := firstCol; col <= lastCol; col++ {
		px := widest[col]
		if px == 0 {
			continue
		}
		width := pixelsToCharWidth(int(px)) + 1
		if width > 255 {
			width = 255
		}
		o := ws.cells.colOptions(col)
		if o.WidthSet && !o.autofit && o.Width >= width {
			continue
		}
		o.Width = width
		o.WidthSet = true
		o.autofit = true
	}
}

// autofitPixelWidth returns the pixel width autofit would assign to a
// single cell's rendered value, per spec.md §4.I.
func autofitPixelWidth(c Cell, cachedText string) float64 {
	switch c.Kind {
	case CellString, CellRichString:
		return stringPixelWidth(cachedText)
	case CellNumber:
		return float64(7 * len(formatFloat(c.Num)))
	case CellDateTime:
		return 68
	case CellBoolean:
		if c.Bool {
			return 31
		}
		return 36
	case CellFormula, CellArrayFormula:
		if c.CachedResult != "" && c.CachedResult != "0" {
			return stringPixelWidth(c.CachedResult)
		}
		return 0
	default:
		return 0
	}
}
