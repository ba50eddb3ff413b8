package sheetforge

import (
	"fmt"
	"strconv"
	"strings"
)

// formatFloat renders a float64 the way Excel's own shortest round-trip
// serialization does: no trailing zeros, no forced exponent.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ColumnNameToNumber converts an Excel column letter (e.g. "A", "AZ") to a
// zero-indexed column number. Grounded on rust_xlsxwriter's
// utility::col_to_name inverse and the teacher's own coordinate helpers.
func ColumnNameToNumber(name string) (int, error) {
	if name == "" {
		return -1, fmt.Errorf("%w %q", ErrColumnNameInvalid, name)
	}
	col := 0
	for _, r := range name {
		if r < 'A' || r > 'Z' {
			if r >= 'a' && r <= 'z' {
				r -= 'a' - 'A'
			} else {
				return -1, fmt.Errorf("%w %q", ErrColumnNameInvalid, name)
			}
		}
		col = col*26 + int(r-'A'+1)
	}
	col--
	if col < 0 || col >= MaxCols {
		return -1, fmt.Errorf("%w %q", ErrColumnNameInvalid, name)
	}
	return col, nil
}

// ColumnNumberToName converts a zero-indexed column number to its Excel
// letter representation.
func ColumnNumberToName(col int) (string, error) {
	if col < 0 || col >= MaxCols {
		return "", ErrColumnNumber
	}
	var b []byte
	n := col + 1
	for n > 0 {
		rem := n % 26
		if rem == 0 {
			rem = 26
		}
		b = append([]byte{byte('A' + rem - 1)}, b...)
		n = (n - rem) / 26
	}
	return string(b), nil
}

// CellCoordinates splits an A1-style cell reference into zero-indexed
// (col, row).
func CellCoordinates(cell string) (col, row int, err error) {
	split := strings.IndexFunc(cell, func(r rune) bool { return r >= '0' && r <= '9' })
	if split <= 0 {
		return -1, -1, fmt.Errorf("invalid cell name %q", cell)
	}
	col, err = ColumnNameToNumber(cell[:split])
	if err != nil {
		return -1, -1, fmt.Errorf("invalid cell name %q", cell)
	}
	rowNum, err := strconv.Atoi(cell[split:])
	if err != nil || rowNum < 1 {
		return -1, -1, fmt.Errorf("invalid cell name %q", cell)
	}
	return col, rowNum - 1, nil
}

// CoordinatesToCell builds an A1-style reference from zero-indexed
// (col, row).
func CoordinatesToCell(col, row int) (string, error) {
	name, err := ColumnNumberToName(col)
	if err != nil {
		return "", err
	}
	if row < 0 || row >= MaxRows {
		return "", ErrRowNumber
	}
	return fmt.Sprintf("%s%d", name, row+1), nil
}

// CellRangeString renders a zero-indexed (firstRow, firstCol, lastRow,
// lastCol) bounding box as an A1:B2-style range, collapsing to a single
// cell reference when the box is degenerate.
func CellRangeString(firstRow, firstCol, lastRow, lastCol int) (string, error) {
	first, err := CoordinatesToCell(firstCol, firstRow)
	if err != nil {
		return "", err
	}
	last, err := CoordinatesToCell(lastCol, lastRow)
	if err != nil {
		return "", err
	}
	if first == last {
		return first, nil
	}
	return first + ":" + last, nil
}

// quoteSheetName quotes a sheet name for use in a formula or range
// reference when it contains characters requiring quoting (anything other
// than letters, digits and underscore, or a name starting with a digit).
func quoteSheetName(name string) string {
	needsQuote := name == ""
	for i, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9') {
			continue
		}
		needsQuote = true
	}
	if !needsQuote {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// QualifiedRange prefixes a range string with a quoted sheet name, as used
// by defined names and print areas/titles.
func QualifiedRange(sheet, rng string) string {
	return quoteSheetName(sheet) + "!" + rng
}

const (
	maxDigitWidth    = 7.0
	columnPadding    = 5.0
	defaultColWidth  = 8.43
	defaultColPixels = 64
	defaultRowPixels = 20
	defaultRowHeight = 15.0
)

// charWidthToPixels converts a character-unit column width to a pixel
// width using the Calibri-11 metrics the teacher and Excel both assume:
// max digit width 7px, padding 5px.
func charWidthToPixels(width float64) int {
	if width < 1 {
		return int(round(width*(maxDigitWidth+columnPadding)))
	}
	return int(round(width*maxDigitWidth)) + int(columnPadding)
}

// pixelsToCharWidth is the inverse of charWidthToPixels, used by the
// autofit pass to turn a computed pixel width back into the character-unit
// width stored in `<col width=>`.
func pixelsToCharWidth(pixels int) float64 {
	return round(((float64(pixels)-columnPadding)/maxDigitWidth)*100) / 100
}

func round(f float64) float64 {
	if f >= 0 {
		return float64(int64(f + 0.5))
	}
	return float64(int64(f - 0.5))
}

// convertColWidthToPixels converts a character-unit column width to a pixel
// width, matching the teacher's own `convertColWidthToPixels`. It rounds by
// adding 0.5 and truncating, which agrees with charWidthToPixels for
// non-negative widths; for a negative width it rounds toward zero where
// charWidthToPixels rounds half away from zero.
func convertColWidthToPixels(width float64) float64 {
	if width == 0 {
		return 0
	}
	if width < 1 {
		return float64(int64(width*(maxDigitWidth+columnPadding) + 0.5))
	}
	return float64(int64(width*maxDigitWidth+0.5)) + columnPadding
}

// convertRowHeightToPixels converts a point-based row height to pixels
// (96 DPI assumption, 1 point = 4/3 px).
func convertRowHeightToPixels(height float64) float64 {
	if height == 0 {
		return 0
	}
	return round(height * 4 / 3)
}
