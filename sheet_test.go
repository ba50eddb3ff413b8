package sheetforge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSheet(t *testing.T) (*Workbook, *Worksheet) {
	t.Helper()
	wb := NewFile()
	ws, err := wb.AddSheet("Sheet1")
	require.NoError(t, err)
	return wb, ws
}

func TestWriteStringInternsIntoSharedTable(t *testing.T) {
	wb, ws := newTestSheet(t)
	require.NoError(t, ws.WriteString(wb.SharedStrings(), 0, 0, "hello", nil))
	require.NoError(t, ws.WriteString(wb.SharedStrings(), 1, 0, "hello", nil))
	require.NoError(t, ws.WriteString(wb.SharedStrings(), 2, 0, "world", nil))

	assert.Equal(t, 2, wb.SharedStrings().UniqueCount())
	assert.Equal(t, 3, wb.SharedStrings().Count())
}

func TestWriteStringTooLong(t *testing.T) {
	wb, ws := newTestSheet(t)
	long := make([]rune, MaxStringLength+1)
	for i := range long {
		long[i] = 'a'
	}
	err := ws.WriteString(wb.SharedStrings(), 0, 0, string(long), nil)
	assert.ErrorIs(t, err, ErrMaxStringLength)
}

func TestWriteCoordinateBounds(t *testing.T) {
	_, ws := newTestSheet(t)
	err := ws.WriteNumber(-1, 0, 1, nil)
	assert.ErrorIs(t, err, ErrRowNumber)

	err = ws.WriteNumber(0, MaxCols, 1, nil)
	assert.ErrorIs(t, err, ErrColumnNumber)
}

func TestMergeCellOverlapRejected(t *testing.T) {
	_, ws := newTestSheet(t)
	require.NoError(t, ws.MergeCell(0, 0, 1, 1))
	err := ws.MergeCell(1, 1, 2, 2)
	assert.ErrorIs(t, err, ErrMergeCellOverlap)
}

func TestMergeCellSingleCellRejected(t *testing.T) {
	_, ws := newTestSheet(t)
	err := ws.MergeCell(0, 0, 0, 0)
	assert.ErrorIs(t, err, ErrMergeCellSingle)
}

func TestMergeCellNonOverlappingSucceeds(t *testing.T) {
	_, ws := newTestSheet(t)
	require.NoError(t, ws.MergeCell(0, 0, 1, 1))
	require.NoError(t, ws.MergeCell(2, 2, 3, 3))
	assert.Len(t, ws.merges, 2)
}

func TestClassifyHyperlink(t *testing.T) {
	cases := []struct {
		url      string
		wantKind string
	}{
		{"https://example.com", "external-url"},
		{"http://example.com", "external-url"},
		{"mailto:a@example.com", "external-url"},
		{"file:///tmp/x.txt", "external-file"},
		{"internal:Sheet2!A1", "internal"},
	}
	for _, c := range cases {
		kind, _, _, err := classifyHyperlink(c.url)
		require.NoError(t, err, c.url)
		assert.Equal(t, c.wantKind, kind, c.url)
	}
}

func TestClassifyHyperlinkUnknownScheme(t *testing.T) {
	_, _, _, err := classifyHyperlink("ssh://host")
	assert.ErrorIs(t, err, ErrUnknownURLType)
}

func TestWriteURLRegistersHyperlinkAndCellText(t *testing.T) {
	wb, ws := newTestSheet(t)
	require.NoError(t, ws.WriteURL(wb.SharedStrings(), 0, 0, "https://example.com", "Example", "", nil))
	link, ok := ws.hyperlinks["A1"]
	require.True(t, ok)
	assert.Equal(t, "external-url", link.Kind)
	assert.Equal(t, "https://example.com", link.Target)
}

func TestWriteURLDefaultsDisplayToURL(t *testing.T) {
	wb, ws := newTestSheet(t)
	require.NoError(t, ws.WriteURL(wb.SharedStrings(), 0, 0, "https://example.com", "", "", nil))
	cell, ok := ws.cells.get(0, 0)
	require.True(t, ok)
	assert.Equal(t, "https://example.com", cell.RawText)
}

func TestFreezePanesActivePane(t *testing.T) {
	_, ws := newTestSheet(t)
	ws.FreezePanes(1, 1)
	require.NotNil(t, ws.pane)
	assert.Equal(t, "bottomRight", ws.pane.ActivePane)
	assert.Equal(t, "B2", ws.pane.TopLeftCell)

	ws.FreezePanes(1, 0)
	assert.Equal(t, "bottomLeft", ws.pane.ActivePane)

	ws.FreezePanes(0, 1)
	assert.Equal(t, "topRight", ws.pane.ActivePane)
}

func TestSetColWidthRejectsOversize(t *testing.T) {
	_, ws := newTestSheet(t)
	err := ws.SetColWidth(0, 0, 256)
	assert.ErrorIs(t, err, ErrColumnWidth)
}

func TestSetRowOutlineLevelBounds(t *testing.T) {
	_, ws := newTestSheet(t)
	err := ws.SetRowOutlineLevel(0, 8)
	assert.ErrorIs(t, err, ErrOutlineLevel)
	require.NoError(t, ws.SetRowOutlineLevel(0, 7))
}

func TestWriteArrayFormulaDynamicPromotion(t *testing.T) {
	_, ws := newTestSheet(t)
	require.NoError(t, ws.WriteArrayFormula(0, 0, 0, 0, "UNIQUE(A1:A10)", "1", true, nil))
	cell, ok := ws.cells.get(0, 0)
	require.True(t, ok)
	assert.True(t, cell.IsDynamic)
	assert.True(t, ws.hasDynamicArrays)
}

func TestWriteArrayFormulaPadsRangeWithZeros(t *testing.T) {
	_, ws := newTestSheet(t)
	require.NoError(t, ws.WriteArrayFormula(0, 0, 1, 1, "A1+A2", "0", true, nil))
	anchor, ok := ws.cells.get(0, 0)
	require.True(t, ok)
	assert.Equal(t, CellArrayFormula, anchor.Kind)

	padded, ok := ws.cells.get(1, 1)
	require.True(t, ok)
	assert.Equal(t, CellNumber, padded.Kind)
}
