package sheetforge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetHeaderFooterRejectsPlaceholderWithoutImage(t *testing.T) {
	_, ws := newTestSheet(t)
	err := ws.SetHeaderFooter(HeaderFooter{HeaderCenter: "&[Picture]"})
	assert.ErrorIs(t, err, ErrParameterInvalid)
}

func TestSetHeaderFooterAcceptsPlaceholderWithImage(t *testing.T) {
	_, ws := newTestSheet(t)
	img := &Image{WidthPx: 10, HeightPx: 10}
	err := ws.SetHeaderFooter(HeaderFooter{HeaderCenter: "&G", ImageCenter: img})
	require.NoError(t, err)
	assert.Equal(t, img, ws.headerFooter.ImageCenter)
}

func TestSetHeaderFooterPlainTextNoImageRequired(t *testing.T) {
	_, ws := newTestSheet(t)
	err := ws.SetHeaderFooter(HeaderFooter{HeaderLeft: "Page &P of &N"})
	require.NoError(t, err)
	assert.Equal(t, "Page &P of &N", ws.headerFooter.HeaderLeft)
}

func TestAddRowPageBreakDedupsAndSorts(t *testing.T) {
	_, ws := newTestSheet(t)
	require.NoError(t, ws.AddRowPageBreak(10))
	require.NoError(t, ws.AddRowPageBreak(5))
	require.NoError(t, ws.AddRowPageBreak(10))
	assert.Equal(t, []int{5, 10}, ws.rowBreaks)
}

func TestAddRowPageBreakIgnoresNonPositive(t *testing.T) {
	_, ws := newTestSheet(t)
	require.NoError(t, ws.AddRowPageBreak(0))
	require.NoError(t, ws.AddRowPageBreak(-1))
	assert.Empty(t, ws.rowBreaks)
}

func TestAddColPageBreakEnforcesLimit(t *testing.T) {
	_, ws := newTestSheet(t)
	for i := 1; i <= MaxPageBreaks; i++ {
		require.NoError(t, ws.AddColPageBreak(i))
	}
	assert.ErrorIs(t, ws.AddColPageBreak(MaxPageBreaks+1), ErrParameterInvalid)
}

func TestSetPrintAreaAndRepeatRanges(t *testing.T) {
	_, ws := newTestSheet(t)
	ws.SetPrintArea("A1:C10")
	ws.SetRepeatRows("$1:$1")
	ws.SetRepeatCols("$A:$A")
	assert.Equal(t, "A1:C10", ws.printArea)
	assert.Equal(t, "$1:$1", ws.repeatRows)
	assert.Equal(t, "$A:$A", ws.repeatCols)
}
