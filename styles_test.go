package sheetforge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRegistryDedupesByStructuralEquality(t *testing.T) {
	reg := newFormatRegistry()
	f1 := &Format{Font: &Font{Bold: true, Color: "FF0000"}}
	f2 := &Format{Font: &Font{Bold: true, Color: "FF0000"}}

	i1 := reg.add(f1)
	i2 := reg.add(f2)
	assert.Equal(t, i1, i2, "structurally identical formats must collapse to one index")
	assert.Len(t, reg.formats, 2) // default + the one dedup'd format
}

func TestFormatRegistryNilIsDefault(t *testing.T) {
	reg := newFormatRegistry()
	assert.Equal(t, 0, reg.add(nil))
}

func TestFormatRegistryDistinctFormatsGetDistinctIndices(t *testing.T) {
	reg := newFormatRegistry()
	i1 := reg.add(&Format{Font: &Font{Bold: true}})
	i2 := reg.add(&Format{Font: &Font{Italic: true}})
	assert.NotEqual(t, i1, i2)
}

func TestAssembleStylesDedupsAcrossWorksheets(t *testing.T) {
	reg1 := newFormatRegistry()
	reg2 := newFormatRegistry()
	reg1.add(&Format{Font: &Font{Bold: true, Color: "000000"}})
	reg2.add(&Format{Font: &Font{Bold: true, Color: "000000"}})

	st, localToGlobal := assembleStyles([]*formatRegistry{reg1, reg2})
	require.Len(t, localToGlobal, 2)
	assert.Equal(t, localToGlobal[0][1], localToGlobal[1][1])
	// One font beyond the default at fontIdx 0, so both sheets reuse the
	// same entry.
	assert.Len(t, st.fonts, 2)
}

func TestAssembleStylesBuiltinNumFmtReused(t *testing.T) {
	reg := newFormatRegistry()
	reg.add(&Format{NumFmt: "0.00%"})
	st, localToGlobal := assembleStyles([]*formatRegistry{reg})
	idx := localToGlobal[0][1]
	assert.Equal(t, 10, st.xfs[idx].numFmtID)
	assert.Empty(t, st.customFmts)
}

func TestAssembleStylesCustomNumFmtAssignedAboveBase(t *testing.T) {
	reg := newFormatRegistry()
	reg.add(&Format{NumFmt: "0.0000\"x\""})
	st, localToGlobal := assembleStyles([]*formatRegistry{reg})
	idx := localToGlobal[0][1]
	assert.GreaterOrEqual(t, st.xfs[idx].numFmtID, numFmtCustomBase)
	require.Len(t, st.customFmts, 1)
	assert.Equal(t, "0.0000\"x\"", st.customFmts[0].code)
}

func TestAssembleStylesHyperlinkXfTracked(t *testing.T) {
	reg := newFormatRegistry()
	reg.add(defaultHyperlinkFormat())
	st, _ := assembleStyles([]*formatRegistry{reg})
	assert.NotEqual(t, -1, st.hyperlinkXf)
}

func TestResolveCellXfFallbackChain(t *testing.T) {
	localToGlobal := []int{0, 5, 6, 7}
	// cell xf wins when non-zero
	assert.Equal(t, 6, resolveCellXf(2, 1, 3, localToGlobal))
	// falls back to row, then column
	assert.Equal(t, 5, resolveCellXf(0, 1, 3, localToGlobal))
	assert.Equal(t, 7, resolveCellXf(0, 0, 3, localToGlobal))
	assert.Equal(t, 0, resolveCellXf(0, 0, 0, localToGlobal))
}

func TestFontCloneIsDeepCopy(t *testing.T) {
	f := &Font{Bold: true, Color: "FF0000"}
	clone := f.Clone()
	clone.Color = "00FF00"
	assert.Equal(t, "FF0000", f.Color)
	assert.Equal(t, "00FF00", clone.Color)
}

func TestNumFmtKindClassification(t *testing.T) {
	assert.Equal(t, "numeric", numFmtKind(""))
	assert.Equal(t, "numeric", numFmtKind("General"))
	assert.Equal(t, "numeric", numFmtKind("0.00"))
	assert.Equal(t, "datetime", numFmtKind("m/d/yyyy"))
	assert.Equal(t, "datetime", numFmtKind("h:mm:ss"))
}

func TestSetTextRotationOutOfRangeIgnored(t *testing.T) {
	f := &Format{}
	f.SetTextRotation(999)
	assert.Nil(t, f.Alignment)

	f.SetTextRotation(45)
	require.NotNil(t, f.Alignment)
	assert.Equal(t, 45, f.Alignment.TextRotation)

	f.SetTextRotation(255)
	assert.Equal(t, 255, f.Alignment.TextRotation)
}

func TestSetReadingOrderOutOfRangeIgnored(t *testing.T) {
	f := &Format{}
	f.SetReadingOrder(9)
	assert.Nil(t, f.Alignment)

	f.SetReadingOrder(2)
	require.NotNil(t, f.Alignment)
	assert.Equal(t, uint64(2), f.Alignment.ReadingOrder)
}
