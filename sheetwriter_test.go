package sheetforge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCellXMLNumberVariant(t *testing.T) {
	_, ws := newTestSheet(t)
	w := newXMLWriter()
	writeCellXML(w, ws, 0, 0, numberCell(42.5, 0), 0, []int{0})
	assert.Equal(t, `<c r="A1"><v>42.5</v></c>`, w.String())
}

func TestWriteCellXMLBooleanVariant(t *testing.T) {
	_, ws := newTestSheet(t)
	w := newXMLWriter()
	writeCellXML(w, ws, 0, 0, booleanCell(true, 0), 0, []int{0})
	assert.Equal(t, `<c r="A1" t="b"><v>1</v></c>`, w.String())
}

func TestWriteCellXMLStringVariant(t *testing.T) {
	_, ws := newTestSheet(t)
	w := newXMLWriter()
	writeCellXML(w, ws, 0, 2, stringCell(7, "hi", 0), 0, []int{0})
	assert.Equal(t, `<c r="C1" t="s"><v>7</v></c>`, w.String())
}

func TestWriteCellXMLFormulaVariant(t *testing.T) {
	_, ws := newTestSheet(t)
	w := newXMLWriter()
	writeCellXML(w, ws, 0, 0, formulaCell("SUM(A1:A2)", "3", true, 0), 0, []int{0})
	assert.Equal(t, `<c r="A1"><f>SUM(A1:A2)</f><v>3</v></c>`, w.String())
}

func TestWriteCellXMLFormulaNonNumericResultGetsStrType(t *testing.T) {
	_, ws := newTestSheet(t)
	w := newXMLWriter()
	writeCellXML(w, ws, 0, 0, formulaCell(`"hi"`, "hi", false, 0), 0, []int{0})
	assert.Equal(t, `<c r="A1" t="str"><f>"hi"</f><v>hi</v></c>`, w.String())
}

func TestWriteCellXMLArrayFormulaDynamicUsesCmNotCa(t *testing.T) {
	_, ws := newTestSheet(t)
	w := newXMLWriter()
	cell := arrayFormulaCell("_xlfn.UNIQUE(A2:A10)", "1", true, true, "A1", 0)
	writeCellXML(w, ws, 0, 0, cell, 0, []int{0})
	out := w.String()
	assert.Contains(t, out, `<f t="array" ref="A1" cm="1">_xlfn.UNIQUE(A2:A10)</f>`)
	assert.NotContains(t, out, `ca="1"`)
}

func TestWriteCellXMLArrayFormulaNonDynamicOmitsCm(t *testing.T) {
	_, ws := newTestSheet(t)
	w := newXMLWriter()
	cell := arrayFormulaCell("SUM(A1:A2)", "3", true, false, "A1:A2", 0)
	writeCellXML(w, ws, 0, 0, cell, 0, []int{0})
	assert.NotContains(t, w.String(), `cm=`)
}

func TestWriteCellXMLBlankWithFormatEmitsStyleOnly(t *testing.T) {
	_, ws := newTestSheet(t)
	w := newXMLWriter()
	writeCellXML(w, ws, 0, 0, blankCell(2), 0, []int{0, 5, 6})
	assert.Equal(t, `<c r="A1" s="6"/>`, w.String())
}

func TestWriteSheetPrOmittedWhenNoTriggers(t *testing.T) {
	_, ws := newTestSheet(t)
	w := newXMLWriter()
	writeSheetPr(w, ws)
	assert.Empty(t, w.String())
}

func TestWriteSheetPrFilterModeOnly(t *testing.T) {
	_, ws := newTestSheet(t)
	require.NoError(t, ws.AutoFilter(0, 0, 2, 2))
	w := newXMLWriter()
	writeSheetPr(w, ws)
	assert.Equal(t, `<sheetPr filterMode="1"/>`, w.String())
}

func TestWriteSheetPrTabColorOnly(t *testing.T) {
	_, ws := newTestSheet(t)
	ws.SetTabColor("FF0000")
	w := newXMLWriter()
	writeSheetPr(w, ws)
	assert.Equal(t, `<sheetPr><tabColor rgb="FFFF0000"/></sheetPr>`, w.String())
}

func TestWriteSheetPrFitToPageOnly(t *testing.T) {
	_, ws := newTestSheet(t)
	ws.SetPageSetup(PageSetup{FitToPage: true})
	w := newXMLWriter()
	writeSheetPr(w, ws)
	assert.Equal(t, `<sheetPr><pageSetUpPr fitToPage="1"/></sheetPr>`, w.String())
}

func TestWriteSheetPrAllThreeTriggersTogether(t *testing.T) {
	_, ws := newTestSheet(t)
	require.NoError(t, ws.AutoFilter(0, 0, 2, 2))
	ws.SetTabColor("00FF00")
	ws.SetPageSetup(PageSetup{FitToPage: true})
	w := newXMLWriter()
	writeSheetPr(w, ws)
	out := w.String()
	assert.Contains(t, out, `<sheetPr filterMode="1">`)
	assert.Contains(t, out, `<tabColor rgb="FF00FF00"/>`)
	assert.Contains(t, out, `<pageSetUpPr fitToPage="1"/>`)
}

func TestBuildWorksheetXMLOmitsSheetPrByDefault(t *testing.T) {
	_, ws := newTestSheet(t)
	out := string(buildWorksheetXML(ws, []int{0}, ""))
	assert.NotContains(t, out, "sheetPr")
	// dimension follows the worksheet root; sheetPr order is checked below.
	assert.Less(t, strings.Index(out, "<worksheet"), strings.Index(out, "<dimension"))
}

func TestBuildWorksheetXMLSheetPrPrecedesDimensionWhenPresent(t *testing.T) {
	_, ws := newTestSheet(t)
	ws.SetTabColor("112233")
	out := string(buildWorksheetXML(ws, []int{0}, ""))
	require.Contains(t, out, "<sheetPr>")
	assert.Less(t, strings.Index(out, "<sheetPr>"), strings.Index(out, "<dimension"))
}

func TestRowSpanBlocksComputesPerSixteenRowBlock(t *testing.T) {
	cellRows := map[int]map[int]Cell{
		0:  {0: numberCell(1, 0), 3: numberCell(2, 0)},
		16: {1: numberCell(3, 0)},
	}
	spans := rowSpanBlocks([]int{0, 16}, cellRows)
	assert.Equal(t, "1:4", spans[0])
	assert.Equal(t, "2:2", spans[1])
}

func TestWriteSheetDataSkipsEmptyBlankWithNoFormat(t *testing.T) {
	wb, ws := newTestSheet(t)
	require.NoError(t, ws.WriteNumber(0, 0, 1, nil))
	require.NoError(t, ws.WriteBlank(0, 1, nil))

	w := newXMLWriter()
	writeSheetData(w, ws, []int{0})
	out := w.String()
	assert.NotContains(t, out, `r="B1"`)
	_ = wb
}

func TestWriteSheetDataEmitsRowEvenWhenNoCellsButHasRowOptions(t *testing.T) {
	_, ws := newTestSheet(t)
	require.NoError(t, ws.SetRowHidden(3, true))

	w := newXMLWriter()
	writeSheetData(w, ws, []int{0})
	assert.Contains(t, w.String(), `<row r="4" hidden="1"/>`)
}

func TestWriteAutoFilterListFilter(t *testing.T) {
	w := newXMLWriter()
	writeAutoFilter(w, "A1:B2", map[int]*FilterCondition{
		0: {ListValues: []string{"x", "y"}},
	})
	out := w.String()
	assert.Contains(t, out, `<autoFilter ref="A1:B2">`)
	assert.Contains(t, out, `<filter val="x"/>`)
	assert.Contains(t, out, `<filter val="y"/>`)
}

func TestWriteAutoFilterNoColumnsEmitsEmptyElement(t *testing.T) {
	w := newXMLWriter()
	writeAutoFilter(w, "A1:B2", nil)
	assert.Equal(t, `<autoFilter ref="A1:B2"/>`, w.String())
}

func TestWritePageSetupDefaultsMargins(t *testing.T) {
	_, ws := newTestSheet(t)
	w := newXMLWriter()
	writePageSetup(w, ws)
	assert.Contains(t, w.String(), `left="0.7"`)
}

func TestWritePageSetupFitToPageEmitsWidthHeight(t *testing.T) {
	_, ws := newTestSheet(t)
	ws.SetPageSetup(PageSetup{FitToPage: true, FitToWidth: 1, FitToHeight: 2})
	w := newXMLWriter()
	writePageSetup(w, ws)
	out := w.String()
	assert.Contains(t, out, `fitToWidth="1"`)
	assert.Contains(t, out, `fitToHeight="2"`)
}
