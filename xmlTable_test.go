package sheetforge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTableXMLBasicAttributes(t *testing.T) {
	_, ws := newTestSheet(t)
	tbl, err := ws.AddTable(0, 0, 2, 1, "MyTable", "", nil)
	require.NoError(t, err)

	out := string(buildTableXML(tbl))
	assert.Contains(t, out, `name="MyTable"`)
	assert.Contains(t, out, `displayName="MyTable"`)
	assert.Contains(t, out, `ref="A1:B3"`)
	assert.Contains(t, out, `totalsRowShown="0"`)
}

func TestBuildTableXMLColumnsRendered(t *testing.T) {
	_, ws := newTestSheet(t)
	tbl, err := ws.AddTable(0, 0, 2, 1, "T", "", []TableColumn{
		{Name: "One"},
		{Name: "Two", TotalsRowFunc: "sum", TotalsRowLabel: "Total"},
	})
	require.NoError(t, err)

	out := string(buildTableXML(tbl))
	assert.Contains(t, out, `<tableColumns count="2">`)
	assert.Contains(t, out, `name="One"`)
	assert.Contains(t, out, `name="Two"`)
	assert.Contains(t, out, `totalsRowFunction="sum"`)
	assert.Contains(t, out, `totalsRowLabel="Total"`)
}

func TestBuildTableXMLAutoFilterEmittedWhenEnabled(t *testing.T) {
	_, ws := newTestSheet(t)
	tbl, err := ws.AddTable(0, 0, 2, 1, "T", "", nil)
	require.NoError(t, err)
	tbl.AutoFilter = true

	out := string(buildTableXML(tbl))
	assert.Contains(t, out, `<autoFilter ref="A1:B3"/>`)
}

func TestBuildTableXMLStyleInfoStripes(t *testing.T) {
	_, ws := newTestSheet(t)
	tbl, err := ws.AddTable(0, 0, 2, 1, "T", "TableStyleMedium2", nil)
	require.NoError(t, err)
	tbl.ShowRowStripes = true

	out := string(buildTableXML(tbl))
	assert.Contains(t, out, `name="TableStyleMedium2"`)
	assert.Contains(t, out, `showRowStripes="1"`)
	assert.Contains(t, out, `showColumnStripes="0"`)
}
