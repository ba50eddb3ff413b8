package sheetforge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChart struct {
	xml []byte
}

func (f *fakeChart) EmitXML(id int) []byte { return f.xml }

func TestAddChartRejectsNilChart(t *testing.T) {
	_, ws := newTestSheet(t)
	err := ws.AddChart(0, 0, nil, ChartFormat{})
	assert.ErrorIs(t, err, ErrParameterInvalid)
}

func TestAddChartRecordsPlacement(t *testing.T) {
	_, ws := newTestSheet(t)
	c := &fakeChart{xml: []byte("<chart/>")}
	format := ChartFormat{Width: 480, Height: 288}
	require.NoError(t, ws.AddChart(1, 1, c, format))
	require.Len(t, ws.charts, 1)
	assert.Equal(t, c, ws.charts[0].chart)
}

func TestPlacedChartEmitsOpaqueXML(t *testing.T) {
	c := &fakeChart{xml: []byte("<chart/>")}
	p := &placedChart{chart: c, format: ChartFormat{Width: 10, Height: 10}}
	assert.Equal(t, 10, p.widthPx())
	assert.Equal(t, []byte("<chart/>"), p.chart.EmitXML(1))
}
