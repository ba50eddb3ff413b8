package sheetforge

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleRejectsEmptyWorkbook(t *testing.T) {
	wb := NewFile()
	_, err := wb.WriteTo(&bytes.Buffer{})
	assert.ErrorIs(t, err, ErrParameterInvalid)
}

func TestWriteToProducesValidZipWithExpectedParts(t *testing.T) {
	wb := NewFile()
	ws, err := wb.AddSheet("Data")
	require.NoError(t, err)
	require.NoError(t, ws.WriteString(wb.SharedStrings(), 0, 0, "hello", nil))
	require.NoError(t, ws.WriteNumber(0, 1, 42, nil))

	var buf bytes.Buffer
	n, err := wb.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Greater(t, n, int64(0))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}

	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"xl/workbook.xml",
		"xl/_rels/workbook.xml.rels",
		"xl/styles.xml",
		"xl/sharedStrings.xml",
		"xl/worksheets/sheet1.xml",
		"docProps/core.xml",
		"docProps/app.xml",
	} {
		assert.True(t, names[want], "missing part %q", want)
	}
}

func TestAssembleDedupsImagesByHash(t *testing.T) {
	wb := NewFile()
	ws, err := wb.AddSheet("Sheet1")
	require.NoError(t, err)

	img := &Image{Hash: 12345, Bytes: []byte{1, 2, 3}, Kind: ImagePNG, WidthPx: 10, HeightPx: 10}
	img2 := &Image{Hash: 12345, Bytes: []byte{1, 2, 3}, Kind: ImagePNG, WidthPx: 10, HeightPx: 10}
	require.NoError(t, ws.AddPicture(0, 0, img))
	require.NoError(t, ws.AddPicture(5, 0, img2))

	parts, err := wb.assemble(time.Now())
	require.NoError(t, err)

	mediaCount := 0
	for _, p := range parts {
		if len(p.name) > len("xl/media/") && p.name[:len("xl/media/")] == "xl/media/" {
			mediaCount++
		}
	}
	assert.Equal(t, 1, mediaCount, "identical image hashes must be written once")
}

func TestSaveAsWritesFile(t *testing.T) {
	wb := NewFile()
	_, err := wb.AddSheet("Sheet1")
	require.NoError(t, err)

	path := t.TempDir() + "/out.xlsx"
	require.NoError(t, wb.SaveAs(path))
}
