package sheetforge

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewImageFromBytesDecodesPNGDimensions(t *testing.T) {
	raw := tinyPNG(t, 10, 20)
	img, err := NewImageFromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, ImagePNG, img.Kind)
	assert.Equal(t, 10, img.WidthPx)
	assert.Equal(t, 20, img.HeightPx)
	assert.NotZero(t, img.Hash)
}

func TestNewImageFromBytesRejectsGarbage(t *testing.T) {
	_, err := NewImageFromBytes([]byte("not an image"))
	assert.Error(t, err)
}

func TestNewImageFromBytesHashIsStableForIdenticalBytes(t *testing.T) {
	raw := tinyPNG(t, 4, 4)
	img1, err := NewImageFromBytes(raw)
	require.NoError(t, err)
	img2, err := NewImageFromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, img1.Hash, img2.Hash)
}

func TestAddPictureRejectsNilImage(t *testing.T) {
	_, ws := newTestSheet(t)
	err := ws.AddPicture(0, 0, nil)
	assert.ErrorIs(t, err, ErrParameterInvalid)
}

func TestAddPictureRecordsPlacement(t *testing.T) {
	_, ws := newTestSheet(t)
	raw := tinyPNG(t, 64, 20)
	img, err := NewImageFromBytes(raw)
	require.NoError(t, err)
	require.NoError(t, ws.AddPicture(0, 0, img))
	require.Len(t, ws.images, 1)
	assert.Equal(t, 1, ws.images[0].anchor.ToCol)
}

func TestPlacedImageScaleAffectsDimensions(t *testing.T) {
	img := &Image{WidthPx: 100, HeightPx: 50, ScaleX: 2, ScaleY: 0.5}
	p := &placedImage{img: img}
	assert.Equal(t, 200, p.widthPx())
	assert.Equal(t, 25, p.heightPx())
}

func TestPlacedImageZeroScaleDefaultsToOne(t *testing.T) {
	img := &Image{WidthPx: 10, HeightPx: 10}
	p := &placedImage{img: img}
	assert.Equal(t, 10, p.widthPx())
	assert.Equal(t, 10, p.heightPx())
}
