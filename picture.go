package sheetforge

import (
	"bytes"
	"hash/fnv"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// ImageKind is the decoded raster format of an embedded picture.
type ImageKind int

const (
	ImagePNG ImageKind = iota
	ImageJPEG
	ImageGIF
	ImageBMP
)

func (k ImageKind) contentType() string {
	switch k {
	case ImageJPEG:
		return "image/jpeg"
	case ImageGIF:
		return "image/gif"
	case ImageBMP:
		return "image/bmp"
	default:
		return "image/png"
	}
}

func (k ImageKind) extension() string {
	switch k {
	case ImageJPEG:
		return "jpeg"
	case ImageGIF:
		return "gif"
	case ImageBMP:
		return "bmp"
	default:
		return "png"
	}
}

// Image is the opaque collaborator described in spec.md §6: the core
// never parses the bytes, it only uses Hash for dedup and the pre-measured
// dimensions for placement.
type Image struct {
	Hash       uint64
	Bytes      []byte
	Kind       ImageKind
	WidthPx    int
	HeightPx   int
	DPIX       float64
	DPIY       float64
	AltText    string
	Decorative bool
	Movement   MovementPolicy
	ScaleX     float64
	ScaleY     float64
	XOffset    int
	YOffset    int
}

// DrawingObject is the capability both images and charts implement so the
// placement engine can accept either: size, offset, and movement policy.
type DrawingObject interface {
	xOffsetPx() int
	yOffsetPx() int
	widthPx() int
	heightPx() int
	movement() MovementPolicy
	altText() string
	isDecorative() string
}

type placedImage struct {
	img    *Image
	anchor TwoCellAnchor
	relID  string
	name   string
}

func (p *placedImage) xOffsetPx() int  { return p.img.XOffset }
func (p *placedImage) yOffsetPx() int  { return p.img.YOffset }
func (p *placedImage) movement() MovementPolicy { return p.img.Movement }
func (p *placedImage) altText() string { return p.img.AltText }
func (p *placedImage) isDecorative() string {
	if p.img.Decorative {
		return "1"
	}
	return "0"
}

func (p *placedImage) widthPx() int {
	scale := p.img.ScaleX
	if scale == 0 {
		scale = 1
	}
	return int(round(float64(p.img.WidthPx) * scale))
}

func (p *placedImage) heightPx() int {
	scale := p.img.ScaleY
	if scale == 0 {
		scale = 1
	}
	return int(round(float64(p.img.HeightPx) * scale))
}

// NewImageFromBytes decodes raw picture bytes to recover its format and
// pixel dimensions, producing an Image the caller can hand to AddPicture.
// This is a convenience for callers starting from a file on disk; the
// core drawing/placement path never calls this itself (Image.Bytes is
// otherwise opaque, per the Image doc comment).
func NewImageFromBytes(raw []byte) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	var kind ImageKind
	switch format {
	case "jpeg":
		kind = ImageJPEG
	case "gif":
		kind = ImageGIF
	case "bmp":
		kind = ImageBMP
	default:
		kind = ImagePNG
	}
	h := fnv.New64a()
	h.Write(raw)
	return &Image{Hash: h.Sum64(), Bytes: raw, Kind: kind, WidthPx: cfg.Width, HeightPx: cfg.Height}, nil
}

// AddPicture anchors img at (row, col) and records it for the drawing
// part; the anchor is computed immediately using the worksheet's current
// column widths/row heights; moving/hiding rows or columns after this call
// does not retroactively move an already-placed picture (placement is not
// lazy, matching how the teacher resolves anchors at insert time).
func (ws *Worksheet) AddPicture(row, col int, img *Image) error {
	if err := checkCoord(row, col); err != nil {
		return err
	}
	if img == nil {
		return ErrParameterInvalid
	}
	p := &placedImage{img: img}
	p.anchor = ws.PlaceAnchor(row, col, img.XOffset, img.YOffset, p.widthPx(), p.heightPx(), img.Movement)
	ws.images = append(ws.images, p)
	return nil
}
