package image2bit

import (
	"image"
	"image/color"

	"github.com/flavioheleno/twobit"
)

// Gray2 represents a 2-bit grayscale color (4 intensity levels).
// Only the lower 2 bits of Y are used by RGBA; Packed clamps larger values to 3.
type Gray2 struct {
	Y uint8
}

// RGBA converts the Gray2 color to standard RGBA.
func (c Gray2) RGBA() (r, g, b, a uint32) {
	// 0x3 * 0x5555 = 0xFFFF, 0x1 * 0x5555 = 0x5555
	y := uint32(c.Y&0x03) * 0x5555
	return y, y, y, 0xFFFF
}

// toGray2 converts any color.Color to Gray2.
func toGray2(c color.Color) color.Color {
	if g, ok := c.(Gray2); ok {
		return g
	}
	r, g, b, _ := c.RGBA()
	// 0.299R + 0.587G + 0.114B on 16-bit channels
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Gray2{Y: uint8(y >> 14)}
}

// Gray2Model converts colors to Gray2.
var Gray2Model = color.ModelFunc(toGray2)

// Packed is a 2-bit grayscale image whose pixels live in a twobit.Buffer.
type Packed struct {
	Buf    *twobit.Buffer  // Pixel data (4 pixels per byte)
	Stride int             // Pixels per row
	Rect   image.Rectangle // Image bounds
}

// NewPacked creates a zeroed image with the given bounds.
func NewPacked(r image.Rectangle) *Packed {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Packed{Buf: twobit.New(0), Rect: r}
	}
	return &Packed{
		Buf:    twobit.New(w * h),
		Stride: w,
		Rect:   r,
	}
}

// NewPackedFromStorage creates an image over units, typically received from a
// transport. units must hold at least twobit.StorageLen(r.Dx()*r.Dy()) bytes.
func NewPackedFromStorage(r image.Rectangle, units []byte) *Packed {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Packed{Buf: twobit.NewFromStorage(0, units), Rect: r}
	}
	return &Packed{
		Buf:    twobit.NewFromStorage(w*h, units),
		Stride: w,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *Packed) ColorModel() color.Model {
	return Gray2Model
}

// Bounds returns the image bounds.
func (p *Packed) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *Packed) At(x, y int) color.Color {
	return p.Gray2At(x, y)
}

// Gray2At returns the Gray2 color of the pixel at (x, y).
// Pixels outside the bounds, or past the end of adopted storage, read as zero.
func (p *Packed) Gray2At(x, y int) Gray2 {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Gray2{}
	}
	v, err := p.Buf.Get(p.PixOffset(x, y))
	if err != nil {
		return Gray2{}
	}
	return Gray2{Y: uint8(v)}
}

// Set sets the color of the pixel at (x, y).
func (p *Packed) Set(x, y int, c color.Color) {
	p.SetGray2(x, y, Gray2Model.Convert(c).(Gray2))
}

// SetGray2 sets the Gray2 color of the pixel at (x, y).
// This is faster than Set() as it doesn't require color conversion.
func (p *Packed) SetGray2(x, y int, c Gray2) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	// In-bounds offsets are always < Len, so only short adopted storage can fail.
	_ = p.Buf.Set(p.PixOffset(x, y), int(c.Y))
}

// PixOffset returns the logical buffer index of the pixel at (x, y).
func (p *Packed) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}

// Pix returns the packed storage, shared with the image.
func (p *Packed) Pix() []byte {
	return p.Buf.Storage()
}
