package hal

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
)

// PixelBuffer is a fixed-size RGB888 frame.
//
// It implements drivers.Displayer so tinyfont and other TinyGo drawing code
// can target it, and image.Image so frames can be encoded or inspected.
// A PixelBuffer is not safe for concurrent use.
type PixelBuffer struct {
	width  int
	height int
	stride int
	pix    []byte
}

var (
	_ drivers.Displayer = (*PixelBuffer)(nil)
	_ image.Image       = (*PixelBuffer)(nil)
)

// NewPixelBuffer allocates a black buffer. Dimensions must be positive.
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width <= 0 || height <= 0 {
		panic("hal: invalid pixel buffer dimensions")
	}
	stride := width * 3
	return &PixelBuffer{
		width:  width,
		height: height,
		stride: stride,
		pix:    make([]byte, stride*height),
	}
}

func (b *PixelBuffer) Width() int     { return b.width }
func (b *PixelBuffer) Height() int    { return b.height }
func (b *PixelBuffer) Pix() []byte    { return b.pix }
func (b *PixelBuffer) Display() error { return nil }

func (b *PixelBuffer) Size() (x, y int16) {
	return int16(b.width), int16(b.height)
}

func (b *PixelBuffer) SetPixel(x, y int16, c color.RGBA) {
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= b.width || iy < 0 || iy >= b.height {
		return
	}
	off := iy*b.stride + ix*3
	b.pix[off] = c.R
	b.pix[off+1] = c.G
	b.pix[off+2] = c.B
}

// RGBAAt returns the pixel at (x, y), or transparent black outside the frame.
func (b *PixelBuffer) RGBAAt(x, y int) color.RGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.RGBA{}
	}
	off := y*b.stride + x*3
	return color.RGBA{R: b.pix[off], G: b.pix[off+1], B: b.pix[off+2], A: 0xff}
}

func (b *PixelBuffer) ColorModel() color.Model { return color.RGBAModel }
func (b *PixelBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }
func (b *PixelBuffer) At(x, y int) color.Color { return b.RGBAAt(x, y) }

func (b *PixelBuffer) Clear(c color.RGBA) {
	if len(b.pix) < 3 {
		return
	}
	b.pix[0], b.pix[1], b.pix[2] = c.R, c.G, c.B
	for filled := 3; filled < len(b.pix); filled *= 2 {
		copy(b.pix[filled:], b.pix[:filled])
	}
}

func (b *PixelBuffer) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	x0 := clampInt(int(x), 0, b.width)
	y0 := clampInt(int(y), 0, b.height)
	x1 := clampInt(int(x)+int(width), 0, b.width)
	y1 := clampInt(int(y)+int(height), 0, b.height)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}
	for py := y0; py < y1; py++ {
		row := py * b.stride
		for px := x0; px < x1; px++ {
			off := row + px*3
			b.pix[off] = c.R
			b.pix[off+1] = c.G
			b.pix[off+2] = c.B
		}
	}
	return nil
}

// CopyTo copies the frame into dst, which must have the same dimensions.
func (b *PixelBuffer) CopyTo(dst *PixelBuffer) bool {
	if dst == nil || dst.width != b.width || dst.height != b.height {
		return false
	}
	copy(dst.pix, b.pix)
	return true
}

// RGBA converts the frame into an opaque image.RGBA.
func (b *PixelBuffer) RGBA() *image.RGBA {
	img := image.NewRGBA(b.Bounds())
	b.writeRGBA(img.Pix)
	return img
}

func (b *PixelBuffer) writeRGBA(dst []byte) {
	for i, j := 0, 0; i+2 < len(b.pix) && j+3 < len(dst); i, j = i+3, j+4 {
		dst[j+0] = b.pix[i]
		dst[j+1] = b.pix[i+1]
		dst[j+2] = b.pix[i+2]
		dst[j+3] = 0xff
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
