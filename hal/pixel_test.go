package hal

import (
	"image/color"
	"testing"
)

func TestPixelBufferSetPixelClips(t *testing.T) {
	b := NewPixelBuffer(4, 3)
	red := color.RGBA{R: 0xff, A: 0xff}

	b.SetPixel(-1, 0, red)
	b.SetPixel(4, 0, red)
	b.SetPixel(0, 3, red)
	for i, v := range b.Pix() {
		if v != 0 {
			t.Fatalf("pix[%d] = %d after out-of-range SetPixel, want 0", i, v)
		}
	}

	b.SetPixel(3, 2, red)
	if got := b.RGBAAt(3, 2); got != red {
		t.Fatalf("RGBAAt(3,2) = %v, want %v", got, red)
	}
}

func TestPixelBufferClear(t *testing.T) {
	b := NewPixelBuffer(5, 5)
	c := color.RGBA{R: 1, G: 2, B: 3, A: 0xff}
	b.Clear(c)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if got := b.RGBAAt(x, y); got != c {
				t.Fatalf("RGBAAt(%d,%d) = %v, want %v", x, y, got, c)
			}
		}
	}
}

func TestPixelBufferFillRectangleClamps(t *testing.T) {
	b := NewPixelBuffer(4, 4)
	c := color.RGBA{G: 0xff, A: 0xff}
	if err := b.FillRectangle(2, 2, 10, 10, c); err != nil {
		t.Fatalf("FillRectangle: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := color.RGBA{A: 0xff}
			if x >= 2 && y >= 2 {
				want = c
			}
			if got := b.RGBAAt(x, y); got != want {
				t.Fatalf("RGBAAt(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestPixelBufferCopyToRequiresSameSize(t *testing.T) {
	a := NewPixelBuffer(2, 2)
	if a.CopyTo(NewPixelBuffer(3, 2)) {
		t.Fatal("CopyTo with different size = true, want false")
	}
	a.SetPixel(1, 1, color.RGBA{B: 9, A: 0xff})
	dst := NewPixelBuffer(2, 2)
	if !a.CopyTo(dst) {
		t.Fatal("CopyTo = false, want true")
	}
	if got := dst.RGBAAt(1, 1).B; got != 9 {
		t.Fatalf("copied B = %d, want 9", got)
	}
}

func TestPixelBufferRGBA(t *testing.T) {
	b := NewPixelBuffer(2, 1)
	b.SetPixel(1, 0, color.RGBA{R: 10, G: 20, B: 30, A: 0xff})
	img := b.RGBA()
	if got := img.RGBAAt(1, 0); got != (color.RGBA{R: 10, G: 20, B: 30, A: 0xff}) {
		t.Fatalf("RGBAAt = %v", got)
	}
	if got := img.RGBAAt(0, 0).A; got != 0xff {
		t.Fatalf("alpha = %d, want 255", got)
	}
}
