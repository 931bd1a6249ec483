package renderer

import (
	"image/color"
	"testing"
)

func TestNewFramebuffer_OpaqueBlack(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	if fb.Width() != 3 || fb.Height() != 2 {
		t.Fatalf("Expected 3x2, got %dx%d", fb.Width(), fb.Height())
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if c := fb.Image().RGBAAt(x, y); c != (color.RGBA{A: 255}) {
				t.Errorf("Pixel (%d,%d): expected opaque black, got %v", x, y, c)
			}
		}
	}
}

func TestFramebuffer_StripeCoversEveryRowOnce(t *testing.T) {
	const height = 10
	fb := NewFramebuffer(4, height)

	for _, numWorkers := range []int{1, 3, 4, 10, 16} {
		owner := make(map[int]int)
		for worker := 0; worker < numWorkers; worker++ {
			for _, line := range fb.Stripe(worker, numWorkers) {
				if prev, ok := owner[line.Y]; ok {
					t.Errorf("n=%d: row %d owned by workers %d and %d", numWorkers, line.Y, prev, worker)
				}
				if line.Y%numWorkers != worker {
					t.Errorf("n=%d: row %d assigned to worker %d", numWorkers, line.Y, worker)
				}
				owner[line.Y] = worker
			}
		}
		if len(owner) != height {
			t.Errorf("n=%d: expected %d rows covered, got %d", numWorkers, height, len(owner))
		}
	}
}

func TestScanline_SetWritesOwnRow(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	line := fb.Scanline(1)

	if line.Width() != 4 {
		t.Fatalf("Expected width 4, got %d", line.Width())
	}
	if cap(line.pix) != len(line.pix) {
		t.Errorf("Scanline capacity %d extends past its row of %d bytes", cap(line.pix), len(line.pix))
	}

	red := color.RGBA{R: 255, A: 255}
	line.Set(2, red)

	if got := line.At(2); got != red {
		t.Errorf("Expected %v from At, got %v", red, got)
	}
	if got := fb.Image().RGBAAt(2, 1); got != red {
		t.Errorf("Expected image pixel (2,1) to be %v, got %v", red, got)
	}
	for _, y := range []int{0, 2} {
		if got := fb.Image().RGBAAt(2, y); got != (color.RGBA{A: 255}) {
			t.Errorf("Neighbouring row %d was modified: %v", y, got)
		}
	}
}
