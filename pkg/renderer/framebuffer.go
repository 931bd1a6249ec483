package renderer

import (
	"image"
	"image/color"
)

// Framebuffer is a row-major 8-bit RGBA pixel store. Rendering code never
// touches it directly; it receives Scanline views of the rows it owns.
type Framebuffer struct {
	img *image.RGBA
}

// NewFramebuffer allocates an opaque black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return &Framebuffer{img: img}
}

// Width returns the number of columns
func (fb *Framebuffer) Width() int {
	return fb.img.Rect.Dx()
}

// Height returns the number of rows
func (fb *Framebuffer) Height() int {
	return fb.img.Rect.Dy()
}

// Scanline returns the view of row y, row 0 being the top of the image
func (fb *Framebuffer) Scanline(y int) Scanline {
	start := y * fb.img.Stride
	end := start + 4*fb.Width()
	// Cap the slice at the row end so a view can never reach its neighbour
	return Scanline{Y: y, pix: fb.img.Pix[start:end:end]}
}

// Stripe returns the rows owned by worker out of numWorkers:
// every row y with y % numWorkers == worker, top to bottom
func (fb *Framebuffer) Stripe(worker, numWorkers int) []Scanline {
	var lines []Scanline
	for y := worker; y < fb.Height(); y += numWorkers {
		lines = append(lines, fb.Scanline(y))
	}
	return lines
}

// Image exposes the finished pixels. Only call it after rendering has joined.
func (fb *Framebuffer) Image() *image.RGBA {
	return fb.img
}

// Scanline is an exclusive, writable view of one framebuffer row
type Scanline struct {
	Y   int
	pix []uint8
}

// Width returns the number of pixels in the row
func (s Scanline) Width() int {
	return len(s.pix) / 4
}

// Set stores the pixel in column x
func (s Scanline) Set(x int, c color.RGBA) {
	p := s.pix[4*x : 4*x+4 : 4*x+4]
	p[0] = c.R
	p[1] = c.G
	p[2] = c.B
	p[3] = c.A
}

// At returns the pixel in column x
func (s Scanline) At(x int) color.RGBA {
	p := s.pix[4*x : 4*x+4 : 4*x+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}
