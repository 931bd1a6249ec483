package renderer

import (
	"image"
	"time"

	"gonum.org/v1/gonum/stat"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int           // Image width in pixels
	Height          int           // Image height in pixels
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of camera rays traced
	SamplesPerPixel int           // Camera rays per pixel
	NumWorkers      int           // Goroutines that shared the image
	Elapsed         time.Duration // Wall clock time of the render
	Luminance       LuminanceStats
}

// LuminanceStats summarizes the brightness of a finished image
type LuminanceStats struct {
	Mean   float64 // Average Rec. 709 luminance in [0, 1]
	StdDev float64 // Spread of per-pixel luminance; zero for a single pixel
}

// pixelLuminances returns the Rec. 709 luminance of every pixel, scaled to [0, 1]
func pixelLuminances(img *image.RGBA) []float64 {
	bounds := img.Bounds()
	values := make([]float64, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			r := float64(c.R) / 255.0
			g := float64(c.G) / 255.0
			b := float64(c.B) / 255.0
			values = append(values, 0.2126*r+0.7152*g+0.0722*b)
		}
	}
	return values
}

// CalculateAverageLuminance calculates the average luminance of an image
func CalculateAverageLuminance(img *image.RGBA) float64 {
	values := pixelLuminances(img)
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// CalculateLuminanceStats returns the mean and standard deviation of pixel luminance
func CalculateLuminanceStats(img *image.RGBA) LuminanceStats {
	values := pixelLuminances(img)
	switch len(values) {
	case 0:
		return LuminanceStats{}
	case 1:
		return LuminanceStats{Mean: values[0]}
	}
	mean, std := stat.MeanStdDev(values, nil)
	return LuminanceStats{Mean: mean, StdDev: std}
}
