package output

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format names an image file encoding
type Format string

const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat accepts ppm, png, jpg or jpeg in any case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "ppm":
		return FormatPPM, nil
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: ppm, png, jpg/jpeg)", s)
	}
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("output file %q has no extension", path)
	}
	return ParseFormat(ext)
}

// Extension returns the file extension, without the dot
func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// EncodePPM writes img as a plain-text P3 PPM: a header, then one
// "R G B" line per pixel, row-major from the top-left
func EncodePPM(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B)
		}
	}

	// bufio errors are sticky, so Flush reports any failed write above
	return bw.Flush()
}

// EncodePNG writes img as PNG
func EncodePNG(w io.Writer, img *image.RGBA) error {
	return png.Encode(w, img)
}

// EncodeJPEG writes img as JPEG at quality 90
func EncodeJPEG(w io.Writer, img *image.RGBA) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img *image.RGBA, format Format) error {
	switch format {
	case FormatPPM:
		return EncodePPM(w, img)
	case FormatPNG:
		return EncodePNG(w, img)
	case FormatJPEG:
		return EncodeJPEG(w, img)
	default:
		return fmt.Errorf("unsupported format %q", string(format))
	}
}

// Save creates path, including missing parent directories, and encodes img into it
func Save(path string, img *image.RGBA, format Format) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing %s: %w", path, closeErr)
		}
	}()

	if err := Encode(file, img, format); err != nil {
		return fmt.Errorf("error saving %s: %w", strings.ToUpper(string(format)), err)
	}
	return nil
}

// SavePNG writes img to path as PNG
func SavePNG(path string, img *image.RGBA) error {
	return Save(path, img, FormatPNG)
}

// TimestampedPath returns output/<scene>/render_<timestamp>.<ext>
func TimestampedPath(sceneName, timestamp string, format Format) string {
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.%s", timestamp, format.Extension()))
}
