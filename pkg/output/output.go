// Package output encodes rendered images to the supported file formats.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned for an output format with no encoder
var ErrUnknownFormat = errors.New("unknown image format")

// Formats lists the accepted format names
var Formats = []string{"png", "bmp", "tiff", "ppm"}

// FormatFromPath derives the format name from a file extension
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return normalizeFormat(ext)
}

func normalizeFormat(format string) (string, error) {
	switch strings.ToLower(format) {
	case "png":
		return "png", nil
	case "bmp":
		return "bmp", nil
	case "tif", "tiff":
		return "tiff", nil
	case "ppm":
		return "ppm", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ContentType returns the MIME type for a format name
func ContentType(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	case "ppm":
		return "image/x-portable-pixmap"
	}
	return "application/octet-stream"
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format string) error {
	format, err := normalizeFormat(format)
	if err != nil {
		return err
	}

	switch format {
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return EncodePPM(w, img)
	}
}

// EncodePPM writes img as a binary (P6) portable pixmap
func EncodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d 255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	row := make([]byte, 0, 3*bounds.Dx())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row = row[:0]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			row = append(row, byte(r>>8), byte(g>>8), byte(b>>8))
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes img to path, choosing the encoder from the file extension.
// Missing parent directories are created.
func Save(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	if err := Encode(file, img, format); err != nil {
		file.Close()
		return fmt.Errorf("error encoding %s: %w", format, err)
	}
	return file.Close()
}
