package render

import (
	"bytes"
	"fmt"
	"os/exec"
)

const converterBin = "rsvg-convert"

// ToPDF converts rendered SVG bytes to PDF.
// Requires librsvg (apt install librsvg2-bin, brew install librsvg).
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "pdf", nil)
}

// ToPNG rasterizes rendered SVG bytes to PNG at the given scale factor.
// A scale of 2.0 doubles the pixel density for high-DPI displays; values
// at or below zero fall back to 1.0.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1.0
	}
	return convert(svg, "png", []string{"-z", fmt.Sprintf("%.2f", scale)})
}

// convert pipes the SVG through rsvg-convert.
func convert(svg []byte, format string, extra []string) ([]byte, error) {
	if _, err := exec.LookPath(converterBin); err != nil {
		return nil, fmt.Errorf("%s output needs librsvg (%s not found); install librsvg2-bin (Linux) or librsvg (macOS)", format, converterBin)
	}

	cmd := exec.Command(converterBin, append([]string{"-f", format}, extra...)...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s: %w: %s", converterBin, format, err, stderr.String())
	}
	return out.Bytes(), nil
}
