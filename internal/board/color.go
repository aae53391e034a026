package board

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHex parses #RRGGBB or #RRGGBBAA.
func ParseHex(s string) (color.RGBA, error) {
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("color %q must start with #", s)
	}
	hex := strings.TrimPrefix(s, "#")
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	switch len(hex) {
	case 6:
		return color.RGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	case 8:
		return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
	}
	return color.RGBA{}, fmt.Errorf("color %q: invalid hex length", s)
}

// Validate checks every theme colour.
func (t Theme) Validate() error {
	for _, c := range []string{t.Neutral, t.Highlight, t.Person, t.Label} {
		if _, err := ParseHex(c); err != nil {
			return err
		}
	}
	return nil
}
