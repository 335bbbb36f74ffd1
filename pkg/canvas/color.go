package canvas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor converts a CSS-style color (a named color such as "red", or a
// #rgb / #rrggbb hex string) into RGBA. "transparent" maps to a zero color.
func ParseColor(s string) (color.RGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return color.RGBA{}, fmt.Errorf("empty color")
	}
	if name == "transparent" {
		return color.RGBA{}, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	if strings.HasPrefix(name, "#") {
		hex := name
		if len(hex) == 4 {
			hex = "#" + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2) + strings.Repeat(hex[3:4], 2)
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}

// ColorOr parses s and falls back to def when it cannot be parsed.
func ColorOr(s string, def color.RGBA) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		return def
	}
	return c
}

// FontSize extracts the pixel size from a CSS font shorthand such as
// "12px Arial". It returns def when no size is present.
func FontSize(font string, def float64) float64 {
	for _, field := range strings.Fields(font) {
		if !strings.HasSuffix(field, "px") {
			continue
		}
		if v, err := strconv.ParseFloat(strings.TrimSuffix(field, "px"), 64); err == nil && v > 0 {
			return v
		}
	}
	return def
}
