package css

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// WithAlpha rewrites color so it is drawn at the given alpha. Hex colors are
// expanded to rgb(); anything else is mixed with transparent.
func WithAlpha(color, alpha string) string {
	color = strings.TrimSpace(color)
	if c, ok := parseHex(color); ok {
		r, g, b := c.RGB255()
		return fmt.Sprintf("rgb(%d %d %d / %s)", r, g, b, alpha)
	}
	return fmt.Sprintf("color-mix(in srgb, %s %s, transparent)", color, percent(alpha))
}

// parseHex accepts only #rgb and #rrggbb; colorful.Hex would silently drop
// the alpha channel of longer forms.
func parseHex(s string) (colorful.Color, bool) {
	if len(s) != 4 && len(s) != 7 {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

func percent(alpha string) string {
	f, err := strconv.ParseFloat(alpha, 64)
	if err != nil {
		return "calc(" + alpha + " * 100%)"
	}
	return strconv.FormatFloat(f*100, 'f', -1, 64) + "%"
}
