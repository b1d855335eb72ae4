package spreadsheet

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a color in the workbook's native representation: six upper-case
// hex digits "RRGGBB" without a leading '#' or an alpha byte.
type Color string

// ParseColor converts a CSS-style hex triplet ("#FF0000", "#f00") into the
// native representation.
func ParseColor(css string) (Color, error) {
	css = strings.TrimSpace(css)
	if !strings.HasPrefix(css, "#") {
		css = "#" + css
	}
	c, err := colorful.Hex(css)
	if err != nil {
		return "", fmt.Errorf("parse color %q: %w", css, err)
	}
	r, g, b := c.RGB255()
	return Color(fmt.Sprintf("%02X%02X%02X", r, g, b)), nil
}

// ParseColorPtr is ParseColor for optional input: nil or blank yields nil.
func ParseColorPtr(css *string) (*Color, error) {
	if css == nil || strings.TrimSpace(*css) == "" {
		return nil, nil
	}
	c, err := ParseColor(*css)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// NativeColor normalises a color as read back from a style (which may carry
// an "FF" alpha prefix or a '#') into the native representation. Empty input
// stays empty.
func NativeColor(raw string) Color {
	raw = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
	if len(raw) == 8 {
		raw = raw[2:]
	}
	if len(raw) != 6 {
		return ""
	}
	return Color(raw)
}

// CSS renders the color as "#RRGGBB", or "" for the zero Color.
func (c Color) CSS() string {
	if c == "" {
		return ""
	}
	return "#" + string(c)
}

func (c Color) String() string {
	return c.CSS()
}
