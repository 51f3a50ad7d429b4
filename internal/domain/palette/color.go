// Package palette parses CSS color strings and maps terrain categories to colors.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

var ErrInvalidColor = errors.New("invalid color")

// Parse accepts #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(), rgba(), "transparent"
// and named colors.
func Parse(s string) (color.NRGBA, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	switch {
	case in == "":
		return color.NRGBA{}, fmt.Errorf("%w: empty", ErrInvalidColor)
	case in == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(in, "#"):
		return parseHex(in)
	case strings.HasPrefix(in, "rgb"):
		return parseFunctional(in)
	}
	c := tcell.GetColor(in)
	if c == tcell.ColorDefault || !c.Valid() {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	r, g, b := c.RGB()
	if r < 0 || g < 0 || b < 0 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}, nil
}

// ParseOr returns fallback when s does not parse.
func ParseOr(s string, fallback color.NRGBA) color.NRGBA {
	c, err := Parse(s)
	if err != nil {
		return fallback
	}
	return c
}

func MustParse(s string) color.NRGBA {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(in string) (color.NRGBA, error) {
	alpha := uint8(255)
	rgb := in
	switch len(in) {
	case 4, 7:
	case 5:
		a, err := strconv.ParseUint(in[4:5], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, in)
		}
		alpha = uint8(a * 17)
		rgb = in[:4]
	case 9:
		a, err := strconv.ParseUint(in[7:9], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, in)
		}
		alpha = uint8(a)
		rgb = in[:7]
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, in)
	}
	c, err := colorful.Hex(rgb)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, in)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

func parseFunctional(in string) (color.NRGBA, error) {
	open := strings.IndexByte(in, '(')
	if open < 0 || !strings.HasSuffix(in, ")") {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, in)
	}
	name := in[:open]
	if name != "rgb" && name != "rgba" {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, in)
	}
	args := splitArgs(in[open+1 : len(in)-1])
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, in)
	}
	var out color.NRGBA
	channels := []*uint8{&out.R, &out.G, &out.B}
	for i, ch := range channels {
		v, err := parseChannel(args[i])
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, in)
		}
		*ch = v
	}
	out.A = 255
	if len(args) == 4 {
		a, err := parseAlpha(args[3])
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, in)
		}
		out.A = a
	}
	return out, nil
}

// splitArgs handles both "r, g, b, a" and "r g b / a".
func splitArgs(body string) []string {
	if strings.Contains(body, ",") {
		parts := strings.Split(body, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return strings.Fields(strings.ReplaceAll(body, "/", " "))
}

func parseChannel(s string) (uint8, error) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, err
		}
		return clampByte(f * 255 / 100), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return clampByte(f), nil
}

func parseAlpha(s string) (uint8, error) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, err
		}
		return clampByte(f * 255 / 100), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return clampByte(f * 255), nil
}

func clampByte(f float64) uint8 {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(math.Round(f))
}
