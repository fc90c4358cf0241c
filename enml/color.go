package enml

import (
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"e2n/notion"
)

// Inline style color extraction. Only rgb(r,g,b) and #rrggbb forms are
// recognized; the RGB value is then bucketed into one of eight named colors
// or default. The thresholds below are a coarse heuristic inherited from
// the pipeline this engine replaces - downstream output depends on them, so
// they are reproduced as-is rather than replaced with a perceptual metric.

// colorFromStyle parses an inline style attribute and returns the bucketed
// color of its "color" declaration. ok is false when the attribute has no
// parseable color - callers then keep the inherited value.
func colorFromStyle(style string) (notion.Color, bool) {
	if len(style) == 0 {
		return "", false
	}

	p := css.NewParser(parse.NewInputString(style), true)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			return "", false
		case css.DeclarationGrammar:
			if !strings.EqualFold(string(data), "color") {
				continue
			}
			if c, ok := parseColorValue(p.Values()); ok {
				return c, true
			}
		}
	}
}

func parseColorValue(tokens []css.Token) (notion.Color, bool) {
	var sb strings.Builder
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			sb.Write(t.Data)
		}
	}
	raw := sb.String()

	if r, g, b, ok := parseRGBFunc(raw); ok {
		return bucketColor(r, g, b), true
	}
	if r, g, b, ok := parseHexColor(raw); ok {
		return bucketColor(r, g, b), true
	}
	return "", false
}

// parseRGBFunc parses "rgb(r,g,b)" with integer components.
func parseRGBFunc(raw string) (r, g, b int, ok bool) {
	if len(raw) < 5 || !strings.EqualFold(raw[:4], "rgb(") || raw[len(raw)-1] != ')' {
		return 0, 0, 0, false
	}
	parts := strings.Split(raw[4:len(raw)-1], ",")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	vals := make([]int, 3)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, 0, 0, false
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], true
}

// parseHexColor parses "#rrggbb".
func parseHexColor(raw string) (r, g, b int, ok bool) {
	if len(raw) != 7 || raw[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(raw[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

// bucketColor maps an RGB value to the named palette. Buckets are probed in
// this exact order; values matching none fall through to default.
func bucketColor(r, g, b int) notion.Color {
	switch {
	case r > 200 && g < 100 && b < 100:
		return notion.ColorRed
	case r > 200 && g > 150 && b < 100:
		return notion.ColorOrange
	case r > 200 && g > 200 && b < 100:
		return notion.ColorYellow
	case r < 100 && g > 200 && b < 100:
		return notion.ColorGreen
	case r < 100 && g < 100 && b > 200:
		return notion.ColorBlue
	case r > 150 && g < 100 && b > 150:
		return notion.ColorPurple
	case r > 200 && g < 150 && b > 150:
		return notion.ColorPink
	case r < 150 && g < 150 && b < 150:
		return notion.ColorGray
	}
	return notion.ColorDefault
}
