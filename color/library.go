// Package color implements named palette lookup and brightness modifiers.
package color

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"

	"sitec/keys"
	"sitec/tree"
)

// RGB is an opaque color with 8 bit channels.
type RGB struct {
	R, G, B uint8
}

// Hex returns #rrggbb form.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// fallback names known without any palette.
var fallback = map[string]struct{}{
	"magenta": {}, "cyan": {}, "yellow": {}, "red": {}, "green": {},
	"lime": {}, "blue": {}, "black": {}, "white": {},
}

// Library is an immutable palette: name to one color or to an ordered list of
// shades addressed as name_N (1 based).
type Library struct {
	entries map[string][]string
	order   []string
}

// NewLibrary builds palette from colors configuration. Values are either
// strings or arrays of strings, anything else is ignored.
func NewLibrary(cfg *tree.Node) *Library {
	l := &Library{entries: make(map[string][]string)}
	for k, v := range cfg.Pairs() {
		var shades []string
		switch {
		case v.IsString():
			shades = []string{v.Str()}
		case v.IsArray():
			for _, it := range v.Items() {
				shades = append(shades, it.Text())
			}
		default:
			continue
		}
		name := strings.ToLower(k)
		if _, exists := l.entries[name]; !exists {
			l.order = append(l.order, name)
		}
		l.entries[name] = shades
	}
	return l
}

// Names returns palette names in definition order.
func (l *Library) Names() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.order...)
}

// Shades returns raw values stored under name.
func (l *Library) Shades(name string) []string {
	if l == nil {
		return nil
	}
	return l.entries[strings.ToLower(name)]
}

func (l *Library) empty() bool {
	return l == nil || len(l.entries) == 0
}

// Lookup converts color reference to RGB. Order: hex or short hex, name_N
// palette shade, plain palette name, small table of well known names.
func (l *Library) Lookup(name string) (RGB, bool) {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimPrefix(s, "#")

	if c, ok := parseHex(s); ok {
		return c, true
	}

	if !l.empty() {
		if i := strings.LastIndexByte(s, '_'); i >= 0 && keys.IsDigits(s[i+1:]) {
			n, _ := strconv.Atoi(s[i+1:])
			if shades, ok := l.entries[s[:i]]; ok && n >= 1 && n <= len(shades) {
				if c, ok := parseEntry(shades[n-1]); ok {
					return c, true
				}
			}
		}
		if shades, ok := l.entries[s]; ok && len(shades) > 0 {
			if c, ok := parseEntry(shades[0]); ok {
				return c, true
			}
		}
	}

	if _, ok := fallback[s]; ok {
		return parseCSS(s)
	}
	return RGB{}, false
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

func parseHex(s string) (RGB, bool) {
	s = strings.ToLower(s)
	if (len(s) != 6 && len(s) != 3) || !isHex(s) {
		return RGB{}, false
	}
	return parseCSS("#" + s)
}

// parseEntry accepts palette values: hex with or without '#', or any CSS
// color syntax.
func parseEntry(v string) (RGB, bool) {
	v = strings.TrimSpace(v)
	if c, ok := parseHex(strings.TrimPrefix(v, "#")); ok {
		return c, true
	}
	return parseCSS(v)
}

func parseCSS(v string) (RGB, bool) {
	c, err := csscolorparser.Parse(v)
	if err != nil {
		return RGB{}, false
	}
	r, g, b, _ := c.RGBA255()
	return RGB{R: r, G: g, B: b}, true
}
