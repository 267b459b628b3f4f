package color

import (
	"math"
	"regexp"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	reBrightness = regexp.MustCompile(`^\d+$`)
	reLegacy     = regexp.MustCompile(`^(\w+)-([\d.]+)$`)
)

// ApplyModifier applies single brightness modifier to the color value.
//
// Integer modifier N: 100 keeps color, below 100 lightens by (100-N)%, above
// 100 darkens by (N-100)%. Legacy darker-X and lighter-X take a fraction, or
// a percentage when X >= 1. Unknown colors and modifiers return value as is.
func (l *Library) ApplyModifier(value, modifier string) string {
	if reBrightness.MatchString(modifier) {
		brightness, err := strconv.Atoi(modifier)
		if err != nil {
			return value
		}
		c, ok := l.Lookup(value)
		if !ok {
			return value
		}
		switch {
		case brightness < 100:
			c = Lighten(c, float64(100-brightness)/100.0)
		case brightness > 100:
			c = Darken(c, float64(brightness-100)/100.0)
		}
		return c.Hex()
	}

	m := reLegacy.FindStringSubmatch(modifier)
	if m == nil {
		return value
	}
	amount, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return value
	}
	if amount >= 1.0 {
		amount /= 100.0
	}
	amount = math.Max(0, math.Min(1, amount))

	c, ok := l.Lookup(value)
	if !ok {
		return value
	}
	switch m[1] {
	case "darker":
		c = Darken(c, amount)
	case "lighter":
		c = Lighten(c, amount)
	default:
		return value
	}
	return c.Hex()
}

// Lighten moves HSL lightness toward 1 by factor of remaining distance.
func Lighten(c RGB, factor float64) RGB {
	h, s, l := toColorful(c).Hsl()
	l = math.Min(1.0, l+(1.0-l)*factor)
	return fromColorful(colorful.Hsl(h, s, l))
}

// Darken scales HSL lightness down by factor, never below 0.
func Darken(c RGB, factor float64) RGB {
	h, s, l := toColorful(c).Hsl()
	l = math.Max(0.0, l*(1.0-factor))
	return fromColorful(colorful.Hsl(h, s, l))
}

// Lightness returns HSL lightness in [0, 1].
func Lightness(c RGB) float64 {
	_, _, l := toColorful(c).Hsl()
	return l
}

func toColorful(c RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255.0, G: float64(c.G) / 255.0, B: float64(c.B) / 255.0}
}

// fromColorful truncates channels toward zero.
func fromColorful(c colorful.Color) RGB {
	return RGB{R: channel(c.R), G: channel(c.G), B: channel(c.B)}
}

func channel(v float64) uint8 {
	x := int(v * 255)
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}
