// Package value turns raw configuration values into final CSS values.
package value

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"sitec/color"
	"sitec/keys"
	"sitec/tree"
)

// Separator joins several declarations produced from one value. Callers split
// on it.
const Separator = " | "

// Units recognized in [value, unit] pairs.
var Units = []string{"px", "vh", "vw", "%", "em", "rem", "pt", "pc", "in", "cm", "mm", "ex", "ch"}

// Resolver resolves references against a style configuration using an
// immutable palette. Resolution never fails: unresolvable input is returned
// unchanged.
type Resolver struct {
	Colors *color.Library
}

func New(colors *color.Library) *Resolver {
	return &Resolver{Colors: colors}
}

// Resolve converts value into CSS text. Section names the part of the style
// configuration being processed, it is accepted for relative lookups.
func (r *Resolver) Resolve(v *tree.Node, cfg *tree.Node, section string) string {
	switch {
	case v.IsArray():
		return r.resolveArray(v, cfg, section)
	case v.IsString():
		s := v.Str()
		if strings.Contains(s, ".") || strings.HasPrefix(s, "#") {
			return r.Reference(s, cfg, section)
		}
		return s
	}
	return v.Text()
}

// ResolveString is Resolve for plain strings.
func (r *Resolver) ResolveString(s string, cfg *tree.Node, section string) string {
	return r.Resolve(tree.NewString(s), cfg, section)
}

func (r *Resolver) resolveArray(v *tree.Node, cfg *tree.Node, section string) string {
	switch v.Len() {
	case 4:
		return v.TextAt(0) + strings.Trim(v.TextAt(3), `'"`)

	case 3:
		style, sides := v.TextAt(0), v.TextAt(1)
		col := r.Reference(v.TextAt(2), cfg, section)
		flags := strings.Fields(sides)
		if len(flags) != 4 {
			return style + " " + col
		}
		var borders []string
		for i, side := range []string{"top", "right", "bottom", "left"} {
			if flags[i] == "1" {
				borders = append(borders, fmt.Sprintf("border-%s: %s %s", side, style, col))
			}
		}
		if len(borders) == 0 {
			return fmt.Sprintf("border: %s %s", style, col)
		}
		return strings.Join(borders, Separator)

	case 2:
		first := v.TextAt(0)
		if strings.ToLower(first) == "transparent" {
			return "transparent"
		}
		isNumber := v.At(1).IsNumber()
		second := v.TextAt(1)

		switch {
		case !isNumber && (strings.Contains(second, ".") || strings.HasPrefix(second, "#")):
			return first + " " + r.Reference(second, cfg, section)

		case !isNumber && slices.Contains(Units, second):
			if !strings.Contains(first, " ") {
				return first + second
			}
			parts := strings.Fields(first)
			for i, p := range parts {
				if strings.ToLower(p) == "auto" {
					parts[i] = "auto"
				} else {
					parts[i] = p + second
				}
			}
			return strings.Join(parts, " ")

		case isNumber || keys.IsDigits(second):
			opacity, ok := v.At(1).Int()
			if !isNumber {
				opacity, _ = strconv.Atoi(second)
				ok = true
			}
			if ok && opacity >= 0 && opacity <= 100 && !strings.Contains(first, " ") && !slices.Contains(Units, first) {
				if c, found := r.Colors.Lookup(first); found {
					return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, formatAlpha(float64(opacity)/100.0))
				}
			}
			return first + " " + second
		}
		return first + " " + second
	}
	return v.String()
}

// Reference resolves "section.property[.modifier...]" or
// "color[.modifier...]". Hex colors are returned unchanged.
func (r *Resolver) Reference(ref string, cfg *tree.Node, _ string) string {
	if strings.HasPrefix(ref, "#") {
		return ref
	}
	parts := strings.Split(ref, ".")
	if len(parts) < 2 {
		return ref
	}
	sectionName, property, modifiers := parts[0], parts[1], parts[2:]

	if !cfg.Has(sectionName) {
		if _, ok := r.Colors.Lookup(sectionName); !ok {
			return ref
		}
		result := sectionName
		for _, m := range append([]string{property}, modifiers...) {
			result = r.Colors.ApplyModifier(result, m)
		}
		return result
	}

	sectionCfg := cfg.Get(sectionName)
	if !sectionCfg.IsObject() || !sectionCfg.Has(property) {
		return ref
	}
	base := sectionCfg.Get(property)
	if base.IsArray() {
		base = base.At(0)
	}
	result := base.Text()
	for _, m := range modifiers {
		result = r.Colors.ApplyModifier(result, m)
	}
	return result
}

// formatAlpha prints fraction the way rgba() values are written in generated
// styles: always with a fractional part.
func formatAlpha(a float64) string {
	s := strconv.FormatFloat(a, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
