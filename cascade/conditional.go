package cascade

import (
	"strings"

	"sitec/css"
	"sitec/tree"
)

// mediaValues picks device column of "prop: desktop, tablet, mobile" items.
func mediaValues(r *css.Rule, items *tree.Node, device int) {
	for _, it := range items.Items() {
		name, vals, ok := strings.Cut(it.Str(), ":")
		if !ok {
			continue
		}
		parts := strings.Split(vals, ",")
		if device >= len(parts) {
			continue
		}
		r.Add(property(strings.TrimSpace(name)), strings.TrimSpace(parts[device]), true)
	}
}

// devicesIn returns largest number of per device values among media items.
func devicesIn(items *tree.Node) int {
	n := 0
	for _, it := range items.Items() {
		if _, vals, ok := strings.Cut(it.Str(), ":"); ok {
			n = max(n, len(strings.Split(vals, ",")))
		}
	}
	return n
}

// conditional emits if.json styles: every "a.b.name" condition styles
// .content-name with desktop values of media lists.
func (g *Generator) conditional(s *css.Stylesheet) {
	for _, cfg := range g.cfg.If.Pairs() {
		for _, cond := range cfg.Get("if").Items() {
			parts := strings.Split(cond.Str(), ".")
			if len(parts) < 2 {
				continue
			}
			sel := ".content-" + parts[len(parts)-1]
			for prop, v := range cfg.Pairs() {
				if prop == "if" || !v.IsObject() {
					continue
				}
				if media := v.Get("media"); media.Len() > 0 {
					mediaValues(s.Rule(sel), media, 0)
				}
			}
		}
	}
}

// filtered emits filter.json styles: every "a.b" filter gives class "a-b"
// with general list, media lists split by device and theme static and
// hover lists.
func (g *Generator) filtered(s *css.Stylesheet) {
	for _, cfg := range g.cfg.Filter.Pairs() {
		for _, cond := range cfg.Get("filter").Items() {
			sel := "." + strings.ReplaceAll(cond.Str(), ".", "-")

			g.emit.rule(s, sel, cfg.Get("general"), "")

			if media := cfg.Get("media"); media.Len() > 0 {
				mediaValues(s.Rule(sel), media, 0)
				n := devicesIn(media)
				for i, bp := range []string{g.devices.Tablet, g.devices.Mobile} {
					if n > i+1 {
						mediaValues(s.Media(maxWidth(bp)).Rule(sel), media, i+1)
					}
				}
			}

			for _, theme := range []string{"theme_light", "theme_dark"} {
				t := cfg.Get(theme)
				g.emit.rule(s, sel, t.Get("static"), "")
				g.emit.rule(s, sel+":hover", t.Get("hover"), "")
			}
		}
	}
}
