package cascade

import (
	"strings"

	"sitec/css"
	"sitec/tree"
)

// structural maps general config sections to their selectors.
var structural = []struct{ key, selector string }{
	{"column", ".column"},
	{"row", ".row"},
	{"group", ".group"},
	{"wrapper_content", ".marking-item"},
	{"menu", ".menu"},
	{"nav", "nav"},
	{"nav", ".menu"},
}

// colKeys all style [class^='col_'] columns.
var colKeys = []string{"&", "col_in_row", "col"}

// general emits global styles: html, page, sections, structural classes,
// tags and dotted class paths.
func (g *Generator) general(s *css.Stylesheet) {
	gen := g.cfg.General
	e := g.emit

	e.rule(s, "html", gen.Get("html"), "html", "device")

	if page := gen.Get("page"); page.IsObject() {
		if props := page.Without("device"); props.Len() > 0 {
			e.block(s, "body", props, "page", &g.devices)
		}
	} else {
		e.rule(s, "body", page, "page")
	}

	e.rule(s, "section", gen.Get("section"), "section", "device", "bg-color")
	e.rule(s, ".column", gen.Get("layout"), "layout", "device", "column")
	for _, st := range structural {
		e.rule(s, st.selector, gen.Get(st.key), st.key)
	}

	if g.cfg.Tag.Len() > 0 {
		s.Comment(MarkerTags)
		for name, cfg := range g.cfg.Tag.Pairs() {
			g.tag(s, name, cfg)
		}
	}

	for _, k := range colKeys {
		e.rule(s, "[class^='col_']", gen.Get(k), k)
	}

	for key, cfg := range gen.Pairs() {
		if strings.Contains(key, ".") && cfg.IsObject() {
			e.rule(s, "."+strings.ReplaceAll(key, ".", " ."), cfg, key)
		}
	}
}

// tag emits one tag.json entry: base properties (responsive values allowed)
// plus explicit desktop, tablet and mobile mappings.
func (g *Generator) tag(s *css.Stylesheet, name string, cfg *tree.Node) {
	sel := tagSelector(name)
	if !cfg.IsObject() {
		g.emit.rule(s, sel, cfg, name)
		return
	}
	if base := cfg.Without(deviceNames[:]...); base.Len() > 0 {
		if hasTriples(base) {
			g.emit.block(s, sel, base, name, &g.devices)
		} else {
			g.emit.rule(s, sel, base, name)
		}
	}
	g.emit.rule(s, sel, cfg.Get("desktop"), name)
	for _, m := range []struct {
		device, bp string
	}{{"tablet", g.devices.Tablet}, {"mobile", g.devices.Mobile}} {
		props := cfg.Get(m.device)
		if props.Len() == 0 {
			continue
		}
		part := &css.Stylesheet{}
		if g.emit.rule(part, sel, props, name) {
			mb := s.Media(maxWidth(m.bp))
			mb.Rules = append(mb.Rules, part.Rules()...)
		}
	}
}

// tagSelector keeps known tags and combinator selectors, anything else is
// a class name.
func tagSelector(name string) string {
	switch name {
	case "text", "icon", "icon svg", "a", "img", "input", "button", "form", "label", "nav":
		return name
	case "marking-item":
		return ".marking-item"
	}
	if strings.ContainsAny(name, " >:[+~") || strings.HasPrefix(name, ".") {
		return name
	}
	return "." + name
}
