package cascade

import (
	"strings"

	"sitec/css"
	"sitec/tree"
)

const defaultFont = "-apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif"

// defaults emits base styles of default config: reset, body, button,
// container width and section backgrounds.
func (g *Generator) defaults(s *css.Stylesheet) {
	cfg := g.cfg.Default
	base := cfg.Get("base_styles")

	s.Comment(MarkerDefaults)
	if reset := base.Get("reset"); reset.IsObject() {
		raw(s.Rule("*"), reset)
	}
	if body := base.Get("body"); body.IsObject() {
		font := defaultFont
		if f := cfg.Get("font-family"); f.IsString() {
			font = strings.TrimSuffix(f.Str(), ";")
		}
		r := s.Rule("body").Add("font-family", font, true)
		raw(r, body)
	}
	if btn := base.Get("button"); btn.IsObject() {
		s.Comment("Сброс стилей для кнопок и ссылок")
		raw(s.Rule("button"), btn)
	}

	r := s.Rule(".layout").Add("max-width", g.devices.Desktop, true)
	if l := base.Get("layout"); l.IsObject() {
		raw(r, l)
	} else {
		r.Add("margin", "0 auto", true)
	}

	if sec := base.Get("section"); sec.IsObject() {
		raw(s.Rule("section"), sec)
	}
	g.sectionTriples(s, cfg.Get("section"))
}

// components emits component, alignment and modal classes of default
// config, each group under own marker.
func (g *Generator) components(s *css.Stylesheet) {
	for _, group := range []struct{ marker, key string }{
		{MarkerComponents, "component_styles"},
		{MarkerAlignment, "alignment_styles"},
		{MarkerModal, "modal_styles"},
	} {
		s.Comment(group.marker)
		for sel, styles := range g.cfg.Default.Get(group.key).Pairs() {
			if !styles.IsObject() {
				continue
			}
			raw(s.Rule("."+sel), styles)
		}
	}
}

// sectionTriples styles every section type three ways: section element,
// section class and layout of the section.
func (g *Generator) sectionTriples(s *css.Stylesheet, sections *tree.Node) {
	for typ, styles := range sections.Pairs() {
		if !styles.IsObject() {
			continue
		}
		for _, sel := range sectionSelectors(typ) {
			g.emit.decls(s.Rule(sel), styles, "section")
		}
	}
}

func sectionSelectors(typ string) []string {
	return []string{"section.section-" + typ, ".section-" + typ, ".layout.section-" + typ}
}
