package cascade

import (
	"strings"

	"sitec/css"
	"sitec/keys"
	"sitec/tree"
)

// sectionColors emits section backgrounds of general config: bg-color is a
// mapping type -> color (trailing '*' on type forces transparent), a list of
// "type: color" strings or one [color, opacity] pair for all sections. The
// layer is skipped when enabled report defines own section background.
func (g *Generator) sectionColors(s *css.Stylesheet) {
	if g.opts.Report && g.cfg.Report.Lookup("section", "bg-color") != nil {
		return
	}
	bg := g.cfg.General.Lookup("section", "bg-color")
	resolve := func(v *tree.Node) string {
		return g.emit.values.Resolve(v, g.cfg.General, "section")
	}

	switch {
	case bg.IsObject():
		for typ, c := range bg.Pairs() {
			val := "transparent"
			if keys.Disabled(typ) {
				typ = strings.TrimSuffix(typ, "*")
			} else {
				val = resolve(c)
			}
			backgrounds(s, typ, val)
		}

	case bg.IsArray() && bg.Len() == 2 && bg.At(0).IsString() && (bg.At(1).IsNumber() || keys.IsDigits(bg.StrAt(1))):
		s.Rule("section").Add("background-color", resolve(bg), true)

	case bg.IsArray():
		for _, item := range bg.Items() {
			typ, c, ok := strings.Cut(item.Str(), ":")
			if !ok {
				continue
			}
			backgrounds(s, strings.TrimSpace(typ), resolve(tree.NewString(strings.TrimSpace(c))))
		}
	}
}

func backgrounds(s *css.Stylesheet, typ, val string) {
	for _, sel := range sectionSelectors(typ) {
		s.Rule(sel).Add("background-color", val, true)
	}
}
