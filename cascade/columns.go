package cascade

import (
	"strconv"
	"strings"

	"sitec/css"
	"sitec/keys"
	"sitec/tree"
)

// divColumns applies div_column styles to containers carrying "_col-N"
// classes, both rendered containers and cycle templates.
func (g *Generator) divColumns(s *css.Stylesheet) {
	cfg := g.cfg.DivColumn

	for key, styles := range cfg.Get("desktop").Pairs() {
		if !strings.HasPrefix(key, "col-") {
			continue
		}
		cls := "[class*='_" + key + "']"
		tmpl := "div[data-template]" + cls
		for _, sel := range []string{
			cls,
			"[data-path] div" + cls,
			cls + " > div[data-template]",
			tmpl,
			"div" + cls + " > div[data-template]",
		} {
			g.emit.rule(s, sel, styles, "")
		}
		for _, sel := range []string{tmpl + " > div", cls + " > div[data-template] > div"} {
			s.Rule(sel).
				Add("box-sizing", "border-box", true).
				Add("min-width", "0", true).
				Add("width", "auto", true).
				Add("max-width", "none", true)
		}
	}

	tablet := maxWidth(g.devices.Tablet)
	if above := g.devices.aboveMobile(); above != "" {
		tablet += " and (min-width: " + above + ")"
	}
	g.columnOverrides(s, tablet, cfg.Get("tablet"))
	g.columnOverrides(s, maxWidth(g.devices.Mobile), cfg.Get("mobile"))
}

// columnOverrides emits media block for "col-2, col-3" keyed styles.
func (g *Generator) columnOverrides(s *css.Stylesheet, query string, cfg *tree.Node) {
	if cfg.Len() == 0 {
		return
	}
	m := &css.MediaBlock{Query: query}
	for key, styles := range cfg.Pairs() {
		var sels []string
		for _, c := range strings.Split(key, ",") {
			sels = append(sels, "[class*='_"+strings.TrimSpace(c)+"']")
		}
		g.emit.decls(m.Rule(strings.Join(sels, ", ")), styles, "")
	}
	s.Items = append(s.Items, css.Item{Media: m})
}

// colElement is an objects tree key carrying "col:" suffix.
type colElement struct {
	selector string
	spec     *keys.ColSpec
	// parent is index of nearest adaptive ancestor, -1 at top.
	parent   int
	percents []string
}

// colSyntax emits grid styles of "col:" keys of objects tree. Adaptive
// "col:D,T,M" becomes grid-template-columns with overrides only where the
// count changes from the previous device. Percent "col:P%" sets element
// width and rewrites grid of its adaptive ancestor from all percents.
func (g *Generator) colSyntax(s *css.Stylesheet) {
	var els []*colElement
	var scan func(node *tree.Node, scope string, parent int)
	scan = func(node *tree.Node, scope string, parent int) {
		for key, v := range node.Pairs() {
			if key == "if" {
				continue
			}
			k := keys.Parse(key)
			elem := scope
			if k.Tag == "" && k.Control != keys.ControlCycle {
				elem = k.Base
			}
			next := parent
			if k.Col != nil {
				el := &colElement{selector: colElementSelector(k, scope), spec: k.Col, parent: parent}
				if k.Col.Percent && parent >= 0 {
					els[parent].percents = append(els[parent].percents, percent(k.Col.Percentage))
				}
				els = append(els, el)
				if !k.Col.Percent {
					next = len(els) - 1
				}
			}
			if v.IsObject() {
				scan(v, elem, next)
			}
		}
	}
	scan(g.cfg.Objects, "", -1)

	rewritten := map[int]bool{}
	for _, el := range els {
		if !el.spec.Percent {
			g.adaptive(s, el)
			continue
		}
		p := percent(el.spec.Percentage)
		s.Rule(el.selector).
			Add("width", p, true).
			Add("max-width", p, true).
			Add("box-sizing", "border-box", true)

		if el.parent >= 0 && !rewritten[el.parent] {
			rewritten[el.parent] = true
			parent := els[el.parent]
			s.Rule(parent.selector).Add("grid-template-columns", strings.Join(parent.percents, " "), true)
		}
	}
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// adaptive emits grid container with device overrides.
func (g *Generator) adaptive(s *css.Stylesheet, el *colElement) {
	base := g.cfg.DivColumn.Get("base")
	display := base.Get("display").Text()
	if display == "" {
		display = "grid"
	}
	r := s.Rule(el.selector).
		Add("display", display, true).
		Add("grid-template-columns", g.gridTemplate(el.spec.Desktop), true)
	if gap := base.Get("gap"); gap.IsArray() && gap.Len() >= 2 {
		r.Add("gap", gap.TextAt(0)+gap.TextAt(1), true)
	}
	r.Add("box-sizing", "border-box", true)

	if el.spec.Tablet != el.spec.Desktop {
		s.Media(maxWidth(g.devices.Tablet)).Rule(el.selector).
			Add("grid-template-columns", g.gridTemplate(el.spec.Tablet), true)
	}
	if el.spec.Mobile != el.spec.Tablet {
		s.Media(maxWidth(g.devices.Mobile)).Rule(el.selector).
			Add("grid-template-columns", g.gridTemplate(el.spec.Mobile), true)
	}
}

// gridTemplate reads columns.N of div_column, repeat(N, 1fr) by default.
func (g *Generator) gridTemplate(n int) string {
	if t := g.cfg.DivColumn.Lookup("columns", strconv.Itoa(n)).Text(); t != "" {
		return t
	}
	return "repeat(" + strconv.Itoa(n) + ", 1fr)"
}

// colElementSelector targets rendered element of key inside marking item
// whose path mentions nearest enclosing element. Tag containers give "tag.class", cycles their template
// class, other keys the marking item itself.
func colElementSelector(k keys.Key, scope string) string {
	var sel string
	switch {
	case k.Tag != "":
		sel = k.Tag
		if k.Class != "" {
			sel += "." + k.Class
		}
	case k.Control == keys.ControlCycle:
		sel = "div[data-template]." + k.Col.Class()
	default:
		return "[data-path*='" + k.Base + "']"
	}
	if scope == "" {
		return sel
	}
	return "[data-path*='" + scope + "'] " + sel
}
