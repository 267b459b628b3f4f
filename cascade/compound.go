package cascade

import (
	"fmt"
	"strings"

	"sitec/css"
	"sitec/keys"
	"sitec/tree"
)

// plainKey is a section name: no dots, no spaces and no section suffix.
func plainKey(key string) bool {
	if strings.ContainsAny(key, ". ") {
		return false
	}
	_, kind := keys.SectionSuffix(key)
	return kind == keys.SuffixNone
}

// compound emits dotted css config keys which are not group paths:
// "header.nav" gives ".section-header nav", "body.column_1.row_2.title"
// gives ".section-body .col_1 .row_2 .title".
func (g *Generator) compound(s *css.Stylesheet) {
	for key, v := range g.cfg.CSS.Pairs() {
		sel, ok := compoundSelector(key)
		if !ok {
			continue
		}
		r := &css.Rule{Selector: sel}
		switch {
		case v.IsObject():
			g.emit.decls(r, v, "")
		case v.IsArray() && v.Len() > 0:
			g.emit.list(r, v)
		default:
			continue
		}
		s.Items = append(s.Items, css.Item{Rule: r})
	}
}

func compoundSelector(key string) (string, bool) {
	if strings.Contains(key, " ") || !strings.Contains(key, ".") || keys.IsGroupPath(key) {
		return "", false
	}
	parts := strings.Split(key, ".")
	section := parts[0]
	if len(parts) == 2 {
		return ".section-" + section + " " + partSelector(parts[1]), true
	}

	out := []string{".section-" + section}
	for _, p := range parts[1:] {
		switch {
		case strings.HasPrefix(p, "column_"):
			out = append(out, ".col_"+strings.TrimPrefix(p, "column_"))
		case strings.HasPrefix(p, "row_"):
			out = append(out, "."+p)
		case p == "group":
			out = append(out, fmt.Sprintf(".group-%s-1", section))
		case strings.HasPrefix(p, "group_"):
			out = append(out, fmt.Sprintf(".group-%s-%s", section, strings.TrimPrefix(p, "group_")))
		default:
			out = append(out, partSelector(p))
		}
	}
	return strings.Join(out, " "), true
}

func partSelector(p string) string {
	if keys.IsHTMLTag(p) {
		return p
	}
	return "." + p
}

// groupSelector turns "header.2.1.1" into ".group.header-2-1-1".
func groupSelector(path string) string {
	return ".group." + keys.GroupClass(path)
}

// groupElementSelector targets element inside group:
// "header.2.1.1 .logo.big img" gives
// ".group.header-2-1-1 [data-path='logo'].big img".
func groupElementSelector(group, element string) string {
	el := strings.TrimLeft(element, ".")
	first, rest, nested := strings.Cut(el, " ")
	name, classes, hasClasses := strings.Cut(first, ".")

	sel := groupSelector(group) + " [data-path='" + name + "']"
	if hasClasses {
		sel += "." + classes
	}
	if nested {
		sel += " " + rest
	}
	return sel
}

// withDouble extends selector with groups listed in "double".
func withDouble(sel string, v *tree.Node) string {
	d := v.Get("double")
	if !d.IsArray() {
		return sel
	}
	sels := []string{sel}
	for _, p := range d.Items() {
		if path := p.Str(); keys.IsGroupPath(path) {
			sels = append(sels, groupSelector(path))
		}
	}
	return strings.Join(sels, ", ")
}
