package render

import (
	"sort"
	"strings"

	"github.com/maruel/natural"

	"sitec/tree"
)

// Layout wraps elements of one section into column, row and group scaffold.
type Layout struct {
	Section string
	// Config is section entry of layout tree: column_N -> row_N -> gr_N ->
	// [element paths], column level is optional.
	Config *tree.Node
	// Attrs are group attributes keyed by "section.col.row.group", "tag"
	// and "href" turn group into link.
	Attrs    *tree.Node
	Elements *Processor
}

func sortedKeys(m *tree.Node, prefixes ...string) []string {
	var out []string
	for _, k := range m.Keys() {
		for _, p := range prefixes {
			if strings.HasPrefix(k, p) {
				out = append(out, k)
				break
			}
		}
	}
	sort.Sort(natural.StringSlice(out))
	return out
}

func number(key string) string {
	_, n, _ := strings.Cut(key, "_")
	return n
}

// HTML renders section layout.
func (l *Layout) HTML() string {
	var b strings.Builder
	b.WriteString(`<div class="layout section-` + l.Section + `">`)
	if cols := sortedKeys(l.Config, "col_", "column_"); len(cols) > 0 {
		b.WriteString(`<div class="column">`)
		for _, ck := range cols {
			b.WriteString(`<div class="` + strings.Replace(ck, "column_", "col_", 1) + `">`)
			l.rows(&b, l.Config.Get(ck), number(ck))
			b.WriteString(`</div>`)
		}
		b.WriteString(`</div>`)
	} else {
		l.rows(&b, l.Config, "1")
	}
	b.WriteString(`</div>`)
	return b.String()
}

func (l *Layout) rows(b *strings.Builder, cfg *tree.Node, col string) {
	for _, rk := range sortedKeys(cfg, "row_") {
		b.WriteString(`<div class="row ` + rk + `">`)
		row := cfg.Get(rk)
		for _, gk := range sortedKeys(row, "gr_") {
			l.group(b, row.Get(gk), col, number(rk), number(gk))
		}
		b.WriteString(`</div>`)
	}
}

func (l *Layout) group(b *strings.Builder, elements *tree.Node, col, row, grp string) {
	path := l.Section + "." + col + "." + row + "." + grp
	class := "group " + l.Section + "-" + col + "-" + row + "-" + grp
	ga := l.Attrs.Get(path)
	tag, href := ga.Get("tag").Str(), ga.Get("href").Str()
	link := tag == "a" && href != ""
	if link {
		b.WriteString("<a" + attr("href", href) + attr("class", class) + ">")
	} else {
		b.WriteString("<div" + attr("class", class) + ">")
	}
	for _, e := range elements.Items() {
		p := e.Text()
		b.WriteString(`<div class="marking-item"` + attr("data-path", p) + ">")
		b.WriteString(l.Elements.Element(p))
		b.WriteString(`</div>`)
	}
	if link {
		b.WriteString("</a>")
	} else {
		b.WriteString("</div>")
	}
}
