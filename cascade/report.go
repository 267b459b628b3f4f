package cascade

import (
	"slices"
	"strings"

	"sitec/css"
)

// reportSpecial are report keys with dedicated selectors, the rest are used
// as selectors literally.
var reportSpecial = []string{
	"html", "page", "section", "layout", "column", "row", "group", "col_in_row",
	"a", "text", "img", "nav", "icon", "icon svg", "wrapper_content", "menu",
}

// reportTags maps report keys to element selectors.
var reportTags = []struct{ key, selector string }{
	{"a", "a"},
	{"text", `[class^="content-"]`},
	{"img", "img"},
	{"nav", "nav"},
	{"icon", `icon[class^="content-"]`},
	{"icon svg", `icon[class^="content-"] svg`},
}

// report emits debug layer visualizing layout boundaries. References are
// resolved against general config overridden by report config.
func (g *Generator) report(s *css.Stylesheet) {
	rep := g.cfg.Report
	e := g.emit.with(g.cfg.General.Merge(rep))
	sections := sectionTypes(g.cfg.CSS)

	e.rule(s, "html", rep.Get("html"), "html")
	e.rule(s, "body", rep.Get("page"), "page")
	e.rule(s, "section", rep.Get("section"), "section")

	if layout := rep.Get("layout"); layout.IsObject() {
		e.rule(s, ".layout", layout, "layout", "device")
		for _, sec := range sections {
			without := []string{"device"}
			if startsWithRows(g.cfg.HTML, sec) {
				without = append(without, "margin")
			}
			e.rule(s, ".layout.section-"+sec, layout, "layout", without...)
		}
	} else if layout.IsArray() {
		for _, sec := range sections {
			var without []string
			if startsWithRows(g.cfg.HTML, sec) {
				without = append(without, "margin")
			}
			e.rule(s, ".layout.section-"+sec, layout, "layout", without...)
		}
	}

	if column := rep.Get("column"); column.IsObject() || column.IsArray() {
		for _, sec := range sections {
			r := s.Rule(".layout.section-" + sec + " .column")
			if column.IsArray() {
				r.Add("box-sizing", "border-box", true)
				e.list(r, column, "flex-wrap:", "gap:", "device_")
			} else {
				e.decls(r, column, "column", "flex-wrap", "gap")
			}
			if gap := g.devices.Setting("desktop", "gap"); gap != "" {
				r.Add("gap", gap, true)
			}
			if wrap := g.devices.Setting("desktop", "flex-wrap"); wrap != "" {
				r.Add("flex-wrap", wrap, true)
			}
		}
	}

	if row := rep.Get("row"); row.IsObject() || row.IsArray() {
		if row.IsObject() {
			e.rule(s, ".row", row, "row")
		}
		if len(sections) > 0 {
			sels := make([]string, len(sections))
			for i, sec := range sections {
				sels[i] = ".layout.section-" + sec + " .row"
			}
			e.rule(s, strings.Join(sels, ", "), row, "row")
		}
	}

	for _, t := range reportTags {
		e.rule(s, t.selector, rep.Get(t.key), t.key)
	}

	for key, v := range rep.Pairs() {
		if slices.Contains(reportSpecial, key) {
			continue
		}
		e.rule(s, key, v, key)
	}

	e.rule(s, "[class^='col_']", rep.Get("col_in_row"), "col_in_row")
	e.rule(s, ".group", rep.Get("group"), "group")
}
