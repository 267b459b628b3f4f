package cascade

import (
	"slices"
	"strconv"
	"strings"

	"sitec/css"
	"sitec/keys"
	"sitec/tree"
)

// layout emits layout layer of css config: section suffix keys, group
// paths with "double", column widths of every section with responsive
// overrides, nested column and marking styles, then per element styles.
func (g *Generator) layout(s *css.Stylesheet) {
	cfg := g.cfg.CSS

	for key, v := range cfg.Pairs() {
		if strings.ContainsAny(key, ". ") || !v.IsObject() {
			continue
		}
		name, kind := keys.SectionSuffix(key)
		sel := kind.Selector(name)
		if kind == keys.SuffixSLC {
			g.emit.block(s, sel, v, "", &g.devices)
			continue
		}
		g.emit.rule(s, sel, v, "")
	}

	for key, v := range cfg.Pairs() {
		group, element, spaced := strings.Cut(key, " ")
		if !keys.IsGroupPath(group) {
			continue
		}
		sel := groupSelector(group)
		if spaced {
			sel = groupElementSelector(group, element)
		}
		switch {
		case v.IsObject():
			g.emit.block(s, withDouble(sel, v), v.Without("double"), "", &g.devices)
		case v.IsArray() && v.Len() > 0:
			g.emit.list(s.Rule(sel), v)
		}
	}

	for _, sec := range sectionTypes(cfg) {
		g.sectionColumns(s, sec, cfg.Get(sec))
	}

	g.objects(s, g.cfg.ObjectsCSS)
	if g.opts.Report {
		g.objects(s, g.cfg.ReportObjectsCSS)
	}
}

// sectionColumns emits container rule of section, desktop column widths and
// tablet/mobile media from width lists.
func (g *Generator) sectionColumns(s *css.Stylesheet, sec string, cfg *tree.Node) {
	base := ".layout.section-" + sec
	g.emit.list(s.Rule(base), cfg.Get("general"), "gap:")

	desktop := cfg.Get("desktop")
	for i, w := range desktop.Items() {
		s.Rule(colSelector(base, i)).Add("flex-basis", w.Text()+"%", true)
	}
	g.columnMedia(s, base, "tablet", g.devices.Tablet, desktop.Len(), cfg.Get("tablet"))
	g.columnMedia(s, base, "mobile", g.devices.Mobile, desktop.Len(), cfg.Get("mobile"))

	g.nested(s, base, cfg)
}

// columnMedia overrides column widths for one device. Columns beyond the
// device list reuse its last width, without the list they are hidden.
func (g *Generator) columnMedia(s *css.Stylesheet, base, device, bp string, columns int, widths *tree.Node) {
	if widths.Len() == 0 || bp == "" {
		return
	}
	m := s.Media(maxWidth(bp))
	r := m.Rule(base + " .column")

	var sum float64
	for _, w := range widths.Items() {
		f, _ := w.Float()
		sum += f
	}
	first, _ := widths.At(0).Float()
	switch {
	case widths.Len() == 1 && first == 100:
		r.Add("flex-wrap", "wrap", true)
	case widths.Len() > 1 && sum == 100:
		r.Add("flex-wrap", "nowrap", true)
	case g.devices.Setting(device, "flex-wrap") != "":
		r.Add("flex-wrap", g.devices.Setting(device, "flex-wrap"), true)
	}
	if gap := g.devices.Setting(device, "gap"); gap != "" {
		r.Add("gap", gap, true)
	}
	r.Add("padding", "0px", true)

	for i := range columns {
		w := widths.At(min(i, widths.Len()-1))
		m.Rule(colSelector(base, i)).Add("flex-basis", w.Text()+"%", true)
	}
}

// nested emits "general" lists of column_N and other nested mappings.
func (g *Generator) nested(s *css.Stylesheet, base string, cfg *tree.Node) {
	for key, v := range cfg.Pairs() {
		if !v.IsObject() || key == "general" || slices.Contains(deviceNames[:], key) {
			continue
		}
		sel := base + " .marking-" + strings.ReplaceAll(key, "_", ".")
		if n, ok := strings.CutPrefix(key, "column_"); ok {
			sel = base + " .col_" + n
		}
		if general := v.Get("general"); general.Len() > 0 {
			g.emit.list(s.Rule(sel), general)
		}
		g.nested(s, base, v)
	}
}

func colSelector(base string, i int) string {
	return base + " .col_" + strconv.Itoa(i+1)
}
