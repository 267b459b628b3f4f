package cascade

import (
	"slices"
	"strings"

	"sitec/css"
	"sitec/keys"
	"sitec/tree"
)

// nestedTags may prefix nested parts of composite objects_css keys.
var nestedTags = []string{"div", "span", "section", "article", "aside", "header", "footer", "main", "nav"}

// childTags are kept literally as last part of nested selector.
var childTags = append(slices.Clone(nestedTags), "a", "img", "input", "button", "form", "label")

// objects emits per element styles. Groups whose values are all mappings
// are flattened first. Composite keys "elem nested..." target descendants
// of element, plain keys target rendered element by its type.
func (g *Generator) objects(s *css.Stylesheet, cfg *tree.Node) {
	for key, styles := range flatten(cfg).Pairs() {
		if !styles.IsObject() || disabledKey(key) {
			continue
		}
		var sel string
		if strings.Contains(key, " ") {
			sel = g.types.composite(key)
		} else {
			sel = g.types.selector(key)
		}
		g.emit.block(s, sel, styles, "", &g.devices)
	}
}

func disabledKey(key string) bool {
	if keys.Disabled(key) {
		return true
	}
	f := strings.Fields(key)
	return len(f) > 0 && keys.Disabled(f[len(f)-1])
}

// flatten splices groups: mappings whose every value is a mapping.
func flatten(cfg *tree.Node) *tree.Node {
	out := tree.NewObject()
	for key, v := range cfg.Pairs() {
		if v.IsObject() && allObjects(v) {
			for k, nv := range v.Pairs() {
				out.Set(k, nv)
			}
			continue
		}
		out.Set(key, v)
	}
	return out
}

func allObjects(v *tree.Node) bool {
	for _, x := range v.Pairs() {
		if !x.IsObject() {
			return false
		}
	}
	return true
}

// elementTypes resolves what rendered element of objects tree looks like,
// so styles can target it.
type elementTypes struct {
	objects *tree.Node
}

// find searches key depth first, root level first.
func find(data *tree.Node, key string) *tree.Node {
	if !data.IsObject() {
		return nil
	}
	if data.Has(key) {
		return data.Get(key)
	}
	for _, v := range data.Pairs() {
		if r := find(v, key); r != nil {
			return r
		}
	}
	return nil
}

// kind returns directive kind of element, whether it reads data through api
// and whether it is a container.
func (t elementTypes) kind(key string) (kind string, api, container bool) {
	data := find(t.objects, key)
	switch {
	case data.IsObject() && data.Has("if"):
		cond := data.Get("if")
		if names := cond.Keys(); len(names) > 0 {
			switch branch := cond.Get(names[0]); {
			case branch.IsArray() && branch.Len() > 0:
				kind = branch.Head()
			case branch.IsObject():
				container = true
			}
		}
	case data.IsObject():
		container = true
	case data.IsArray() && data.Len() > 0:
		kind = data.Head()
		api = data.Len() > 2 && data.StrAt(2) == "api"
	}
	return kind, api, container
}

// selector for plain objects_css key.
func (t elementTypes) selector(key string) string {
	kind, api, container := t.kind(key)
	base := "[data-path='" + key + "']"
	if container {
		return base
	}
	switch kind {
	case "":
	case "field", "input":
		return base + " input"
	case "text":
		if api {
			return base + " span"
		}
		return base + " text"
	default:
		return base + " " + kind
	}

	switch {
	case strings.Contains(key, "_img"):
		return base + " img"
	case strings.HasSuffix(key, "_nav"):
		return base + " nav"
	case strings.HasSuffix(key, "_icon") || strings.HasPrefix(key, "icon_"):
		return base + " icon"
	case strings.HasSuffix(key, "_order") || strings.HasSuffix(key, "_field"):
		return base + " input"
	}
	return base + " text"
}

// composite selector for "elem nested..." keys, a trailing ".class" which
// is not part of nested path is appended to the last part.
func (t elementTypes) composite(key string) string {
	var extra string
	if strings.Count(key, ".") > strings.Count(key, " ") {
		if i := strings.LastIndexByte(key, '.'); i >= 0 {
			key, extra = key[:i], key[i:]
		}
	}
	parts := strings.Split(key, " ")
	elem, nested := parts[0], parts[1:]
	return "[data-path='" + elem + "'] " + t.nested(elem, nested) + extra
}

// tagPrefix splits "div_box" or "div-box" into tag and class.
func tagPrefix(s string) (string, string, bool) {
	for _, tag := range nestedTags {
		rest, ok := strings.CutPrefix(s, tag)
		if ok && rest != "" && (rest[0] == '_' || rest[0] == '-') {
			return tag, rest[1:], true
		}
	}
	return "", "", false
}

func (t elementTypes) nested(elem string, parts []string) string {
	switch {
	case len(parts) == 2 && slices.Contains(nestedTags, parts[0]):
		return parts[0] + "." + parts[1]

	case len(parts) == 1:
		p := parts[0]
		if p == "cycle" {
			return ".cycle"
		}
		if c, ok := strings.CutPrefix(p, "cycle_"); ok {
			return "." + c
		}
		if c, ok := strings.CutPrefix(p, "a_"); ok {
			return "a." + c
		}
		if tag, class, ok := tagPrefix(p); ok {
			return tag + "." + class
		}
		switch typ := t.child(elem, p, "", ""); typ {
		case "":
			return p
		case "text":
			return ".content-" + p
		default:
			return typ
		}

	case len(parts) == 2:
		if tag, class, ok := tagPrefix(parts[0]); ok {
			return nestedChild(tag, class, parts[1], t.child(elem, parts[1], tag, class), false)
		}

	case len(parts) == 3 && slices.Contains(nestedTags, parts[0]):
		tag, class := parts[0], parts[1]
		return nestedChild(tag, class, parts[2], t.child(elem, parts[2], tag, class), true)
	}
	return strings.Join(parts, " ")
}

func nestedChild(tag, class, child, typ string, literal bool) string {
	prefix := tag + "." + class + " "
	switch {
	case typ == "text":
		return prefix + ".content-" + child
	case typ != "":
		return prefix + typ
	case literal || slices.Contains(childTags, child):
		return prefix + child
	}
	return prefix + ".content-" + child
}

// child resolves type of child element of parent. Tag and class narrow the
// search to container "tag_class" (or "tag class") and to "div_class" field
// wrappers.
func (t elementTypes) child(parent, child, tag, class string) string {
	data := t.objects.Get(parent)
	if data == nil {
		return ""
	}
	if tag != "" && class != "" {
		if typ := fieldType(containerOf(data, tag, class), child); typ != "" {
			return typ
		}
		div := find(data, "div_"+class)
		if div == nil {
			div = find(data, "div-"+class)
		}
		if div == nil {
			div = prefixed(data, "div_"+class, "div-"+class)
		}
		if typ := fieldType(div, child); typ != "" {
			return typ
		}
	}
	c := find(data, child)
	switch {
	case c.IsArray() && c.Len() > 0:
		return c.Head()
	case c.IsObject() && c.Len() > 0 && isMenu(c):
		return "nav.menu"
	}
	return ""
}

func containerOf(data *tree.Node, tag, class string) *tree.Node {
	if !data.IsObject() {
		return nil
	}
	for _, k := range []string{tag + " " + class, tag + "_" + class} {
		if data.Has(k) {
			return data.Get(k)
		}
	}
	return prefixed(data, tag+"_"+class)
}

func prefixed(data *tree.Node, prefixes ...string) *tree.Node {
	for k, v := range data.Pairs() {
		if hasAnyPrefix(k, prefixes) {
			return v
		}
	}
	return nil
}

// fieldType looks for child directly in container or wrapped into
// "div_<child>" field: directive gives its kind, mapping is text.
func fieldType(container *tree.Node, child string) string {
	if !container.IsObject() || container.Len() == 0 {
		return ""
	}
	if c := container.Get(child); c.IsArray() && c.Len() > 0 {
		return c.Head()
	}
	for k, v := range container.Pairs() {
		if !hasAnyPrefix(k, []string{"div_" + child, "div-" + child}) {
			continue
		}
		switch {
		case v.IsArray() && v.Len() > 0:
			return v.Head()
		case v.IsObject():
			return "text"
		}
	}
	return ""
}

func isMenu(v *tree.Node) bool {
	for _, item := range v.Pairs() {
		if !item.IsArray() || item.Len() < 2 || item.Head() != "a" {
			return false
		}
	}
	return true
}
