package cascade

import (
	"slices"
	"strings"

	"sitec/css"
	"sitec/keys"
	"sitec/tree"
	"sitec/value"
)

// renames maps short property names of style configs to css properties.
var renames = map[string]string{
	"bg":       "background-color",
	"bg-color": "background-color",
	"bg-clip":  "background-clip",
	"radius":   "border-radius",
	"align":    "text-align",
}

// controlProps steer generation and never become declarations.
var controlProps = []string{"desktop", "tablet", "mobile", "general", "device", "double"}

var sides = [4]string{"top", "right", "bottom", "left"}

// unitless values of responsive quadruples which must not get unit appended.
var keepAsIs = []string{"px", "em", "rem", "%", "vh", "vw"}
var keywords = []string{"auto", "none", "inherit", "initial", "unset"}

func property(name string) string {
	if n, ok := renames[name]; ok {
		return n
	}
	return name
}

func skipped(name string) bool {
	return keys.Disabled(name) || slices.Contains(controlProps, name)
}

// emitter turns property mappings and "prop: value" lists into declarations.
// All declarations it produces are important.
type emitter struct {
	values *value.Resolver
	refs   *tree.Node // configuration references are resolved against
}

func (e emitter) with(refs *tree.Node) emitter {
	e.refs = refs
	return e
}

// decl appends declaration(s) for single property.
func (e emitter) decl(r *css.Rule, name string, v *tree.Node, section string) {
	if skipped(name) || v.IsNull() || v.IsObject() {
		return
	}
	name = property(name)
	if name == "border" && v.IsArray() && v.Len() == 3 {
		e.border(r, v, section)
		return
	}
	val := e.values.Resolve(v, e.refs, section)
	if name == "border" && strings.Contains(val, value.Separator) {
		for _, part := range strings.Split(val, value.Separator) {
			if d, ok := css.Raw(part); ok {
				r.Add(d.Property, d.Value, true)
			}
		}
		return
	}
	r.Add(name, val, true)
}

// border handles [style, flags, color] triples. Single flag "1" gives
// shorthand, four flags select sides.
func (e emitter) border(r *css.Rule, v *tree.Node, section string) {
	style := v.TextAt(0)
	col := e.values.Resolve(v.At(2), e.refs, section)
	flags := strings.Fields(v.TextAt(1))
	if len(flags) == 1 {
		if flags[0] == "1" {
			r.Add("border", style+" "+col, true)
		}
		return
	}
	for i, f := range flags {
		if i < len(sides) && f == "1" {
			r.Add("border-"+sides[i], style+" "+col, true)
		}
	}
}

// decls appends all properties of mapping, skipping given names.
func (e emitter) decls(r *css.Rule, props *tree.Node, section string, without ...string) {
	for name, v := range props.Pairs() {
		if slices.Contains(without, name) {
			continue
		}
		e.decl(r, name, v, section)
	}
}

// list appends "prop: value" items. Items starting with any of skip
// prefixes are ignored.
func (e emitter) list(r *css.Rule, items *tree.Node, skip ...string) {
	for _, it := range items.Items() {
		s := strings.TrimSpace(it.Str())
		if s == "" || hasAnyPrefix(s, skip) {
			continue
		}
		d, ok := css.Raw(s)
		if !ok {
			continue
		}
		r.Add(property(d.Property), d.Value, true)
	}
}

// rule emits selector with properties given either as mapping or as list.
// Rules without declarations are not emitted. Mapping keys listed in without
// and list items starting with "<name>:" for the same names are dropped.
func (e emitter) rule(s *css.Stylesheet, selector string, v *tree.Node, section string, without ...string) bool {
	r := &css.Rule{Selector: selector}
	switch {
	case v.IsObject():
		e.decls(r, v, section, without...)
	case v.IsArray():
		skip := []string{"device_"}
		for _, w := range without {
			skip = append(skip, w+":")
		}
		e.list(r, v, skip...)
	}
	if len(r.Declarations) == 0 {
		return false
	}
	s.Items = append(s.Items, css.Item{Rule: r})
	return true
}

// triple splits responsive value: [d, t, m] or [d, t, m, "unit"]. Borders
// are never responsive.
func triple(name string, v *tree.Node) ([3]*tree.Node, bool) {
	var out [3]*tree.Node
	if name == "border" || !v.IsArray() {
		return out, false
	}
	switch {
	case v.Len() == 3:
		copy(out[:], v.Items())
		return out, true
	case v.Len() == 4 && v.At(3).IsString():
		unit := v.StrAt(3)
		for i := range out {
			item := v.At(i)
			if s := item.Str(); item.IsString() && (containsAny(s, keepAsIs) || slices.Contains(keywords, strings.ToLower(s))) {
				out[i] = item
				continue
			}
			out[i] = tree.NewString(item.Text() + unit)
		}
		return out, true
	}
	return out, false
}

// hasTriples reports whether mapping has any responsive value.
func hasTriples(props *tree.Node) bool {
	for name, v := range props.Pairs() {
		if skipped(name) {
			continue
		}
		if _, ok := triple(name, v); ok {
			return true
		}
	}
	return false
}

// block emits selector rule and, for responsive values, overrides at tablet
// and mobile breakpoints. Plain properties come first, desktop values of
// responsive ones follow.
func (e emitter) block(s *css.Stylesheet, selector string, props *tree.Node, section string, d *Devices) {
	var (
		plain []string
		resp  []string
		vals  = map[string][3]*tree.Node{}
	)
	for name, v := range props.Pairs() {
		if skipped(name) {
			continue
		}
		if t, ok := triple(name, v); ok {
			resp = append(resp, name)
			vals[name] = t
			continue
		}
		plain = append(plain, name)
	}

	r := s.Rule(selector)
	for _, name := range plain {
		e.decl(r, name, props.Get(name), section)
	}
	for _, name := range resp {
		e.decl(r, name, vals[name][0], section)
	}
	if len(resp) == 0 {
		return
	}
	for i, bp := range []string{d.Tablet, d.Mobile} {
		mr := s.Media(maxWidth(bp)).Rule(selector)
		for _, name := range resp {
			e.decl(mr, name, vals[name][i+1], section)
		}
	}
}

// raw copies values verbatim, used for default stylesheet sections.
func raw(r *css.Rule, props *tree.Node) {
	for name, v := range props.Pairs() {
		if keys.Disabled(name) || v.IsObject() || v.IsNull() {
			continue
		}
		r.Add(name, strings.TrimSuffix(v.Text(), ";"), true)
	}
}

func maxWidth(bp string) string {
	return "(max-width: " + bp + ")"
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, x := range subs {
		if strings.Contains(s, x) {
			return true
		}
	}
	return false
}
