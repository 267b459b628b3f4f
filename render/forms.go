package render

import (
	"strings"

	"sitec/keys"
	"sitec/tree"
)

// Form is a "form_<class>" container holding button_json button. Fields are
// input names as rendered into html.
type Form struct {
	Class  string
	Fields []string
}

type formSet struct {
	order  []string
	fields map[string][]string
	seen   map[string]map[string]bool
}

func (s *formSet) add(class string) {
	if _, ok := s.fields[class]; ok {
		return
	}
	s.order = append(s.order, class)
	s.fields[class] = nil
	s.seen[class] = make(map[string]bool)
}

func (s *formSet) field(class, name string) {
	s.add(class)
	if s.seen[class][name] {
		return
	}
	s.seen[class][name] = true
	s.fields[class] = append(s.fields[class], name)
}

func newFormSet() *formSet {
	return &formSet{fields: make(map[string][]string), seen: make(map[string]map[string]bool)}
}

// Forms lists forms with button_json submit buttons in document order.
func Forms(objects *tree.Node) []Form {
	submit := newFormSet()
	structure := newFormSet()
	for key, v := range objects.Pairs() {
		if m := modalOf(v); m != nil {
			findSubmits(m, "", submit)
			walkForms(m, key+".modal", structure)
			continue
		}
		if !v.IsObject() {
			continue
		}
		findSubmits(v, "", submit)
		walkForms(v, key, structure)
	}
	out := make([]Form, 0, len(submit.order))
	for _, class := range submit.order {
		out = append(out, Form{Class: class, Fields: structure.fields[class]})
	}
	return out
}

func formClass(key string) string {
	if k := keys.Parse(key); k.Tag == "form" {
		return k.Class
	}
	return ""
}

func join(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

// branches yields mappings nested in if block. Conditional buttons yield
// their modal mapping which is rendered under "<element>.modal".
func branches(cond *tree.Node, fn func(modal bool, m *tree.Node)) {
	for _, b := range cond.Pairs() {
		switch {
		case b.IsObject():
			fn(false, b)
		case modalOf(b) != nil:
			fn(true, modalOf(b))
		}
	}
}

func findSubmits(m *tree.Node, form string, out *formSet) {
	for k, v := range m.Pairs() {
		switch {
		case k == "if":
			branches(v, func(_ bool, b *tree.Node) { findSubmits(b, form, out) })
		case v.IsDirective(KindButtonJSON):
			if form != "" {
				out.add(form)
			}
		case modalOf(v) != nil:
			findSubmits(modalOf(v), form, out)
		case v.IsObject():
			f := form
			if c := formClass(k); c != "" {
				f = c
			}
			findSubmits(v, f, out)
		}
	}
}

func walkForms(m *tree.Node, path string, out *formSet) {
	for k, v := range m.Pairs() {
		switch {
		case k == "if":
			branches(v, func(modal bool, b *tree.Node) {
				if modal {
					walkForms(b, join(path, "modal"), out)
					return
				}
				walkForms(b, path, out)
			})
			continue
		case modalOf(v) != nil:
			walkForms(modalOf(v), join(path, k+".modal"), out)
			continue
		}
		if c := formClass(k); c != "" {
			out.add(c)
			if v.IsObject() {
				collectFields(v, "", join(path, k), c, out)
			}
			continue
		}
		if v.IsObject() {
			walkForms(v, join(path, k), out)
		}
	}
}

func collectFields(m *tree.Node, base, prefix, class string, out *formSet) {
	for k, v := range m.Pairs() {
		switch {
		case k == "if":
			branches(v, func(modal bool, b *tree.Node) {
				if modal {
					collectFields(b, join(base, "modal"), prefix, class, out)
					return
				}
				collectFields(b, base, prefix, class, out)
			})
		case modalOf(v) != nil:
			collectFields(modalOf(v), join(base, k+".modal"), prefix, class, out)
		case v.IsArray():
			if (v.Head() == KindInput || v.Head() == KindField) && v.Len() >= 2 {
				out.field(class, strings.ReplaceAll(join(prefix, join(base, k)), ".", "_"))
			}
		case v.IsObject():
			collectFields(v, join(base, k), prefix, class, out)
		}
	}
}
