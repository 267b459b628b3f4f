package render

import (
	"strings"

	"sitec/tree"
)

// Condition picks branch of "if" mapping for current page. Values without
// "if" are returned as is, nil means element is absent on this page.
func Condition(v *tree.Node, page string) *tree.Node {
	if !v.IsObject() || !v.Has("if") {
		return v
	}
	return v.Get("if").Get("/" + page)
}

func isDouble(v *tree.Node) bool {
	return v.IsArray() && v.Len() == 1 && v.Head() == "double"
}

// Double replaces ["double"] markers in branch with structure defined under
// the same key by another branch of the same if block. Markers which cannot
// be resolved stay in place. Branch is not modified.
func Double(branch, conditions *tree.Node) *tree.Node {
	switch {
	case isDouble(branch):
		return branch
	case branch.IsArray():
		out := tree.NewArray()
		for _, item := range branch.Items() {
			if item.IsObject() {
				item = doubleInMap(item, conditions)
			}
			out.Append(item)
		}
		return out
	case branch.IsObject():
		return doubleInMap(branch, conditions)
	}
	return branch
}

func doubleInMap(m, conditions *tree.Node) *tree.Node {
	out := tree.NewObject()
	for k, v := range m.Pairs() {
		switch {
		case isDouble(v):
			if orig := findOriginal(k, conditions); orig != nil {
				v = orig
			}
		case v.IsObject():
			v = doubleInMap(v, conditions)
		}
		out.Set(k, v)
	}
	return out
}

// findOriginal scans branches in document order, direct members first.
func findOriginal(key string, conditions *tree.Node) *tree.Node {
	for _, branch := range conditions.Pairs() {
		var candidates []*tree.Node
		switch {
		case branch.IsArray():
			for _, item := range branch.Items() {
				if item.IsObject() {
					candidates = append(candidates, item)
				}
			}
		case branch.IsObject():
			candidates = append(candidates, branch)
		}
		for _, c := range candidates {
			if found := c.Get(key); c.Has(key) && !isDouble(found) && !isFalsy(found) {
				return found
			}
			if found := findNested(key, c); found != nil {
				return found
			}
		}
	}
	return nil
}

func findNested(key string, m *tree.Node) *tree.Node {
	for k, v := range m.Pairs() {
		switch {
		case k == key:
			if !isDouble(v) && !isFalsy(v) {
				return v
			}
		case v.IsObject():
			if found := findNested(key, v); found != nil {
				return found
			}
		case v.IsArray():
			for _, item := range v.Items() {
				if !item.IsObject() {
					continue
				}
				if found := findNested(key, item); found != nil {
					return found
				}
			}
		}
	}
	return nil
}

// isFalsy matches values a lookup treats as "nothing defined".
func isFalsy(v *tree.Node) bool {
	switch v.Kind() {
	case tree.Null:
		return true
	case tree.Bool:
		return !v.Bool()
	case tree.String:
		return v.Str() == ""
	case tree.Array, tree.Object:
		return v.Len() == 0
	case tree.Number:
		f, _ := v.Float()
		return f == 0
	}
	return false
}

// hasAPIPrefix reports descriptors whose content is loaded by client code.
func hasAPIPrefix(v *tree.Node) bool {
	if !v.IsArray() || v.Len() < 2 {
		return false
	}
	s := v.StrAt(1)
	return strings.Contains(s, "api") && strings.Contains(s, ":")
}

func hasAPIPrefixDeep(v *tree.Node) bool {
	if v.IsArray() {
		return hasAPIPrefix(v)
	}
	for _, item := range v.Pairs() {
		if hasAPIPrefixDeep(item) {
			return true
		}
	}
	return false
}

func isBD(v *tree.Node) bool {
	return v.IsDirective(KindBD) && v.Len() >= 2
}

func hasDirectBD(m *tree.Node) bool {
	for _, v := range m.Pairs() {
		if isBD(v) {
			return true
		}
	}
	return false
}

func hasDirectAPI(m *tree.Node) bool {
	for _, v := range m.Pairs() {
		if hasAPIPrefix(v) {
			return true
		}
	}
	return false
}

// HasCycle reports "cycle" key anywhere in nested mappings.
func HasCycle(v *tree.Node) bool {
	if !v.IsObject() {
		return false
	}
	if v.Has("cycle") {
		return true
	}
	for _, item := range v.Pairs() {
		if HasCycle(item) {
			return true
		}
	}
	return false
}

// IsTemplate reports mapping rendered on client side: it has data source in
// scope and direct member with api content.
func IsTemplate(m *tree.Node, sources []string) bool {
	if !hasDirectAPI(m) {
		return false
	}
	return len(sources) > 0 || hasDirectBD(m)
}

// templateAttr serializes mapping into data-template attribute when it
// carries anything client side code binds to.
func templateAttr(m *tree.Node) string {
	if !hasAPIPrefixDeep(m) && !hasDirectBD(m) && !HasCycle(m) {
		return ""
	}
	return " data-template='" + m.String() + "'"
}

// Cycle renders repeat template container. Payload is {"cycle": subtree}.
func cycleContainer(cycleKey string, subtree *tree.Node) string {
	payload := tree.NewObject().Set("cycle", subtree)
	var class string
	if n, ok := strings.CutPrefix(cycleKey, "cycle_col-"); ok {
		class = attr("class", "_col-"+n)
	}
	return "<div" + class + " data-template='" + payload.String() + "'></div>"
}

// collectSources appends names of bd members of m to parent sources.
func collectSources(m *tree.Node, parent []string) []string {
	out := append([]string(nil), parent...)
	for k, v := range m.Pairs() {
		if !isBD(v) {
			continue
		}
		dup := false
		for _, s := range out {
			if s == k {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, k)
		}
	}
	return out
}
