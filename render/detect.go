package render

import "sitec/tree"

// Type is processing category of element value.
type Type uint8

const (
	TypeSimple Type = iota
	TypeMenu
	TypeButtonModal
	TypeComplex
)

func (t Type) String() string {
	switch t {
	case TypeMenu:
		return "menu"
	case TypeButtonModal:
		return "button_modal"
	case TypeComplex:
		return "complex"
	}
	return "simple"
}

// DetectType classifies element value.
func DetectType(v *tree.Node) Type {
	if v.IsArray() && IsElementKind(v.Head()) {
		return TypeSimple
	}
	if !v.IsObject() {
		return TypeSimple
	}
	if isMenuMap(v) {
		return TypeMenu
	}
	for _, k := range []string{"nav", "menu"} {
		if sub := v.Get(k); sub.IsObject() && allLinks(sub) {
			return TypeMenu
		}
	}
	if v.Len() == 1 {
		k := v.Keys()[0]
		if k != "nav" && k != "menu" && k != "if" && isButtonWithModal(v.Get(k)) {
			return TypeButtonModal
		}
	}
	return TypeComplex
}

func isLinkItem(v *tree.Node) bool {
	return v.IsDirective(KindLink) && v.Len() >= 2
}

// isMenuMap treats nested mappings as transparent, every other member must
// be a link.
func isMenuMap(v *tree.Node) bool {
	if v.Len() == 0 {
		return false
	}
	for _, item := range v.Pairs() {
		if !item.IsObject() && !isLinkItem(item) {
			return false
		}
	}
	return true
}

func allLinks(v *tree.Node) bool {
	for _, item := range v.Pairs() {
		if !isLinkItem(item) {
			return false
		}
	}
	return true
}

func isButtonWithModal(v *tree.Node) bool {
	return v.IsDirective(KindButton) && v.Len() >= 4 && v.At(3).IsObject()
}

// modalOf returns modal mapping carried by 4th element of descriptor.
func modalOf(v *tree.Node) *tree.Node {
	if v.IsArray() && v.Len() >= 4 && v.At(3).IsObject() {
		return v.At(3)
	}
	return nil
}
