package keys_test

import (
	"testing"

	"sitec/keys"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw      string
		base     string
		tag      string
		class    string
		control  keys.Control
		cycleKey string
		colClass string
	}{
		{raw: "title", base: "title"},
		{raw: "div", base: "div", tag: "div"},
		{raw: "div_price", base: "div_price", tag: "div", class: "price"},
		{raw: "section-promo", base: "section-promo", tag: "section", class: "promo"},
		{raw: "form order", base: "form order", tag: "form", class: "order"},
		{raw: "2.div_card", base: "2.div_card", tag: "div", class: "card"},
		{raw: "divider", base: "divider"},
		{raw: "price col:2,1,1", base: "price", colClass: "_col-2"},
		{raw: "div_list col:3", base: "div_list", tag: "div", class: "list", colClass: "_col-3"},
		{raw: "div_cell col:25%", base: "div_cell", tag: "div", class: "cell", colClass: "_col-25pct"},
		{raw: "if", base: "if", control: keys.ControlIf},
		{raw: "cycle", base: "cycle", control: keys.ControlCycle, cycleKey: "cycle"},
		{raw: "cycle_col-3", base: "cycle_col-3", control: keys.ControlCycle, cycleKey: "cycle_col-3"},
		{raw: "cycle_items col:4,2,1", base: "cycle_items", control: keys.ControlCycle, cycleKey: "cycle_col-4", colClass: "_col-4"},
		{raw: "cycle_items", base: "cycle_items", control: keys.ControlCycle, cycleKey: "cycle_items"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			k := keys.Parse(tt.raw)
			if k.Base != tt.base {
				t.Errorf("Base = %q, want %q", k.Base, tt.base)
			}
			if k.Tag != tt.tag || k.Class != tt.class {
				t.Errorf("Tag, Class = %q, %q, want %q, %q", k.Tag, k.Class, tt.tag, tt.class)
			}
			if k.Control != tt.control {
				t.Errorf("Control = %d, want %d", k.Control, tt.control)
			}
			if k.CycleKey != tt.cycleKey {
				t.Errorf("CycleKey = %q, want %q", k.CycleKey, tt.cycleKey)
			}
			var got string
			if k.Col != nil {
				got = k.Col.Class()
			}
			if got != tt.colClass {
				t.Errorf("Col.Class() = %q, want %q", got, tt.colClass)
			}
		})
	}
}

func TestParseLink(t *testing.T) {
	k := keys.Parse("a_card")
	if !k.Link || k.LinkClass != "card" {
		t.Fatalf("Parse(a_card) = %+v", k)
	}
	if keys.Parse("about").Link {
		t.Fatal("about must not be link container")
	}
}

func TestParseCol(t *testing.T) {
	base, spec := keys.ParseCol("price col:2,1,1")
	if base != "price" || spec == nil {
		t.Fatalf("ParseCol = %q, %v", base, spec)
	}
	if spec.Desktop != 2 || spec.Tablet != 1 || spec.Mobile != 1 || spec.Percent {
		t.Fatalf("spec = %+v", *spec)
	}

	base, spec = keys.ParseCol("cell col:33.5%")
	if base != "cell" || spec == nil || !spec.Percent || spec.Percentage != 33.5 {
		t.Fatalf("ParseCol percent = %q, %+v", base, spec)
	}

	for _, bad := range []string{"x col:a,b,c", "x col:1,2", "x col:%q"} {
		if base, spec := keys.ParseCol(bad); spec != nil || base != bad {
			t.Errorf("ParseCol(%q) = %q, %+v, want unchanged", bad, base, spec)
		}
	}
}

func TestIsGroupPath(t *testing.T) {
	tests := map[string]bool{
		"header.2.1.1": true,
		"header.2.1":   false,
		"header.a.1.1": false,
		"a.b.c.d":      false,
		"x.10.20.30":   true,
	}
	for in, want := range tests {
		if got := keys.IsGroupPath(in); got != want {
			t.Errorf("IsGroupPath(%q) = %v, want %v", in, got, want)
		}
	}
	if got := keys.GroupClass("header.2.1.1"); got != "header-2-1-1" {
		t.Errorf("GroupClass = %q", got)
	}
}

func TestSectionSuffix(t *testing.T) {
	tests := []struct {
		key, name, selector string
	}{
		{"header-S-L-C", "header", ".layout.section-header .column"},
		{"header-S-L", "header", ".layout.section-header"},
		{"header-S", "header", "section.section-header"},
		{"header", "header", ".layout.section-header"},
	}
	for _, tt := range tests {
		name, kind := keys.SectionSuffix(tt.key)
		if name != tt.name {
			t.Errorf("SectionSuffix(%q) name = %q, want %q", tt.key, name, tt.name)
		}
		if got := kind.Selector(name); got != tt.selector {
			t.Errorf("SectionSuffix(%q) selector = %q, want %q", tt.key, got, tt.selector)
		}
	}
}

func TestTags(t *testing.T) {
	for _, tag := range []string{"nav", "a", "img", "p", "h1", "h6", "span"} {
		if !keys.IsHTMLTag(tag) {
			t.Errorf("IsHTMLTag(%q) = false", tag)
		}
	}
	for _, name := range []string{"title", "content", "logo", "section"} {
		if keys.IsHTMLTag(name) {
			t.Errorf("IsHTMLTag(%q) = true", name)
		}
	}
	if !keys.IsContainerTag("form") || keys.IsContainerTag("a") {
		t.Error("IsContainerTag mismatch")
	}
	if !keys.Disabled("color*") || keys.Disabled("color") {
		t.Error("Disabled mismatch")
	}
}

func TestIsDigits(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"0", true},
		{"120", true},
		{"12a", false},
		{"-1", false},
		{"1.5", false},
		{"٣", false},
	}
	for _, tt := range tests {
		if got := keys.IsDigits(tt.in); got != tt.want {
			t.Errorf("IsDigits(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
