// Package keys classifies configuration keys once, so element rendering and
// selector generation agree on what a key means.
package keys

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html/atom"
)

// Control marks keys which drive processing rather than produce elements.
type Control uint8

const (
	ControlNone Control = iota
	ControlIf
	ControlCycle
)

// ColSpec is the "col:" suffix: column counts per device or a percentage.
type ColSpec struct {
	Percent    bool
	Percentage float64
	Desktop    int
	Tablet     int
	Mobile     int
}

// Class is the marker class put on rendered container.
func (c *ColSpec) Class() string {
	if c.Percent {
		return fmt.Sprintf("_col-%dpct", int(c.Percentage))
	}
	return fmt.Sprintf("_col-%d", c.Desktop)
}

// Key is a parsed configuration key.
type Key struct {
	Raw  string
	Base string // Raw without col: suffix
	Col  *ColSpec

	// Container tag when key names html container ("div_price", "form order",
	// "2.div-x"), Class is the part after the tag.
	Tag   string
	Class string

	// Link containers are keyed "a_<class>".
	Link      bool
	LinkClass string

	Control Control
	// CycleKey is normalized cycle key: cycle, cycle_col-N or cycle_<name>.
	CycleKey string
}

var (
	reCol           = regexp.MustCompile(`\s+col:(\S+)`)
	reNumericPrefix = regexp.MustCompile(`^(\d+)\.(.+)$`)
)

// containerTags may prefix keys of nested mappings.
var containerTags = []atom.Atom{
	atom.Div, atom.Span, atom.Section, atom.Article, atom.Aside,
	atom.Header, atom.Footer, atom.Main, atom.Nav, atom.Form,
}

// selectorTags are kept as element selectors when they appear in dotted
// style keys.
var selectorTags = []atom.Atom{
	atom.Nav, atom.A, atom.Img, atom.Div, atom.Span, atom.P,
	atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
}

func inAtoms(name string, set []atom.Atom) bool {
	a := atom.Lookup([]byte(name))
	if a == 0 {
		return false
	}
	for _, x := range set {
		if a == x {
			return true
		}
	}
	return false
}

// IsContainerTag reports whether name is one of html container tags allowed
// as key prefix.
func IsContainerTag(name string) bool {
	return inAtoms(name, containerTags)
}

// IsHTMLTag reports whether name stays a tag in compound style keys.
func IsHTMLTag(name string) bool {
	return inAtoms(name, selectorTags)
}

// ContainerTags lists container tag names.
func ContainerTags() []string {
	out := make([]string, len(containerTags))
	for i, a := range containerTags {
		out[i] = a.String()
	}
	return out
}

// Parse classifies key.
func Parse(raw string) Key {
	k := Key{Raw: raw}
	k.Base, k.Col = ParseCol(raw)

	if raw == "if" {
		k.Control = ControlIf
	}
	if raw == "cycle" || strings.HasPrefix(raw, "cycle_") {
		k.Control = ControlCycle
		switch {
		case strings.HasPrefix(k.Base, "cycle_col-"):
			k.CycleKey = k.Base
		case strings.HasPrefix(k.Base, "cycle_") && k.Col != nil && !k.Col.Percent:
			k.CycleKey = fmt.Sprintf("cycle_col-%d", k.Col.Desktop)
		default:
			k.CycleKey = k.Base
		}
	}

	if strings.HasPrefix(raw, "a_") {
		k.Link = true
		k.LinkClass = raw[2:]
	}

	k.Tag, k.Class = splitTag(normalizeNumericPrefix(k.Base))
	return k
}

// ParseCol strips "col:" suffix and parses it. Malformed suffix yields nil
// spec and unchanged key.
func ParseCol(key string) (string, *ColSpec) {
	m := reCol.FindStringSubmatch(key)
	if m == nil {
		return key, nil
	}
	clean := reCol.ReplaceAllString(key, "")
	v := m[1]

	if strings.Contains(v, "%") {
		p, err := strconv.ParseFloat(strings.ReplaceAll(v, "%", ""), 64)
		if err != nil {
			return key, nil
		}
		return clean, &ColSpec{Percent: true, Percentage: p}
	}

	parts := strings.Split(v, ",")
	switch len(parts) {
	case 3:
		var n [3]int
		for i, p := range parts {
			x, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return key, nil
			}
			n[i] = x
		}
		return clean, &ColSpec{Desktop: n[0], Tablet: n[1], Mobile: n[2]}
	case 1:
		x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return key, nil
		}
		return clean, &ColSpec{Desktop: x, Tablet: x, Mobile: x}
	}
	return key, nil
}

func normalizeNumericPrefix(key string) string {
	m := reNumericPrefix.FindStringSubmatch(key)
	if m == nil {
		return key
	}
	for _, tag := range ContainerTags() {
		if strings.HasPrefix(m[2], tag) {
			return m[2]
		}
	}
	return key
}

func splitTag(key string) (string, string) {
	if first, rest, found := strings.Cut(key, " "); found && IsContainerTag(first) {
		return first, rest
	}
	for _, tag := range ContainerTags() {
		if !strings.HasPrefix(key, tag) {
			continue
		}
		if key == tag {
			return tag, ""
		}
		if c := key[len(tag)]; c == '_' || c == '-' {
			return tag, key[len(tag)+1:]
		}
	}
	return "", ""
}

// Disabled keys and properties end with '*'.
func Disabled(key string) bool {
	return strings.HasSuffix(key, "*")
}

// IsGroupPath reports "section.col.row.group" paths with numeric coordinates.
func IsGroupPath(key string) bool {
	parts := strings.Split(key, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts[1:] {
		if !IsDigits(p) {
			return false
		}
	}
	return true
}

// GroupClass converts group path to its class: header.2.1.1 -> header-2-1-1.
func GroupClass(path string) string {
	return strings.ReplaceAll(path, ".", "-")
}

// SuffixKind of plain section style keys.
type SuffixKind uint8

const (
	SuffixNone SuffixKind = iota
	SuffixS               // -S: section element
	SuffixSL              // -S-L: section layout
	SuffixSLC             // -S-L-C: section layout columns
)

// SectionSuffix splits plain style key into section name and suffix kind.
func SectionSuffix(key string) (string, SuffixKind) {
	switch {
	case strings.HasSuffix(key, "-S-L-C"):
		return strings.TrimSuffix(key, "-S-L-C"), SuffixSLC
	case strings.HasSuffix(key, "-S-L"):
		return strings.TrimSuffix(key, "-S-L"), SuffixSL
	case strings.HasSuffix(key, "-S"):
		return strings.TrimSuffix(key, "-S"), SuffixS
	}
	return key, SuffixNone
}

// Selector for plain section style key.
func (s SuffixKind) Selector(section string) string {
	switch s {
	case SuffixSLC:
		return ".layout.section-" + section + " .column"
	case SuffixS:
		return "section.section-" + section
	default:
		return ".layout.section-" + section
	}
}

// IsDigits reports non-empty ASCII digit strings.
func IsDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
