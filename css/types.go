// Package css is an ordered model of generated stylesheet. Declaration
// order inside a rule and rule order inside a sheet are significant and
// are preserved both when writing and when parsing.
package css

import (
	"fmt"
	"io"
	"strings"
)

const indent = "    "

// Declaration is a single property of a rule.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Raw parses "property: value" text. Trailing !important and semicolon are
// recognized.
func Raw(text string) (Declaration, bool) {
	prop, val, ok := strings.Cut(strings.TrimSpace(text), ":")
	if !ok {
		return Declaration{}, false
	}
	d := Declaration{Property: strings.TrimSpace(prop)}
	val = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), ";"))
	if v, found := strings.CutSuffix(val, "!important"); found {
		val = strings.TrimSpace(v)
		d.Important = true
	}
	d.Value = val
	return d, d.Property != ""
}

func (d Declaration) String() string {
	if d.Important {
		return d.Property + ": " + d.Value + " !important;"
	}
	return d.Property + ": " + d.Value + ";"
}

// Rule is a selector with its declarations.
type Rule struct {
	Selector     string
	Declarations []Declaration
}

// Add appends declaration.
func (r *Rule) Add(prop, value string, important bool) *Rule {
	r.Declarations = append(r.Declarations, Declaration{Property: prop, Value: value, Important: important})
	return r
}

// Get returns last declaration of the property, later declarations win.
func (r *Rule) Get(prop string) (Declaration, bool) {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if r.Declarations[i].Property == prop {
			return r.Declarations[i], true
		}
	}
	return Declaration{}, false
}

// MediaBlock is a @media block with nested rules.
type MediaBlock struct {
	Query string // condition after @media, e.g. "(max-width: 768px)"
	Rules []*Rule
}

// Rule appends new rule to the block.
func (m *MediaBlock) Rule(selector string) *Rule {
	r := &Rule{Selector: selector}
	m.Rules = append(m.Rules, r)
	return r
}

// Item is a single top-level entry of stylesheet. Exactly one field is set.
type Item struct {
	Comment *string
	Rule    *Rule
	Media   *MediaBlock
}

// Stylesheet is the ordered list of items.
type Stylesheet struct {
	Items    []Item
	Warnings []string // unsupported constructs met while parsing
}

// Comment appends comment item.
func (s *Stylesheet) Comment(text string) {
	s.Items = append(s.Items, Item{Comment: &text})
}

// Rule appends new top-level rule.
func (s *Stylesheet) Rule(selector string) *Rule {
	r := &Rule{Selector: selector}
	s.Items = append(s.Items, Item{Rule: r})
	return r
}

// Media appends new media block.
func (s *Stylesheet) Media(query string) *MediaBlock {
	m := &MediaBlock{Query: query}
	s.Items = append(s.Items, Item{Media: m})
	return m
}

// Append adds all items of other stylesheet.
func (s *Stylesheet) Append(other *Stylesheet) {
	if other != nil {
		s.Items = append(s.Items, other.Items...)
	}
}

// Empty reports whether sheet has no rules. Comments do not count.
func (s *Stylesheet) Empty() bool {
	for _, it := range s.Items {
		if it.Rule != nil || it.Media != nil {
			return false
		}
	}
	return true
}

// Comments returns comment texts in source order.
func (s *Stylesheet) Comments() []string {
	var out []string
	for _, it := range s.Items {
		if it.Comment != nil {
			out = append(out, *it.Comment)
		}
	}
	return out
}

// Rules returns all rules including ones nested in media blocks.
func (s *Stylesheet) Rules() []*Rule {
	var out []*Rule
	for _, it := range s.Items {
		switch {
		case it.Rule != nil:
			out = append(out, it.Rule)
		case it.Media != nil:
			out = append(out, it.Media.Rules...)
		}
	}
	return out
}

// RulesBySelector returns top-level rules with given selector.
func (s *Stylesheet) RulesBySelector(selector string) []*Rule {
	var out []*Rule
	for _, it := range s.Items {
		if it.Rule != nil && it.Rule.Selector == selector {
			out = append(out, it.Rule)
		}
	}
	return out
}

// MediaBlocks returns media blocks in source order.
func (s *Stylesheet) MediaBlocks() []*MediaBlock {
	var out []*MediaBlock
	for _, it := range s.Items {
		if it.Media != nil {
			out = append(out, it.Media)
		}
	}
	return out
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (cw *countingWriter) printf(format string, args ...any) {
	if cw.err != nil {
		return
	}
	n, err := fmt.Fprintf(cw.w, format, args...)
	cw.n += int64(n)
	cw.err = err
}

// WriteTo writes stylesheet in source order, implementing io.WriterTo.
// Items are separated with blank lines, declarations are indented with four
// spaces per nesting level.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	for i, it := range s.Items {
		if i > 0 {
			cw.printf("\n")
		}
		switch {
		case it.Comment != nil:
			cw.printf("/* %s */\n", *it.Comment)
		case it.Rule != nil:
			writeRule(cw, it.Rule, "")
		case it.Media != nil:
			cw.printf("@media %s {\n", it.Media.Query)
			for _, r := range it.Media.Rules {
				writeRule(cw, r, indent)
			}
			cw.printf("}\n")
		}
	}
	return cw.n, cw.err
}

func writeRule(cw *countingWriter, r *Rule, prefix string) {
	cw.printf("%s%s {\n", prefix, r.Selector)
	for _, d := range r.Declarations {
		cw.printf("%s%s%s\n", prefix, indent, d)
	}
	cw.printf("%s}\n", prefix)
}

// String returns css text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}
