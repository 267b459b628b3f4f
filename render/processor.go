package render

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"sitec/keys"
	"sitec/tree"
)

// Processor renders elements of objects tree for one section of one page.
type Processor struct {
	objects  *tree.Node
	ctx      *Context
	tables   *Tables
	log      *zap.Logger
	warnings []Warning
}

// NewProcessor creates processor. Unresolved references are logged and
// collected, rendering never fails.
func NewProcessor(objects *tree.Node, ctx Context, tables *Tables, log *zap.Logger) *Processor {
	p := &Processor{objects: objects, tables: tables, log: log}
	ctx.warn = p.warning
	p.ctx = &ctx
	return p
}

// Warnings returns references which could not be resolved so far.
func (p *Processor) Warnings() []Warning {
	return append([]Warning(nil), p.warnings...)
}

func (p *Processor) warning(w Warning) {
	p.warnings = append(p.warnings, w)
	p.log.Warn("Unresolved reference",
		zap.String("section", p.ctx.Section),
		zap.String("page", p.ctx.Page),
		zap.Stringer("warning", w))
}

func (p *Processor) lookup(path string) *tree.Node {
	if !strings.Contains(path, ".") {
		return p.objects.Get(path)
	}
	return p.objects.Lookup(strings.Split(path, ".")...)
}

// Element renders element referenced by dotted path from objects root.
// Missing elements render to empty string.
func (p *Processor) Element(path string) string {
	data := p.lookup(path)
	if data == nil {
		return ""
	}
	key := path
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		key = path[i+1:]
	}
	return p.render(key, data, path)
}

// resolveIf applies page condition and expands double markers of selected
// branch. Nil result means nothing to render.
func (p *Processor) resolveIf(v *tree.Node) *tree.Node {
	if !v.IsObject() || !v.Has("if") {
		return v
	}
	branch := Condition(v, p.ctx.Page)
	if branch.IsNull() {
		return nil
	}
	return Double(branch, v.Get("if"))
}

func (p *Processor) render(key string, data *tree.Node, path string) string {
	if data = p.resolveIf(data); data == nil {
		return ""
	}
	if data.IsArray() && data.Len() == 1 && (data.Head() == "nav" || data.Head() == "menu") {
		if children := p.children(key); children != nil {
			data = children
		}
	}

	switch DetectType(data) {
	case TypeMenu:
		if el, ok := NewElement(key, data); ok {
			return el.Render(p.ctx.withElement(path, nil))
		}
	case TypeButtonModal:
		k := data.Keys()[0]
		btn := data.Get(k)
		modal := p.complex(btn.At(3), path+"."+k+".modal", nil)
		el, _ := NewElement(k, btn)
		return el.Render(p.ctx.withElement(path+"."+k, nil)) + modal
	case TypeComplex:
		return p.complex(data, path, nil)
	}

	var modal string
	if m := modalOf(data); m != nil {
		modal = p.complex(m, path+".modal", nil)
	}
	if el, ok := NewElement(key, data); ok {
		return el.Render(p.ctx.withElement(path, nil)) + modal
	}
	if data.IsObject() {
		return p.complex(data, path, nil)
	}
	return ""
}

// children collects root elements naming parent in second position:
// ["a", "header_nav", ...] belongs to "header_nav" menu.
func (p *Processor) children(parent string) *tree.Node {
	out := tree.NewObject()
	for k, v := range p.objects.Pairs() {
		if v.IsArray() && v.Len() >= 2 && v.At(1).IsString() && v.StrAt(1) == parent {
			out.Set(k, v)
		}
	}
	if out.Len() == 0 {
		return nil
	}
	return out
}

func (p *Processor) complex(data *tree.Node, base string, parent []string) string {
	var b strings.Builder
	sources := collectSources(data, parent)

	for key, value := range data.Pairs() {
		if key == "if" {
			continue
		}
		if value = p.resolveIf(value); value == nil {
			continue
		}
		k := keys.Parse(key)
		sub := base + "." + key

		if k.Control == keys.ControlCycle && value.IsObject() {
			b.WriteString(p.cycle(k, value, sources))
			continue
		}

		if k.Link {
			href := "/"
			if in := value.Get("in"); in.Len() > 0 {
				href = in.TextAt(0)
			}
			b.WriteString("<a" + attr("href", href))
			if k.LinkClass != "" {
				b.WriteString(attr("class", k.LinkClass))
			}
			b.WriteString(">")
		}

		switch {
		case k.Tag != "":
			b.WriteString(p.container(k, value, sub, sources))
		case k.Link:
			if value.IsObject() {
				b.WriteString(p.complex(value.Without("in"), sub, sources))
			} else {
				b.WriteString(p.render(key, value, sub))
			}
		case value.IsArray():
			if s, ok := ParseSource(key, value); ok {
				b.WriteString(p.tables.Element(s))
				break
			}
			if el, ok := NewElement(key, value); ok {
				b.WriteString(el.Render(p.ctx.withElement(sub, MatchFunction(p.ctx.Functions, sub))))
			}
			if m := modalOf(value); m != nil {
				b.WriteString(p.complex(m, sub+".modal", nil))
			}
		case value.IsObject():
			if IsTemplate(value, sources) {
				b.WriteString("<div" + templateAttr(value) + "></div>")
			} else {
				b.WriteString(p.complex(value, sub, sources))
			}
		default:
			b.WriteString(p.render(key, value, sub))
		}

		if k.Link {
			b.WriteString("</a>")
		}
	}
	return b.String()
}

// container renders tag prefixed key: "div_price col:2,1,1" becomes
// <div class="price _col-2" data-col-desktop="2" ...>.
func (p *Processor) container(k keys.Key, value *tree.Node, path string, sources []string) string {
	var classes []string
	if k.Class != "" {
		classes = append(classes, k.Class)
	}
	if k.Col != nil {
		classes = append(classes, k.Col.Class())
	}
	var attrs string
	if len(classes) > 0 {
		attrs = attr("class", strings.Join(classes, " "))
	}
	switch {
	case k.Col == nil:
	case k.Col.Percent:
		attrs += attr("data-col-percent", formatPercent(k.Col.Percentage))
	default:
		attrs += attr("data-col-desktop", strconv.Itoa(k.Col.Desktop)) +
			attr("data-col-tablet", strconv.Itoa(k.Col.Tablet)) +
			attr("data-col-mobile", strconv.Itoa(k.Col.Mobile))
	}
	if strings.HasPrefix(k.Class, "modal") {
		attrs += attr("id", k.Class)
	}

	var inner string
	if value.IsObject() {
		if IsTemplate(value, sources) {
			return "<" + k.Tag + attrs + templateAttr(value) + "></" + k.Tag + ">"
		}
		inner = p.complex(value, path, sources)
	} else {
		inner = p.render(k.Raw, value, path)
	}
	if inner == "" {
		return ""
	}
	return "<" + k.Tag + attrs + ">" + inner + "</" + k.Tag + ">"
}

func (p *Processor) cycle(k keys.Key, value *tree.Node, parent []string) string {
	var b strings.Builder
	for _, name := range collectSources(value, parent) {
		if s, ok := ParseSource(name, value.Get(name)); ok {
			b.WriteString(p.tables.Element(s))
		}
	}
	b.WriteString(cycleContainer(k.CycleKey, value))
	return b.String()
}

// formatPercent keeps decimal point: 25 -> "25.0".
func formatPercent(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
