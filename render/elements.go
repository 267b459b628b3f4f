package render

import (
	"html"
	"strings"

	"sitec/tree"
)

// Element is a parsed leaf descriptor.
type Element interface {
	Render(ctx *Context) string
}

// Kinds of array encoded descriptors rendered by NewElement.
const (
	KindText       = "text"
	KindLink       = "a"
	KindImage      = "img"
	KindIcon       = "icon"
	KindField      = "field"
	KindInput      = "input"
	KindButton     = "button"
	KindButtonJSON = "button_json"
	KindList       = "list"
	KindBD         = "bd"
)

// IsElementKind reports whether kind names leaf descriptor.
func IsElementKind(kind string) bool {
	switch kind {
	case KindText, KindLink, KindImage, KindIcon, KindField, KindInput, KindButton, KindButtonJSON, KindList:
		return true
	}
	return false
}

// NewElement parses descriptor. Arrays of known kinds and mappings made of
// links only are elements, everything else is not. Descriptors which are too
// short for their kind render to empty string.
func NewElement(key string, v *tree.Node) (Element, bool) {
	if v.IsObject() {
		return newMenu(key, v)
	}
	if !v.IsArray() || v.Len() == 0 {
		return nil, false
	}
	switch kind := v.Head(); kind {
	case KindText:
		if v.Len() < 2 {
			return empty{}, true
		}
		return &Text{Key: key, Content: v.At(1), API: v.StrAt(2) == "api"}, true
	case KindLink:
		if v.Len() < 3 {
			return empty{}, true
		}
		l := &Link{Content: v.At(1), URL: v.TextAt(2)}
		if v.Len() > 3 && l.URL == "modal" {
			l.Modal = v.TextAt(3)
		}
		return l, true
	case KindImage:
		if v.Len() < 2 {
			return empty{}, true
		}
		return &Image{File: v.TextAt(1), URL: v.TextAt(2)}, true
	case KindIcon:
		if v.Len() < 2 {
			return empty{}, true
		}
		return &Icon{Key: key, Ref: v.At(1), API: v.StrAt(2) == "api"}, true
	case KindField, KindInput:
		if v.Len() < 2 {
			return empty{}, true
		}
		return newInput(key, v), true
	case KindButton, KindButtonJSON:
		if v.Len() < 2 {
			return empty{}, true
		}
		return newButton(key, v), true
	case KindList:
		return empty{}, true
	}
	return nil, false
}

type empty struct{}

func (empty) Render(*Context) string { return "" }

func attr(name, value string) string {
	return " " + name + `="` + html.EscapeString(value) + `"`
}

// Text renders content under a tag named after element key. Live values
// loaded from api use span instead.
type Text struct {
	Key     string
	Content *tree.Node
	API     bool
}

func (e *Text) Render(ctx *Context) string {
	var text, fn string
	if s := e.Content.Str(); strings.HasPrefix(s, "fun:") {
		text, fn = "0", attr("data-function-result", strings.TrimPrefix(s, "fun:"))
	} else {
		text = ctx.content(e.Content)
	}
	tag := e.Key
	var b strings.Builder
	if e.API {
		tag = "span"
	}
	b.WriteString("<" + tag + attr("class", "content-"+e.Key))
	if e.API {
		b.WriteString(attr("data-source", "api"))
		b.WriteString(attr("data-api-url", ctx.apiURL(e.Key)))
	}
	b.WriteString(fn + ">" + text + "</" + tag + ">")
	return b.String()
}

// Link is a button styled anchor, "modal" url opens modal window instead.
type Link struct {
	Content *tree.Node
	URL     string
	Modal   string
}

func (e *Link) Render(ctx *Context) string {
	c := ctx.content(e.Content)
	if e.Modal != "" {
		return `<a href="modal" class="btn"` + attr("data-modal", e.Modal) + ">" + c + "</a>"
	}
	return "<a" + attr("href", e.URL) + ` class="btn">` + c + "</a>"
}

type Image struct {
	File string
	URL  string
}

func (e *Image) Render(*Context) string {
	img := "<img" + attr("src", "../img/"+e.File) + ` alt="">`
	if e.URL != "" {
		return "<a" + attr("href", e.URL) + ">" + img + "</a>"
	}
	return img
}

// Icon inlines svg markup from icon table. Missing icon renders nothing.
type Icon struct {
	Key string
	Ref *tree.Node
	API bool
}

func (e *Icon) Render(ctx *Context) string {
	name := e.Ref.Text()
	if strings.HasPrefix(name, "if:") {
		name = ctx.content(e.Ref)
	}
	svg := ctx.Icons.Get(name).Text()
	if svg == "" {
		return ""
	}
	out := "<icon" + attr("class", "content-"+e.Key)
	if e.API {
		out += attr("data-source", "api")
	}
	return out + ">" + svg + "</icon>"
}

type inputShape uint8

const (
	inputBare   inputShape = iota // ["input", "email"]
	inputShort                    // ["input", "type:placeholder"]
	inputFull                     // ["input", type, placeholder, data?]
	inputLegacy                   // ["field", placeholder, form?]
)

// Input is a form field. Its name is the dotted element path with dots
// replaced by underscores.
type Input struct {
	Key         string
	Type        string
	Placeholder string
	Toggle      string
	Form        string
	shape       inputShape
}

func newInput(key string, v *tree.Node) *Input {
	e := &Input{Key: key}
	switch {
	case v.Head() == KindInput && v.Len() == 2:
		p := v.TextAt(1)
		if t, ph, found := strings.Cut(p, ":"); found && v.At(1).IsString() {
			e.shape, e.Type, e.Placeholder = inputShort, t, ph
		} else {
			e.shape, e.Type = inputBare, p
		}
	case v.Head() == KindInput:
		e.shape, e.Type = inputFull, v.TextAt(1)
		e.Placeholder = v.TextAt(2)
		if v.At(2).IsString() {
			e.Placeholder = strings.TrimPrefix(e.Placeholder, "text:")
		}
		if d := v.At(3); d.IsString() {
			if t, ok := strings.CutPrefix(d.Str(), "toggle:"); ok {
				e.Toggle = t
			} else {
				e.Form = d.Str()
			}
		}
	default:
		e.shape, e.Placeholder = inputLegacy, v.TextAt(1)
		if v.Len() > 2 {
			e.Form = v.TextAt(2)
		}
	}
	return e
}

func (e *Input) name(ctx *Context) string {
	p := ctx.path
	if p == "" {
		p = e.Key
	}
	if p == "" {
		p = "field"
	}
	return attr("name", strings.ReplaceAll(p, ".", "_"))
}

func (e *Input) class() string {
	if e.Key == "" {
		return "field"
	}
	return "field " + e.Key
}

func (e *Input) Render(ctx *Context) string {
	check := e.Type == "checkbox" || e.Type == "radio"
	switch e.shape {
	case inputBare:
		return "<input" + attr("type", e.Type) + ` class="field">`
	case inputShort:
		if check {
			return "<label><input" + attr("type", e.Type) + attr("class", e.class()) + e.name(ctx) + ">" + e.Placeholder + "</label>"
		}
		var fn string
		if ctx.function != nil && ctx.function.Result != "" {
			fn = attr("data-function-sum", ctx.function.Result)
		}
		return "<input" + attr("type", e.Type) + attr("placeholder", e.Placeholder) + attr("class", e.class()) + e.name(ctx) + fn + ">"
	case inputFull:
		var data string
		switch {
		case e.Toggle != "":
			data = attr("data-toggle", e.Toggle)
		case e.Form != "":
			data = attr("data-form", e.Form)
		}
		if check {
			return "<label><input" + attr("type", e.Type) + attr("class", e.class()) + e.name(ctx) + data + ">" + e.Placeholder + "</label>"
		}
		return "<input" + attr("type", e.Type) + attr("placeholder", e.Placeholder) + attr("class", e.class()) + e.name(ctx) + data + ">"
	}
	var form string
	if e.Form != "" {
		form = attr("data-form", e.Form)
	}
	return `<input type="text"` + attr("placeholder", e.Placeholder) + ` class="field"` + e.name(ctx) + form + ">"
}

// Button never submits forms unless type is given explicitly. button_json
// buttons collect form data on client side using named config.
type Button struct {
	Key     string
	Content *tree.Node
	Type    string
	Modal   string

	JSON   bool
	Config string
	SaveBD string
}

func newButton(key string, v *tree.Node) *Button {
	e := &Button{Key: key, Content: v.At(1), Type: "button", JSON: v.Head() == KindButtonJSON}
	third := v.StrAt(2)
	switch {
	case strings.HasPrefix(third, "modal:"):
		e.Modal = strings.TrimPrefix(third, "modal:")
	case e.JSON:
		e.Config = key
		if third != "" && third != "save_bd" && !strings.HasPrefix(third, "text:") && !strings.HasPrefix(third, "icon:") {
			e.Config = third
		}
	case third != "" && !strings.HasPrefix(third, "text:") && !strings.HasPrefix(third, "icon:"):
		e.Type = third
		if v.Len() >= 4 {
			e.Content = v.At(3)
		}
	}
	if e.JSON {
		for i := 2; i+1 < v.Len(); i++ {
			if v.StrAt(i) == "save_bd" {
				e.SaveBD = v.TextAt(i + 1)
				break
			}
		}
	}
	return e
}

// Class is "button" plus class derived from element key.
func (e *Button) Class() string {
	if e.Key == "" || e.Key == "button" {
		return "button"
	}
	return "button " + strings.TrimPrefix(e.Key, "button_")
}

func (e *Button) Render(ctx *Context) string {
	var b strings.Builder
	b.WriteString("<button" + attr("type", e.Type))
	if e.Modal != "" {
		b.WriteString(attr("data-modal", e.Modal))
	}
	if e.JSON {
		b.WriteString(attr("data-action", "button_json") + attr("data-button-json", e.Config))
		if e.SaveBD != "" {
			b.WriteString(attr("data-save-bd", "1") + attr("data-save-bd-config", e.SaveBD))
		}
	}
	b.WriteString(attr("class", e.Class()) + ">" + ctx.content(e.Content) + "</button>")
	return b.String()
}

// MenuLink is one entry of navigation menu.
type MenuLink struct {
	Text  *tree.Node
	URL   string
	Modal string
}

// Menu renders mapping of links as navigation block.
type Menu struct {
	Key   string
	Links []MenuLink
}

func newMenu(key string, v *tree.Node) (Element, bool) {
	for _, item := range v.Pairs() {
		if !item.IsDirective(KindLink) {
			return nil, false
		}
	}
	m := &Menu{Key: key}
	for _, item := range v.Pairs() {
		var l MenuLink
		switch n := item.Len(); {
		case n < 3:
			continue
		case n == 3:
			l.Text, l.URL = item.At(1), item.TextAt(2)
		case n == 4:
			l.Text, l.URL = item.At(1), item.TextAt(2)
			if l.URL == "modal" {
				l.Modal = item.TextAt(3)
			}
		default:
			l.Text, l.URL = item.At(2), item.TextAt(3)
			if l.URL == "modal" {
				l.Modal = item.TextAt(4)
			}
		}
		m.Links = append(m.Links, l)
	}
	return m, true
}

func (e *Menu) Render(ctx *Context) string {
	if len(e.Links) == 0 {
		return ""
	}
	var b strings.Builder
	suffix := strings.ReplaceAll(strings.ReplaceAll(e.Key, "nav_", ""), "menu_", "")
	b.WriteString(`<nav` + attr("class", strings.TrimSpace("menu nav-menu "+suffix)) + ">")
	for _, l := range e.Links {
		text := ctx.content(l.Text)
		if l.URL == "modal" {
			b.WriteString(`<a href="modal" class="btn"` + attr("data-modal", l.Modal) + ">" + text + "</a>")
			continue
		}
		b.WriteString("<a" + attr("href", PageHref(l.URL)) + ` class="btn">` + text + "</a>")
	}
	b.WriteString("</nav>")
	return b.String()
}

// PageHref maps internal "/page" paths to static page files. External urls
// are kept.
func PageHref(url string) string {
	if !strings.HasPrefix(url, "/") || strings.Contains(url, "//") {
		return url
	}
	name := strings.TrimPrefix(url, "/")
	if name == "" || name == "index" {
		return "index.html"
	}
	return name + ".html"
}
