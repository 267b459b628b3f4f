// Package render turns element descriptors of the objects tree into html
// fragments and wraps them into layout scaffold of a section.
package render

import (
	"fmt"
	"strings"

	"sitec/keys"
	"sitec/tree"
)

// DefaultAPIPrefix is used for data-api-url when context does not set one.
const DefaultAPIPrefix = "/diskokras/php"

// Context carries everything element rendering depends on. It is built once
// per (section, page) pair and is never modified while rendering, element
// specific values are set on copies.
type Context struct {
	Page      string
	Section   string
	Icons     *tree.Node // name -> svg markup
	IfValues  *tree.Node // key -> "/page" -> value
	Functions *tree.Node // function bindings
	APIPrefix string
	// APIOverrides maps element key to explicit data-api-url.
	APIOverrides map[string]string

	path     string
	function *FunctionBinding
	warn     func(Warning)
}

// PageURL is the key if tables use for current page.
func (c *Context) PageURL() string {
	return "/" + c.Page
}

func (c Context) withElement(path string, fn *FunctionBinding) *Context {
	c.path = path
	c.function = fn
	return &c
}

func (c *Context) apiURL(key string) string {
	if u, ok := c.APIOverrides[key]; ok {
		return u
	}
	prefix := c.APIPrefix
	if prefix == "" {
		prefix = DefaultAPIPrefix
	}
	return strings.TrimSuffix(prefix, "/") + "/" + key + ".php"
}

// WarningKind classifies unresolved content references.
type WarningKind uint8

const (
	IconNotFound WarningKind = iota + 1
	NoIcons
	NoIfPageValue
	IfKeyNotFound
	NoIfValues
)

// Warning describes reference which could not be resolved. Rendering goes
// on and the warning text is put into output in place of content.
type Warning struct {
	Kind WarningKind
	Key  string
}

func (w Warning) String() string {
	switch w.Kind {
	case IconNotFound:
		return fmt.Sprintf("[Icon: %s not found]", w.Key)
	case NoIcons:
		return "[No icons loaded]"
	case NoIfPageValue:
		return fmt.Sprintf("[No if value for page: %s]", w.Key)
	case IfKeyNotFound:
		return fmt.Sprintf("[If key not found: %s]", w.Key)
	case NoIfValues:
		return "[No if_values loaded]"
	}
	return "[unknown warning]"
}

// ResolveContent expands "text:", "icon:" and "if:" prefixes. Values without
// known prefix are returned unchanged. "if:" values are resolved again after
// lookup so conditional entries may point to text or icons.
func (c *Context) ResolveContent(raw string) (string, *Warning) {
	return c.resolve(raw, 0)
}

// maxIfDepth bounds chains of "if:" values pointing to each other.
const maxIfDepth = 16

func (c *Context) resolve(raw string, depth int) (string, *Warning) {
	prefix, rest, found := strings.Cut(raw, ":")
	if !found {
		return raw, nil
	}
	switch prefix {
	case "text":
		return rest, nil
	case "icon":
		if c.Icons == nil {
			return "", &Warning{Kind: NoIcons}
		}
		if !c.Icons.Has(rest) {
			return "", &Warning{Kind: IconNotFound, Key: rest}
		}
		return c.Icons.Get(rest).Text(), nil
	case "if":
		if c.IfValues == nil {
			return "", &Warning{Kind: NoIfValues}
		}
		if !c.IfValues.Has(rest) || depth >= maxIfDepth {
			return "", &Warning{Kind: IfKeyNotFound, Key: rest}
		}
		pages := c.IfValues.Get(rest)
		if !pages.Has(c.PageURL()) {
			return "", &Warning{Kind: NoIfPageValue, Key: c.PageURL()}
		}
		v := pages.Get(c.PageURL())
		if v.IsArray() && v.Len() > 0 {
			v = v.At(0)
		}
		if !v.IsString() {
			return v.Text(), nil
		}
		return c.resolve(v.Str(), depth+1)
	}
	return raw, nil
}

// content resolves node and serializes warning into output.
func (c *Context) content(raw *tree.Node) string {
	if !raw.IsString() {
		return raw.Text()
	}
	s, w := c.ResolveContent(raw.Str())
	if w != nil {
		if c.warn != nil {
			c.warn(*w)
		}
		return w.String()
	}
	return s
}

// FunctionBinding attaches computed client side value to an input.
type FunctionBinding struct {
	Fun    string
	Result string
	Format string
}

// MatchFunction finds binding for element path. Binding keys are space
// separated key sequences which must appear in path in order, the last one
// being the element itself. A numeric "N." prefix on binding parts is
// ignored.
func MatchFunction(functions *tree.Node, path string) *FunctionBinding {
	if functions.Len() == 0 {
		return nil
	}
	parts := strings.Split(path, ".")
	for _, bindings := range functions.Pairs() {
		for spec, cfg := range bindings.Pairs() {
			if !matchParts(strings.Split(spec, " "), parts) {
				continue
			}
			format := cfg.Get("format").Str()
			if format == "" {
				format = "number"
			}
			return &FunctionBinding{
				Fun:    cfg.Get("fun").Text(),
				Result: cfg.Get("result").Text(),
				Format: format,
			}
		}
	}
	return nil
}

func matchParts(spec, parts []string) bool {
	idx, last := 0, -1
	for _, sp := range spec {
		clean := sp
		if num, rest, found := strings.Cut(sp, "."); found && keys.IsDigits(num) {
			clean = rest
		}
		found := false
		for idx < len(parts) {
			p := parts[idx]
			idx++
			if p == sp || p == clean {
				found, last = true, idx-1
				break
			}
		}
		if !found {
			return false
		}
	}
	return last == len(parts)-1
}
