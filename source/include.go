package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"sitec/tree"
)

// maxIncludeDepth limits nesting of includes inside included fragments.
const maxIncludeDepth = 8

// FragmentLoader returns include fragment by name.
type FragmentLoader func(name string) (*tree.Node, error)

// Includes is the result of include resolution.
type Includes struct {
	Objects *tree.Node // objects tree with fragments spliced in
	CSS     *tree.Node // element key -> styles, to be added to objects_css
	Fun     *tree.Node // function bindings to be merged into objects_fun
	// API maps element keys of included fragments to their data-api-url.
	API map[string]string
}

// IncludeLoader reads fragments from include directory of source tree.
func IncludeLoader(dir string) FragmentLoader {
	return func(name string) (*tree.Node, error) {
		if name == "" || name == ".." || strings.ContainsAny(name, `/\`) {
			return nil, fmt.Errorf("bad include name %q", name)
		}
		path := Locate(filepath.Join(dir, "include"), name, ".json")
		n, err := tree.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to load include %q: %w", name, err)
		}
		if !n.IsObject() {
			return nil, fmt.Errorf("include %q is not an object", name)
		}
		return n, nil
	}
}

type includer struct {
	load  FragmentLoader
	cache map[string]*tree.Node
	res   *Includes
	errs  error
}

// ResolveIncludes replaces every ["include", name] value of objects tree
// with html part of the named fragment. Fragment css is recorded under the
// element key, fun is merged into function bindings and api overrides
// data-api-url of fragment elements. Input tree is never modified. Fragments
// which could not be loaded are dropped and reported in returned error.
func ResolveIncludes(objects *tree.Node, load FragmentLoader) (*Includes, error) {
	in := &includer{
		load:  load,
		cache: make(map[string]*tree.Node),
		res: &Includes{
			CSS: tree.NewObject(),
			Fun: tree.NewObject(),
			API: make(map[string]string),
		},
	}
	in.res.Objects = in.walk("", objects, nil)
	return in.res, in.errs
}

func (in *includer) fragment(name string) (*tree.Node, bool) {
	if f, ok := in.cache[name]; ok {
		return f, f != nil
	}
	f, err := in.load(name)
	if err != nil {
		in.errs = multierr.Append(in.errs, err)
		f = nil
	}
	in.cache[name] = f
	return f, f != nil
}

func (in *includer) walk(key string, v *tree.Node, stack []string) *tree.Node {
	switch {
	case v.IsDirective("include"):
		return in.include(key, v.StrAt(1), stack)
	case v.IsObject():
		out := tree.NewObject()
		for k, child := range v.Pairs() {
			if r := in.walk(k, child, stack); r != nil {
				out.Set(k, r)
			}
		}
		return out
	case v.IsArray():
		out := tree.NewArray()
		for _, child := range v.Items() {
			if r := in.walk(key, child, stack); r != nil {
				out.Append(r)
			}
		}
		return out
	}
	return v.Clone()
}

func (in *includer) include(key, name string, stack []string) *tree.Node {
	for _, s := range stack {
		if s == name {
			in.errs = multierr.Append(in.errs, fmt.Errorf("include %q includes itself", name))
			return nil
		}
	}
	if len(stack) >= maxIncludeDepth {
		in.errs = multierr.Append(in.errs, errors.New("includes nested too deep: "+strings.Join(append(stack, name), " -> ")))
		return nil
	}
	f, ok := in.fragment(name)
	if !ok {
		return nil
	}

	html := in.walk(key, f.Get("html"), append(stack, name))
	if css := f.Get("css"); css.IsObject() && css.Len() > 0 {
		in.res.CSS.Set(key, in.res.CSS.Get(key).Merge(css))
	}
	for k, b := range f.Get("fun").Pairs() {
		in.res.Fun.Set(k, b.Clone())
	}
	switch api := f.Get("api"); {
	case api.IsString():
		in.res.API[key] = api.Str()
		for _, k := range leafKeys(html) {
			in.res.API[k] = api.Str()
		}
	case api.IsObject():
		for k, u := range api.Pairs() {
			if u.IsString() {
				in.res.API[k] = u.Str()
			}
		}
	}
	if html == nil {
		return tree.NewObject()
	}
	return html
}

// leafKeys lists keys of array valued members of nested objects.
func leafKeys(v *tree.Node) []string {
	var out []string
	for k, child := range v.Pairs() {
		switch {
		case child.IsArray():
			out = append(out, k)
		case child.IsObject():
			out = append(out, leafKeys(child)...)
		}
	}
	return out
}

// WithIncludes returns copy of configs with resolved objects tree and
// include side tables merged in. Include css for a key is overridden by
// objects_css of the same key, function bindings of includes are
// overridden by objects_fun.
func (c *Configs) WithIncludes(in *Includes) *Configs {
	out := *c
	out.Objects = in.Objects
	out.ObjectsCSS = in.CSS.Merge(c.ObjectsCSS)
	out.Functions = in.Fun.Merge(c.Functions)
	out.API = in.API
	return &out
}
