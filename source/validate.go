package source

import (
	"fmt"
	"strings"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/multierr"

	"sitec/tree"
)

const (
	pagesSchema = `{
	"type": "object",
	"minProperties": 1,
	"additionalProperties": {
		"type": "object",
		"properties": {
			"section": {"type": "array", "items": {"type": "string"}},
			"seo": {"type": "array"}
		}
	}
}`
	objectsSchema = `{
	"type": "object",
	"minProperties": 1
}`
	layoutSchema = `{
	"type": "object",
	"minProperties": 1,
	"additionalProperties": {"type": "object"}
}`
	mappingSchema = `{"type": "object"}`
)

var schemas = map[string]*sjsonschema.Schema{}

func init() {
	for name, src := range map[string]string{
		"pages.json":   pagesSchema,
		"objects.json": objectsSchema,
		"layout.json":  layoutSchema,
		"mapping.json": mappingSchema,
	} {
		doc, err := sjsonschema.UnmarshalJSON(strings.NewReader(src))
		if err != nil {
			panic(fmt.Sprintf("bad embedded schema %s: %v", name, err))
		}
		c := sjsonschema.NewCompiler()
		if err := c.AddResource(name, doc); err != nil {
			panic(fmt.Sprintf("bad embedded schema %s: %v", name, err))
		}
		schemas[name] = c.MustCompile(name)
	}
}

// Validate checks shapes of configs required for build and cross references
// between them. All problems are reported together.
func Validate(c *Configs) error {
	var errs error

	errs = multierr.Append(errs, check("pages", "pages.json", c.Pages))
	errs = multierr.Append(errs, check("objects", "objects.json", c.Objects))
	errs = multierr.Append(errs, check("html", "layout.json", c.HTML))
	for _, m := range []struct {
		name string
		n    *tree.Node
	}{
		{"css", c.CSS},
		{"objects_css", c.ObjectsCSS},
		{"objects_fun", c.Functions},
		{"general", c.General},
		{"default", c.Default},
	} {
		errs = multierr.Append(errs, check(m.name, "mapping.json", m.n))
	}

	for page, cfg := range c.Pages.Pairs() {
		for _, s := range cfg.Get("section").Items() {
			if name := s.Str(); name != "" && !c.HTML.Has(name) {
				errs = multierr.Append(errs, fmt.Errorf("page %q references section %q which has no layout", page, name))
			}
		}
	}
	return errs
}

func check(name, schema string, n *tree.Node) error {
	doc, err := sjsonschema.UnmarshalJSON(strings.NewReader(n.String()))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := schemas[schema].Validate(doc); err != nil {
		return fmt.Errorf("%s has wrong shape: %w", name, err)
	}
	return nil
}
