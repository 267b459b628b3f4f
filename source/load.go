// Package source reads site configuration from source directory.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sitec/tree"
)

// Configs is the set of configuration trees loaded from source directory.
// Absent optional files are represented by empty objects.
type Configs struct {
	Dir string

	Pages   *tree.Node // page name -> {section, seo}
	Objects *tree.Node // element trees by section
	HTML    *tree.Node // layout trees by section

	CSS        *tree.Node // layout_col.json merged with layout_css.json
	ObjectsCSS *tree.Node
	Functions  *tree.Node // objects_fun.json
	HTMLAttrs  *tree.Node // design/html.json
	If         *tree.Node // conditional styles
	Filter     *tree.Node // filtered styles

	Icons    *tree.Node
	IfValues *tree.Node
	Colors   *tree.Node

	Default   *tree.Node
	General   *tree.Node
	Tag       *tree.Node
	DivColumn *tree.Node

	Report           *tree.Node // default_report general.json merged with tag.json
	ReportObjectsCSS *tree.Node

	Config *tree.Node // config.json

	// API holds data-api-url overrides contributed by includes.
	API map[string]string
}

// Ignored reports whether file is excluded from build. Files with '*' in
// their names are drafts.
func Ignored(name string) bool {
	return strings.Contains(filepath.Base(name), "*")
}

// Locate returns path of dir/base+ext. When it is absent or ignored first
// (in name order) sibling named base*ext is used instead. Returned path may
// not exist.
func Locate(dir, base, ext string) string {
	exact := filepath.Join(dir, base+ext)
	if !Ignored(exact) {
		if _, err := os.Stat(exact); err == nil {
			return exact
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return exact
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || Ignored(name) {
			continue
		}
		if strings.HasPrefix(name, base) && strings.HasSuffix(name, ext) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return exact
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0])
}

type loader struct {
	dir  string
	log  *zap.Logger
	errs error
}

// object reads optional json object. Missing or malformed files give empty
// object, malformed ones are logged.
func (l *loader) object(rel ...string) *tree.Node {
	n, err := l.read(rel...)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.log.Warn("Unable to load optional config, ignoring", zap.Error(err))
		}
		return tree.NewObject()
	}
	if !n.IsObject() {
		l.log.Warn("Optional config is not an object, ignoring", zap.String("file", filepath.Join(rel...)))
		return tree.NewObject()
	}
	return n
}

// required reads json file which must be present for build to succeed.
// Problems are accumulated and reported together.
func (l *loader) required(rel ...string) *tree.Node {
	n, err := l.read(rel...)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.errs = multierr.Append(l.errs, fmt.Errorf("required config %s is missing", filepath.Join(rel...)))
		} else {
			l.errs = multierr.Append(l.errs, err)
		}
		return tree.NewObject()
	}
	return n
}

func (l *loader) read(rel ...string) (*tree.Node, error) {
	parts := append([]string{l.dir}, rel...)
	dir := filepath.Join(parts[:len(parts)-1]...)
	name := parts[len(parts)-1]
	ext := filepath.Ext(name)
	path := Locate(dir, strings.TrimSuffix(name, ext), ext)

	n, err := tree.ParseFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.log.Debug("Config not found", zap.String("file", path))
			return nil, err
		}
		return nil, fmt.Errorf("unable to load config %s: %w", path, err)
	}
	l.log.Debug("Config loaded", zap.String("file", path))
	return n, nil
}

// Load reads all configuration files from source directory. Returned error
// lists problems with required configs, Configs is always usable.
func Load(dir string, log *zap.Logger) (*Configs, error) {
	if fi, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("unable to access source directory: %w", err)
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", dir)
	}

	l := &loader{dir: dir, log: log}
	c := &Configs{Dir: dir}

	c.Pages = l.required("general", "pages.json")
	c.Objects = l.required("general", "objects.json")
	c.HTML = l.required("layout", "layout_html.json")

	c.CSS = l.object("layout", "layout_col.json").Merge(l.object("design", "layout_css.json"))
	c.ObjectsCSS = l.object("design", "objects_css.json")
	c.Functions = l.object("design", "objects_fun.json")
	c.HTMLAttrs = l.object("design", "html.json")
	c.If = l.object("design", "if.json")
	c.Filter = l.object("design", "filter.json")

	c.Icons = l.object("library", "icon.json")
	c.IfValues = l.object("library", "if.json")
	c.Colors = l.colors()

	c.Default = l.object("css", "default.json")
	c.General = l.object("default", "general.json")
	c.Tag = l.object("default", "tag.json")
	c.DivColumn = l.object("default", "div_column.json")

	c.Report = l.object("default_report", "general.json").Merge(l.object("default_report", "tag.json"))
	c.ReportObjectsCSS = l.object("default_report", "objects_css.json")

	c.Config = l.object("config.json")

	return c, l.errs
}

// colors prefers css custom properties and falls back to json table.
func (l *loader) colors() *tree.Node {
	path := Locate(filepath.Join(l.dir, "library"), "color", ".css")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if c := ParseColorCSS(data); c.Len() > 0 {
			l.log.Debug("Colors loaded", zap.String("file", path), zap.Int("count", c.Len()))
			return c
		}
	case !errors.Is(err, fs.ErrNotExist):
		l.log.Warn("Unable to read colors, ignoring", zap.String("file", path), zap.Error(err))
	}
	return l.object("library", "color.json")
}

// Raw returns named config tree by its source name, used for debug report.
func (c *Configs) Raw() map[string]*tree.Node {
	return map[string]*tree.Node{
		"pages":              c.Pages,
		"objects":            c.Objects,
		"html":               c.HTML,
		"css":                c.CSS,
		"objects_css":        c.ObjectsCSS,
		"objects_fun":        c.Functions,
		"html_attrs":         c.HTMLAttrs,
		"if":                 c.If,
		"filter":             c.Filter,
		"icons":              c.Icons,
		"if_values":          c.IfValues,
		"colors":             c.Colors,
		"default":            c.Default,
		"general":            c.General,
		"tag":                c.Tag,
		"div_column":         c.DivColumn,
		"report":             c.Report,
		"report_objects_css": c.ReportObjectsCSS,
		"config":             c.Config,
	}
}
