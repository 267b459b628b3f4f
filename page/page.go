// Package page assembles html documents: sections are rendered through
// layout for a particular page, json data scripts are collected at the end of
// body and the whole document is expanded from shell template.
package page

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"sitec/render"
	"sitec/source"
	"sitec/tree"
)

//go:embed shell.html.tmpl
var shellTemplate string

// DefaultLanguage of generated documents.
const DefaultLanguage = "ru"

var (
	reJSONScript = regexp.MustCompile(`(?s)<script[^>]*type="application/json"[^>]*>.*?</script>`)
	reBDSource   = regexp.MustCompile(`data-bd-source="([^"]+)"`)
	reButtonJSON = regexp.MustCompile(`data-button-json="([^"]+)"`)
)

// Options of page generation.
type Options struct {
	Language  string
	APIPrefix string
	// Version is appended to stylesheet and script urls, empty disables it.
	Version string
	// Now is put into build marker, current time when zero.
	Now time.Time
}

// Section is a rendered section of layout.
type Section struct {
	Name string
	HTML string
}

// Generator renders sections and pages of one build.
type Generator struct {
	cfg    *source.Configs
	tables *render.Tables
	shell  *template.Template
	opts   Options
	log    *zap.Logger
}

// New creates generator for configs with includes already resolved. Tables
// are shared between all sections and pages so every table is read once.
func New(c *source.Configs, tables *render.Tables, opts Options, log *zap.Logger) (*Generator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	shell, err := template.New("shell").Funcs(sprig.FuncMap()).Parse(shellTemplate)
	if err != nil {
		return nil, fmt.Errorf("unable to parse page template: %w", err)
	}
	return &Generator{cfg: c, tables: tables, shell: shell, opts: opts, log: log.Named("page")}, nil
}

// Section renders layout of named section for page. Unknown sections render
// to empty string.
func (g *Generator) Section(name, page string) string {
	layout := g.cfg.HTML.Get(name)
	if layout.Len() == 0 {
		return ""
	}
	ctx := render.Context{
		Page:         page,
		Section:      name,
		Icons:        g.cfg.Icons,
		IfValues:     g.cfg.IfValues,
		Functions:    g.cfg.Functions,
		APIPrefix:    g.opts.APIPrefix,
		APIOverrides: g.cfg.API,
	}
	p := render.NewProcessor(g.cfg.Objects, ctx, g.tables, g.log.Named("render"))
	l := &render.Layout{Section: name, Config: layout, Attrs: g.cfg.HTMLAttrs, Elements: p}
	out := l.HTML()
	if w := p.Warnings(); len(w) > 0 {
		g.log.Debug("Section rendered with unresolved references",
			zap.String("section", name), zap.String("page", page), zap.Int("count", len(w)))
	}
	return out
}

// Sections renders every layout section once, using the first page (in
// pages order) for which it is not empty.
func (g *Generator) Sections() []Section {
	var out []Section
	for _, name := range g.cfg.HTML.Keys() {
		for _, page := range g.cfg.Pages.Keys() {
			if html := g.Section(name, page); html != "" {
				out = append(out, Section{Name: name, HTML: html})
				break
			}
		}
	}
	return out
}

type shellSection struct {
	ID   string
	HTML string
}

type shellValues struct {
	Lang        string
	Page        string
	Title       string
	Description string
	Keywords    string
	Version     string
	Built       time.Time
	Sections    []shellSection
	Scripts     []string
}

// Page renders full html document of page.
func (g *Generator) Page(name string) (string, error) {
	cfg := g.cfg.Pages.Get(name)
	if cfg == nil {
		return "", fmt.Errorf("unknown page %q", name)
	}
	seo := cfg.Get("seo")

	v := shellValues{
		Lang:        g.opts.Language,
		Page:        name,
		Title:       seo.TextAt(0),
		Description: seo.TextAt(1),
		Keywords:    seo.TextAt(2),
		Version:     g.opts.Version,
		Built:       g.opts.Now,
	}
	if v.Built.IsZero() {
		v.Built = time.Now()
	}

	var hoisted []string
	for _, sec := range cfg.Get("section").Items() {
		id := sec.Text()
		html := g.Section(id, name)
		if html == "" {
			continue
		}
		hoisted = append(hoisted, reJSONScript.FindAllString(html, -1)...)
		v.Sections = append(v.Sections, shellSection{ID: id, HTML: reJSONScript.ReplaceAllString(html, "")})
	}

	inlined := map[string]bool{}
	for _, s := range hoisted {
		for _, m := range reBDSource.FindAllStringSubmatch(s, -1) {
			inlined[m[1]] = true
		}
	}
	var body strings.Builder
	for _, s := range v.Sections {
		body.WriteString(s.HTML)
	}
	for _, m := range reBDSource.FindAllStringSubmatch(body.String(), -1) {
		inlined[m[1]] = true
	}

	v.Scripts = append(v.Scripts, hoisted...)
	v.Scripts = append(v.Scripts, g.localScripts(inlined)...)
	v.Scripts = append(v.Scripts, g.buttonScripts(body.String())...)
	if s := g.ifLabelsScript(); s != "" {
		v.Scripts = append(v.Scripts, s)
	}

	buf := new(bytes.Buffer)
	if err := g.shell.Execute(buf, v); err != nil {
		return "", fmt.Errorf("unable to expand page %q: %w", name, err)
	}
	return buf.String(), nil
}

func jsonScript(attrs, data string) string {
	return `<script type="application/json"` + attrs + ">" + data + "</script>"
}

// jsonFiles lists *.json names (without extension) of directory in natural
// order. Absent directory yields nothing.
func (g *Generator) jsonFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			g.log.Warn("Unable to read directory", zap.String("dir", dir), zap.Error(err))
		}
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || source.Ignored(e.Name()) || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

// localScripts inlines bd_local tables which page does not carry yet.
func (g *Generator) localScripts(skip map[string]bool) []string {
	dir := filepath.Join(g.cfg.Dir, "bd_local")
	var out []string
	for _, name := range g.jsonFiles(dir) {
		if skip[name] {
			continue
		}
		data, err := tree.ParseFile(filepath.Join(dir, name+".json"))
		if err != nil {
			g.log.Warn("Unable to load local table, skipping", zap.String("table", name), zap.Error(err))
			continue
		}
		out = append(out, jsonScript(` data-bd-source="`+name+`"`, data.String()))
	}
	return out
}

// buttonScripts inlines button_json configs referenced by page buttons, so
// buttons work when config can not be fetched.
func (g *Generator) buttonScripts(body string) []string {
	var names []string
	for _, m := range reButtonJSON.FindAllStringSubmatch(body, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	if len(names) == 0 {
		return nil
	}
	dir := filepath.Join(g.cfg.Dir, "button_json")
	var out []string
	for _, name := range names {
		if strings.ContainsAny(name, `/\`) {
			continue
		}
		path := filepath.Join(dir, name+".json")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		data, err := tree.ParseFile(path)
		if err != nil {
			g.log.Warn("Unable to load button config, skipping", zap.String("config", name), zap.Error(err))
			continue
		}
		out = append(out, jsonScript(` data-button-json-config="`+name+`"`, data.String()))
	}
	return out
}

// ifLabelsScript exposes conditional values which are not keyed by page
// (status labels and alike) to scripts.
func (g *Generator) ifLabelsScript() string {
	labels := tree.NewObject()
	for k, v := range g.cfg.IfValues.Pairs() {
		if !v.IsObject() || v.Len() == 0 {
			continue
		}
		if slices.ContainsFunc(v.Keys(), func(s string) bool { return strings.HasPrefix(s, "/") }) {
			continue
		}
		labels.Set(k, v)
	}
	if labels.Len() == 0 {
		return ""
	}
	return jsonScript(" data-if-labels", labels.String())
}
