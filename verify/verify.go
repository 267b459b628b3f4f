// Package verify checks produced site: stylesheet and documents parse, json
// payloads embedded into documents are valid and every rendered layout
// section has its container styles.
package verify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"sitec/css"
)

// Summary counts checked items.
type Summary struct {
	Documents int
	Payloads  int
	Sections  []string
	Rules     int
}

type checker struct {
	dir      string
	log      *zap.Logger
	sum      Summary
	sections map[string]bool
	errs     error
}

func (c *checker) problem(file, format string, args ...any) {
	c.errs = multierr.Append(c.errs, fmt.Errorf("%s: %s", file, fmt.Sprintf(format, args...)))
}

// Check verifies site in dir. Every problem found is returned in combined
// error, use multierr.Errors to list them.
func Check(dir string, log *zap.Logger) (*Summary, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if fi, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("unable to access site directory: %w", err)
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("site %s is not a directory", dir)
	}

	c := &checker{dir: dir, log: log.Named("verify"), sections: make(map[string]bool)}
	for _, file := range c.documents() {
		c.document(file)
	}
	c.stylesheet()
	return &c.sum, c.errs
}

// documents lists root index and html files of pages and sections.
func (c *checker) documents() []string {
	var out []string
	if _, err := os.Stat(filepath.Join(c.dir, "index.html")); err == nil {
		out = append(out, "index.html")
	} else {
		c.problem("index.html", "missing")
	}
	for _, sub := range []string{"pages", "sections"} {
		entries, err := os.ReadDir(filepath.Join(c.dir, sub))
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) || sub == "pages" {
				c.problem(sub, "%v", err)
			}
			continue
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() && filepath.Ext(e.Name()) == ".html" {
				names = append(names, e.Name())
			}
		}
		sort.Sort(natural.StringSlice(names))
		for _, n := range names {
			out = append(out, filepath.ToSlash(filepath.Join(sub, n)))
		}
	}
	return out
}

func (c *checker) document(file string) {
	data, err := os.ReadFile(filepath.Join(c.dir, filepath.FromSlash(file)))
	if err != nil {
		c.problem(file, "%v", err)
		return
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		c.problem(file, "unable to parse html: %v", err)
		return
	}
	c.sum.Documents++

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			c.element(file, n)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc)
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (c *checker) element(file string, n *html.Node) {
	if v, ok := attr(n, "data-template"); ok {
		c.payload(file, "data-template", v)
	}
	if t, _ := attr(n, "type"); n.DataAtom == atom.Script && t == "application/json" {
		var text strings.Builder
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type == html.TextNode {
				text.WriteString(ch.Data)
			}
		}
		c.payload(file, "json script", text.String())
	}
	if class, ok := attr(n, "class"); ok {
		fields := strings.Fields(class)
		if slices.Contains(fields, "layout") {
			for _, f := range fields {
				if s, ok := strings.CutPrefix(f, "section-"); ok && s != "" {
					c.sections[s] = true
				}
			}
		}
	}
}

func (c *checker) payload(file, kind, v string) {
	c.sum.Payloads++
	switch {
	case !json.Valid([]byte(v)):
		c.problem(file, "%s is not valid json: %.80s", kind, v)
	case strings.Contains(v, "'"):
		c.problem(file, "%s contains single quote: %.80s", kind, v)
	}
}

func (c *checker) stylesheet() {
	const file = "css/style.css"
	data, err := os.ReadFile(filepath.Join(c.dir, filepath.FromSlash(file)))
	if err != nil {
		c.problem(file, "%v", err)
		return
	}
	sheet, err := css.NewParser(c.log).Parse(data, file)
	if err != nil {
		c.problem(file, "%v", err)
		return
	}
	c.sum.Rules = len(sheet.Rules())

	names := make([]string, 0, len(c.sections))
	for s := range c.sections {
		names = append(names, s)
	}
	sort.Sort(natural.StringSlice(names))
	c.sum.Sections = names
	for _, s := range names {
		if len(sheet.RulesBySelector(".layout.section-"+s)) == 0 {
			c.problem(file, "no .layout.section-%s rule for rendered section", s)
		}
	}
	c.log.Debug("Stylesheet checked", zap.Int("rules", c.sum.Rules), zap.Strings("sections", names))
}
