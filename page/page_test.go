package page_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"

	"sitec/page"
	"sitec/render"
	"sitec/source"
	"sitec/tree"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newGenerator(t *testing.T) *page.Generator {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bd", "goods.json"), `[{"n": 1}]`)
	writeFile(t, filepath.Join(dir, "bd_local", "goods.json"), `[{"n": 1}]`)
	writeFile(t, filepath.Join(dir, "bd_local", "users.json"), `[{"id": 7}]`)
	writeFile(t, filepath.Join(dir, "bd_local", "draft*.json"), `[]`)
	writeFile(t, filepath.Join(dir, "button_json", "order_cfg.json"), `{"fields": ["name"]}`)

	c := &source.Configs{
		Dir: dir,
		Pages: tree.MustParse(`{
			"index": {"section": ["header", "main"], "seo": ["Home & co", "Desc \"x\"", "kw"]},
			"about": {"seo": ["About"]}
		}`),
		Objects: tree.MustParse(`{
			"title": ["text", "text:Hello"],
			"list": {"api1": ["bd", "goods"]},
			"save": ["button_json", "text:Save", "order_cfg"]
		}`),
		HTML: tree.MustParse(`{
			"header": {"row_1": {"gr_1": ["title", "save"]}},
			"main": {"row_1": {"gr_1": ["list"]}}
		}`),
		HTMLAttrs: tree.NewObject(),
		Icons:     tree.NewObject(),
		Functions: tree.NewObject(),
		IfValues:  tree.MustParse(`{"stat": {"new": "New"}, "greet": {"/index": "Hi"}}`),
	}
	tables := render.NewTables(filepath.Join(dir, "bd"), zap.NewNop())
	g, err := page.New(c, tables, page.Options{
		Version: "202601020304",
		Now:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestPage(t *testing.T) {
	g := newGenerator(t)
	out, err := g.Page("index")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if _, err := html.Parse(strings.NewReader(out)); err != nil {
		t.Fatalf("html.Parse: %v", err)
	}

	for _, want := range []string{
		`<html lang="ru">`,
		`<title>Home &amp; co</title>`,
		`<meta name="description" content="Desc &#34;x&#34;">`,
		`<link rel="stylesheet" href="../css/style.css?v=202601020304">`,
		`<body data-page="index">`,
		`<!-- build: 2026-01-02 03:04:05 -->`,
		`<section id="header" class="section-header">`,
		`<section id="main" class="section-main">`,
		`<script type="application/json" data-bd-source="users">[{"id":7}]</script>`,
		`<script type="application/json" data-button-json-config="order_cfg">{"fields":["name"]}</script>`,
		`<script type="application/json" data-if-labels>{"stat":{"new":"New"}}</script>`,
		`<script>window.BUILD_VERSION="202601020304";</script>`,
		`<script src="../js/script.js?v=202601020304"></script>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in\n%s", want, out)
		}
	}

	lastSection := strings.LastIndex(out, "</section>")
	hoisted := strings.Index(out, `<script type="application/json" data-bd-api="api1" data-bd-source="goods">`)
	if hoisted < lastSection {
		t.Errorf("section data script not moved after sections: %d < %d", hoisted, lastSection)
	}
	if strings.Contains(out, `<script type="application/json" data-bd-source="goods">`) {
		t.Error("local table inlined twice")
	}
	if strings.Contains(out, "draft") || strings.Contains(out, "greet") {
		t.Error("unexpected script content")
	}
}

func TestPageWithoutSections(t *testing.T) {
	g := newGenerator(t)
	out, err := g.Page("about")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if strings.Contains(out, "<section") {
		t.Error("page without sections renders section")
	}
	if _, err := g.Page("missing"); err == nil {
		t.Error("expected error for unknown page")
	}
}

func TestSections(t *testing.T) {
	g := newGenerator(t)
	secs := g.Sections()
	if len(secs) != 2 || secs[0].Name != "header" || secs[1].Name != "main" {
		t.Fatalf("sections = %+v", secs)
	}
	if !strings.HasPrefix(secs[0].HTML, `<div class="layout section-header">`) {
		t.Errorf("header = %s", secs[0].HTML)
	}
	if got := g.Section("unknown", "index"); got != "" {
		t.Errorf("unknown section = %q", got)
	}
}

func TestRedirect(t *testing.T) {
	out, err := page.Redirect("", "pages/index.html", "")
	if err != nil {
		t.Fatalf("Redirect: %v", err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "<!DOCTYPE html>") {
		t.Errorf("no doctype: %s", s)
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("html.Parse: %v", err)
	}

	var refresh, href, title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			attrs := map[string]string{}
			for _, a := range n.Attr {
				attrs[a.Key] = a.Val
			}
			switch n.Data {
			case "meta":
				if attrs["http-equiv"] == "refresh" {
					refresh = attrs["content"]
				}
			case "a":
				href = attrs["href"]
			case "title":
				if n.FirstChild != nil {
					title = n.FirstChild.Data
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if refresh != "0;url=pages/index.html" || href != "pages/index.html" || title != page.DefaultRedirectTitle {
		t.Errorf("refresh=%q href=%q title=%q", refresh, href, title)
	}
	if !strings.Contains(s, `location.replace("pages/index.html");`) {
		t.Errorf("script missing: %s", s)
	}
}
