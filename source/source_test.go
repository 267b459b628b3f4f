package source_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"sitec/source"
	"sitec/tree"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func minimalSite() map[string]string {
	return map[string]string{
		"general/pages.json":      `{"index": {"section": ["header"], "seo": ["Home", "desc", "kw"]}}`,
		"general/objects.json":    `{"header": {"title": ["text", "text:Hi"]}}`,
		"layout/layout_html.json": `{"header": {"row_1": {"gr_1": ["header.title"]}}}`,
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	files := minimalSite()
	files["layout/layout_col.json"] = `{"header": {"gap": "1px"}, "body": {"width": "10%"}}`
	files["design/layout_css.json"] = `{"header": {"gap": "2px"}}`
	files["default/general*.json"] = `{"draft": true}`
	files["default/general_v2.json"] = `{"body": {"bg": "white"}}`
	files["default_report/general.json"] = `{"layout": {"a": 1}}`
	files["default_report/tag.json"] = `{"h1": {"color": "red"}}`
	files["library/icon.json"] = `{"home": "<svg/>"}`
	files["design/html.json"] = `not json`

	writeFiles(t, dir, files)

	c, err := source.Load(dir, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c.CSS.Lookup("header", "gap").Str(); got != "2px" {
		t.Errorf("later css file must win, got %q", got)
	}
	if !c.CSS.Has("body") {
		t.Errorf("css merge lost keys: %s", c.CSS)
	}
	if c.General.Has("draft") || !c.General.Has("body") {
		t.Errorf("general = %s, want fallback file without asterisk", c.General)
	}
	if !c.Report.Has("layout") || !c.Report.Has("h1") {
		t.Errorf("report = %s", c.Report)
	}
	if c.Icons.Get("home").Str() != "<svg/>" {
		t.Errorf("icons = %s", c.Icons)
	}
	if !c.HTMLAttrs.IsObject() || c.HTMLAttrs.Len() != 0 {
		t.Errorf("malformed optional config must load as empty object, got %s", c.HTMLAttrs)
	}
	if !c.Filter.IsObject() || !c.DivColumn.IsObject() {
		t.Error("missing optional configs must be empty objects")
	}
	if err := source.Validate(c); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_RequiredProblems(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"general/pages.json":   `{"index": {`,
		"general/objects.json": `{}`,
	})

	_, err := source.Load(dir, zap.NewNop())
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"pages.json", "layout_html.json"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %s", msg, want)
		}
	}
}

func TestLoad_NotADirectory(t *testing.T) {
	if _, err := source.Load(filepath.Join(t.TempDir(), "none"), zap.NewNop()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v", err)
	}
}

func TestLoad_Colors(t *testing.T) {
	t.Run("css wins", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"library/color.css":  ":root {\n  --brand-main: #336699;\n  --gray_2: #eeeeee;\n  --gray_1: #111111;\n}\n",
			"library/color.json": `{"brand": "#000000"}`,
		})
		c, _ := source.Load(dir, zap.NewNop())
		want := tree.MustParse(`{"brand_main": "#336699", "gray": ["#111111", "#eeeeee"]}`)
		if !tree.Equal(c.Colors, want) {
			t.Errorf("colors = %s, want %s", c.Colors, want)
		}
	})
	t.Run("json fallback", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"library/color.css":  "/* nothing here */",
			"library/color.json": `{"brand": "#000000"}`,
		})
		c, _ := source.Load(dir, zap.NewNop())
		if got := c.Colors.Get("brand").Str(); got != "#000000" {
			t.Errorf("colors = %s", c.Colors)
		}
	})
}

func TestParseColorCSS(t *testing.T) {
	got := source.ParseColorCSS([]byte(":root{--gray-3:#333;--accent:rgb(1, 2, 3);--gray_1:#111}"))
	want := tree.MustParse(`{"accent": "rgb(1, 2, 3)", "gray": ["#111", null, "#333"]}`)
	if !tree.Equal(got, want) {
		t.Errorf("ParseColorCSS = %s, want %s", got, want)
	}
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"default*.json":  `{}`,
		"default_b.json": `{}`,
		"default_a.json": `{}`,
	})
	if got := filepath.Base(source.Locate(dir, "default", ".json")); got != "default_a.json" {
		t.Errorf("Locate = %s", got)
	}
	writeFiles(t, dir, map[string]string{"default.json": `{}`})
	if got := filepath.Base(source.Locate(dir, "default", ".json")); got != "default.json" {
		t.Errorf("Locate = %s", got)
	}
	if got := filepath.Base(source.Locate(dir, "absent", ".json")); got != "absent.json" {
		t.Errorf("Locate = %s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		pages string
		objs  string
		html  string
		want  []string
	}{
		{
			name:  "empty required",
			pages: `{}`, objs: `{}`, html: `{}`,
			want: []string{"pages", "objects", "html"},
		},
		{
			name:  "page is not object",
			pages: `{"index": ["header"]}`, objs: `{"a": 1}`, html: `{"header": {}}`,
			want: []string{"pages"},
		},
		{
			name:  "section is not list",
			pages: `{"index": {"section": "header"}}`, objs: `{"a": 1}`, html: `{"header": {}}`,
			want: []string{"pages"},
		},
		{
			name:  "unknown section",
			pages: `{"index": {"section": ["header", "footer"]}}`, objs: `{"a": 1}`, html: `{"header": {}}`,
			want: []string{`"footer"`},
		},
		{
			name:  "layout is not object",
			pages: `{"index": {"section": []}}`, objs: `{"a": 1}`, html: `{"header": []}`,
			want: []string{"html"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &source.Configs{
				Pages:   tree.MustParse(tt.pages),
				Objects: tree.MustParse(tt.objs),
				HTML:    tree.MustParse(tt.html),
			}
			err := source.Validate(c)
			if err == nil {
				t.Fatal("expected error")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q does not mention %s", err, w)
				}
			}
		})
	}
}
