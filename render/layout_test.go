package render_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"sitec/render"
	"sitec/tree"
)

func TestLayoutRows(t *testing.T) {
	objects := tree.MustParse(`{"title": ["text", "text:T"]}`)
	l := &render.Layout{
		Section:  "header",
		Config:   tree.MustParse(`{"row_10": {"gr_1": ["title"]}, "row_2": {"gr_2": ["title"], "gr_1": []}}`),
		Attrs:    tree.MustParse(`{"header.1.2.2": {"tag": "a", "href": "/shop"}}`),
		Elements: render.NewProcessor(objects, render.Context{}, nil, zap.NewNop()),
	}
	item := `<div class="marking-item" data-path="title"><title class="content-title">T</title></div>`
	want := `<div class="layout section-header">` +
		`<div class="row row_2"><div class="group header-1-2-1"></div><a href="/shop" class="group header-1-2-2">` + item + `</a></div>` +
		`<div class="row row_10"><div class="group header-1-10-1">` + item + `</div></div>` +
		`</div>`
	if got := l.HTML(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestLayoutColumns(t *testing.T) {
	objects := tree.MustParse(`{"title": ["text", "text:T"]}`)
	l := &render.Layout{
		Section:  "s",
		Config:   tree.MustParse(`{"column_2": {"row_1": {"gr_1": ["title", "missing"]}}, "col_1": {"row_1": {"gr_1": []}}}`),
		Elements: render.NewProcessor(objects, render.Context{}, nil, zap.NewNop()),
	}
	want := `<div class="layout section-s"><div class="column">` +
		`<div class="col_1"><div class="row row_1"><div class="group s-1-1-1"></div></div></div>` +
		`<div class="col_2"><div class="row row_1"><div class="group s-2-1-1">` +
		`<div class="marking-item" data-path="title"><title class="content-title">T</title></div>` +
		`<div class="marking-item" data-path="missing"></div>` +
		`</div></div></div>` +
		`</div></div>`
	got := l.HTML()
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}

	// every opened div is closed
	z := html.NewTokenizer(strings.NewReader(got))
	depth := 0
	for tt := z.Next(); tt != html.ErrorToken; tt = z.Next() {
		name, _ := z.TagName()
		if string(name) != "div" {
			continue
		}
		switch tt {
		case html.StartTagToken:
			depth++
		case html.EndTagToken:
			depth--
		}
	}
	if depth != 0 {
		t.Errorf("unbalanced divs: %d", depth)
	}
}

func TestLayoutEmpty(t *testing.T) {
	l := &render.Layout{Section: "x", Config: tree.NewObject(), Elements: render.NewProcessor(nil, render.Context{}, nil, zap.NewNop())}
	if got, want := l.HTML(), `<div class="layout section-x"></div>`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
