package render_test

import (
	"testing"

	"sitec/render"
	"sitec/tree"
)

func renderElement(t *testing.T, ctx *render.Context, key, value string) string {
	t.Helper()
	el, ok := render.NewElement(key, tree.MustParse(value))
	if !ok {
		t.Fatalf("NewElement(%q, %s) is not an element", key, value)
	}
	return el.Render(ctx)
}

func TestTextExample(t *testing.T) {
	got := renderElement(t, &render.Context{}, "title", `["text", "text:Hello"]`)
	if want := `<title class="content-title">Hello</title>`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestButtonExample(t *testing.T) {
	got := renderElement(t, &render.Context{}, "btn1", `["button", "text:Save", "modal:m1"]`)
	if want := `<button type="button" data-modal="m1" class="button btn1">Save</button>`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestElements(t *testing.T) {
	ctx := &render.Context{
		Page:  "index",
		Icons: tree.MustParse(`{"cart_svg": "<svg></svg>", "x": "<svg/>"}`),
	}
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"text api", "price", `["text", "text:10", "api"]`,
			`<span class="content-price" data-source="api" data-api-url="/diskokras/php/price.php">10</span>`},
		{"text function", "total", `["text", "fun:sum_total"]`,
			`<total class="content-total" data-function-result="sum_total">0</total>`},
		{"text short", "title", `["text"]`, ``},
		{"link", "home", `["a", "text:Home", "/index"]`, `<a href="/index" class="btn">Home</a>`},
		{"link modal", "open", `["a", "text:Open", "modal", "m2"]`, `<a href="modal" class="btn" data-modal="m2">Open</a>`},
		{"link short", "home", `["a", "Home"]`, ``},
		{"image", "logo", `["img", "logo.png"]`, `<img src="../img/logo.png" alt="">`},
		{"image link", "logo", `["img", "logo.png", "/index"]`, `<a href="/index"><img src="../img/logo.png" alt=""></a>`},
		{"icon", "cart", `["icon", "cart_svg"]`, `<icon class="content-cart"><svg></svg></icon>`},
		{"icon missing", "cart", `["icon", "nothing"]`, ``},
		{"input short", "phone", `["input", "tel:Phone"]`,
			`<input type="tel" placeholder="Phone" class="field phone" name="phone">`},
		{"input checkbox", "agree", `["input", "checkbox:Agree"]`,
			`<label><input type="checkbox" class="field agree" name="agree">Agree</label>`},
		{"input bare", "mail", `["input", "email"]`, `<input type="email" class="field">`},
		{"input toggle", "qty", `["input", "number", "text:Qty", "toggle:extra"]`,
			`<input type="number" placeholder="Qty" class="field qty" name="qty" data-toggle="extra">`},
		{"input form", "name", `["input", "text", "Name", "order"]`,
			`<input type="text" placeholder="Name" class="field name" name="name" data-form="order">`},
		{"input radio", "pick", `["input", "radio", "text:One"]`,
			`<label><input type="radio" class="field pick" name="pick">One</label>`},
		{"field legacy", "search", `["field", "Search", "find"]`,
			`<input type="text" placeholder="Search" class="field" name="search" data-form="find">`},
		{"button type", "button_send", `["button", "text:Send", "submit"]`,
			`<button type="submit" class="button send">Send</button>`},
		{"button plain", "button", `["button", "icon:x"]`, `<button type="button" class="button"><svg/></button>`},
		{"button json", "button_save", `["button_json", "text:Save", "order_cfg", "save_bd", "orders"]`,
			`<button type="button" data-action="button_json" data-button-json="order_cfg" data-save-bd="1" data-save-bd-config="orders" class="button save">Save</button>`},
		{"button json default config", "button_save", `["button_json", "text:Save"]`,
			`<button type="button" data-action="button_json" data-button-json="button_save" class="button save">Save</button>`},
		{"list", "items", `["list", "goods"]`, ``},
		{"menu", "nav_main", `{
			"home": ["a", "text:Home", "/index"],
			"shop": ["a", "Shop", "/shop"],
			"ext": ["a", "Ext", "https://x.org/a"],
			"call": ["a", "Call", "modal", "call"]
		}`, `<nav class="menu nav-menu main"><a href="index.html" class="btn">Home</a><a href="shop.html" class="btn">Shop</a><a href="https://x.org/a" class="btn">Ext</a><a href="modal" class="btn" data-modal="call">Call</a></nav>`},
		{"menu five", "menu_top", `{"m": ["a", "top", "Write", "modal", "mail"]}`,
			`<nav class="menu nav-menu top"><a href="modal" class="btn" data-modal="mail">Write</a></nav>`},
		{"menu four takes text and url in place", "nav_main", `{"m": ["a", "main", "/shop", "extra"]}`,
			`<nav class="menu nav-menu main"><a href="shop.html" class="btn">main</a></nav>`},
		{"menu empty", "nav_main", `{"bad": ["a", "x"]}`, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderElement(t, ctx, tt.key, tt.value); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestNotElements(t *testing.T) {
	for _, v := range []string{`"text"`, `[]`, `["unknown", 1]`, `{"title": ["text", "t"]}`, `12`} {
		if _, ok := render.NewElement("k", tree.MustParse(v)); ok {
			t.Errorf("NewElement(%s) must not be an element", v)
		}
	}
}

func TestResolveContent(t *testing.T) {
	ctx := &render.Context{
		Page:  "shop",
		Icons: tree.MustParse(`{"cart": "<svg/>"}`),
		IfValues: tree.MustParse(`{
			"greet": {"/shop": ["text:Hi shop"], "/index": "icon:cart"},
			"chain": {"/shop": "if:greet"},
			"self": {"/shop": "if:self"}
		}`),
	}
	tests := []struct {
		raw  string
		want string
		warn *render.Warning
	}{
		{"plain", "plain", nil},
		{"text:a:b", "a:b", nil},
		{"icon:cart", "<svg/>", nil},
		{"icon:none", "", &render.Warning{Kind: render.IconNotFound, Key: "none"}},
		{"if:greet", "Hi shop", nil},
		{"if:chain", "Hi shop", nil},
		{"if:absent", "", &render.Warning{Kind: render.IfKeyNotFound, Key: "absent"}},
		{"if:self", "", &render.Warning{Kind: render.IfKeyNotFound, Key: "self"}},
		{"unknown:x", "unknown:x", nil},
	}
	for _, tt := range tests {
		got, w := ctx.ResolveContent(tt.raw)
		if got != tt.want {
			t.Errorf("ResolveContent(%q) = %q, want %q", tt.raw, got, tt.want)
		}
		switch {
		case tt.warn == nil && w != nil:
			t.Errorf("ResolveContent(%q) unexpected warning %s", tt.raw, w)
		case tt.warn != nil && (w == nil || *w != *tt.warn):
			t.Errorf("ResolveContent(%q) warning = %v, want %v", tt.raw, w, *tt.warn)
		}
	}

	about := *ctx
	about.Page = "about"
	if _, w := about.ResolveContent("if:greet"); w == nil || w.String() != "[No if value for page: /about]" {
		t.Errorf("missing page warning = %v", w)
	}
	if _, w := (&render.Context{}).ResolveContent("icon:x"); w == nil || w.String() != "[No icons loaded]" {
		t.Errorf("no icons warning = %v", w)
	}
	if _, w := (&render.Context{}).ResolveContent("if:x"); w == nil || w.String() != "[No if_values loaded]" {
		t.Errorf("no if values warning = %v", w)
	}
}

func TestWarningString(t *testing.T) {
	tests := map[render.Warning]string{
		{Kind: render.IconNotFound, Key: "x"}:   "[Icon: x not found]",
		{Kind: render.NoIcons}:                  "[No icons loaded]",
		{Kind: render.NoIfPageValue, Key: "/p"}: "[No if value for page: /p]",
		{Kind: render.IfKeyNotFound, Key: "k"}:  "[If key not found: k]",
		{Kind: render.NoIfValues}:               "[No if_values loaded]",
	}
	for w, want := range tests {
		if got := w.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", w.Kind, got, want)
		}
	}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		value string
		want  render.Type
	}{
		{`["text", "x"]`, render.TypeSimple},
		{`"str"`, render.TypeSimple},
		{`{"a1": ["a", "x", "/"], "a2": ["a", "y", "/y"]}`, render.TypeMenu},
		{`{"nav": {"a": ["a", "x", "/"]}, "title": ["text", "t"]}`, render.TypeMenu},
		{`{"btn": ["button", "text:Go", "modal:m", {"title": ["text", "t"]}]}`, render.TypeButtonModal},
		{`{"title": ["text", "t"]}`, render.TypeComplex},
		{`{}`, render.TypeComplex},
	}
	for _, tt := range tests {
		if got := render.DetectType(tree.MustParse(tt.value)); got != tt.want {
			t.Errorf("DetectType(%s) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestMatchFunction(t *testing.T) {
	fns := tree.MustParse(`{
		"sum": {"form_buy qty": {"fun": "sum", "result": "total"}},
		"avg": {"2.div_f price": {"fun": "avg", "result": "mean", "format": "money"}}
	}`)
	tests := []struct {
		path   string
		result string
	}{
		{"order.form_buy.div_f.qty", "total"},
		{"order.form_buy.qty.extra", ""},
		{"order.div_f.price", "mean"},
		{"order.price", ""},
	}
	for _, tt := range tests {
		fn := render.MatchFunction(fns, tt.path)
		var got string
		if fn != nil {
			got = fn.Result
		}
		if got != tt.result {
			t.Errorf("MatchFunction(%q) result = %q, want %q", tt.path, got, tt.result)
		}
	}
	if fn := render.MatchFunction(fns, "order.div_f.price"); fn == nil || fn.Format != "money" {
		t.Errorf("format = %+v", fn)
	}
	if fn := render.MatchFunction(fns, "x.form_buy.qty"); fn == nil || fn.Format != "number" {
		t.Errorf("default format = %+v", fn)
	}
}
