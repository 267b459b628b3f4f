package render_test

import (
	"slices"
	"testing"

	"sitec/render"
	"sitec/tree"
)

func TestForms(t *testing.T) {
	objects := tree.MustParse(`{
		"order": {"form_buy": {
			"div_f": {"qty": ["input", "number:Qty"]},
			"email": ["input", "email", "text:Mail"],
			"send": ["button_json", "text:Send", "buy_cfg"]
		}},
		"other": {"form_x": {"q": ["input", "text:Q"]}},
		"call": ["button", "text:Call", "modal:m", {"form_cb": {
			"phone": ["field", "Phone"],
			"go": ["button_json", "text:Go"]
		}}],
		"promo": {"if": {"/index": {"form_sub": {
			"mail": ["input", "text:Mail"],
			"go": ["button_json", "text:Go"]
		}}}}
	}`)
	got := render.Forms(objects)
	want := []render.Form{
		{Class: "buy", Fields: []string{"order_form_buy_div_f_qty", "order_form_buy_email"}},
		{Class: "cb", Fields: []string{"call_modal_form_cb_phone"}},
		{Class: "sub", Fields: []string{"promo_form_sub_mail"}},
	}
	if !slices.EqualFunc(got, want, func(a, b render.Form) bool {
		return a.Class == b.Class && slices.Equal(a.Fields, b.Fields)
	}) {
		t.Errorf("Forms() = %+v, want %+v", got, want)
	}
}
