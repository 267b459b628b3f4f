package tree_test

import (
	"strings"
	"testing"

	"sitec/tree"
)

func TestParse_KeepsKeyOrder(t *testing.T) {
	n := tree.MustParse(`{"zeta": 1, "alpha": [true, null, "x"], "mid": {"b": 2, "a": 1}}`)

	if got := strings.Join(n.Keys(), ","); got != "zeta,alpha,mid" {
		t.Errorf("keys = %s, want zeta,alpha,mid", got)
	}
	if got := strings.Join(n.Get("mid").Keys(), ","); got != "b,a" {
		t.Errorf("nested keys = %s, want b,a", got)
	}
	if !n.Get("alpha").At(0).Bool() {
		t.Error("expected true at alpha[0]")
	}
	if !n.Get("alpha").At(1).IsNull() {
		t.Error("expected null at alpha[1]")
	}
	if n.Get("alpha").StrAt(2) != "x" {
		t.Error("expected x at alpha[2]")
	}
}

func TestParse_DuplicateKeys(t *testing.T) {
	n := tree.MustParse(`{"a": 1, "b": 2, "a": 3}`)
	if got := strings.Join(n.Keys(), ","); got != "a,b" {
		t.Errorf("keys = %s, want a,b", got)
	}
	if v, _ := n.Get("a").Int(); v != 3 {
		t.Errorf("a = %d, want 3", v)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{``, `{"a": }`, `[1, 2`} {
		if _, err := tree.Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}

func TestParse_Escapes(t *testing.T) {
	n := tree.MustParse(`{"k\"ey": "line\nbreak A"}`)
	if got := n.Get(`k"ey`).Str(); got != "line\nbreak A" {
		t.Errorf("got %q", got)
	}
}

func TestMarshal_SafeForSingleQuotedAttributes(t *testing.T) {
	src := tree.MustParse(`{"cycle": {"title": ["text", "it's <b>&</b>"], "n": 1.50, "ok": false}}`)
	out := src.String()

	for _, bad := range []string{"'", "<", ">", "&"} {
		if strings.Contains(out, bad) {
			t.Errorf("output contains %q: %s", bad, out)
		}
	}
	back, err := tree.Parse([]byte(out))
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if !tree.Equal(src, back) {
		t.Errorf("round trip mismatch:\n%s\n%s", src, back)
	}
	if out != back.String() {
		t.Errorf("encoding is not stable:\n%s\n%s", out, back)
	}
}

func TestNilNodeIsAbsent(t *testing.T) {
	var n *tree.Node
	if n.Len() != 0 || n.Get("x") != nil || n.At(0) != nil || n.Str() != "" || n.Head() != "" {
		t.Error("nil node accessors must return zero values")
	}
	if n.Lookup("a", "b") != nil {
		t.Error("Lookup on nil must return nil")
	}
	for range n.Pairs() {
		t.Error("nil node must not iterate")
	}
}

func TestSetDeleteClone(t *testing.T) {
	n := tree.NewObject()
	n.Set("a", tree.NewInt(1)).Set("b", tree.NewInt(2)).Set("c", tree.NewInt(3))
	n.Set("a", tree.NewString("x"))
	n.Delete("b")

	if got := strings.Join(n.Keys(), ","); got != "a,c" {
		t.Fatalf("keys = %s, want a,c", got)
	}
	if n.Get("c").Text() != "3" {
		t.Errorf("c = %s", n.Get("c").Text())
	}

	c := n.Clone()
	c.Set("d", tree.NewBool(true))
	if n.Has("d") {
		t.Error("clone must not share members")
	}
	if got := n.Without("a").Keys(); len(got) != 1 || got[0] != "c" {
		t.Errorf("Without = %v", got)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{`{"a":1,"b":[1,2]}`, `{"b":[1,2],"a":1.0}`, true},
		{`[1,2]`, `[2,1]`, false},
		{`"1"`, `1`, false},
		{`{"a":null}`, `{"b":null}`, false},
	}
	for _, tt := range tests {
		if got := tree.Equal(tree.MustParse(tt.a), tree.MustParse(tt.b)); got != tt.want {
			t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDirective(t *testing.T) {
	n := tree.MustParse(`["text", "text:Hello", "api"]`)
	if !n.IsDirective("text") || n.IsDirective("a") {
		t.Error("directive kind detection failed")
	}
	if n.TextAt(5) != "" {
		t.Error("out of range TextAt must be empty")
	}
}
