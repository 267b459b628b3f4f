package value_test

import (
	"testing"

	"sitec/color"
	"sitec/tree"
	"sitec/value"
)

func TestResolve(t *testing.T) {
	r := value.New(color.NewLibrary(tree.MustParse(`{"brand": "#336699", "gray": ["#111", "#eeeeee"]}`)))
	cfg := tree.MustParse(`{
		"page": {"bg-color": "magenta", "color": ["#ffffff", 100]},
		"section": {"bg-color": "gray_2"},
		"flat": "value"
	}`)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain string", `"magenta"`, "magenta"},
		{"hex string", `"#abcdef"`, "#abcdef"},
		{"number", `12`, "12"},
		{"section reference", `"page.bg-color"`, "magenta"},
		{"section reference modifier", `"page.bg-color.100"`, "#ff00ff"},
		{"array base value", `"page.color.100"`, "#ffffff"},
		{"chained reference", `"section.bg-color.100"`, "#eeeeee"},
		{"color reference", `"black.110"`, "#000000"},
		{"color legacy modifier", `"white.darker-80"`, "#333333"},
		{"unknown section", `"nothing.here"`, "nothing.here"},
		{"unknown property", `"page.missing"`, "page.missing"},
		{"non object section", `"flat.x"`, "flat.x"},
		{"decimal stays", `"1.5em"`, "1.5em"},
		{"unit pair", `["100", "vh"]`, "100vh"},
		{"unit pair multi", `["10 auto 5", "px"]`, "10px auto 5px"},
		{"four element", `[10, 10, 10, "'px'"]`, "10px"},
		{"style color pair", `["1px solid", "black.110"]`, "1px solid #000000"},
		{"style hex pair", `["1px solid", "#123456"]`, "1px solid #123456"},
		{"transparent wins", `["transparent", "page.bg-color"]`, "transparent"},
		{"opacity number", `["red", 50]`, "rgba(255, 0, 0, 0.5)"},
		{"opacity string", `["brand", "100"]`, "rgba(51, 102, 153, 1.0)"},
		{"opacity zero", `["white", 0]`, "rgba(255, 255, 255, 0.0)"},
		{"opacity out of range", `["red", 150]`, "red 150"},
		{"opacity unknown color", `["bold", 50]`, "bold 50"},
		{"generic pair", `["italic", "bold"]`, "italic bold"},
		{"border no sides", `["2px solid", "0 0 0 0", "black.100"]`, "border: 2px solid #000000"},
		{"border two sides", `["2px solid", "1 0 1 0", "red.100"]`, "border-top: 2px solid #ff0000 | border-bottom: 2px solid #ff0000"},
		{"border short flags", `["2px solid", "1", "red"]`, "2px solid red"},
		{"unsupported length", `["a"]`, `["a"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tree.MustParse(tt.in), cfg, "page"); got != tt.want {
				t.Errorf("Resolve(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolve_NeverPanicsOnAbsentInput(t *testing.T) {
	r := value.New(nil)
	if got := r.Resolve(nil, nil, ""); got != "" {
		t.Errorf("Resolve(nil) = %q", got)
	}
	if got := r.ResolveString("x.y.z", nil, ""); got != "x.y.z" {
		t.Errorf("ResolveString = %q", got)
	}
}
