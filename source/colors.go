package source

import (
	"bytes"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"sitec/tree"
)

// ParseColorCSS collects css custom properties into color table. Variables
// --gray_N (or --gray-N) form 1-based "gray" array, other names have dashes
// replaced with underscores. Gaps in gray array are kept as nulls, trailing
// ones are dropped.
func ParseColorCSS(data []byte) *tree.Node {
	colors := tree.NewObject()
	var gray []*tree.Node

	p := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	for {
		gt, _, name := p.Next()
		if gt == css.ErrorGrammar {
			break
		}
		if gt != css.CustomPropertyGrammar {
			continue
		}
		var value strings.Builder
		for _, t := range p.Values() {
			value.Write(t.Data)
		}
		v := strings.TrimSpace(value.String())
		key := strings.TrimPrefix(string(name), "--")

		if idx, ok := grayIndex(key); ok {
			for len(gray) <= idx {
				gray = append(gray, tree.NewNull())
			}
			gray[idx] = tree.NewString(v)
			continue
		}
		colors.Set(strings.ReplaceAll(key, "-", "_"), tree.NewString(v))
	}

	for len(gray) > 0 && gray[len(gray)-1].IsNull() {
		gray = gray[:len(gray)-1]
	}
	if len(gray) > 0 {
		colors.Set("gray", tree.NewArray(gray...))
	}
	return colors
}

func grayIndex(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "gray_")
	if !ok {
		rest, ok = strings.CutPrefix(key, "gray-")
	}
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || strings.ContainsAny(rest, "+-") {
		return 0, false
	}
	return n - 1, true
}
