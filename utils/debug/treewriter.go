// Package debug renders configuration trees as readable outlines for debug
// report.
package debug

import (
	"fmt"
	"strconv"
	"strings"

	"sitec/tree"
)

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Node writes member of config tree. Containers open nested level with
// their size, arrays of scalars (directives mostly) stay on one line.
func (tw TreeWriter) Node(depth int, label string, n *tree.Node) {
	switch {
	case n.IsObject():
		tw.Line(depth, "%s {%d}", label, n.Len())
		for k, v := range n.Pairs() {
			tw.Node(depth+1, k, v)
		}
	case n.IsArray() && !flat(n):
		tw.Line(depth, "%s [%d]", label, n.Len())
		for i, v := range n.Items() {
			tw.Node(depth+1, strconv.Itoa(i), v)
		}
	case n.IsString():
		tw.TextBlock(depth, label, n.Str())
	default:
		tw.Line(depth, "%s: %s", label, n.String())
	}
}

func flat(n *tree.Node) bool {
	for _, v := range n.Items() {
		if v.IsObject() || v.IsArray() {
			return false
		}
	}
	return true
}

// Outline renders named tree.
func Outline(name string, n *tree.Node) string {
	tw := NewTreeWriter()
	tw.Node(0, name, n)
	return tw.String()
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
