// Package tree holds ordered JSON values. Configuration semantics depend on
// key order (cascade order, branch search order), so objects keep keys in
// document order.
package tree

import (
	"iter"
	"strconv"
)

// Kind of a JSON value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "null"
	}
}

// Node is a single JSON value. A nil *Node is a valid absent value: all
// accessors return zero results for it.
type Node struct {
	kind  Kind
	text  string // string value or number literal
	flag  bool
	items []*Node

	keys  []string
	vals  []*Node
	index map[string]int
}

func NewNull() *Node { return &Node{kind: Null} }

func NewBool(b bool) *Node { return &Node{kind: Bool, flag: b} }

func NewString(s string) *Node { return &Node{kind: String, text: s} }

// NewNumber keeps the literal as written.
func NewNumber(literal string) *Node { return &Node{kind: Number, text: literal} }

func NewInt(v int) *Node { return &Node{kind: Number, text: strconv.Itoa(v)} }

func NewArray(items ...*Node) *Node {
	return &Node{kind: Array, items: append([]*Node{}, items...)}
}

// NewStrings builds an array of strings.
func NewStrings(items ...string) *Node {
	n := &Node{kind: Array, items: make([]*Node, 0, len(items))}
	for _, s := range items {
		n.items = append(n.items, NewString(s))
	}
	return n
}

func NewObject() *Node {
	return &Node{kind: Object, index: make(map[string]int)}
}

func (n *Node) Kind() Kind {
	if n == nil {
		return Null
	}
	return n.kind
}

func (n *Node) IsNull() bool   { return n == nil || n.kind == Null }
func (n *Node) IsBool() bool   { return n != nil && n.kind == Bool }
func (n *Node) IsNumber() bool { return n != nil && n.kind == Number }
func (n *Node) IsString() bool { return n != nil && n.kind == String }
func (n *Node) IsArray() bool  { return n != nil && n.kind == Array }
func (n *Node) IsObject() bool { return n != nil && n.kind == Object }

// Str returns string value or empty string for any other kind.
func (n *Node) Str() string {
	if n == nil || n.kind != String {
		return ""
	}
	return n.text
}

// Text returns printable form of scalar values: strings as is, numbers as
// written in the source, booleans as true/false. Containers are returned as
// compact JSON.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	switch n.kind {
	case String, Number:
		return n.text
	case Bool:
		return strconv.FormatBool(n.flag)
	case Null:
		return ""
	default:
		return n.String()
	}
}

func (n *Node) Bool() bool {
	return n != nil && n.kind == Bool && n.flag
}

// Float returns numeric value of the node.
func (n *Node) Float() (float64, bool) {
	if n == nil || n.kind != Number {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int returns numeric value truncated toward zero.
func (n *Node) Int() (int, bool) {
	f, ok := n.Float()
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Len returns number of array items or object members.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.kind {
	case Array:
		return len(n.items)
	case Object:
		return len(n.keys)
	}
	return 0
}

// At returns array item or nil.
func (n *Node) At(i int) *Node {
	if n == nil || n.kind != Array || i < 0 || i >= len(n.items) {
		return nil
	}
	return n.items[i]
}

// StrAt returns string array item, empty when absent or not a string.
func (n *Node) StrAt(i int) string {
	return n.At(i).Str()
}

// TextAt returns printable form of array item.
func (n *Node) TextAt(i int) string {
	return n.At(i).Text()
}

func (n *Node) Items() []*Node {
	if n == nil || n.kind != Array {
		return nil
	}
	return n.items
}

// Head returns first array element when it is a string. Array encoded
// directives carry their kind there.
func (n *Node) Head() string {
	return n.StrAt(0)
}

// IsDirective reports whether node is an array directive of given kind.
func (n *Node) IsDirective(kind string) bool {
	return n.IsArray() && n.Head() == kind
}

func (n *Node) Keys() []string {
	if n == nil || n.kind != Object {
		return nil
	}
	return n.keys
}

func (n *Node) Get(key string) *Node {
	if n == nil || n.kind != Object {
		return nil
	}
	if i, ok := n.index[key]; ok {
		return n.vals[i]
	}
	return nil
}

func (n *Node) Has(key string) bool {
	if n == nil || n.kind != Object {
		return false
	}
	_, ok := n.index[key]
	return ok
}

// Lookup walks nested objects.
func (n *Node) Lookup(path ...string) *Node {
	cur := n
	for _, p := range path {
		cur = cur.Get(p)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Pairs iterates object members in document order.
func (n *Node) Pairs() iter.Seq2[string, *Node] {
	return func(yield func(string, *Node) bool) {
		if n == nil || n.kind != Object {
			return
		}
		for i, k := range n.keys {
			if !yield(k, n.vals[i]) {
				return
			}
		}
	}
}

// Set adds or replaces object member. Replaced members keep their position.
func (n *Node) Set(key string, v *Node) *Node {
	if n.index == nil {
		n.index = make(map[string]int)
	}
	if i, ok := n.index[key]; ok {
		n.vals[i] = v
		return n
	}
	n.index[key] = len(n.keys)
	n.keys = append(n.keys, key)
	n.vals = append(n.vals, v)
	return n
}

// Delete removes object member if present.
func (n *Node) Delete(key string) {
	if n == nil || n.kind != Object {
		return
	}
	i, ok := n.index[key]
	if !ok {
		return
	}
	n.keys = append(n.keys[:i], n.keys[i+1:]...)
	n.vals = append(n.vals[:i], n.vals[i+1:]...)
	delete(n.index, key)
	for j := i; j < len(n.keys); j++ {
		n.index[n.keys[j]] = j
	}
}

// Append adds item to array.
func (n *Node) Append(v *Node) *Node {
	n.items = append(n.items, v)
	return n
}

// Without returns shallow copy of object with listed keys removed.
func (n *Node) Without(keys ...string) *Node {
	out := NewObject()
	for k, v := range n.Pairs() {
		skip := false
		for _, drop := range keys {
			if k == drop {
				skip = true
				break
			}
		}
		if !skip {
			out.Set(k, v)
		}
	}
	return out
}

// Merge returns shallow copy of n with members of other added or replaced.
func (n *Node) Merge(other *Node) *Node {
	out := NewObject()
	for k, v := range n.Pairs() {
		out.Set(k, v)
	}
	for k, v := range other.Pairs() {
		out.Set(k, v)
	}
	return out
}

// Clone makes deep copy.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{kind: n.kind, text: n.text, flag: n.flag}
	switch n.kind {
	case Array:
		c.items = make([]*Node, len(n.items))
		for i, it := range n.items {
			c.items[i] = it.Clone()
		}
	case Object:
		c.index = make(map[string]int, len(n.keys))
		for i, k := range n.keys {
			c.Set(k, n.vals[i].Clone())
		}
	}
	return c
}

// Equal compares values structurally. Member order is not significant,
// numbers are compared by value.
func Equal(a, b *Node) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case Null:
		return true
	case Bool:
		return a.flag == b.flag
	case String:
		return a.text == b.text
	case Number:
		fa, _ := a.Float()
		fb, _ := b.Float()
		return fa == fb
	case Array:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for i, k := range a.keys {
			if !b.Has(k) || !Equal(a.vals[i], b.Get(k)) {
				return false
			}
		}
		return true
	}
	return false
}
