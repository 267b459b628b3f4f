package tree

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/buger/jsonparser"
)

// Parse builds ordered tree from JSON document.
func Parse(data []byte) (*Node, error) {
	value, dt, end, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse json: %w", err)
	}
	if end < len(data) && len(bytes.TrimSpace(data[end:])) > 0 {
		return nil, fmt.Errorf("unable to parse json: unexpected data after value at offset %d", end)
	}
	return build(value, dt)
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) *Node {
	n, err := Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return n
}

// ParseFile reads and parses JSON file.
func ParseFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	n, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

func build(value []byte, dt jsonparser.ValueType) (*Node, error) {
	switch dt {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, fmt.Errorf("bad string %q: %w", value, err)
		}
		return NewString(s), nil

	case jsonparser.Number:
		if _, err := jsonparser.ParseFloat(value); err != nil {
			return nil, fmt.Errorf("bad number %q: %w", value, err)
		}
		return NewNumber(string(value)), nil

	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return nil, fmt.Errorf("bad boolean %q: %w", value, err)
		}
		return NewBool(b), nil

	case jsonparser.Null:
		return NewNull(), nil

	case jsonparser.Array:
		n := NewArray()
		var failed error
		_, err := jsonparser.ArrayEach(value, func(v []byte, t jsonparser.ValueType, _ int, e error) {
			if failed != nil {
				return
			}
			if e != nil {
				failed = e
				return
			}
			child, e := build(v, t)
			if e != nil {
				failed = e
				return
			}
			n.Append(child)
		})
		if err == nil {
			err = failed
		}
		if err != nil {
			return nil, err
		}
		return n, nil

	case jsonparser.Object:
		n := NewObject()
		err := jsonparser.ObjectEach(value, func(k, v []byte, t jsonparser.ValueType, _ int) error {
			key, err := jsonparser.ParseString(k)
			if err != nil {
				return fmt.Errorf("bad key %q: %w", k, err)
			}
			child, err := build(v, t)
			if err != nil {
				return err
			}
			n.Set(key, child)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, errors.New("unexpected json value")
}
