package site

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ordered is a JSON object decoded with its key order preserved.
// Go maps drop insertion order, but program listings depend on it.
type Ordered[V any] struct {
	keys  []string
	items map[string]V
}

func NewOrdered[V any]() Ordered[V] {
	return Ordered[V]{items: make(map[string]V)}
}

// Set appends key if new, otherwise replaces the value in place.
func (o *Ordered[V]) Set(key string, v V) {
	if o.items == nil {
		o.items = make(map[string]V)
	}
	if _, ok := o.items[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.items[key] = v
}

func (o Ordered[V]) Get(key string) (V, bool) {
	v, ok := o.items[key]
	return v, ok
}

func (o Ordered[V]) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o Ordered[V]) Len() int { return len(o.keys) }

// Each visits entries in insertion order.
func (o Ordered[V]) Each(fn func(key string, v V)) {
	for _, k := range o.keys {
		fn(k, o.items[k])
	}
}

func (o *Ordered[V]) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = Ordered[V]{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	out := NewOrdered[V]()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}
