package group

import (
	"fmt"

	"github.com/KaramelBytes/spreaddash-cli/internal/csvload"
)

// Undefined is the key used for rows that lack the grouping field.
const Undefined = "undefined"

// Groups partitions items by a string key, remembering first-seen key order.
type Groups[T any] struct {
	keys []string
	m    map[string][]T
}

// By groups items by the string form of key(item). Both key order and the order
// of items within a group follow the input.
func By[T any](items []T, key func(T) any) *Groups[T] {
	g := &Groups[T]{m: make(map[string][]T)}
	for _, it := range items {
		k := KeyString(key(it))
		if _, ok := g.m[k]; !ok {
			g.keys = append(g.keys, k)
		}
		g.m[k] = append(g.m[k], it)
	}
	return g
}

// ByField groups parsed CSV records by one column.
func ByField(records []csvload.Record, field string) *Groups[csvload.Record] {
	return By(records, func(r csvload.Record) any {
		v, ok := r.Get(field)
		if !ok {
			return nil
		}
		return v
	})
}

// KeyString coerces a grouping value to its key. nil becomes "undefined".
func KeyString(v any) string {
	switch x := v.(type) {
	case nil:
		return Undefined
	case string:
		return x
	case float64:
		return csvload.FormatNumber(x)
	case float32:
		return csvload.FormatNumber(float64(x))
	case int:
		return fmt.Sprint(x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Keys returns the group keys in first-seen order.
func (g *Groups[T]) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Get returns the items for key, or nil.
func (g *Groups[T]) Get(key string) []T { return g.m[key] }

// Len is the number of groups.
func (g *Groups[T]) Len() int { return len(g.keys) }

// Each visits groups in key order until fn returns false.
func (g *Groups[T]) Each(fn func(key string, items []T) bool) {
	for _, k := range g.keys {
		if !fn(k, g.m[k]) {
			return
		}
	}
}

// Map returns the groups as a plain map; key order is lost.
func (g *Groups[T]) Map() map[string][]T {
	out := make(map[string][]T, len(g.m))
	for k, v := range g.m {
		out[k] = v
	}
	return out
}
