package consecution

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// GlobalState is a bag of named values shared by every node of a pipeline.
// Nodes reach it through Context.GlobalState.
//
// GlobalState is NOT safe for concurrent use.
type GlobalState struct {
	values map[string]any
}

// NewGlobalState creates a GlobalState holding a copy of values.
func NewGlobalState(values map[string]any) *GlobalState {
	g := &GlobalState{values: make(map[string]any, len(values))}
	maps.Copy(g.values, values)
	return g
}

func (g *GlobalState) Set(key string, value any) {
	g.values[key] = value
}

func (g *GlobalState) Get(key string) (any, bool) {
	v, ok := g.values[key]
	return v, ok
}

func (g *GlobalState) Delete(key string) {
	delete(g.values, key)
}

// Keys returns the keys in sorted order.
func (g *GlobalState) Keys() []string {
	keys := maps.Keys(g.values)
	slices.Sort(keys)
	return keys
}

func (g *GlobalState) String() string {
	keys := g.Keys()
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = fmt.Sprintf("'%s'", k)
	}
	return "GlobalState(" + strings.Join(quoted, ", ") + ")"
}

// Value returns the value stored under key if it has type T.
func Value[T any](g *GlobalState, key string) (T, bool) {
	v, ok := g.values[key].(T)
	return v, ok
}

// Append appends items to the []T stored under key, creating it if needed.
func Append[T any](g *GlobalState, key string, items ...T) {
	s, _ := g.values[key].([]T)
	g.values[key] = append(s, items...)
}
