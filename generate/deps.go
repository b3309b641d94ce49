/*
NAME
  deps.go - expression dependency graph and cycle detection (C3, spec.md §4.3).

DESCRIPTION
  Expression-mode fields may reference other fields of the same message by
  name, or another message's field as "Message.field". BuildOrder computes a
  topological evaluation order over the field bindings of a
  scenario so that, for a given emission, every field an expression depends
  on has already been computed before the expression itself is evaluated
  (spec.md §4.3, scenario 4 of §8). A cycle is a fatal load-time error; the
  full cycle chain is reported rather than just the first repeated node.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package generate

import (
	"fmt"
	"sort"
	"strings"
)

// FieldKey names one (message, field) pair for dependency purposes.
type FieldKey struct {
	Message string
	Field   string
}

func (k FieldKey) String() string { return k.Message + "." + k.Field }

// Binding is one expression-mode generator bound to a field, as seen by the
// dependency graph.
type Binding struct {
	Key  FieldKey
	Spec *Spec
}

// CycleError reports a dependency cycle discovered while ordering
// expression fields, with the full chain of keys that form the cycle.
type CycleError struct {
	Chain []FieldKey
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, k := range e.Chain {
		parts[i] = k.String()
	}
	return fmt.Sprintf("generate: dependency cycle: %s", strings.Join(parts, " -> "))
}

// BuildOrder returns a topological evaluation order over the given
// bindings: for every binding, every field it depends on (resolvable to
// another binding in the same set) appears earlier in the returned slice.
// Only expression bindings have dependencies; any other binding in the set
// (constant, random, sine, ...) is a leaf, placed before every expression
// that references it. References that resolve to no binding in the set
// ("time", "message_count", fields outside the set) impose no ordering
// constraint. An expression that references its own field is a cycle.
func BuildOrder(bindings []Binding) ([]FieldKey, error) {
	byKey := make(map[FieldKey]*Binding, len(bindings))
	for i := range bindings {
		byKey[bindings[i].Key] = &bindings[i]
	}

	// Deterministic base order so ties and error messages are stable.
	keys := make([]FieldKey, 0, len(bindings))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Message != keys[j].Message {
			return keys[i].Message < keys[j].Message
		}
		return keys[i].Field < keys[j].Field
	})

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[FieldKey]int, len(keys))
	var order []FieldKey
	var stack []FieldKey

	var visit func(k FieldKey) error
	visit = func(k FieldKey) error {
		color[k] = gray
		stack = append(stack, k)

		b := byKey[k]
		for _, dep := range dependenciesOf(b, byKey) {
			switch color[dep] {
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			case gray:
				chain := append([]FieldKey{}, stack...)
				chain = append(chain, dep)
				return &CycleError{Chain: cycleFrom(chain, dep)}
			case black:
				// already ordered
			}
		}

		stack = stack[:len(stack)-1]
		color[k] = black
		order = append(order, k)
		return nil
	}

	for _, k := range keys {
		if color[k] == white {
			if err := visit(k); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}

// dependenciesOf resolves an expression binding's free identifiers to other
// bindings in the same set, for both unqualified ("field") and qualified
// ("Message.field") references.
func dependenciesOf(b *Binding, byKey map[FieldKey]*Binding) []FieldKey {
	if b.Spec.Mode != Expression || b.Spec.AST == nil {
		return nil
	}
	var deps []FieldKey
	seen := map[FieldKey]bool{}
	for _, id := range b.Spec.AST.Identifiers() {
		var candidate FieldKey
		if dot := strings.IndexByte(id, '.'); dot >= 0 {
			candidate = FieldKey{Message: id[:dot], Field: id[dot+1:]}
		} else {
			candidate = FieldKey{Message: b.Key.Message, Field: id}
		}
		if _, ok := byKey[candidate]; ok && !seen[candidate] {
			seen[candidate] = true
			deps = append(deps, candidate)
		}
	}
	return deps
}

// cycleFrom trims a DFS stack-plus-repeat chain down to just the cycle
// itself, starting and ending at the repeated node.
func cycleFrom(chain []FieldKey, repeat FieldKey) []FieldKey {
	start := 0
	for i, k := range chain {
		if k == repeat {
			start = i
			break
		}
	}
	return chain[start:]
}
