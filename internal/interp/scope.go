package interp

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/shaderwalk/internal/value"
)

// Scope maps variable names to values.
// A pushed scope starts as a copy of the enclosing one, so the top scope
// alone answers every lookup.
type Scope struct {
	bindings map[string]value.Value
}

// Get returns a copy of the value bound to name.
func (s *Scope) Get(name string) (value.Value, bool) {
	v, ok := s.bindings[name]
	return v.Clone(), ok
}

// Len returns the number of visible bindings.
func (s *Scope) Len() int {
	return len(s.bindings)
}

// Names returns the bound names in sorted order.
func (s *Scope) Names() []string {
	return slices.Sorted(maps.Keys(s.bindings))
}

// Render lists the bindings one per line as "name: value", indented by pad spaces.
func (s *Scope) Render(pad int) (string, error) {
	var b strings.Builder
	indent := strings.Repeat(" ", pad)
	for _, name := range s.Names() {
		text, err := s.bindings[name].Render()
		if err != nil {
			return "", fmt.Errorf("render %q: %w", name, err)
		}
		fmt.Fprintf(&b, "%s%s: %s\n", indent, name, text)
	}
	return b.String(), nil
}

// ScopeStack is the chain of active scopes. It is owned by a single run
// and is not safe for concurrent use.
type ScopeStack struct {
	scopes []*Scope
}

// Push starts a new scope holding every currently visible binding plus
// bindings. New bindings win on a name collision; the enclosing scope is
// never modified.
func (st *ScopeStack) Push(bindings map[string]value.Value) {
	var inherited map[string]value.Value
	if len(st.scopes) > 0 {
		inherited = st.scopes[len(st.scopes)-1].bindings
	}
	next := make(map[string]value.Value, len(inherited)+len(bindings))
	for name, v := range inherited {
		next[name] = v.Clone()
	}
	for name, v := range bindings {
		next[name] = v.Clone()
	}
	st.scopes = append(st.scopes, &Scope{bindings: next})
}

// Pop removes and returns the top scope.
// Popping an empty stack is a logic error in the caller.
func (st *ScopeStack) Pop() (*Scope, error) {
	if len(st.scopes) == 0 {
		return nil, newError(ErrCodeMissingScope, "", "pop on empty scope stack")
	}
	top := st.scopes[len(st.scopes)-1]
	st.scopes[len(st.scopes)-1] = nil
	st.scopes = st.scopes[:len(st.scopes)-1]
	return top, nil
}

// Top returns the innermost scope.
func (st *ScopeStack) Top() (*Scope, error) {
	if len(st.scopes) == 0 {
		return nil, newError(ErrCodeMissingScope, "", "no active scope")
	}
	return st.scopes[len(st.scopes)-1], nil
}

// Lookup resolves name in the top scope. The result is a copy; writing
// to it never changes a binding.
func (st *ScopeStack) Lookup(name string) (value.Value, error) {
	top, err := st.Top()
	if err != nil {
		return value.Value{}, err
	}
	v, ok := top.Get(name)
	if !ok {
		return value.Value{}, newError(ErrCodeUnboundVariable, "", "variable %q is not bound", name).
			with("name", name)
	}
	return v, nil
}

// Depth returns the number of active scopes.
func (st *ScopeStack) Depth() int {
	return len(st.scopes)
}
