// Package registry maps rich-text tag names to the components that render
// them. A Registry is passed explicitly to the renderer; there is no global
// component table.
package registry

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/a-h/templ"

	"github.com/kelas-internasional/kelas/internal/richtext"
)

// Props are the attributes of a compiled tag.
type Props map[string]interface{}

// String returns a prop as a string, or "".
func (p Props) String(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Bool reports whether a prop is set to true or "true".
func (p Props) Bool(key string) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == key
	default:
		return false
	}
}

// Float returns a numeric prop. Numeric strings are accepted.
func (p Props) Float(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Class returns className, falling back to class.
func (p Props) Class() string {
	if c := p.String("className"); c != "" {
		return c
	}
	return p.String("class")
}

// Element is the tag a component is asked to render.
type Element struct {
	Tag   string
	Props Props
	// Children are the compiled child nodes, for components that need to
	// inspect them before rendering.
	Children []*richtext.Node
}

// Component renders one element. children renders the element's children
// through the same registry.
type Component func(el Element, children templ.Component) templ.Component

// Registry is a concurrency-safe tag -> component table.
type Registry struct {
	components map[string]Component
	mutex      sync.RWMutex
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{components: make(map[string]Component)}
}

// Register adds or replaces the component for name.
func (r *Registry) Register(name string, c Component) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.components[name] = c
}

// Get retrieves a component by tag name.
func (r *Registry) Get(name string) (Component, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	c, ok := r.components[name]
	return c, ok
}

// Remove removes a component from the registry.
func (r *Registry) Remove(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.components, name)
}

// Names returns every registered tag, sorted.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ComponentNames returns the capitalised (custom) tags only. This is the
// set of names the compiler accepts in documents.
func (r *Registry) ComponentNames() []string {
	var out []string
	for _, name := range r.Names() {
		if first, _ := utf8.DecodeRuneInString(name); unicode.IsUpper(first) {
			out = append(out, name)
		}
	}
	return out
}

// Count returns the number of registered components.
func (r *Registry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.components)
}

// Clone returns an independent copy, so a caller can override entries for
// one page without touching the shared table.
func (r *Registry) Clone() *Registry {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	c := New()
	for name, comp := range r.components {
		c.components[name] = comp
	}
	return c
}
