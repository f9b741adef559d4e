package content

import "fmt"

// NotFoundError reports a lookup for a content id that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// Registry is an id-keyed store for one kind of content definition.
type Registry[T any] struct {
	kind string
	byID map[string]T
	ids  []string
}

// NewRegistry creates an empty registry for the named content kind.
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind: kind,
		byID: make(map[string]T),
	}
}

// Register adds a definition under the given id.
//
// Postcondition: Returns an error on empty or duplicate ids; the registry
// is unchanged in that case.
func (r *Registry[T]) Register(id string, def T) error {
	if id == "" {
		return fmt.Errorf("%s definition must have a non-empty id", r.kind)
	}
	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("duplicate %s id %q", r.kind, id)
	}
	r.byID[id] = def
	r.ids = append(r.ids, id)
	return nil
}

// Get returns the definition registered under id.
//
// Postcondition: Returns a *NotFoundError when the id is absent.
func (r *Registry[T]) Get(id string) (T, error) {
	def, ok := r.byID[id]
	if !ok {
		var zero T
		return zero, &NotFoundError{Kind: r.kind, ID: id}
	}
	return def, nil
}

// Has reports whether an id is registered.
func (r *Registry[T]) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// IDs returns the registered ids in registration order.
func (r *Registry[T]) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Len returns the number of registered definitions.
func (r *Registry[T]) Len() int { return len(r.byID) }
