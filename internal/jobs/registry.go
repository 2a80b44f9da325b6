package jobs

// Registry maps each kind to at most one live handle. It is not safe for
// concurrent use on its own: the Manager guards it with the same mutex that
// serializes broadcaster updates, so both always change together.
type Registry struct {
	entries map[Kind]*Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Kind]*Handle, kindCount)}
}

// Get returns the live handle for k, or nil.
func (r *Registry) Get(k Kind) *Handle { return r.entries[k] }

// Put registers h as the live handle for its kind.
// It panics if another handle is live for that kind.
func (r *Registry) Put(h *Handle) {
	if cur, ok := r.entries[h.kind]; ok && cur != h {
		panic("jobs: second live handle for " + h.kind.String())
	}
	r.entries[h.kind] = h
}

// Remove clears h's entry if h is still the live handle for its kind and
// reports whether it did.
func (r *Registry) Remove(h *Handle) bool {
	if r.entries[h.kind] != h {
		return false
	}
	delete(r.entries, h.kind)
	return true
}

// Live returns every live handle.
func (r *Registry) Live() []*Handle {
	out := make([]*Handle, 0, len(r.entries))
	for _, k := range Kinds() {
		if h, ok := r.entries[k]; ok {
			out = append(out, h)
		}
	}
	return out
}

// Len returns the number of live handles.
func (r *Registry) Len() int { return len(r.entries) }
