package registry

import "strings"

// Canonicalize maps any user-supplied model name to its canonical form:
//
//  1. an exact, case-sensitive match against canonical names wins,
//  2. otherwise aliases are scanned case-insensitively, newest-loaded
//     record first, so a record loaded later can re-point an alias,
//  3. otherwise the input comes back unchanged. Whether the name exists
//     is the caller's problem, not the resolver's.
//
// The function is idempotent: feeding its output back in returns the
// same string.
func (r *Registry) Canonicalize(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.models[name]; ok {
		return name
	}

	lower := strings.ToLower(name)
	for i := len(r.order) - 1; i >= 0; i-- {
		m := r.models[r.order[i]]
		for _, alias := range m.Aliases {
			if strings.ToLower(alias) == lower {
				return m.ModelName
			}
		}
	}

	return name
}
