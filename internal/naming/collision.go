package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CollisionResolver tracks destination paths claimed during batch planning.
// Recursive discovery can surface sources with identical stems in different
// subdirectories; without resolution their jobs would target the same
// destination and silently overwrite each other. Duplicates get a "_dupN"
// suffix before the extension. Planning is sequential; the resolver is not
// goroutine-safe.
type CollisionResolver struct {
	claimed map[string]bool
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{claimed: make(map[string]bool)}
}

// Resolve claims requested for the caller and returns it unchanged when it
// is free. A previously claimed path gets the first free "_dupN" variant.
func (cr *CollisionResolver) Resolve(requested string) string {
	if !cr.claimed[requested] {
		cr.claimed[requested] = true
		return requested
	}

	dir := filepath.Dir(requested)
	base := filepath.Base(requested)
	ext := filepath.Ext(base)
	if ext == base {
		ext = ""
	}
	stem := strings.TrimSuffix(base, ext)

	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_dup%d%s", stem, n, ext))
		if !cr.claimed[candidate] {
			cr.claimed[candidate] = true
			return candidate
		}
	}
}
