// Package assets resolves image references against the public directory.
package assets

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultPlaceholder is shown in place of any image that cannot be served.
const DefaultPlaceholder = "/static/placeholder.svg"

// Resolver maps image references such as "/images/x.png" to themselves
// when the file exists under root, and to a placeholder otherwise.
type Resolver struct {
	root        string
	prefix      string
	placeholder string

	mu    sync.Mutex
	known map[string]bool
}

// NewResolver serves references under urlPrefix from root.
func NewResolver(root, urlPrefix, placeholder string) *Resolver {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &Resolver{
		root:        root,
		prefix:      "/" + strings.Trim(urlPrefix, "/") + "/",
		placeholder: placeholder,
		known:       make(map[string]bool),
	}
}

// Placeholder returns the fallback image reference.
func (r *Resolver) Placeholder() string {
	return r.placeholder
}

// Exists reports whether ref names a servable file.
func (r *Resolver) Exists(ref string) bool {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, r.prefix) {
		return false
	}
	clean := path.Clean(ref)
	if !strings.HasPrefix(clean, r.prefix) {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ok, seen := r.known[clean]; seen {
		return ok
	}
	rel := strings.TrimPrefix(clean, r.prefix)
	info, err := os.Stat(filepath.Join(r.root, filepath.FromSlash(rel)))
	ok := err == nil && info.Mode().IsRegular()
	r.known[clean] = ok
	return ok
}

// Resolve returns ref when it exists and the placeholder otherwise.
func (r *Resolver) Resolve(ref string) string {
	if r.Exists(ref) {
		return path.Clean(strings.TrimSpace(ref))
	}
	return r.placeholder
}

// Gallery resolves every reference. No references means no gallery.
func (r *Resolver) Gallery(refs []string) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = r.Resolve(ref)
	}
	return out
}

// Missing returns the references that do not resolve.
func (r *Resolver) Missing(refs ...string) []string {
	var missing []string
	for _, ref := range refs {
		if ref != "" && !r.Exists(ref) {
			missing = append(missing, ref)
		}
	}
	return missing
}
