// Package vcsup resolves requested paths into a minimal provider-owned
// root set. Resolution is two independent passes: a generic ancestor-wins
// nested-path filter, then per-provider canonicalization (see dispatch.go).
package vcsup

import (
	"path/filepath"
	"strings"
)

// ScopeMode selects how candidate paths are filtered against provider state.
type ScopeMode int8

const (
	// ScopeStrict keeps only paths whose on-disk status indicates they are
	// actually tracked by their provider.
	ScopeStrict ScopeMode = iota

	// ScopeRootMembership additionally keeps untracked directories that are
	// ancestors of a registered provider root. This handles a directory that
	// logically contains a deeper repository root.
	ScopeRootMembership
)

// String returns a human-readable string representation of the ScopeMode.
func (m ScopeMode) String() string {
	switch m {
	case ScopeStrict:
		return "strict"
	case ScopeRootMembership:
		return "root-membership"
	default:
		return "unknown"
	}
}

// Root is a filesystem path with its resolved owning provider.
// Immutable once resolved.
type Root struct {
	Path     string
	Provider Provider
}

// FilterNested removes every path that is a filesystem descendant of another
// surviving path (the ancestor wins). Ties between equal paths resolve to the
// first occurrence, so the result is deterministic for a given input order.
// Paths are cleaned before comparison.
func FilterNested(paths []string) []string {
	cleaned := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		c := filepath.Clean(p)
		if !seen[c] {
			seen[c] = true
			cleaned = append(cleaned, c)
		}
	}

	var out []string
	for _, p := range cleaned {
		nested := false
		for _, q := range cleaned {
			if q != p && isAncestor(q, p) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, p)
		}
	}
	return out
}

// isAncestor reports whether child lives strictly below parent.
func isAncestor(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Resolve dedupes and filters the requested paths into provider-owned roots.
//
// Paths nested under another requested path are dropped first. Each survivor
// is then assigned its owning provider through loc; a path with no provider
// is dropped silently since it simply is not updatable. The scope mode
// controls the final filter: strict keeps only tracked paths, root-membership
// also keeps paths that contain a registered provider root.
//
// An empty result means there is nothing to update. Callers must treat that
// as a no-op, not an error.
func Resolve(paths []string, scope ScopeMode, loc Locator) []Root {
	var roots []Root
	for _, path := range FilterNested(paths) {
		provider := loc.ProviderFor(path)
		if provider == nil {
			continue
		}
		if loc.Tracked(path) {
			roots = append(roots, Root{Path: path, Provider: provider})
			continue
		}
		if scope == ScopeRootMembership && containsProviderRoot(path, loc.Roots()) {
			roots = append(roots, Root{Path: path, Provider: provider})
		}
	}
	return roots
}

// containsProviderRoot reports whether path is (or contains) one of the
// registered provider roots.
func containsProviderRoot(path string, providerRoots []string) bool {
	clean := filepath.Clean(path)
	for _, root := range providerRoots {
		root = filepath.Clean(root)
		if root == clean || isAncestor(clean, root) {
			return true
		}
	}
	return false
}
