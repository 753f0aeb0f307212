// Package vcsup tracks files changed by an update chain.
// This file contains the changed-file record grouping.
package vcsup

// Kind classifies a changed-file record by what the update did to the file.
type Kind string

// Change kinds recognized by the grouped changed-file view. Providers may
// add records under their own kinds; these are the common ones.
const (
	KindUpdated  Kind = "updated"
	KindCreated  Kind = "created"
	KindMerged   Kind = "merged"
	KindConflict Kind = "merged-with-conflict"
	KindRemoved  Kind = "removed"
	KindRestored Kind = "restored"
)

// GroupCount is one row of the rendering-ready grouped view.
type GroupCount struct {
	Kind  Kind
	Count int
}

// FileSet accumulates changed-file records grouped by Kind.
// Group order follows first insertion; duplicate paths within a group are
// dropped. A FileSet is not safe for concurrent use; within a chain it is
// only ever touched by the chain's single worker.
type FileSet struct {
	order  []Kind
	groups map[Kind][]string
	seen   map[Kind]map[string]bool
}

// NewFileSet returns an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		groups: make(map[Kind][]string),
		seen:   make(map[Kind]map[string]bool),
	}
}

// Add records path under kind. Adding the same path to the same kind twice
// has no effect.
func (s *FileSet) Add(kind Kind, path string) {
	if s.seen[kind] == nil {
		s.seen[kind] = make(map[string]bool)
		s.order = append(s.order, kind)
	}
	if s.seen[kind][path] {
		return
	}
	s.seen[kind][path] = true
	s.groups[kind] = append(s.groups[kind], path)
}

// Merge folds all records of other into s.
func (s *FileSet) Merge(other *FileSet) {
	if other == nil {
		return
	}
	for _, kind := range other.order {
		for _, path := range other.groups[kind] {
			s.Add(kind, path)
		}
	}
}

// Group returns the recorded paths for kind in insertion order.
func (s *FileSet) Group(kind Kind) []string {
	return s.groups[kind]
}

// Kinds returns the kinds with at least one record, in first-insertion order.
func (s *FileSet) Kinds() []Kind {
	return s.order
}

// Len returns the total number of records across all groups.
func (s *FileSet) Len() int {
	n := 0
	for _, paths := range s.groups {
		n += len(paths)
	}
	return n
}

// Empty reports whether no records were added.
func (s *FileSet) Empty() bool { return s.Len() == 0 }

// HasConflicts reports whether any record landed in the
// merged-with-conflict group.
func (s *FileSet) HasConflicts() bool {
	return len(s.groups[KindConflict]) > 0
}

// Paths returns every recorded path across all groups, in group order.
// A path recorded under several kinds appears once per kind.
func (s *FileSet) Paths() []string {
	paths := make([]string, 0, s.Len())
	for _, kind := range s.order {
		paths = append(paths, s.groups[kind]...)
	}
	return paths
}

// Summary returns the grouped kind -> count view used by notification
// front-ends, in group order.
func (s *FileSet) Summary() []GroupCount {
	counts := make([]GroupCount, 0, len(s.order))
	for _, kind := range s.order {
		counts = append(counts, GroupCount{Kind: kind, Count: len(s.groups[kind])})
	}
	return counts
}
