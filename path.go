package vfs

import "strings"

// A Path addresses a Node in the store's tree. Segments are always separated
// by a slash, absolute or not; the store has no notion of a working directory,
// so every Path is resolved against the root.
//
// Design decisions
//
//   - It is a string, not a []string, for the same reasons the teacher lineage
//     of this package settled on: cheap comparison, natural fit with the
//     standard string package, and no extra allocation for the common case of
//     just printing or logging a path.
//   - Names() filters out empty segments (leading/trailing/doubled slashes) so
//     that two differently-written paths to the same node compare equal once
//     normalized. The resolver (resolve.go) still inspects "." and ".." itself;
//     it does not use Names() for that, because those segments carry resolution
//     semantics that a generic path utility must not silently discard.
type Path string

// StartsWith tests whether the path begins with prefix, comparing whole
// names: "/foo/bar" starts with "/foo", "/foobar" does not.
func (p Path) StartsWith(prefix Path) bool {
	names := p.Names()
	prefixNames := prefix.Names()
	if len(prefixNames) > len(names) {
		return false
	}
	for i, name := range prefixNames {
		if names[i] != name {
			return false
		}
	}
	return true
}

// Names splits the path on "/" and returns the non-empty segments.
func (p Path) Names() []string {
	raw := strings.Split(string(p), "/")
	out := make([]string, 0, len(raw))
	for _, seg := range raw {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// NameCount returns how many names are included in this path.
func (p Path) NameCount() int {
	return len(p.Names())
}

// Name returns the last element in this path, or the empty string if the
// path is the root.
func (p Path) Name() string {
	names := p.Names()
	if len(names) == 0 {
		return ""
	}
	return names[len(names)-1]
}

// Parent returns the parent path of this path. The parent of the root is
// the root itself.
func (p Path) Parent() Path {
	names := p.Names()
	if len(names) == 0 {
		return "/"
	}
	return Path("/" + strings.Join(names[:len(names)-1], "/"))
}

// String normalizes the slashes in Path: always absolute, never trailing, "/" for the root.
func (p Path) String() string {
	names := p.Names()
	if len(names) == 0 {
		return "/"
	}
	return "/" + strings.Join(names, "/")
}

// Child returns a new Path with name appended as a final segment.
func (p Path) Child(name string) Path {
	return Path(joinRaw(p.String(), name))
}

// TrimPrefix returns a path without the given prefix, still absolute.
func (p Path) TrimPrefix(prefix Path) Path {
	trimmed := strings.TrimPrefix(p.String(), prefix.String())
	if trimmed == "" {
		return "/"
	}
	return Path("/" + strings.TrimPrefix(trimmed, "/"))
}

// ConcatPaths joins every given path's segments into one absolute Path.
func ConcatPaths(paths ...Path) Path {
	var names []string
	for _, p := range paths {
		names = append(names, p.Names()...)
	}
	return Path("/" + strings.Join(names, "/"))
}

// isAbs reports whether the raw string began with a slash. The resolver uses
// this on the untouched input, before Names() throws the information away.
func isAbs(raw string) bool {
	return strings.HasPrefix(raw, "/")
}
