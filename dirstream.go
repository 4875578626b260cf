package vfs

import "sort"

// DirEntry is one item yielded by a DirectoryStream: the path the snapshot
// remembers plus whatever node currently sits there, re-resolved at
// iteration time against the (possibly since-mutated) parent directory.
type DirEntry struct {
	Path    string
	present bool
	n       node
}

// Exists reports whether the child still exists at iteration time. A
// concurrent removal between snapshot and iteration does not shrink the
// stream or shift later entries (§4.4); it just makes this one absent.
func (e DirEntry) Exists() bool { return e.present }

func (e DirEntry) IsDir() bool {
	_, ok := e.n.(*dirNode)
	return e.present && ok
}

func (e DirEntry) IsFile() bool {
	_, ok := e.n.(*fileNode)
	return e.present && ok
}

func (e DirEntry) IsLink() bool {
	_, ok := e.n.(*linkNode)
	return e.present && ok
}

// DirFilter decides whether an entry should be yielded. An error returned
// from a filter surfaces from HasNext wrapped in DirectoryIterationError.
type DirFilter func(DirEntry) (bool, error)

// DirectoryStream snapshots a directory's child names at open time and
// enumerates them lazily, re-resolving each name against the live
// directory only when the iterator actually reaches it (§4.4).
type DirectoryStream struct {
	parent     *dirNode
	parentPath string
	names      []string
	filter     DirFilter

	idx       int
	iterTaken bool
	once      closeOnce
}

func newDirectoryStream(parent *dirNode, parentPath string, filter DirFilter) *DirectoryStream {
	names := parent.names()
	sort.Strings(names)
	return &DirectoryStream{parent: parent, parentPath: parentPath, names: names, filter: filter}
}

// Iterator returns the (single-use) iterator over this stream's snapshot.
// A second call, or a call after Close, fails with IllegalStateError.
func (s *DirectoryStream) Iterator() (*DirIterator, error) {
	if s.once.isDone() {
		return nil, &IllegalStateError{Detail: "stream closed"}
	}
	if s.iterTaken {
		return nil, &IllegalStateError{Detail: "iterator already returned"}
	}
	s.iterTaken = true
	return &DirIterator{stream: s}, nil
}

// Close is idempotent. Closing mid-iteration lets already-prepared entries
// (already returned by HasNext) still be retrieved by Next, but the next
// HasNext call reports no more elements instead of preparing a new one.
func (s *DirectoryStream) Close() error {
	s.once.fire(func() {})
	return nil
}

// DirIterator is the single-use cursor handed out by DirectoryStream.Iterator.
type DirIterator struct {
	stream      *DirectoryStream
	havePending bool
	pending     DirEntry
	failed      error
}

// HasNext advances the look-ahead by one filtered-in entry, consulting the
// filter (if any) as each snapshotted name comes up.
func (it *DirIterator) HasNext() (bool, error) {
	if it.havePending {
		return true, nil
	}
	if it.failed != nil {
		return false, it.failed
	}

	s := it.stream
	for {
		if s.once.isDone() {
			return false, nil
		}
		if s.idx >= len(s.names) {
			return false, nil
		}
		name := s.names[s.idx]
		s.idx++

		childNode, present := s.parent.get(name)
		entry := DirEntry{Path: joinRaw(s.parentPath, name), present: present, n: childNode}

		if s.filter != nil {
			ok, err := s.filter(entry)
			if err != nil {
				it.failed = &DirectoryIterationError{Cause: err}
				return false, it.failed
			}
			if !ok {
				continue
			}
		}

		it.pending = entry
		it.havePending = true
		return true, nil
	}
}

// Next returns the entry HasNext prepared, or fails with IllegalStateError
// if the iterator is already exhausted.
func (it *DirIterator) Next() (DirEntry, error) {
	if !it.havePending {
		ok, err := it.HasNext()
		if err != nil {
			return DirEntry{}, err
		}
		if !ok {
			return DirEntry{}, &IllegalStateError{Detail: "no more elements"}
		}
	}
	entry := it.pending
	it.havePending = false
	return entry, nil
}
