package vfs

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// node is the tagged-variant contract shared by fileNode, dirNode, and
// linkNode (§3). Nodes never know their own name or parent; parentage is
// purely a function of which dirNode's children map currently holds them,
// which is what lets a fileNode be reachable from more than one directory
// slot (a hard link) while dirNode and linkNode are always singly owned.
type node interface {
	attrs() *nodeAttrs
}

// nodeAttrs holds the fields common to every node variant (§3). Every
// accessor takes the attribute mutex, independent of whatever mutex (if
// any) the concrete variant uses to guard its own payload, so that reading
// attributes never has to fight for the file content lock.
type nodeAttrs struct {
	mu           sync.Mutex
	lastModified time.Time
	lastAccess   time.Time
	creation     time.Time
	readOnly     bool
	hidden       bool
	key          uuid.UUID
}

func newNodeAttrs() nodeAttrs {
	now := time.Now()
	return nodeAttrs{
		lastModified: now,
		lastAccess:   now,
		creation:     now,
		key:          uuid.New(),
	}
}

func (a *nodeAttrs) touchModified() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastModified = time.Now()
}

func (a *nodeAttrs) touchAccess() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastAccess = time.Now()
}

func (a *nodeAttrs) setLastModified(t time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastModified = t
}

func (a *nodeAttrs) setLastAccess(t time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastAccess = t
}

func (a *nodeAttrs) setCreation(t time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.creation = t
}

func (a *nodeAttrs) isReadOnly() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.readOnly
}

func (a *nodeAttrs) setReadOnly(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.readOnly = v
}

func (a *nodeAttrs) isHidden() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hidden
}

func (a *nodeAttrs) setHidden(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hidden = v
}

func (a *nodeAttrs) snapshot() (lastModified, lastAccess, creation time.Time, readOnly, hidden bool, key uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastModified, a.lastAccess, a.creation, a.readOnly, a.hidden, a.key
}

// copyAttrsFrom copies the timestamp and flag attributes from src into a,
// used by CopyMoveEngine when copy_attributes is requested (§4.6).
func (a *nodeAttrs) copyAttrsFrom(src *nodeAttrs) {
	lm, la, cr, ro, hi, _ := src.snapshot()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastModified = lm
	a.lastAccess = la
	a.creation = cr
	a.readOnly = ro
	a.hidden = hi
}

// fileNode owns a mutable, growable byte buffer, the set of channels and
// streams currently open against it (for close accounting and lock
// ownership), and its LockTable. contentMu is the "File's content mutex"
// that §5 says grow/truncate must serialize on; plain reads and writes at
// non-overlapping offsets still take it, since the in-memory buffer is not
// otherwise safe for concurrent access, but distinct channels never block
// each other for longer than the memmove itself.
type fileNode struct {
	nodeAttrs
	contentMu sync.Mutex
	content   []byte
	size      int64
	live      map[*ByteChannel]struct{}
	locks     *lockTable
}

func newFileNode() *fileNode {
	return &fileNode{
		nodeAttrs: newNodeAttrs(),
		live:      make(map[*ByteChannel]struct{}),
		locks:     newLockTable(),
	}
}

func (f *fileNode) attrs() *nodeAttrs { return &f.nodeAttrs }

// currentSize returns the logical file size under the content lock.
func (f *fileNode) currentSize() int64 {
	f.contentMu.Lock()
	defer f.contentMu.Unlock()
	return f.size
}

func (f *fileNode) registerChannel(c *ByteChannel) {
	f.contentMu.Lock()
	defer f.contentMu.Unlock()
	f.live[c] = struct{}{}
}

func (f *fileNode) unregisterChannel(c *ByteChannel) {
	f.contentMu.Lock()
	defer f.contentMu.Unlock()
	delete(f.live, c)
}

// dirNode owns a mapping from child name to child node. Iteration order is
// unspecified here; DirectoryStream sorts lexicographically on demand (§3).
type dirNode struct {
	nodeAttrs
	mu       sync.RWMutex
	children map[string]node
}

func newDirNode() *dirNode {
	return &dirNode{
		nodeAttrs: newNodeAttrs(),
		children:  make(map[string]node),
	}
}

func (d *dirNode) attrs() *nodeAttrs { return &d.nodeAttrs }

func (d *dirNode) get(name string) (node, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n, ok := d.children[name]
	return n, ok
}

func (d *dirNode) put(name string, n node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.children[name] = n
	d.touchModified()
}

func (d *dirNode) remove(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.children, name)
	d.touchModified()
}

// names returns a snapshot of the current child names, unsorted.
func (d *dirNode) names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.children))
	for name := range d.children {
		out = append(out, name)
	}
	return out
}

func (d *dirNode) isEmpty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.children) == 0
}

// linkNode carries only a textual target, resolved at use time by the
// PathResolver (§9: "represent Link as a variant carrying only a textual
// target"). The target is fixed at construction; spec.md never mutates an
// existing link in place.
type linkNode struct {
	nodeAttrs
	target string
}

func newLinkNode(target string) *linkNode {
	return &linkNode{
		nodeAttrs: newNodeAttrs(),
		target:    target,
	}
}

func (l *linkNode) attrs() *nodeAttrs { return &l.nodeAttrs }
