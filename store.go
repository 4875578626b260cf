package vfs

import (
	"runtime"
	"strings"
	"sync"
)

// FileStore is the façade described in §6: a single in-memory tree rooted
// at "/", addressed through POSIX-style paths, with one store-wide
// structural lock guarding every path resolution and every structural
// mutation (§5). Channel content reads/writes bypass this lock entirely
// once a channel has been handed out; they serialize on the File's own
// content mutex instead.
type FileStore struct {
	mu   sync.RWMutex
	root *dirNode
}

// NewFileStore returns an empty store: a root Directory with no children.
func NewFileStore() *FileStore {
	return &FileStore{root: newDirNode()}
}

var (
	defaultMu    sync.RWMutex
	defaultStore = NewFileStore()
)

// Default returns the process-wide default store (§6's "global store
// accessor"). Reconfigure it with SetDefault before any other package-level
// helper in this file is used concurrently from another goroutine.
func Default() *FileStore {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultStore
}

// SetDefault replaces the process-wide default store.
func SetDefault(store *FileStore) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultStore = store
}

// splitParent returns the canonical parent path and final name for a raw
// path, failing FileAlreadyExists if path names the root (which always
// exists and has no name to create under a parent).
func splitParent(raw string) (parentPath string, name string, err error) {
	p := Path(normalizeRaw(raw))
	name = p.Name()
	if name == "" {
		return "", "", &FileAlreadyExistsError{Path: "/"}
	}
	return p.Parent().String(), name, nil
}

// resolveParentDir resolves parentPath and type-asserts the result to a
// directory, translating a non-directory result into NotDirectoryError.
func (fs *FileStore) resolveParentDir(parentPath string) (*dirNode, string, error) {
	n, canonical, err := resolve(fs.root, parentPath, defaultResolvePolicy())
	if err != nil {
		return nil, "", err
	}
	dir, ok := n.(*dirNode)
	if !ok {
		return nil, "", &NotDirectoryError{Path: canonical}
	}
	return dir, canonical, nil
}

func joinCanonical(parentCanonical, name string) string {
	if parentCanonical == "/" {
		return "/" + name
	}
	return parentCanonical + "/" + name
}

// CreateFile creates an empty File at path. Any creationAttrs are applied
// after placement; on the first attribute error the file is removed again
// (rollback policy, SPEC_FULL.md §5.3), except that a successfully applied
// memory:readOnly=true is not itself an error — it is the documented case
// where creation succeeds but a subsequent write will fail.
func (fs *FileStore) CreateFile(path string, attrs ...creationAttr) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentPath, name, err := splitParent(path)
	if err != nil {
		return err
	}
	parent, parentCanonical, err := fs.resolveParentDir(parentPath)
	if err != nil {
		return err
	}
	if parent.attrs().isReadOnly() {
		return &AccessDeniedError{Path: parentCanonical}
	}
	if _, found := parent.get(name); found {
		return &FileAlreadyExistsError{Path: joinCanonical(parentCanonical, name)}
	}

	file := newFileNode()
	parent.put(name, file)
	if err := applyCreationAttrs(file, attrs); err != nil {
		parent.remove(name)
		return err
	}
	return nil
}

// CreateDirectory creates an empty Directory at path, same placement and
// rollback rules as CreateFile.
func (fs *FileStore) CreateDirectory(path string, attrs ...creationAttr) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentPath, name, err := splitParent(path)
	if err != nil {
		return err
	}
	parent, parentCanonical, err := fs.resolveParentDir(parentPath)
	if err != nil {
		return err
	}
	if parent.attrs().isReadOnly() {
		return &AccessDeniedError{Path: parentCanonical}
	}
	if _, found := parent.get(name); found {
		return &FileAlreadyExistsError{Path: joinCanonical(parentCanonical, name)}
	}

	dir := newDirNode()
	parent.put(name, dir)
	if err := applyCreationAttrs(dir, attrs); err != nil {
		parent.remove(name)
		return err
	}
	return nil
}

// CreateSymlink creates a Link at path pointing at target. The target
// string is stored verbatim and resolved lazily on every traversal.
func (fs *FileStore) CreateSymlink(path, target string, attrs ...creationAttr) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentPath, name, err := splitParent(path)
	if err != nil {
		return err
	}
	parent, parentCanonical, err := fs.resolveParentDir(parentPath)
	if err != nil {
		return err
	}
	if parent.attrs().isReadOnly() {
		return &AccessDeniedError{Path: parentCanonical}
	}
	if _, found := parent.get(name); found {
		return &FileAlreadyExistsError{Path: joinCanonical(parentCanonical, name)}
	}

	link := newLinkNode(target)
	parent.put(name, link)
	if err := applyCreationAttrs(link, attrs); err != nil {
		parent.remove(name)
		return err
	}
	return nil
}

// CreateLink creates a hard link at path: a second directory slot for the
// same File instance already reachable at existingPath (§3 invariant 1,
// §8 testable property 3). existingPath is resolved following symbolic
// links, so linking through a symlink targets whatever File it ultimately
// names. Linking a Directory is rejected with IsDirectoryError — only
// Files may be hard-linked.
func (fs *FileStore) CreateLink(path, existingPath string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	existing, existingCanonical, err := resolve(fs.root, existingPath, defaultResolvePolicy())
	if err != nil {
		return err
	}
	file, ok := existing.(*fileNode)
	if !ok {
		return &IsDirectoryError{Path: existingCanonical}
	}

	parentPath, name, err := splitParent(path)
	if err != nil {
		return err
	}
	parent, parentCanonical, err := fs.resolveParentDir(parentPath)
	if err != nil {
		return err
	}
	if parent.attrs().isReadOnly() {
		return &AccessDeniedError{Path: parentCanonical}
	}
	if _, found := parent.get(name); found {
		return &FileAlreadyExistsError{Path: joinCanonical(parentCanonical, name)}
	}

	parent.put(name, file)
	return nil
}

// ReadSymbolicLink returns path's link target verbatim, without following
// it. path itself is resolved without following links so the Link at the
// final component is what gets inspected; a non-Link fails NotLinkError.
func (fs *FileStore) ReadSymbolicLink(path string) (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	policy := resolvePolicy{followLinks: false, maxLinkHops: 100}
	n, canonical, err := resolve(fs.root, path, policy)
	if err != nil {
		return "", err
	}
	link, ok := n.(*linkNode)
	if !ok {
		return "", &NotLinkError{Path: canonical}
	}
	return link.target, nil
}

// openChannel implements the shared resolution/creation logic behind
// OpenChannel, OpenInputStream and OpenOutputStream.
func (fs *FileStore) openChannel(path string, cfg *openConfig) (*ByteChannel, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	policy := resolvePolicy{followLinks: !cfg.noFollowLinks, maxLinkHops: 100}
	n, canonical, err := resolve(fs.root, path, policy)
	if err != nil {
		nsf, isNoSuchFile := err.(*NoSuchFileError)
		if !isNoSuchFile || !cfg.create {
			return nil, err
		}

		parentPath, name, splitErr := splitParent(path)
		if splitErr != nil {
			return nil, splitErr
		}
		parent, parentCanonical, perr := fs.resolveParentDir(parentPath)
		if perr != nil {
			return nil, perr
		}
		if _, found := parent.get(name); found {
			// Name is taken by something resolution couldn't step through
			// (e.g. a broken link) — surface the original failure.
			return nil, nsf
		}
		if parent.attrs().isReadOnly() {
			return nil, &AccessDeniedError{Path: parentCanonical}
		}

		file := newFileNode()
		parent.put(name, file)
		return newByteChannel(file, joinCanonical(parentCanonical, name), cfg, nil), nil
	}

	if cfg.createNew {
		return nil, &FileAlreadyExistsError{Path: canonical}
	}

	file, ok := n.(*fileNode)
	if !ok {
		if _, isDir := n.(*dirNode); isDir {
			return nil, &IsDirectoryError{Path: canonical}
		}
		// A linkNode only reaches here with noFollowLinks set and the link
		// as the final component — not byte-addressable content.
		return nil, &UnsupportedOperationError{Detail: "cannot open a symbolic link as a channel: " + canonical}
	}
	if cfg.writable && file.attrs().isReadOnly() {
		return nil, &AccessDeniedError{Path: canonical}
	}

	ch := newByteChannel(file, canonical, cfg, nil)
	if cfg.truncate && cfg.writable {
		if err := ch.Truncate(0); err != nil {
			closeQuietly(ch)
			return nil, err
		}
	}
	return ch, nil
}

// OpenChannel opens a ByteChannel against path (§4.2, §4.3).
func (fs *FileStore) OpenChannel(path string, opts ...OpenOption) (*ByteChannel, error) {
	cfg, err := parseOpenOptionsForChannel(opts...)
	if err != nil {
		return nil, err
	}
	return fs.openChannel(path, cfg)
}

// OpenInputStream opens a read-only InputStream against path.
func (fs *FileStore) OpenInputStream(path string, opts ...OpenOption) (*InputStream, error) {
	cfg, err := parseOpenOptionsForInputStream(opts...)
	if err != nil {
		return nil, err
	}
	ch, err := fs.openChannel(path, cfg)
	if err != nil {
		return nil, err
	}
	return newInputStream(ch), nil
}

// OpenOutputStream opens a write-only OutputStream against path, creating
// and truncating by default (§4.2).
func (fs *FileStore) OpenOutputStream(path string, opts ...OpenOption) (*OutputStream, error) {
	cfg, err := parseOpenOptionsForOutputStream(opts...)
	if err != nil {
		return nil, err
	}
	ch, err := fs.openChannel(path, cfg)
	if err != nil {
		return nil, err
	}
	return newOutputStream(ch), nil
}

// Delete removes path. Deleting a non-empty directory fails with
// DirectoryNotEmptyError; deleting a missing path fails with
// NoSuchFileError. Deleting the root is rejected the same way moving it
// is (§4.6): there is no parent slot to clear it from.
func (fs *FileStore) Delete(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentPath, name, err := splitParent(path)
	if err != nil {
		return &DirectoryNotEmptyError{Path: "/"}
	}
	parent, parentCanonical, err := fs.resolveParentDir(parentPath)
	if err != nil {
		return err
	}
	if parent.attrs().isReadOnly() {
		return &AccessDeniedError{Path: parentCanonical}
	}
	child, found := parent.get(name)
	if !found {
		return &NoSuchFileError{Path: joinCanonical(parentCanonical, name)}
	}
	if dir, ok := child.(*dirNode); ok && !dir.isEmpty() {
		return &DirectoryNotEmptyError{Path: joinCanonical(parentCanonical, name)}
	}
	parent.remove(name)
	return nil
}

// Copy implements CopyMoveEngine's copy contract (§4.6).
func (fs *FileStore) Copy(srcPath, destPath string, opts ...CopyOption) error {
	cfg, err := parseCopyOptions(opts...)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	policy := resolvePolicy{followLinks: !cfg.noFollowLinks, maxLinkHops: 100}
	src, _, err := resolve(fs.root, srcPath, policy)
	if err != nil {
		return err
	}

	destParentPath, destName, err := splitParent(destPath)
	if err != nil {
		return &FileAlreadyExistsError{Path: "/"}
	}
	destParent, destParentCanonical, err := fs.resolveParentDir(destParentPath)
	if err != nil {
		return err
	}

	if existing, found := destParent.get(destName); found && existing == src {
		return nil // same-file: no-op
	}

	return copyInto(src, destParent, joinCanonical(destParentCanonical, destName), destName, cfg)
}

// Move implements CopyMoveEngine's move contract (§4.6).
func (fs *FileStore) Move(srcPath, destPath string, replaceExisting bool) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	srcParentPath, srcName, err := splitParent(srcPath)
	if err != nil {
		return &DirectoryNotEmptyError{Path: "/"}
	}
	srcParent, srcParentCanonical, err := fs.resolveParentDir(srcParentPath)
	if err != nil {
		return err
	}
	src, found := srcParent.get(srcName)
	if !found {
		return &NoSuchFileError{Path: joinCanonical(srcParentCanonical, srcName)}
	}

	destParentPath, destName, err := splitParent(destPath)
	if err != nil {
		return &FileAlreadyExistsError{Path: "/"}
	}
	destParent, destParentCanonical, err := fs.resolveParentDir(destParentPath)
	if err != nil {
		return err
	}

	if existing, found := destParent.get(destName); found && existing == src {
		return nil // same-file: no-op
	}

	destCanonical := joinCanonical(destParentCanonical, destName)
	if srcParent == destParent && srcName == destName {
		return nil
	}
	return moveInto(srcParent, srcName, src, destParent, destCanonical, destName, replaceExisting)
}

// ReadAttributes evaluates a "view?:name(,name)*" query against path
// (§4.7).
func (fs *FileStore) ReadAttributes(path, query string) (map[string]interface{}, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	n, _, err := resolve(fs.root, path, defaultResolvePolicy())
	if err != nil {
		return nil, err
	}
	return readAttributes(n, query)
}

// SetAttribute writes a single "view:name" attribute against path.
func (fs *FileStore) SetAttribute(path, viewAndName string, value interface{}) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	n, canonical, err := resolve(fs.root, path, defaultResolvePolicy())
	if err != nil {
		return err
	}
	if n.attrs().isReadOnly() {
		return &AccessDeniedError{Path: canonical}
	}
	return setAttribute(n, viewAndName, value)
}

// OpenDirectoryStream resolves path to a Directory and snapshots its
// current children (§4.4).
func (fs *FileStore) OpenDirectoryStream(path string, filter DirFilter) (*DirectoryStream, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	n, canonical, err := resolve(fs.root, path, defaultResolvePolicy())
	if err != nil {
		return nil, err
	}
	dir, ok := n.(*dirNode)
	if !ok {
		return nil, &NotDirectoryError{Path: canonical}
	}
	return newDirectoryStream(dir, canonical, filter), nil
}

// ToRealPath returns path's canonical, link-resolved absolute form
// (testable property 2).
func (fs *FileStore) ToRealPath(path string) (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, canonical, err := resolve(fs.root, path, defaultResolvePolicy())
	if err != nil {
		return "", err
	}
	return canonical, nil
}

// SameFile reports whether a and b name the same underlying Node, both
// followed through any symbolic links.
func (fs *FileStore) SameFile(a, b string) (bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	na, _, err := resolve(fs.root, a, defaultResolvePolicy())
	if err != nil {
		return false, err
	}
	nb, _, err := resolve(fs.root, b, defaultResolvePolicy())
	if err != nil {
		return false, err
	}
	return na == nb, nil
}

// Stat reads the basic attribute view for path, equivalent to
// ReadAttributes(path, "basic:*").
func (fs *FileStore) Stat(path string) (map[string]interface{}, error) {
	return fs.ReadAttributes(path, "basic:*")
}

// GetContent reads an entire File's content atomically (§6).
func (fs *FileStore) GetContent(path string) ([]byte, error) {
	fs.mu.RLock()
	n, canonical, err := resolve(fs.root, path, defaultResolvePolicy())
	fs.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	file, ok := n.(*fileNode)
	if !ok {
		return nil, &IsDirectoryError{Path: canonical}
	}

	file.contentMu.Lock()
	defer file.contentMu.Unlock()
	out := make([]byte, file.size)
	copy(out, file.content[:file.size])
	file.touchAccess()
	return out, nil
}

// SetContent replaces a File's entire content atomically, creating the
// file (and not its missing parents) if it does not already exist.
func (fs *FileStore) SetContent(path string, content []byte) error {
	ch, err := fs.OpenChannel(path, OptWrite, OptCreate, OptTruncateExisting)
	if err != nil {
		return wrapf(err, "open %s for content replacement", path)
	}
	defer closeQuietly(ch)
	if _, err := ch.Write(content); err != nil {
		return wrapf(err, "write content to %s", path)
	}
	return nil
}

// Clear removes every child of the root while preserving the root Node's
// own identity (§6).
func (fs *FileStore) Clear() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, name := range fs.root.names() {
		fs.root.remove(name)
	}
}

// memoryURIScheme is the case-insensitive URI scheme mapping paths within
// the single store (§6).
const memoryURIScheme = "memory"

// PathFromURI validates a "memory:<path>" URI and returns the bare path.
func PathFromURI(uri string) (string, error) {
	idx := strings.Index(uri, ":")
	if idx < 0 || !strings.EqualFold(uri[:idx], memoryURIScheme) {
		return "", &IllegalArgumentError{Detail: "URI scheme must be memory"}
	}
	return uri[idx+1:], nil
}

// URI renders path as a "memory:<path>" URI.
func (fs *FileStore) URI(path string) string {
	return memoryURIScheme + ":" + Path(normalizeRaw(path)).String()
}

// storeAttrNames are the file-store-level (as opposed to per-node)
// attributes §6 describes: implementation-defined positive capacity
// figures, since an in-memory store has no real disk quota to report.
var storeAttrNames = map[string]func() uint64{
	"totalSpace":       func() uint64 { var m runtime.MemStats; runtime.ReadMemStats(&m); return m.Sys },
	"usableSpace":      func() uint64 { var m runtime.MemStats; runtime.ReadMemStats(&m); return m.Sys - m.HeapInuse },
	"unallocatedSpace": func() uint64 { var m runtime.MemStats; runtime.ReadMemStats(&m); return m.HeapIdle },
}

// StoreAttribute reads a file-store-level attribute (§6). Unlike
// ReadAttributes, this addresses the store identifier itself rather than
// a node within it.
func (fs *FileStore) StoreAttribute(name string) (uint64, error) {
	fn, ok := storeAttrNames[name]
	if !ok {
		return 0, &UnsupportedOperationError{Detail: "unsupported file-store attribute: " + name}
	}
	return fn(), nil
}

// Read opens path for reading via the default store (§6 global accessor).
func Read(path string) (*InputStream, error) { return Default().OpenInputStream(path) }

// Write opens path for writing via the default store, creating/truncating
// it as OpenOutputStream's default does.
func Write(path string) (*OutputStream, error) { return Default().OpenOutputStream(path) }

// Delete removes path via the default store.
func Delete(path string) error { return Default().Delete(path) }

// GetContent reads path's entire content via the default store.
func GetContent(path string) ([]byte, error) { return Default().GetContent(path) }

// SetContent replaces path's entire content via the default store.
func SetContent(path string, content []byte) error { return Default().SetContent(path, content) }

// Clear removes every child of the default store's root.
func Clear() { Default().Clear() }
