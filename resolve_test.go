package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree() (*dirNode, *fileNode) {
	root := newDirNode()
	foo := newDirNode()
	root.put("foo", foo)
	bar := newFileNode()
	foo.put("bar", bar)
	return root, bar
}

func Test_Resolve_Basic(t *testing.T) {
	root, bar := buildTree()

	n, canonical, err := resolve(root, "/foo/bar", defaultResolvePolicy())
	require.NoError(t, err)
	assert.Equal(t, "/foo/bar", canonical)
	assert.Same(t, bar, n)
}

func Test_Resolve_RelativeIsPrependedWithSlash(t *testing.T) {
	root, bar := buildTree()

	n, canonical, err := resolve(root, "foo/bar", defaultResolvePolicy())
	require.NoError(t, err)
	assert.Equal(t, "/foo/bar", canonical)
	assert.Same(t, bar, n)
}

func Test_Resolve_Empty_IsRoot(t *testing.T) {
	root, _ := buildTree()

	n, canonical, err := resolve(root, "", defaultResolvePolicy())
	require.NoError(t, err)
	assert.Equal(t, "/", canonical)
	assert.Same(t, root, n)
}

func Test_Resolve_DotDot(t *testing.T) {
	root, bar := buildTree()

	n, canonical, err := resolve(root, "/foo/bar/../bar", defaultResolvePolicy())
	require.NoError(t, err)
	assert.Equal(t, "/foo/bar", canonical)
	assert.Same(t, bar, n)
}

func Test_Resolve_DotDot_AtRootIsNoop(t *testing.T) {
	root, _ := buildTree()

	n, canonical, err := resolve(root, "/../../foo", defaultResolvePolicy())
	require.NoError(t, err)
	assert.Equal(t, "/foo", canonical)
	assert.IsType(t, &dirNode{}, n)
}

func Test_Resolve_NoSuchFile(t *testing.T) {
	root, _ := buildTree()

	_, _, err := resolve(root, "/foo/missing", defaultResolvePolicy())
	var nsf *NoSuchFileError
	require.ErrorAs(t, err, &nsf)
	assert.Equal(t, "/foo/missing", nsf.Path)
}

func Test_Resolve_NotDirectory(t *testing.T) {
	root, _ := buildTree()

	_, _, err := resolve(root, "/foo/bar/baz", defaultResolvePolicy())
	var nd *NotDirectoryError
	require.ErrorAs(t, err, &nd)
}

func Test_Resolve_FollowsLinkTransparently(t *testing.T) {
	root, bar := buildTree()
	root.put("link", newLinkNode("/foo/bar"))

	n, canonical, err := resolve(root, "/link", defaultResolvePolicy())
	require.NoError(t, err)
	assert.Equal(t, "/foo/bar", canonical)
	assert.Same(t, bar, n)
}

func Test_Resolve_NoFollowLinks_YieldsLinkItself(t *testing.T) {
	root, _ := buildTree()
	link := newLinkNode("/foo/bar")
	root.put("link", link)

	n, canonical, err := resolve(root, "/link", resolvePolicy{followLinks: false, maxLinkHops: 100})
	require.NoError(t, err)
	assert.Equal(t, "/link", canonical)
	assert.Same(t, link, n)
}

func Test_Resolve_RelativeLinkTarget(t *testing.T) {
	root, _ := buildTree()
	foo, _ := root.get("foo")
	foo.(*dirNode).put("link", newLinkNode("bar"))

	n, canonical, err := resolve(root, "/foo/link", defaultResolvePolicy())
	require.NoError(t, err)
	assert.Equal(t, "/foo/bar", canonical)
	assert.IsType(t, &fileNode{}, n)
}

func Test_Resolve_LinkCycle_FailsWithMaxLinkDepthExceeded(t *testing.T) {
	root := newDirNode()
	root.put("link1", newLinkNode("/link2"))
	root.put("link2", newLinkNode("/link1"))

	_, _, err := resolve(root, "/link1", defaultResolvePolicy())
	var fse *FileSystemError
	require.ErrorAs(t, err, &fse)
	assert.Equal(t, reasonMaxLinkDepthExceeded, fse.Reason)
	assert.Equal(t, "/link1", fse.Path)
}

func Test_Resolve_BrokenLink_FailsNamingTarget(t *testing.T) {
	root := newDirNode()
	root.put("broken", newLinkNode("/does/not/exist"))

	_, _, err := resolve(root, "/broken", defaultResolvePolicy())
	var nsf *NoSuchFileError
	require.ErrorAs(t, err, &nsf)
}
