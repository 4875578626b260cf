package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CopyNode_File_ValueCopiesContent(t *testing.T) {
	src := newFileNode()
	ch := newByteChannel(src, "/src", &openConfig{writable: true}, nil)
	_, err := ch.Write([]byte("Hello World"))
	require.NoError(t, err)

	out := copyNode(src, &copyConfig{})
	dst, ok := out.(*fileNode)
	require.True(t, ok)
	assert.NotSame(t, src, dst)
	assert.Equal(t, "Hello World", string(dst.content[:dst.size]))

	// mutating the source afterward must not perturb the copy.
	_, err = ch.Write([]byte("!"))
	require.NoError(t, err)
	assert.Equal(t, "Hello World", string(dst.content[:dst.size]))
}

func Test_CopyNode_Directory_IsEmptyRegardlessOfSourceChildren(t *testing.T) {
	src := newDirNode()
	src.put("child", newFileNode())

	out := copyNode(src, &copyConfig{})
	dst, ok := out.(*dirNode)
	require.True(t, ok)
	assert.True(t, dst.isEmpty())
}

func Test_CopyNode_WithoutCopyAttributes_HiddenNotCarried(t *testing.T) {
	src := newFileNode()
	src.attrs().setHidden(true)

	out := copyNode(src, &copyConfig{})
	assert.False(t, out.attrs().isHidden())
}

func Test_CopyNode_WithCopyAttributes_HiddenAndTimestampsCarried(t *testing.T) {
	src := newFileNode()
	src.attrs().setHidden(true)

	out := copyNode(src, &copyConfig{copyAttributes: true})
	assert.True(t, out.attrs().isHidden())

	srcLM, srcLA, srcCR, _, _, srcKey := src.attrs().snapshot()
	dstLM, dstLA, dstCR, _, _, dstKey := out.attrs().snapshot()
	assert.True(t, srcLM.Equal(dstLM))
	assert.True(t, srcLA.Equal(dstLA))
	assert.True(t, srcCR.Equal(dstCR))
	assert.NotEqual(t, srcKey, dstKey, "fileKey identifies the node, not its content, and must not be copied")
}

func Test_CopyInto_AlreadyExistsWithoutReplace(t *testing.T) {
	parent := newDirNode()
	parent.put("dst", newFileNode())

	err := copyInto(newFileNode(), parent, "/dst", "dst", &copyConfig{})
	var faee *FileAlreadyExistsError
	assert.ErrorAs(t, err, &faee)
}

func Test_CopyInto_ReplaceExisting_NonEmptyDirFails(t *testing.T) {
	parent := newDirNode()
	existing := newDirNode()
	existing.put("x", newFileNode())
	parent.put("dst", existing)

	err := copyInto(newDirNode(), parent, "/dst", "dst", &copyConfig{replaceExisting: true})
	var dne *DirectoryNotEmptyError
	assert.ErrorAs(t, err, &dne)
}

func Test_MoveInto_RenameInPlace(t *testing.T) {
	parent := newDirNode()
	f := newFileNode()
	parent.put("old", f)

	err := moveInto(parent, "old", f, parent, "/new", "new", false)
	require.NoError(t, err)

	_, stillThere := parent.get("old")
	assert.False(t, stillThere)
	moved, found := parent.get("new")
	require.True(t, found)
	assert.Same(t, f, moved)
}

func Test_MoveInto_AcrossDirectories_SameInstance(t *testing.T) {
	srcParent := newDirNode()
	destParent := newDirNode()
	f := newFileNode()
	srcParent.put("a", f)

	err := moveInto(srcParent, "a", f, destParent, "/dest/a", "a", false)
	require.NoError(t, err)

	_, found := srcParent.get("a")
	assert.False(t, found)
	moved, found := destParent.get("a")
	require.True(t, found)
	assert.Same(t, f, moved)
}

func Test_MoveInto_ReadOnlyParentDenied(t *testing.T) {
	srcParent := newDirNode()
	srcParent.attrs().setReadOnly(true)
	destParent := newDirNode()
	f := newFileNode()
	srcParent.put("a", f)

	err := moveInto(srcParent, "a", f, destParent, "/dest/a", "a", false)
	var ade *AccessDeniedError
	assert.ErrorAs(t, err, &ade)
}
