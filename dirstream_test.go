package vfs

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, it *DirIterator) []string {
	t.Helper()
	var names []string
	for {
		ok, err := it.HasNext()
		require.NoError(t, err)
		if !ok {
			break
		}
		entry, err := it.Next()
		require.NoError(t, err)
		names = append(names, entry.Path)
	}
	return names
}

func Test_DirectoryStream_Filtered(t *testing.T) {
	dir := newDirNode()
	for i := 0; i < 100; i++ {
		dir.put(fmt.Sprintf("file%d", i), newFileNode())
	}

	oddTrailing := regexp.MustCompile(`file\d*[13579]$`)
	stream := newDirectoryStream(dir, "/foo", func(e DirEntry) (bool, error) {
		return oddTrailing.MatchString(e.Path), nil
	})

	it, err := stream.Iterator()
	require.NoError(t, err)
	names := drain(t, it)
	assert.Len(t, names, 50)
}

func Test_DirectoryStream_SnapshotIgnoresLaterRemovals(t *testing.T) {
	dir := newDirNode()
	dir.put("a", newFileNode())
	dir.put("b", newFileNode())

	stream := newDirectoryStream(dir, "/foo", nil)
	dir.remove("a")
	dir.remove("b")

	it, err := stream.Iterator()
	require.NoError(t, err)

	var entries []DirEntry
	for {
		ok, err := it.HasNext()
		require.NoError(t, err)
		if !ok {
			break
		}
		entry, err := it.Next()
		require.NoError(t, err)
		entries = append(entries, entry)
	}

	require.Len(t, entries, 2)
	assert.False(t, entries[0].Exists())
	assert.False(t, entries[1].Exists())
}

func Test_DirectoryStream_SnapshotIgnoresLaterAdditions(t *testing.T) {
	dir := newDirNode()
	dir.put("a", newFileNode())

	stream := newDirectoryStream(dir, "/foo", nil)
	dir.put("b", newFileNode())

	it, err := stream.Iterator()
	require.NoError(t, err)
	names := drain(t, it)
	assert.Equal(t, []string{"/foo/a"}, names)
}

func Test_DirectoryStream_IteratorTwiceFails(t *testing.T) {
	dir := newDirNode()
	stream := newDirectoryStream(dir, "/foo", nil)

	_, err := stream.Iterator()
	require.NoError(t, err)

	_, err = stream.Iterator()
	var ise *IllegalStateError
	assert.ErrorAs(t, err, &ise)
}

func Test_DirectoryStream_IteratorAfterCloseFails(t *testing.T) {
	dir := newDirNode()
	stream := newDirectoryStream(dir, "/foo", nil)
	require.NoError(t, stream.Close())

	_, err := stream.Iterator()
	var ise *IllegalStateError
	assert.ErrorAs(t, err, &ise)
}

func Test_DirectoryStream_CloseDuringIterationExhausts(t *testing.T) {
	dir := newDirNode()
	dir.put("a", newFileNode())
	dir.put("b", newFileNode())

	stream := newDirectoryStream(dir, "/foo", nil)
	it, err := stream.Iterator()
	require.NoError(t, err)

	ok, err := it.HasNext()
	require.NoError(t, err)
	require.True(t, ok)
	first, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, "/foo/a", first.Path)

	require.NoError(t, stream.Close())

	ok, err = it.HasNext()
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_DirectoryStream_FilterErrorWraps(t *testing.T) {
	dir := newDirNode()
	dir.put("a", newFileNode())

	boom := fmt.Errorf("boom")
	stream := newDirectoryStream(dir, "/foo", func(DirEntry) (bool, error) {
		return false, boom
	})

	it, err := stream.Iterator()
	require.NoError(t, err)

	_, err = it.HasNext()
	var die *DirectoryIterationError
	require.ErrorAs(t, err, &die)
	assert.ErrorIs(t, err, boom)
}
