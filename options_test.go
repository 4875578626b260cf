package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseOpenOptionsForChannel_Defaults(t *testing.T) {
	cfg, err := parseOpenOptionsForChannel()
	require.NoError(t, err)
	assert.True(t, cfg.readable)
	assert.False(t, cfg.writable)
}

func Test_ParseOpenOptionsForChannel_WriteImpliesWritable(t *testing.T) {
	cfg, err := parseOpenOptionsForChannel(OptWrite)
	require.NoError(t, err)
	assert.False(t, cfg.readable)
	assert.True(t, cfg.writable)
}

func Test_ParseOpenOptionsForChannel_AppendAndTruncateRejected(t *testing.T) {
	_, err := parseOpenOptionsForChannel(OptAppend, OptTruncateExisting)
	var uoe *UnsupportedOperationError
	assert.ErrorAs(t, err, &uoe)
}

func Test_ParseOpenOptionsForChannel_AppendAndReadRejected(t *testing.T) {
	_, err := parseOpenOptionsForChannel(OptRead, OptAppend)
	var uoe *UnsupportedOperationError
	assert.ErrorAs(t, err, &uoe)
}

func Test_ParseOpenOptionsForInputStream_RejectsWrite(t *testing.T) {
	_, err := parseOpenOptionsForInputStream(OptWrite)
	var uoe *UnsupportedOperationError
	assert.ErrorAs(t, err, &uoe)
}

func Test_ParseOpenOptionsForOutputStream_DefaultCreatesAndTruncates(t *testing.T) {
	cfg, err := parseOpenOptionsForOutputStream()
	require.NoError(t, err)
	assert.True(t, cfg.writable)
	assert.True(t, cfg.create)
	assert.True(t, cfg.truncate)
}

func Test_ParseOpenOptionsForOutputStream_ExplicitAppendSuppressesAutoCreate(t *testing.T) {
	cfg, err := parseOpenOptionsForOutputStream(OptAppend)
	require.NoError(t, err)
	assert.True(t, cfg.append)
	assert.False(t, cfg.create)
}

func Test_ParseOpenOptionsForOutputStream_RejectsRead(t *testing.T) {
	_, err := parseOpenOptionsForOutputStream(OptRead)
	var uoe *UnsupportedOperationError
	assert.ErrorAs(t, err, &uoe)
}

func Test_ParseCopyOptions(t *testing.T) {
	cfg, err := parseCopyOptions(CopyReplaceExisting, CopyAttributes)
	require.NoError(t, err)
	assert.True(t, cfg.replaceExisting)
	assert.True(t, cfg.copyAttributes)
	assert.False(t, cfg.noFollowLinks)
}
