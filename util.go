package vfs

import "io"

// closeQuietly closes c and logs a failure instead of propagating it. Used
// for close calls made on behalf of the caller after an error has already
// been decided (e.g. releasing a partially-opened channel before returning
// the error that caused the rollback) where a second error would only
// obscure the first.
func closeQuietly(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		Log.WithError(err).Warn("failed to close resource")
	}
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
