package vfs

import "github.com/sirupsen/logrus"

// Log is the package-level logger. It defaults to logrus's standard logger
// and can be replaced wholesale (e.g. to redirect into a host application's
// own logger) via SetLog. Nothing in this package logs on the successful
// path; the one entry is closeQuietly's warning when a close made after an
// error has already been decided itself fails, mirroring the teacher
// lineage's silentClose helper, which had the same "don't lose the error,
// don't block on it either" shape.
var Log = logrus.StandardLogger()

// SetLog replaces the package-level logger.
func SetLog(l *logrus.Logger) {
	Log = l
}
