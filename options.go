package vfs

// OpenOption mirrors the flag vocabulary of §4.2. It is a bitmask, in the
// spirit of the os package's O_RDONLY/O_CREATE/... constants the teacher
// lineage builds directly on (dp_localfilesystem.go passes os.FileMode and
// os.O_* flags straight through to os.OpenFile) — the difference here is
// that the flag set is closed and fully enumerated by spec.md, so there is
// no "unknown flag" case beyond a caller fabricating a value outside the
// declared bits, which each parseOpenOptionsFor* function rejects.
type OpenOption uint32

const (
	OptRead OpenOption = 1 << iota
	OptWrite
	OptAppend
	OptTruncateExisting
	OptCreate
	OptCreateNew
	OptDeleteOnClose
	OptSparse
	OptSync
	OptDsync
	OptNoFollowLinks
)

const knownOpenOptions = OptRead | OptWrite | OptAppend | OptTruncateExisting |
	OptCreate | OptCreateNew | OptDeleteOnClose | OptSparse | OptSync | OptDsync | OptNoFollowLinks

func mergeOpenOptions(opts []OpenOption) OpenOption {
	var all OpenOption
	for _, o := range opts {
		all |= o
	}
	return all
}

func (o OpenOption) has(bit OpenOption) bool { return o&bit != 0 }

// openConfig is the validated, resolved shape of a set of OpenOption flags
// for one of the three open call shapes spec.md §4.2 distinguishes.
type openConfig struct {
	readable      bool
	writable      bool
	append        bool
	truncate      bool
	create        bool
	createNew     bool
	deleteOnClose bool
	noFollowLinks bool
}

// parseOpenOptionsForChannel validates flags for a byte channel / file
// channel open, where both read and write are independently configurable.
func parseOpenOptionsForChannel(opts ...OpenOption) (*openConfig, error) {
	all := mergeOpenOptions(opts)
	if all&^knownOpenOptions != 0 {
		return nil, &UnsupportedOperationError{Detail: "unknown open option"}
	}

	cfg := &openConfig{
		readable:      all.has(OptRead),
		append:        all.has(OptAppend),
		truncate:      all.has(OptTruncateExisting),
		create:        all.has(OptCreate) || all.has(OptCreateNew),
		createNew:     all.has(OptCreateNew),
		deleteOnClose: all.has(OptDeleteOnClose),
		noFollowLinks: all.has(OptNoFollowLinks),
	}

	writeImplying := all.has(OptWrite) || cfg.append || cfg.create || cfg.truncate
	cfg.writable = writeImplying
	if !cfg.writable && !cfg.readable {
		cfg.readable = true
	}

	if cfg.append && cfg.truncate {
		return nil, &UnsupportedOperationError{Detail: "illegal combination: append and truncate_existing"}
	}
	if cfg.append && cfg.readable && all.has(OptRead) {
		return nil, &UnsupportedOperationError{Detail: "illegal combination: append and read"}
	}

	return cfg, nil
}

// parseOpenOptionsForInputStream validates flags for a read-only input
// stream: read is implicit and every write-shaped flag is rejected.
func parseOpenOptionsForInputStream(opts ...OpenOption) (*openConfig, error) {
	all := mergeOpenOptions(opts)
	if all&^knownOpenOptions != 0 {
		return nil, &UnsupportedOperationError{Detail: "unknown open option"}
	}
	if all.has(OptWrite) || all.has(OptAppend) || all.has(OptTruncateExisting) ||
		all.has(OptCreate) || all.has(OptCreateNew) {
		return nil, &UnsupportedOperationError{Detail: "unsupported option for input stream"}
	}
	return &openConfig{
		readable:      true,
		noFollowLinks: all.has(OptNoFollowLinks),
		deleteOnClose: all.has(OptDeleteOnClose),
	}, nil
}

// parseOpenOptionsForOutputStream validates flags for a write-only output
// stream: write is implicit, read is rejected, and with no write-shaping
// flag supplied at all the stream implies create+truncate (matching the
// teacher lineage's package-level Write() helper, which "removes and
// recreates the file").
func parseOpenOptionsForOutputStream(opts ...OpenOption) (*openConfig, error) {
	all := mergeOpenOptions(opts)
	if all&^knownOpenOptions != 0 {
		return nil, &UnsupportedOperationError{Detail: "unknown open option"}
	}
	if all.has(OptRead) {
		return nil, &UnsupportedOperationError{Detail: "unsupported option for output stream"}
	}

	cfg := &openConfig{
		writable:      true,
		append:        all.has(OptAppend),
		create:        all.has(OptCreate) || all.has(OptCreateNew),
		createNew:     all.has(OptCreateNew),
		truncate:      all.has(OptTruncateExisting),
		deleteOnClose: all.has(OptDeleteOnClose),
		noFollowLinks: all.has(OptNoFollowLinks),
	}

	anyWriteShaping := all.has(OptWrite) || cfg.append || cfg.create || cfg.truncate
	if !anyWriteShaping {
		cfg.create = true
		cfg.truncate = true
	}

	if cfg.append && cfg.truncate {
		return nil, &UnsupportedOperationError{Detail: "illegal combination: append and truncate_existing"}
	}

	return cfg, nil
}

// CopyOption mirrors the flag vocabulary for CopyMoveEngine (§4.6).
type CopyOption uint32

const (
	CopyReplaceExisting CopyOption = 1 << iota
	CopyAttributes
	CopyNoFollowLinks
)

const knownCopyOptions = CopyReplaceExisting | CopyAttributes | CopyNoFollowLinks

type copyConfig struct {
	replaceExisting bool
	copyAttributes  bool
	noFollowLinks   bool
}

func parseCopyOptions(opts ...CopyOption) (*copyConfig, error) {
	var all CopyOption
	for _, o := range opts {
		all |= o
	}
	if all&^knownCopyOptions != 0 {
		return nil, &UnsupportedOperationError{Detail: "unknown copy option"}
	}
	return &copyConfig{
		replaceExisting: all&CopyReplaceExisting != 0,
		copyAttributes:  all&CopyAttributes != 0,
		noFollowLinks:   all&CopyNoFollowLinks != 0,
	}, nil
}
