package vfs

import (
	"strings"
	"time"
)

// attrDesc is one entry of the static {view, attribute -> getter/setter}
// table §9's design notes call for. set is nil for a read-only attribute.
type attrDesc struct {
	get func(n node) interface{}
	set func(n node, value interface{}) error
}

func getTimestamp(pick func(a *nodeAttrs) time.Time) func(node) interface{} {
	return func(n node) interface{} {
		return pick(n.attrs())
	}
}

func setTimestamp(apply func(a *nodeAttrs, t time.Time)) func(node, interface{}) error {
	return func(n node, value interface{}) error {
		t, ok := value.(time.Time)
		if !ok {
			return &ClassCastError{Detail: "expected time.Time"}
		}
		apply(n.attrs(), t)
		return nil
	}
}

func attrSize(n node) interface{} {
	if f, ok := n.(*fileNode); ok {
		return uint64(f.currentSize())
	}
	return uint64(0)
}

func attrIsRegularFile(n node) interface{} { _, ok := n.(*fileNode); return ok }
func attrIsDirectory(n node) interface{}   { _, ok := n.(*dirNode); return ok }
func attrIsSymbolicLink(n node) interface{} {
	_, ok := n.(*linkNode)
	return ok
}
func attrIsOther(n node) interface{} { return false }

func attrFileKey(n node) interface{} {
	_, _, _, _, _, key := n.attrs().snapshot()
	return key
}

func attrReadOnly(n node) interface{} { return n.attrs().isReadOnly() }
func attrHidden(n node) interface{}   { return n.attrs().isHidden() }

func setReadOnly(n node, value interface{}) error {
	v, ok := value.(bool)
	if !ok {
		return &ClassCastError{Detail: "expected bool for readOnly"}
	}
	n.attrs().setReadOnly(v)
	return nil
}

func setHidden(n node, value interface{}) error {
	v, ok := value.(bool)
	if !ok {
		return &ClassCastError{Detail: "expected bool for hidden"}
	}
	n.attrs().setHidden(v)
	return nil
}

func lastModifiedDesc() *attrDesc {
	return &attrDesc{
		get: getTimestamp(func(a *nodeAttrs) time.Time { lm, _, _, _, _, _ := a.snapshot(); return lm }),
		set: setTimestamp(func(a *nodeAttrs, t time.Time) { a.setLastModified(t) }),
	}
}

func lastAccessDesc() *attrDesc {
	return &attrDesc{
		get: getTimestamp(func(a *nodeAttrs) time.Time { _, la, _, _, _, _ := a.snapshot(); return la }),
		set: setTimestamp(func(a *nodeAttrs, t time.Time) { a.setLastAccess(t) }),
	}
}

func creationDesc() *attrDesc {
	return &attrDesc{
		get: getTimestamp(func(a *nodeAttrs) time.Time { _, _, cr, _, _, _ := a.snapshot(); return cr }),
		set: setTimestamp(func(a *nodeAttrs, t time.Time) { a.setCreation(t) }),
	}
}

// sharedAttrs are the attributes exposed by both the basic and memory
// views (§4.7's table).
func sharedAttrs() map[string]*attrDesc {
	return map[string]*attrDesc{
		"lastModifiedTime": lastModifiedDesc(),
		"lastAccessTime":   lastAccessDesc(),
		"creationTime":     creationDesc(),
		"size":             {get: attrSize},
		"isRegularFile":    {get: attrIsRegularFile},
		"isDirectory":      {get: attrIsDirectory},
		"isSymbolicLink":   {get: attrIsSymbolicLink},
		"isOther":          {get: attrIsOther},
		"fileKey":          {get: attrFileKey},
	}
}

// viewTable holds the full {view -> {attribute -> descriptor}} grammar.
// memory is basic plus readOnly/hidden.
func viewTable() map[string]map[string]*attrDesc {
	basic := sharedAttrs()
	memory := sharedAttrs()
	memory["readOnly"] = &attrDesc{get: attrReadOnly, set: setReadOnly}
	memory["hidden"] = &attrDesc{get: attrHidden, set: setHidden}
	return map[string]map[string]*attrDesc{
		"basic":  basic,
		"memory": memory,
	}
}

// parseAttributeQuery splits a "view?:name(,name)*" spec (§4.7) into a view
// name (defaulting to "basic") and either an explicit name list or the
// wantAll flag for the "*" form.
func parseAttributeQuery(spec string) (view string, names []string, wantAll bool, err error) {
	view = "basic"
	rest := spec
	if idx := strings.Index(spec, ":"); idx >= 0 {
		if v := spec[:idx]; v != "" {
			view = v
		}
		rest = spec[idx+1:]
	}
	if rest == "*" {
		return view, nil, true, nil
	}
	if rest == "" {
		return "", nil, false, &IllegalArgumentError{Detail: "empty attribute name list"}
	}
	return view, strings.Split(rest, ","), false, nil
}

// readAttributes evaluates a query string against n, returning bare
// attribute names mapped to their values (§9: the current design uses bare
// names for both views, resolving the open question in favour of a single
// consistent shape).
func readAttributes(n node, spec string) (map[string]interface{}, error) {
	view, names, wantAll, err := parseAttributeQuery(spec)
	if err != nil {
		return nil, err
	}
	table := viewTable()
	attrs, ok := table[view]
	if !ok {
		return nil, &UnsupportedOperationError{Detail: "unsupported view: " + view}
	}

	out := make(map[string]interface{})
	if wantAll {
		for name, desc := range attrs {
			out[name] = desc.get(n)
		}
		return out, nil
	}
	for _, name := range names {
		desc, ok := attrs[name]
		if !ok {
			return nil, &IllegalArgumentError{Detail: "unsupported attribute: " + view + ":" + name}
		}
		out[name] = desc.get(n)
	}
	return out, nil
}

// setAttribute applies a single "view:name" (or bare "name", defaulting to
// basic) write against n.
func setAttribute(n node, viewAndName string, value interface{}) error {
	view := "basic"
	name := viewAndName
	if idx := strings.Index(viewAndName, ":"); idx >= 0 {
		if v := viewAndName[:idx]; v != "" {
			view = v
		}
		name = viewAndName[idx+1:]
	}
	table := viewTable()
	attrs, ok := table[view]
	if !ok {
		return &UnsupportedOperationError{Detail: "unsupported view: " + view}
	}
	desc, ok := attrs[name]
	if !ok {
		return &IllegalArgumentError{Detail: "unsupported attribute: " + view + ":" + name}
	}
	if desc.set == nil {
		return &IllegalArgumentError{Detail: "attribute not writable: " + view + ":" + name}
	}
	return desc.set(n, value)
}

// creationAttr is one {view:name = value} pair supplied alongside a
// create-file or create-directory call.
type creationAttr struct {
	Spec  string
	Value interface{}
}

// applyCreationAttrs applies every creationAttr to n, in order. The caller
// is responsible for the rollback-on-failure policy (SPEC_FULL.md §5.3):
// on the first error, remove n from its parent before returning.
func applyCreationAttrs(n node, attrs []creationAttr) error {
	for _, a := range attrs {
		if err := setAttribute(n, a.Spec, a.Value); err != nil {
			return err
		}
	}
	return nil
}
