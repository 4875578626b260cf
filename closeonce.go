package vfs

import "sync/atomic"

// closeOnce runs a cleanup function exactly once, no matter how many times
// fire is called or from how many goroutines. It is the "one-shot slot"
// §9's design notes call for around every channel, stream, and lock close
// hook, adapted from the CompareAndSwap-guarded shutdown latch the teacher
// lineage used for its Cancelable contract (cancelable.go): the atomic flag
// makes the already-closed check allocation- and lock-free, while the
// one-time action itself still runs under a swap so two racing closers
// never both believe they ran first.
type closeOnce struct {
	done int32
}

// fire runs action if this is the first call, and reports whether it did.
func (c *closeOnce) fire(action func()) bool {
	if !atomic.CompareAndSwapInt32(&c.done, 0, 1) {
		return false
	}
	if action != nil {
		action()
	}
	return true
}

func (c *closeOnce) isDone() bool {
	return atomic.LoadInt32(&c.done) != 0
}
