package callback

// Handle is a single-ownership reference to a wrapped callable.
// It is not safe for concurrent use; ownership moves along with the Event that
// carries it.
type Handle struct {
	fn       Callback
	alloc    *Allocator
	released bool
}

// Invoke runs the wrapped callable. Repeated invocation is allowed; invoking a
// released or moved-from handle returns ErrReleased.
func (h *Handle) Invoke() error {
	if h == nil || h.released {
		return ErrReleased
	}
	h.fn.Call()
	return nil
}

// Call implements Callback. It panics if the handle was released.
func (h *Handle) Call() {
	if err := h.Invoke(); err != nil {
		panic(err)
	}
}

// Release gives the handle back to its allocator. Only the first call counts;
// later calls return ErrReleased.
func (h *Handle) Release() error {
	if h == nil || h.released {
		return ErrReleased
	}
	h.released = true
	h.fn = nil
	if h.alloc != nil {
		h.alloc.release()
	}
	return nil
}

// Move transfers ownership to a new Handle. The receiver is left released
// without being counted as a release, so the allocation is accounted once.
func (h *Handle) Move() *Handle {
	if h == nil || h.released {
		return nil
	}
	moved := &Handle{fn: h.fn, alloc: h.alloc}
	h.fn = nil
	h.released = true
	return moved
}

func (h *Handle) Released() bool {
	return h == nil || h.released
}
