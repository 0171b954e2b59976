package rxtest

import "sync/atomic"

// CancelCounter is an [rx.Cancellable] that counts its invocations.
// The zero value is ready to use.
type CancelCounter struct {
	n atomic.Int32

	// If set, called on every Cancel after the count is incremented.
	Hook func()
}

func (c *CancelCounter) Cancel() {
	c.n.Add(1)
	if c.Hook != nil {
		c.Hook()
	}
}

// Count returns how many times Cancel has been called.
func (c *CancelCounter) Count() int {
	return int(c.n.Load())
}
