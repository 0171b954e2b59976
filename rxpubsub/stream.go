package rxpubsub

import "context"

// Stream is one node of a single-writer, many-reader list of values.
//
// A node is pending until its Ready channel is closed.
// After that, the node is either a value node (Next is non-nil and Val is set)
// or the end of the stream (Next is nil).
//
// Readers holding an old node keep every later node reachable,
// so a reader that stops consuming must drop its reference.
type Stream[T any] struct {
	Ready chan struct{}
	Next  *Stream[T]
	Val   T
}

// NewStream returns a pending stream node.
func NewStream[T any]() *Stream[T] {
	return &Stream[T]{
		Ready: make(chan struct{}),
	}
}

// Publish sets s's value, appends a new pending node,
// and closes s.Ready.
// The new node is returned for the writer's next call.
//
// Publish panics if s was already published or closed.
func (s *Stream[T]) Publish(t T) *Stream[T] {
	s.Val = t
	s.Next = NewStream[T]()
	close(s.Ready)
	return s.Next
}

// Close marks s as the end of the stream.
//
// Close panics if s was already published or closed.
func (s *Stream[T]) Close() {
	close(s.Ready)
}

// IsEnd reports whether s is a ready node marking the end of the stream.
// It must only be called after s.Ready is closed.
func (s *Stream[T]) IsEnd() bool {
	return s.Next == nil
}

// RunChannelToStream publishes every value received from ch
// to the returned stream, in a background goroutine.
//
// When ch is closed the stream is closed too.
// When ctx is done the goroutine stops and the last node stays pending.
// The returned done channel is closed when the goroutine returns.
func RunChannelToStream[T any](ctx context.Context, ch <-chan T) (
	s *Stream[T], done <-chan struct{},
) {
	s = NewStream[T]()
	doneCh := make(chan struct{})

	go runChannelToStream(ctx, ch, s, doneCh)

	return s, doneCh
}

func runChannelToStream[T any](
	ctx context.Context,
	ch <-chan T,
	s *Stream[T],
	done chan<- struct{},
) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return

		case v, ok := <-ch:
			if !ok {
				s.Close()
				return
			}
			s = s.Publish(v)
		}
	}
}
