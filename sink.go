package rx

import "sync"

// Sink subscribes to p with [Unlimited] demand,
// calling onValue for every value and onCompletion for the terminal event.
// Either callback may be nil.
//
// The returned Cancellable cancels the subscription.
// Cancelling after the stream has completed does nothing.
func Sink[T any](
	p Publisher[T],
	onValue func(T),
	onCompletion func(Completion),
) Cancellable {
	s := &sink[T]{
		onValue:      onValue,
		onCompletion: onCompletion,
	}
	p.Subscribe(s)
	return CancelFunc(s.cancel)
}

type sink[T any] struct {
	onValue      func(T)
	onCompletion func(Completion)

	mu sync.Mutex

	// Nil before the subscription arrives
	// and after the stream ends.
	sub  Subscription
	done bool
}

func (s *sink[T]) ReceiveSubscription(sub Subscription) {
	s.mu.Lock()
	if s.done {
		// Cancelled before the publisher handed over the subscription.
		s.mu.Unlock()
		sub.Cancel()
		return
	}
	s.sub = sub
	s.mu.Unlock()

	sub.Request(Unlimited)
}

func (s *sink[T]) ReceiveValue(v T) Demand {
	if s.onValue != nil {
		s.onValue(v)
	}
	return None
}

func (s *sink[T]) ReceiveCompletion(c Completion) {
	s.mu.Lock()
	s.done = true
	s.sub = nil
	s.mu.Unlock()

	if s.onCompletion != nil {
		s.onCompletion(c)
	}
}

func (s *sink[T]) cancel() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
}
