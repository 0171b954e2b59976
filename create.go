package rx

import (
	"errors"
	"reflect"
	"sync"
)

// Emitter is the handle given to the setup function of [Create].
// It pushes values and the terminal event into one subscription.
//
// Once the subscription has completed or been cancelled,
// both methods do nothing.
// Methods on Emitter are safe to call from any goroutine.
type Emitter[T any] interface {
	// Send delivers v if the subscriber has outstanding demand.
	// Without demand, v is dropped.
	Send(v T)

	// Complete delivers the terminal event.
	// Only the first call has any effect.
	Complete(c Completion)
}

// SetupFunc is called once per subscription to a [CreatePublisher].
// The returned Cancellable is invoked exactly once,
// when the subscription completes or is cancelled.
// A nil return is allowed if there is nothing to release.
type SetupFunc[T any] func(Emitter[T]) Cancellable

// CreatePublisher is a [Publisher] driven by imperative code.
//
// Instances must be created through [Create].
type CreatePublisher[T any] struct {
	setup SetupFunc[T]
}

// Create returns a publisher that runs setup for every new subscription.
//
// Setup may call Send and Complete synchronously before returning,
// or retain the emitter and call it later from other goroutines,
// for as long as the returned Cancellable has not been invoked.
//
// Values sent beyond the subscriber's demand are dropped, not buffered.
func Create[T any](setup SetupFunc[T]) *CreatePublisher[T] {
	if setup == nil {
		panic(errors.New("BUG: Create called with nil setup function"))
	}
	return &CreatePublisher[T]{setup: setup}
}

// Subscribe hands s a new subscription, then runs the setup function.
// If s cancels from within ReceiveSubscription, setup is not run.
func (p *CreatePublisher[T]) Subscribe(s Subscriber[T]) {
	sub := &createSubscription[T]{s: s}

	s.ReceiveSubscription(sub)

	if sub.isOver() {
		return
	}

	h := p.setup(createEmitter[T]{sub: sub})
	sub.setHandle(h)
}

// createSignal is a pending value or completion
// waiting to be delivered by the drain loop.
type createSignal[T any] struct {
	val T

	isCompletion bool
	c            Completion
}

// createSubscription is the state machine behind each subscription
// to a [CreatePublisher].
//
// The mutex is never held while calling into the subscriber
// or the cancel handle, so the subscriber may call
// Request and Cancel from within its own callbacks.
type createSubscription[T any] struct {
	s Subscriber[T]

	mu sync.Mutex

	demand Demand

	// Signals waiting for the current drainer.
	// Every value here already holds a unit of demand,
	// so with bounded demand the queue never outgrows the grant.
	pending  []createSignal[T]
	draining bool

	// Set once Complete has been accepted.
	// Later emissions are ignored even while the completion
	// is still waiting in the pending queue.
	completing bool

	// Set once the completion has been delivered
	// or the subscription has been cancelled.
	// Nothing is forwarded to the subscriber after over is set.
	over bool

	handle      Cancellable
	handleFired bool
}

// Request adds d to the outstanding demand.
// Values dropped earlier are not replayed.
func (s *createSubscription[T]) Request(d Demand) {
	if d == None {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return
	}
	s.demand = s.demand.Add(d)
}

// Cancel stops the subscription and runs the cancel handle,
// synchronously, if it has not already run.
func (s *createSubscription[T]) Cancel() {
	s.mu.Lock()
	if s.over {
		s.mu.Unlock()
		return
	}

	s.over = true
	clear(s.pending)
	s.pending = nil
	h := s.lockedClaimHandle()
	s.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
}

func (s *createSubscription[T]) String() string {
	return "Create.Subscription[" + reflect.TypeFor[T]().String() + "]"
}

func (s *createSubscription[T]) isOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

// setHandle records the value returned from the setup function.
// If the subscription ended while setup was running,
// the handle is invoked immediately.
func (s *createSubscription[T]) setHandle(h Cancellable) {
	s.mu.Lock()
	s.handle = h
	var fire Cancellable
	if s.over {
		fire = s.lockedClaimHandle()
	}
	s.mu.Unlock()

	if fire != nil {
		fire.Cancel()
	}
}

// lockedClaimHandle returns the cancel handle
// if it is known and has not yet been claimed,
// marking it as fired.
// The caller must hold s.mu and must call Cancel on the result
// after releasing the lock.
func (s *createSubscription[T]) lockedClaimHandle() Cancellable {
	if s.handle == nil || s.handleFired {
		return nil
	}
	s.handleFired = true
	return s.handle
}

// enqueue accepts sig for delivery.
// A value is accepted only if demand is outstanding at the time of the call,
// and accepting it reserves one unit of demand.
// Values without demand are dropped here and never reach the queue.
func (s *createSubscription[T]) enqueue(sig createSignal[T]) {
	s.mu.Lock()
	if s.over || s.completing {
		s.mu.Unlock()
		return
	}

	if sig.isCompletion {
		s.completing = true
	} else {
		if s.demand == None {
			s.mu.Unlock()
			return
		}
		if !s.demand.IsUnlimited() {
			s.demand--
		}
	}

	s.pending = append(s.pending, sig)
	if s.draining {
		// Whoever is draining will deliver it.
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
}

// drain delivers pending signals in order until the queue is empty
// or the subscription is over.
// Only one goroutine drains at a time, tracked by s.draining.
func (s *createSubscription[T]) drain() {
	for {
		s.mu.Lock()
		if s.over || len(s.pending) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}

		sig := s.pending[0]
		s.pending[0] = createSignal[T]{}
		s.pending = s.pending[1:]

		if sig.isCompletion {
			s.over = true
			s.draining = false
			s.pending = nil
			h := s.lockedClaimHandle()
			s.mu.Unlock()

			s.s.ReceiveCompletion(sig.c)

			if h != nil {
				h.Cancel()
			}
			return
		}

		// Demand for this value was reserved in enqueue.
		s.mu.Unlock()

		if more := s.s.ReceiveValue(sig.val); more != None {
			s.Request(more)
		}
	}
}

// createEmitter is the [Emitter] handed to setup functions.
// It is a distinct type so that setup code
// cannot reach the subscription's Request or Cancel methods.
type createEmitter[T any] struct {
	sub *createSubscription[T]
}

func (e createEmitter[T]) Send(v T) {
	e.sub.enqueue(createSignal[T]{val: v})
}

func (e createEmitter[T]) Complete(c Completion) {
	e.sub.enqueue(createSignal[T]{isCompletion: true, c: c})
}
