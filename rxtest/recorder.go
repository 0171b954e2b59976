// Package rxtest contains test doubles for code built on package rx.
package rxtest

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gordian-engine/rx"
)

// Recorder is an [rx.Subscriber] that records everything it receives.
//
// It requests a fixed initial demand when it receives its subscription,
// and returns PerValueDemand from every ReceiveValue call.
// All methods are safe for concurrent use.
type Recorder[T any] struct {
	initial rx.Demand

	// Demand returned from every ReceiveValue call.
	// Set before subscribing.
	PerValueDemand rx.Demand

	// Called, if set, after a value has been recorded.
	// Set before subscribing.
	OnValue func(rx.Subscription, T)

	mu          sync.Mutex
	sub         rx.Subscription
	subDesc     string
	nSubscribed int
	values      []T
	completions []rx.Completion

	done chan struct{}
}

// NewRecorder returns a Recorder that requests initial demand
// upon receiving its subscription.
// [rx.None] skips the request.
func NewRecorder[T any](initial rx.Demand) *Recorder[T] {
	return &Recorder[T]{
		initial: initial,
		done:    make(chan struct{}),
	}
}

func (r *Recorder[T]) ReceiveSubscription(s rx.Subscription) {
	r.mu.Lock()
	r.sub = s
	r.subDesc = fmt.Sprint(s)
	r.nSubscribed++
	r.mu.Unlock()

	if r.initial != rx.None {
		s.Request(r.initial)
	}
}

func (r *Recorder[T]) ReceiveValue(v T) rx.Demand {
	r.mu.Lock()
	r.values = append(r.values, v)
	sub := r.sub
	r.mu.Unlock()

	if r.OnValue != nil {
		r.OnValue(sub, v)
	}

	return r.PerValueDemand
}

func (r *Recorder[T]) ReceiveCompletion(c rx.Completion) {
	r.mu.Lock()
	r.completions = append(r.completions, c)
	first := len(r.completions) == 1
	r.mu.Unlock()

	if first {
		close(r.done)
	}
}

// Done returns a channel that is closed upon the first completion.
func (r *Recorder[T]) Done() <-chan struct{} {
	return r.done
}

// Subscription returns the subscription received,
// or nil if the recorder has not been subscribed.
func (r *Recorder[T]) Subscription() rx.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sub
}

// SubscriptionString returns the fmt representation
// of the received subscription.
func (r *Recorder[T]) SubscriptionString() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subDesc
}

// SubscribeCount returns how many times ReceiveSubscription was called.
func (r *Recorder[T]) SubscribeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nSubscribed
}

// Values returns a copy of the values received so far.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.values)
}

// Completions returns every completion received.
// A well-behaved publisher delivers at most one.
func (r *Recorder[T]) Completions() []rx.Completion {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.completions)
}

// Completion returns the first completion received,
// and whether there was one.
func (r *Recorder[T]) Completion() (rx.Completion, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.completions) == 0 {
		return rx.Completion{}, false
	}
	return r.completions[0], true
}
