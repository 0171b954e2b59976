package rx

// Publisher is a source of values over time.
// Subscribing is the only way to start the flow of values;
// a publisher has no side effects before that.
type Publisher[T any] interface {
	// Subscribe attaches s to the publisher.
	// Each call starts an independent subscription.
	Subscribe(s Subscriber[T])
}

// Subscriber consumes values from a [Publisher].
type Subscriber[T any] interface {
	// ReceiveSubscription is called exactly once,
	// before any other method.
	// The subscriber may call Request or Cancel on the subscription
	// before returning.
	ReceiveSubscription(Subscription)

	// ReceiveValue delivers a single value.
	// The returned demand is added to the outstanding demand;
	// return [None] to leave it unchanged.
	ReceiveValue(T) Demand

	// ReceiveCompletion delivers the terminal event.
	// It is called at most once, and never after the subscription
	// has been cancelled.
	ReceiveCompletion(Completion)
}

// Subscription is the live binding between one publisher and one subscriber.
type Subscription interface {
	Cancellable

	// Request adds d to the outstanding demand.
	// Calls are additive.
	Request(d Demand)
}

// Cancellable is an activity or resource that can be stopped.
//
// Implementations returned by this package are safe to cancel
// more than once.
type Cancellable interface {
	Cancel()
}

// CancelFunc adapts an ordinary function to [Cancellable].
type CancelFunc func()

func (f CancelFunc) Cancel() {
	f()
}
