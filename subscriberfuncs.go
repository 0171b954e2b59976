package rx

// SubscriberFuncs satisfies [Subscriber] through optional callbacks.
//
// A nil OnSubscribe leaves the subscription without demand.
// A nil OnValue returns [None] for every value.
type SubscriberFuncs[T any] struct {
	OnSubscribe  func(Subscription)
	OnValue      func(T) Demand
	OnCompletion func(Completion)
}

func (f SubscriberFuncs[T]) ReceiveSubscription(s Subscription) {
	if f.OnSubscribe != nil {
		f.OnSubscribe(s)
	}
}

func (f SubscriberFuncs[T]) ReceiveValue(v T) Demand {
	if f.OnValue == nil {
		return None
	}
	return f.OnValue(v)
}

func (f SubscriberFuncs[T]) ReceiveCompletion(c Completion) {
	if f.OnCompletion != nil {
		f.OnCompletion(c)
	}
}
