// Package rxmetrics instruments [rx.Publisher] values with Prometheus metrics.
package rxmetrics

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gordian-engine/rx"
	"github.com/prometheus/client_golang/prometheus"
)

// Config controls metric naming.
type Config struct {
	// Namespace and Subsystem prefix every metric name.
	// Namespace is required.
	Namespace, Subsystem string

	// Value for the "publisher" constant label,
	// so several instrumented publishers can share a registry.
	// Required.
	Publisher string
}

// Metrics holds the collectors shared by instrumented publishers.
type Metrics struct {
	subscriptions prometheus.Counter
	values        prometheus.Counter
	completions   *prometheus.CounterVec
	cancellations prometheus.Counter
	active        prometheus.Gauge
}

// NewMetrics creates the collectors described by cfg
// and registers them with reg.
//
// NewMetrics panics if cfg is invalid or if registration fails.
func NewMetrics(reg prometheus.Registerer, cfg Config) *Metrics {
	if reg == nil {
		panic(errors.New("BUG: NewMetrics called with nil registerer"))
	}
	if cfg.Namespace == "" {
		panic(errors.New("Config.Namespace must not be empty"))
	}
	if cfg.Publisher == "" {
		panic(errors.New("Config.Publisher must not be empty"))
	}

	labels := prometheus.Labels{"publisher": cfg.Publisher}

	m := &Metrics{
		subscriptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "subscriptions_total",
			Help:        "Total subscriptions started",
			ConstLabels: labels,
		}),
		values: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "values_total",
			Help:        "Total values delivered to subscribers",
			ConstLabels: labels,
		}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "completions_total",
			Help:        "Total terminal events delivered, by result",
			ConstLabels: labels,
		}, []string{"result"}),
		cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "cancellations_total",
			Help:        "Total subscriptions cancelled by subscribers",
			ConstLabels: labels,
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "active_subscriptions",
			Help:        "Subscriptions neither completed nor cancelled",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(
		m.subscriptions,
		m.values,
		m.completions,
		m.cancellations,
		m.active,
	)

	return m
}

// Instrument returns a publisher that behaves like p
// and records its activity in m.
func Instrument[T any](m *Metrics, p rx.Publisher[T]) rx.Publisher[T] {
	if m == nil {
		panic(errors.New("BUG: Instrument called with nil metrics"))
	}
	if p == nil {
		panic(errors.New("BUG: Instrument called with nil publisher"))
	}
	return instrumented[T]{m: m, p: p}
}

type instrumented[T any] struct {
	m *Metrics
	p rx.Publisher[T]
}

func (i instrumented[T]) Subscribe(s rx.Subscriber[T]) {
	i.m.subscriptions.Inc()
	i.m.active.Inc()
	i.p.Subscribe(&meteredSubscriber[T]{m: i.m, s: s})
}

// meteredSubscriber forwards to the wrapped subscriber
// while counting what passes through.
type meteredSubscriber[T any] struct {
	m *Metrics
	s rx.Subscriber[T]

	// Each subscription ends exactly once:
	// either its completion or its cancellation is counted, never both,
	// and the active gauge drops once.
	endOnce sync.Once
}

func (ms *meteredSubscriber[T]) ReceiveSubscription(sub rx.Subscription) {
	ms.s.ReceiveSubscription(meteredSubscription{Subscription: sub, onCancel: ms.cancelled})
}

func (ms *meteredSubscriber[T]) ReceiveValue(v T) rx.Demand {
	ms.m.values.Inc()
	return ms.s.ReceiveValue(v)
}

func (ms *meteredSubscriber[T]) ReceiveCompletion(c rx.Completion) {
	ms.endOnce.Do(func() {
		result := "finished"
		if !c.IsFinished() {
			result = "failed"
		}
		ms.m.completions.WithLabelValues(result).Inc()
		ms.m.active.Dec()
	})
	ms.s.ReceiveCompletion(c)
}

func (ms *meteredSubscriber[T]) cancelled() {
	ms.endOnce.Do(func() {
		ms.m.cancellations.Inc()
		ms.m.active.Dec()
	})
}

// meteredSubscription reports the first cancellation
// of a still-active subscription.
//
// The wrapped Cancel runs first, so a completion delivered synchronously
// before the cancellation takes effect is counted as a completion.
// If a completion from another goroutine arrives after the cancellation
// has been counted, only the cancellation is recorded.
type meteredSubscription struct {
	rx.Subscription
	onCancel func()
}

func (s meteredSubscription) Cancel() {
	s.Subscription.Cancel()
	s.onCancel()
}

func (s meteredSubscription) String() string {
	return fmt.Sprint(s.Subscription)
}
