// Package rtest contains helpers shared by tests across this module.
package rtest

import (
	"testing"
	"time"
)

// ScheduleDelay is how long the channel helpers wait
// for another goroutine to make progress.
const ScheduleDelay = 250 * time.Millisecond

// ReceiveSoon returns the value received from ch,
// failing the test if nothing arrives within [ScheduleDelay].
func ReceiveSoon[T any](t *testing.T, ch <-chan T) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(ScheduleDelay):
		t.Fatalf("no value received within %s", ScheduleDelay)
	}

	panic("unreachable")
}

// SendSoon sends v on ch,
// failing the test if the send does not complete within [ScheduleDelay].
func SendSoon[T any](t *testing.T, ch chan<- T, v T) {
	t.Helper()

	select {
	case ch <- v:
	case <-time.After(ScheduleDelay):
		t.Fatalf("send not accepted within %s", ScheduleDelay)
	}
}

// IsSending asserts that ch is immediately ready to receive from
// (typically because it is closed).
func IsSending[T any](t *testing.T, ch <-chan T) {
	t.Helper()

	select {
	case <-ch:
	default:
		t.Fatal("channel should have been ready to receive from")
	}
}

// NotSending asserts that nothing is received from ch
// during a short window.
func NotSending[T any](t *testing.T, ch <-chan T) {
	t.Helper()

	select {
	case <-ch:
		t.Fatal("channel should not have been ready to receive from")
	case <-time.After(ScheduleDelay / 5):
	}
}
