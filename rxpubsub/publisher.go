package rxpubsub

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gordian-engine/rx"
)

// FromStream returns a publisher of the values in s,
// starting at s itself.
//
// Each subscription starts a goroutine that follows the stream.
// Cancelling the subscription stops the goroutine.
// Reaching a closed node completes the subscription with [rx.Finished].
// When ctx is done, active subscriptions fail with [context.Cause].
//
// Values published while the subscriber has no demand are dropped,
// as with any publisher built on [rx.Create].
func FromStream[T any](ctx context.Context, log *slog.Logger, s *Stream[T]) rx.Publisher[T] {
	if log == nil {
		panic(errors.New("BUG: FromStream called with nil logger"))
	}
	if s == nil {
		panic(errors.New("BUG: FromStream called with nil stream"))
	}

	return rx.Create(func(e rx.Emitter[T]) rx.Cancellable {
		subCtx, cancel := context.WithCancel(ctx)
		log.Debug("Starting stream subscription")
		go followStream(subCtx, log, s, e)
		return rx.CancelFunc(cancel)
	})
}

func followStream[T any](
	ctx context.Context,
	log *slog.Logger,
	s *Stream[T],
	e rx.Emitter[T],
) {
	for {
		select {
		case <-ctx.Done():
			// If the subscription was cancelled, the emitter is already inert
			// and this completion goes nowhere.
			err := context.Cause(ctx)
			log.Debug("Stream subscription stopped", "cause", err)
			e.Complete(rx.Failed(err))
			return

		case <-s.Ready:
			if s.IsEnd() {
				log.Debug("Stream closed; finishing subscription")
				e.Complete(rx.Finished)
				return
			}
			e.Send(s.Val)
			s = s.Next
		}
	}
}

// FromChannel returns a publisher of the values received from ch.
// When ch is closed, subscriptions complete with [rx.Finished].
//
// Every subscription reads from the same channel,
// so concurrent subscribers compete for values
// the way any two channel receivers would.
func FromChannel[T any](log *slog.Logger, ch <-chan T) rx.Publisher[T] {
	if log == nil {
		panic(errors.New("BUG: FromChannel called with nil logger"))
	}

	return rx.Create(func(e rx.Emitter[T]) rx.Cancellable {
		stop := make(chan struct{})
		go drainChannel(log, ch, stop, e)
		return rx.CancelFunc(func() {
			close(stop)
		})
	})
}

func drainChannel[T any](
	log *slog.Logger,
	ch <-chan T,
	stop <-chan struct{},
	e rx.Emitter[T],
) {
	for {
		select {
		case <-stop:
			log.Debug("Channel subscription cancelled")
			return

		case v, ok := <-ch:
			if !ok {
				log.Debug("Channel closed; completing subscription")
				e.Complete(rx.Finished)
				return
			}
			e.Send(v)
		}
	}
}
