// Package rxquic exposes QUIC connection traffic as [rx.Publisher] values.
package rxquic

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gordian-engine/rx"
	"github.com/quic-go/quic-go"
)

// DatagramReceiver is the subset of [quic.Connection]
// needed to read unreliable datagrams.
type DatagramReceiver interface {
	ReceiveDatagram(context.Context) ([]byte, error)
}

var _ DatagramReceiver = quic.Connection(nil)

// FromDatagrams returns a publisher of datagrams received on conn.
// The connection must have been established with datagram support enabled.
//
// Each subscription reads datagrams in its own goroutine,
// so concurrent subscribers compete for datagrams.
// A connection closed with application error code 0
// completes the subscription with [rx.Finished];
// any other receive error completes it with [rx.Failed].
// When ctx is done, subscriptions fail with the context's error.
//
// Datagrams arriving while the subscriber has no demand are dropped,
// which matches the unreliable delivery of the datagrams themselves.
func FromDatagrams(
	ctx context.Context, log *slog.Logger, conn DatagramReceiver,
) rx.Publisher[[]byte] {
	if log == nil {
		panic(errors.New("BUG: FromDatagrams called with nil logger"))
	}
	if conn == nil {
		panic(errors.New("BUG: FromDatagrams called with nil connection"))
	}

	return rx.Create(func(e rx.Emitter[[]byte]) rx.Cancellable {
		subCtx, cancel := context.WithCancel(ctx)
		go receiveDatagrams(subCtx, log, conn, e)
		return rx.CancelFunc(cancel)
	})
}

func receiveDatagrams(
	ctx context.Context,
	log *slog.Logger,
	conn DatagramReceiver,
	e rx.Emitter[[]byte],
) {
	for {
		b, err := conn.ReceiveDatagram(ctx)
		if err != nil {
			if ctx.Err() != nil {
				// Either our own subscription was cancelled,
				// in which case the emitter ignores this completion,
				// or the parent context is done.
				log.Debug("Stopped receiving datagrams", "cause", context.Cause(ctx))
				e.Complete(rx.Failed(context.Cause(ctx)))
				return
			}

			if isGracefulClose(err) {
				log.Debug("Connection closed; finishing datagram subscription")
				e.Complete(rx.Finished)
				return
			}

			log.Debug("Failed to receive datagram", "err", err)
			e.Complete(rx.Failed(err))
			return
		}

		e.Send(b)
	}
}

// isGracefulClose reports whether err indicates the connection
// was closed with application error code zero.
func isGracefulClose(err error) bool {
	var appErr *quic.ApplicationError
	return errors.As(err, &appErr) && appErr.ErrorCode == 0
}
