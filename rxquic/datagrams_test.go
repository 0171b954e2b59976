package rxquic_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gordian-engine/rx"
	"github.com/gordian-engine/rx/internal/rtest"
	"github.com/gordian-engine/rx/rxquic"
	"github.com/gordian-engine/rx/rxquic/rxquictest"
	"github.com/gordian-engine/rx/rxtest"
	"github.com/quic-go/quic-go"
	"github.com/stretchr/testify/require"
)

func TestFromDatagrams_deliversInOrder(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := rxquictest.NewStubReceiver()
	p := rxquic.FromDatagrams(ctx, rtest.NewLogger(t), conn)

	r := rxtest.NewRecorder[[]byte](rx.Unlimited)
	p.Subscribe(r)

	payloads := rtest.RandomDataForTest(t, 3, 64)
	for _, b := range payloads {
		rtest.SendSoon(t, conn.Datagrams, b)
	}

	// A graceful close finishes the stream.
	rtest.SendSoon[error](t, conn.Errs, &quic.ApplicationError{ErrorCode: 0})

	rtest.ReceiveSoon(t, r.Done())
	require.Equal(t, payloads, r.Values())
	require.Equal(t, []rx.Completion{rx.Finished}, r.Completions())
}

func TestFromDatagrams_failsOnConnectionError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := rxquictest.NewStubReceiver()
	p := rxquic.FromDatagrams(ctx, rtest.NewLogger(t), conn)

	r := rxtest.NewRecorder[[]byte](rx.Max(1))
	p.Subscribe(r)

	payloads := rtest.RandomDataForTest(t, 2, 16)
	rtest.SendSoon(t, conn.Datagrams, payloads[0])
	// No demand left for this one.
	rtest.SendSoon(t, conn.Datagrams, payloads[1])

	appErr := &quic.ApplicationError{ErrorCode: 7, ErrorMessage: "going away"}
	rtest.SendSoon[error](t, conn.Errs, appErr)

	rtest.ReceiveSoon(t, r.Done())
	require.Equal(t, payloads[:1], r.Values())

	c, ok := r.Completion()
	require.True(t, ok)

	var gotErr *quic.ApplicationError
	require.True(t, errors.As(c.Err(), &gotErr))
	require.Equal(t, quic.ApplicationErrorCode(7), gotErr.ErrorCode)
}

func TestFromDatagrams_cancelStopsReceiving(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := rxquictest.NewStubReceiver()
	p := rxquic.FromDatagrams(ctx, rtest.NewLogger(t), conn)

	r := rxtest.NewRecorder[[]byte](rx.Unlimited)
	p.Subscribe(r)

	r.Subscription().Cancel()

	// The reader may accept one more datagram before observing cancellation,
	// but it never reaches the subscriber.
	select {
	case conn.Datagrams <- []byte("late"):
	case <-time.After(rtest.ScheduleDelay / 5):
	}

	require.Empty(t, r.Values())
	require.Empty(t, r.Completions())
}

func TestFromDatagrams_parentContextFails(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	conn := rxquictest.NewStubReceiver()
	p := rxquic.FromDatagrams(ctx, rtest.NewLogger(t), conn)

	r := rxtest.NewRecorder[[]byte](rx.Unlimited)
	p.Subscribe(r)

	cancel()

	rtest.ReceiveSoon(t, r.Done())
	c, _ := r.Completion()
	require.ErrorIs(t, c.Err(), context.Canceled)
}
