// Package rxquictest contains test doubles for [rxquic].
package rxquictest

import (
	"context"

	"github.com/gordian-engine/rx/rxquic"
)

// StubReceiver is an [rxquic.DatagramReceiver]
// whose datagrams and errors are fed by the test through channels.
//
// Both channels are unbuffered,
// so a successful send means the receive call has observed the value.
type StubReceiver struct {
	Datagrams chan []byte
	Errs      chan error
}

var _ rxquic.DatagramReceiver = (*StubReceiver)(nil)

func NewStubReceiver() *StubReceiver {
	return &StubReceiver{
		Datagrams: make(chan []byte),
		Errs:      make(chan error),
	}
}

// ReceiveDatagram implements [rxquic.DatagramReceiver].
func (r *StubReceiver) ReceiveDatagram(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case b := <-r.Datagrams:
		return b, nil
	case err := <-r.Errs:
		return nil, err
	}
}
