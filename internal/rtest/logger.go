package rtest

import (
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
)

// NewLogger returns a logger that writes through t.Log,
// so output is attributed to the test that produced it.
func NewLogger(t *testing.T) *slog.Logger {
	return slogt.New(t, slogt.Text())
}
