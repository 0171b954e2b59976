package rx

import "errors"

// Completion is the terminal event of a stream.
// A stream either finished normally, or failed with an error.
//
// The zero value is equivalent to [Finished].
type Completion struct {
	err error
}

// Finished is the completion for a stream that ended normally.
var Finished = Completion{}

// Failed returns a completion carrying err.
// Failed panics if err is nil;
// use [Finished] to end a stream without an error.
func Failed(err error) Completion {
	if err == nil {
		panic(errors.New("BUG: Failed called with nil error"))
	}
	return Completion{err: err}
}

// IsFinished reports whether c ended without an error.
func (c Completion) IsFinished() bool {
	return c.err == nil
}

// Err returns the failure carried by c,
// or nil if c is [Finished].
func (c Completion) Err() error {
	return c.err
}

func (c Completion) String() string {
	if c.err == nil {
		return "finished"
	}
	return "failed: " + c.err.Error()
}
