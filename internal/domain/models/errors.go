package models

import "errors"

var (
	// ErrMalformedInput means a signal was missing or not parseable.
	ErrMalformedInput = errors.New("malformed input")
	// ErrDegenerateValuation means the discount rate does not exceed the
	// terminal growth rate, so the terminal value is not meaningful.
	ErrDegenerateValuation = errors.New("degenerate valuation")
	// ErrStreamAborted means the client went away before the stream finished.
	ErrStreamAborted = errors.New("stream aborted")
)
