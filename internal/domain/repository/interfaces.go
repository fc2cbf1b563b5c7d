package repository

import "FinStream/internal/domain/models"

// FragmentSink is the outbound side of a push stream. Send must write the
// fragment as one unit; an error means the client can no longer be reached.
type FragmentSink interface {
	Send(f models.Fragment) error
}

type Metrics interface {
	RecordFragmentSent(flow string)
	RecordStream(flow, outcome string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
