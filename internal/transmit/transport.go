// Package transmit drives encoded frames out of the process: transport
// sinks for serial radios and UDP ground stations, and the paced send loop
// the CLI runs.
package transmit

// Sink delivers complete frames to a transport endpoint. A frame is either
// written whole or an error comes back; short writes surface as transport
// errors, never as silent truncation.
type Sink interface {
	Send(frame []byte) error
	Close() error
}

// Discard accepts and drops every frame. It backs stream-only serving and
// tests.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Send([]byte) error { return nil }

func (discardSink) Close() error { return nil }
