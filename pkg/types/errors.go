package types

import "fmt"

// TransportError wraps errors from a transmit sink with operational
// context. Recoverable distinguishes a dropped frame worth retrying on the
// next tick from a dead transport.
type TransportError struct {
	Err         error
	Op          string
	Recoverable bool
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
