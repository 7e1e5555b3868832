package transmit

import "errors"

var (
	ErrNoDevice = errors.New("transmit: no serial device configured")
	ErrNoTarget = errors.New("transmit: no udp target configured")
)
