package mavlink

import "errors"

// Encoding errors. All of them are terminal for the frame being built: the
// encoder never substitutes defaults or emits a partial frame.
var (
	ErrUnknownMessage       = errors.New("mavlink: unknown message id")
	ErrMissingFieldValue    = errors.New("mavlink: missing field value")
	ErrUnsupportedFieldType = errors.New("mavlink: unsupported field type")
	ErrValueOutOfRange      = errors.New("mavlink: value out of range")
	ErrPayloadTooLarge      = errors.New("mavlink: payload too large")
	ErrUnknownCRCMode       = errors.New("mavlink: unknown crc mode")
)
