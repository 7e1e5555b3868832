package dialect

import "errors"

var (
	ErrNoMessages       = errors.New("dialect: no message definitions")
	ErrDuplicateMessage = errors.New("dialect: duplicate message id")
	ErrDuplicateName    = errors.New("dialect: duplicate message name")
	ErrMessageIDRange   = errors.New("dialect: message id exceeds 24 bits")
)
