package state

import "errors"

// ErrNoTraffic is returned when no frame has been sent yet or the last one
// is older than the stale threshold.
var ErrNoTraffic = errors.New("state: no recent traffic")
