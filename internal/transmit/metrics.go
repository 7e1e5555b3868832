package transmit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mavforge",
		Subsystem: "transmit",
		Name:      "frames_sent_total",
		Help:      "Frames successfully handed to the transport sink.",
	}, []string{"message", "mode"})

	sendErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mavforge",
		Subsystem: "transmit",
		Name:      "send_errors_total",
		Help:      "Failed frame encodes or sends by stage.",
	}, []string{"stage"})

	bytesSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mavforge",
		Subsystem: "transmit",
		Name:      "bytes_sent_total",
		Help:      "Wire bytes handed to the transport sink.",
	})

	encodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mavforge",
		Subsystem: "transmit",
		Name:      "encode_duration_seconds",
		Help:      "Time to pack and checksum one frame.",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 8),
	})
)
