package types

import "time"

// FrameRecord describes one successfully encoded and transmitted frame.
type FrameRecord struct {
	MessageID   uint32    `json:"message_id"`
	MessageName string    `json:"message_name"`
	Sequence    uint8     `json:"sequence"`
	Length      int       `json:"length_bytes"`
	Checksum    uint16    `json:"checksum"`
	Hex         string    `json:"frame_hex"`
	SentAt      time.Time `json:"sent_at"`
}

// SessionStats summarizes a transmit session.
type SessionStats struct {
	RunID       string      `json:"run_id"`
	FramesSent  uint64      `json:"frames_sent"`
	SendErrors  uint64      `json:"send_errors"`
	BytesSent   uint64      `json:"bytes_sent"`
	AverageRate float64     `json:"average_rate_hz"`
	StartedAt   time.Time   `json:"started_at"`
	LastFrame   FrameRecord `json:"last_frame"`
}
