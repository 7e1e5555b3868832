package mavlink

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Wire framing constants.
const (
	// StartByte marks the beginning of every frame.
	StartByte byte = 0xFD

	// HeaderSize is the byte count of the fixed header after the start byte.
	HeaderSize = 10

	// ChecksumSize is the byte count of the trailing checksum.
	ChecksumSize = 2

	// MaxPayloadSize is the largest payload the one-byte length field can
	// describe.
	MaxPayloadSize = 255

	// MaxMessageID is the largest id the three-byte header slot can carry.
	MaxMessageID = 1<<24 - 1
)

// Frame is one complete wire transmission unit: start byte, ten header
// bytes, packed payload, and trailing checksum.
type Frame struct {
	PayloadLength uint8
	IncompatFlags uint8
	CompatFlags   uint8
	Sequence      uint8
	SystemID      uint8
	ComponentID   uint8
	MessageID     uint32
	Payload       []byte
	Checksum      uint16
}

// Header returns the ten header bytes in wire order: payload length,
// incompat flags, compat flags, sequence, system id, component id, message
// id low byte, message id upper sixteen bits little-endian, one zero pad
// byte.
func (f *Frame) Header() []byte {
	h := make([]byte, HeaderSize)
	h[0] = f.PayloadLength
	h[1] = f.IncompatFlags
	h[2] = f.CompatFlags
	h[3] = f.Sequence
	h[4] = f.SystemID
	h[5] = f.ComponentID
	h[6] = byte(f.MessageID)
	binary.LittleEndian.PutUint16(h[7:9], uint16(f.MessageID>>8))
	// h[9] stays zero: pad byte.
	return h
}

// Bytes serializes the complete frame. The result is always
// 13+len(payload) bytes: start byte, header, payload, checksum
// little-endian.
func (f *Frame) Bytes() []byte {
	buf := make([]byte, 0, f.Len())
	buf = append(buf, StartByte)
	buf = append(buf, f.Header()...)
	buf = append(buf, f.Payload...)
	return binary.LittleEndian.AppendUint16(buf, f.Checksum)
}

// Len returns the serialized frame length in bytes.
func (f *Frame) Len() int {
	return 1 + HeaderSize + len(f.Payload) + ChecksumSize
}

// Hex returns the serialized frame as a lowercase hex string.
func (f *Frame) Hex() string {
	return hex.EncodeToString(f.Bytes())
}

// BuildFrame assembles an unchecksummed frame around payload. The payload
// length is validated before the sequence counter moves; once the header is
// assembled the consumed sequence number is committed, whatever the caller
// does with the frame afterwards.
func (e *Encoder) BuildFrame(msgID uint32, payload []byte) (*Frame, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}
	return &Frame{
		PayloadLength: uint8(len(payload)),
		Sequence:      e.nextSequence(),
		SystemID:      e.systemID,
		ComponentID:   e.componentID,
		MessageID:     msgID & MaxMessageID,
		Payload:       payload,
	}, nil
}
