package transmit

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"

	"github.com/eytandecker/mavforge/pkg/types"
)

// SerialConfig holds serial transport settings. Telemetry radios commonly
// run 57600 baud, 8N1.
type SerialConfig struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration
}

// DefaultSerialConfig returns settings matching a typical telemetry radio
// on the given device.
func DefaultSerialConfig(device string) SerialConfig {
	return SerialConfig{
		Device:      device,
		Baud:        57600,
		ReadTimeout: time.Second,
	}
}

// SerialSink writes frames to a serial port.
type SerialSink struct {
	port *serial.Port
	dev  string
}

// OpenSerial opens the configured serial device.
func OpenSerial(cfg SerialConfig) (*SerialSink, error) {
	if cfg.Device == "" {
		return nil, ErrNoDevice
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("transmit: open serial %s: %w", cfg.Device, err)
	}
	return &SerialSink{port: port, dev: cfg.Device}, nil
}

// Send writes one frame to the port.
func (s *SerialSink) Send(frame []byte) error {
	n, err := s.port.Write(frame)
	if err != nil {
		return &types.TransportError{Err: err, Op: "serial write " + s.dev, Recoverable: true}
	}
	if n != len(frame) {
		return &types.TransportError{Err: io.ErrShortWrite, Op: "serial write " + s.dev, Recoverable: true}
	}
	return nil
}

// Close flushes and closes the port.
func (s *SerialSink) Close() error {
	if err := s.port.Flush(); err != nil {
		return fmt.Errorf("transmit: flush serial %s: %w", s.dev, err)
	}
	return s.port.Close()
}

// String describes the sink for logs and run summaries.
func (s *SerialSink) String() string {
	return "serial " + s.dev
}
