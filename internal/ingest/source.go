package ingest

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"
)

// LineSource is the opaque byte-stream primitive the ingestion loop reads
// from. ReadLine returns one decoded line without its terminator, or "" when
// no complete line arrived within the source's read timeout; a non-nil error
// means the source is unusable and the loop must reconnect.
type LineSource interface {
	ReadLine() (string, error)
	WriteCommand(cmd string) error
	Close() error
}

const (
	serialReadTimeout = 250 * time.Millisecond
	maxPendingBytes   = 4096
)

// SerialSource reads newline-terminated frames from a serial port.
type SerialSource struct {
	device  string
	port    serial.Port
	pending []byte
}

// OpenSerial opens the device at the given baud rate with a bounded read
// timeout so the ingestion loop never blocks indefinitely.
func OpenSerial(device string, baud int) (*SerialSource, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %q: %w", device, err)
	}
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout on %q: %w", device, err)
	}
	return &SerialSource{device: device, port: port}, nil
}

// ReadLine pops one complete frame from the pending buffer, reading more
// bytes from the port when none is buffered. A timed-out read yields "".
func (s *SerialSource) ReadLine() (string, error) {
	if line, ok := s.popFrame(); ok {
		return line, nil
	}

	buf := make([]byte, 256)
	n, err := s.port.Read(buf)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", s.device, err)
	}
	if n == 0 {
		return "", nil // read timeout, no data waiting
	}

	s.pending = append(s.pending, buf[:n]...)
	if len(s.pending) > maxPendingBytes {
		// A source that never sends a newline must not grow the buffer
		// without bound; keep the newest bytes.
		s.pending = s.pending[len(s.pending)-maxPendingBytes:]
	}

	if line, ok := s.popFrame(); ok {
		return line, nil
	}
	return "", nil
}

func (s *SerialSource) popFrame() (string, bool) {
	idx := bytes.IndexByte(s.pending, '\n')
	if idx < 0 {
		return "", false
	}
	frame := strings.TrimRight(string(s.pending[:idx]), "\r")
	s.pending = s.pending[idx+1:]
	return strings.TrimSpace(frame), true
}

// WriteCommand sends one newline-terminated command token to the device.
func (s *SerialSource) WriteCommand(cmd string) error {
	if _, err := s.port.Write([]byte(cmd + "\n")); err != nil {
		return fmt.Errorf("write %q to %q: %w", cmd, s.device, err)
	}
	return nil
}

func (s *SerialSource) Close() error {
	return s.port.Close()
}
