package host

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// MaxOutboundSize is the browser's limit for a single message sent by the host
	MaxOutboundSize = 1 << 20
	// MaxInboundSize bounds messages accepted from the browser
	MaxInboundSize = 64 << 20
)

// ErrMessageTooLarge is returned for frames over the size limit
var ErrMessageTooLarge = errors.New("native message too large")

// ReadMessage reads one length-prefixed frame. The prefix is a uint32 in
// native byte order. io.EOF is returned only on a clean end of stream.
func ReadMessage(r io.Reader, maxSize int) ([]byte, error) {
	var size uint32
	if err := binary.Read(r, binary.NativeEndian, &size); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read length prefix: %w", err)
	}

	if maxSize > 0 && int64(size) > int64(maxSize) {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return payload, nil
}

// WriteMessage writes one length-prefixed frame, refusing payloads over MaxOutboundSize
func WriteMessage(w io.Writer, payload []byte) error {
	if len(payload) > MaxOutboundSize {
		return fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(payload))
	}

	frame := make([]byte, 4+len(payload))
	binary.NativeEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[4:], payload)

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}
