package relay

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFramePayload is the largest payload a debug-relay TCP frame may
// carry, per spec §6.
const MaxFramePayload = 256

// channelControl and channelInterrupt are the relay frame's channel byte
// values; both PSMs fit in a single byte.
const (
	channelControl   = byte(PSMControl)
	channelInterrupt = byte(PSMInterrupt)
)

// WriteFrame writes one channel:1 | length:2 BE | payload:length frame.
func WriteFrame(w io.Writer, channel byte, payload []byte) error {
	if len(payload) > MaxFramePayload {
		return fmt.Errorf("relay: frame payload %d exceeds max %d", len(payload), MaxFramePayload)
	}
	header := make([]byte, 3)
	header[0] = channel
	binary.BigEndian.PutUint16(header[1:], uint16(len(payload)))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("relay: write frame header: %w", err)
	}
	if len(payload) == 0 {
		return nil
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("relay: write frame payload: %w", err)
	}
	return nil
}

// ReadFrame reads one channel:1 | length:2 BE | payload:length frame.
func ReadFrame(r io.Reader) (channel byte, payload []byte, err error) {
	header := make([]byte, 3)
	if _, err = io.ReadFull(r, header); err != nil {
		return 0, nil, err
	}
	channel = header[0]
	length := binary.BigEndian.Uint16(header[1:])
	if length > MaxFramePayload {
		return 0, nil, fmt.Errorf("relay: frame length %d exceeds max %d", length, MaxFramePayload)
	}
	if length == 0 {
		return channel, nil, nil
	}
	payload = make([]byte, length)
	if _, err = io.ReadFull(r, payload); err != nil {
		return 0, nil, err
	}
	return channel, payload, nil
}
