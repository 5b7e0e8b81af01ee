// Package apiwire implements the binary API wire format over stream sockets.
//
// A frame is a 16-octet header followed by one message.
// The header carries the message length as a big-endian u32 at offset 8; other header octets are zero.
// A message starts with a header whose shape depends on the message kind, followed by the payload.
package apiwire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Frame limits.
const (
	FrameHeaderLen = 16

	// DefaultMaxMessageLength is the default limit of a received message.
	DefaultMaxMessageLength = 1 << 20
)

// Error conditions.
var (
	ErrFrame     = errors.New("bad frame")
	ErrTruncated = errors.New("truncated message")
)

// AppendFrame appends a framed message to b.
func AppendFrame(b []byte, msg []byte) []byte {
	var hdr [FrameHeaderLen]byte
	binary.BigEndian.PutUint32(hdr[8:12], uint32(len(msg)))
	b = append(b, hdr[:]...)
	return append(b, msg...)
}

// ReadFrame reads one framed message.
// It returns io.EOF if the reader ends cleanly between frames.
func ReadFrame(r io.Reader, maxLength int) (msg []byte, e error) {
	var hdr [FrameHeaderLen]byte
	if _, e = io.ReadFull(r, hdr[:]); e != nil {
		return nil, e
	}

	length := binary.BigEndian.Uint32(hdr[8:12])
	if maxLength <= 0 {
		maxLength = DefaultMaxMessageLength
	}
	if length < 2 || int64(length) > int64(maxLength) {
		return nil, fmt.Errorf("%w: length %d", ErrFrame, length)
	}

	msg = make([]byte, length)
	if _, e = io.ReadFull(r, msg); e != nil {
		if e == io.EOF {
			e = io.ErrUnexpectedEOF
		}
		return nil, e
	}
	return msg, nil
}
