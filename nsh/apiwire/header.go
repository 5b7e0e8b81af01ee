package apiwire

import (
	"fmt"

	api "go.fd.io/govpp/api"
	codec "go.fd.io/govpp/codec"
)

// Header contains message header fields.
// Which fields are present on the wire depends on api.MessageType.
type Header struct {
	MsgID       uint16
	ClientIndex uint32
	Context     uint32
}

// wireMessage is a message with generated binary encoding methods.
type wireMessage interface {
	api.Message
	Size() int
	Marshal([]byte) ([]byte, error)
	Unmarshal([]byte) error
}

func asWireMessage(msg api.Message) (wireMessage, error) {
	wm, ok := msg.(wireMessage)
	if !ok {
		return nil, fmt.Errorf("%s has no binary encoding", msg.GetMessageName())
	}
	return wm, nil
}

// HeaderLen returns header length of a message kind.
func HeaderLen(t api.MessageType) int {
	switch t {
	case api.RequestMessage:
		return 10
	case api.ReplyMessage:
		return 6
	case api.EventMessage:
		return 6
	}
	return 2
}

// Encode encodes a message with header fields.
func Encode(msg api.Message, h Header) (wire []byte, e error) {
	wm, e := asWireMessage(msg)
	if e != nil {
		return nil, e
	}
	t := msg.GetMessageType()
	hl := HeaderLen(t)
	wire = make([]byte, hl+wm.Size())

	buf := codec.NewBuffer(wire)
	buf.EncodeUint16(h.MsgID)
	switch t {
	case api.RequestMessage:
		buf.EncodeUint32(h.ClientIndex)
		buf.EncodeUint32(h.Context)
	case api.ReplyMessage:
		buf.EncodeUint32(h.Context)
	case api.EventMessage:
		buf.EncodeUint32(h.ClientIndex)
	}

	payload, e := wm.Marshal(wire[hl:])
	if e != nil {
		return nil, fmt.Errorf("%s.Marshal: %w", msg.GetMessageName(), e)
	}
	return wire[:hl+len(payload)], nil
}

// PeekMsgID returns message ID of an encoded message.
func PeekMsgID(wire []byte) (uint16, error) {
	if len(wire) < 2 {
		return 0, ErrTruncated
	}
	return uint16(wire[0])<<8 | uint16(wire[1]), nil
}

// Decode decodes header and payload into msg.
func Decode(wire []byte, msg api.Message) (h Header, e error) {
	wm, e := asWireMessage(msg)
	if e != nil {
		return h, e
	}
	t := msg.GetMessageType()
	hl := HeaderLen(t)
	if len(wire) < hl {
		return h, ErrTruncated
	}

	buf := codec.NewBuffer(wire[:hl])
	h.MsgID = buf.DecodeUint16()
	switch t {
	case api.RequestMessage:
		h.ClientIndex = buf.DecodeUint32()
		h.Context = buf.DecodeUint32()
	case api.ReplyMessage:
		h.Context = buf.DecodeUint32()
	case api.EventMessage:
		h.ClientIndex = buf.DecodeUint32()
	}

	if r, ok := msg.(interface{ Reset() }); ok {
		r.Reset()
	}
	body := wire[hl:len(wire):len(wire)]
	if len(body) < wm.Size() {
		return h, fmt.Errorf("%w: %s", ErrTruncated, msg.GetMessageName())
	}

	defer func() {
		// variable-length fields may still run past the end
		if r := recover(); r != nil {
			e = fmt.Errorf("%w: %s", ErrTruncated, msg.GetMessageName())
		}
	}()
	if e = wm.Unmarshal(body); e != nil {
		return h, fmt.Errorf("%s.Unmarshal: %w", msg.GetMessageName(), e)
	}
	return h, nil
}

// PeekRequestContext returns the context of an encoded request message.
func PeekRequestContext(wire []byte) (uint32, error) {
	hl := HeaderLen(api.RequestMessage)
	if len(wire) < hl {
		return 0, ErrTruncated
	}
	return codec.NewBuffer(wire[hl-4 : hl]).DecodeUint32(), nil
}
