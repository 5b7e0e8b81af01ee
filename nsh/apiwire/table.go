package apiwire

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	api "go.fd.io/govpp/api"
)

// ErrUnknownMessage indicates a message is absent from the message table.
var ErrUnknownMessage = errors.New("unknown message")

// NameCRC returns message name with CRC suffix, which identifies a message definition.
func NameCRC(msg api.Message) string {
	return msg.GetMessageName() + "_" + strings.TrimPrefix(msg.GetCrcString(), "0x")
}

// TableEntry is an entry in MessageTable.
type TableEntry struct {
	ID      uint16
	NameCRC string
}

// MessageTable maps message IDs to message definitions.
// It must be fully populated before being used concurrently.
type MessageTable struct {
	byID   map[uint16]reflect.Type
	byName map[string]uint16
}

// NewMessageTable creates an empty MessageTable.
func NewMessageTable() *MessageTable {
	return &MessageTable{
		byID:   map[uint16]reflect.Type{},
		byName: map[string]uint16{},
	}
}

// Add assigns a message ID to a message definition.
func (t *MessageTable) Add(id uint16, msg api.Message) {
	t.byID[id] = reflect.TypeOf(msg).Elem()
	t.byName[NameCRC(msg)] = id
}

// Len returns number of messages.
func (t *MessageTable) Len() int {
	return len(t.byID)
}

// Entries returns all entries sorted by message ID.
func (t *MessageTable) Entries() (list []TableEntry) {
	for name, id := range t.byName {
		list = append(list, TableEntry{ID: id, NameCRC: name})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// LookupID returns the ID of a message definition.
func (t *MessageTable) LookupID(msg api.Message) (uint16, error) {
	id, ok := t.byName[NameCRC(msg)]
	if !ok {
		return 0, fmt.Errorf("%w %s", ErrUnknownMessage, NameCRC(msg))
	}
	return id, nil
}

// New creates a message instance for a message ID.
func (t *MessageTable) New(id uint16) (api.Message, error) {
	typ, ok := t.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w id=%d", ErrUnknownMessage, id)
	}
	return reflect.New(typ).Interface().(api.Message), nil
}

// Encode encodes a message after resolving its ID.
func (t *MessageTable) Encode(msg api.Message, clientIndex, context uint32) ([]byte, error) {
	id, e := t.LookupID(msg)
	if e != nil {
		return nil, e
	}
	return Encode(msg, Header{MsgID: id, ClientIndex: clientIndex, Context: context})
}

// Decode decodes a message of any known ID.
func (t *MessageTable) Decode(wire []byte) (msg api.Message, h Header, e error) {
	id, e := PeekMsgID(wire)
	if e != nil {
		return nil, h, e
	}
	if msg, e = t.New(id); e != nil {
		return nil, h, e
	}
	h, e = Decode(wire, msg)
	return msg, h, e
}
