package apiclient

import (
	"fmt"
	"reflect"
	"strings"

	api "go.fd.io/govpp/api"
	"go.fd.io/govpp/binapi/memclnt"
)

// ReplyHandler is invoked when a request completes.
// On success, reply is the reply message and e is nil.
// On failure, e is a *CallError and reply may be nil.
type ReplyHandler func(context uint32, reply api.Message, e error)

// DetailsHandler is invoked for each details message of a dump.
type DetailsHandler func(context uint32, details api.Message)

// DoneHandler is invoked when a dump completes.
// On failure, e is a *CallError.
type DoneHandler func(context uint32, e error)

// pendingCall is an outstanding call waiting for replies.
// Its methods are invoked on the RX goroutine.
type pendingCall interface {
	// handle processes a correlated message, returns true if the call is complete.
	handle(context uint32, msg api.Message) bool

	// fail terminates the call with a local error.
	fail(context uint32, e error)
}

// ReplyName returns the reply message name of a request message name.
func ReplyName(request string) string {
	return request + "_reply"
}

// DetailsName returns the details message name of a dump message name.
func DetailsName(dump string) string {
	return strings.TrimSuffix(dump, "_dump") + "_details"
}

func retvalOf(msg api.Message) int32 {
	field := reflect.Indirect(reflect.ValueOf(msg)).FieldByName("Retval")
	if field.IsValid() && field.Kind() == reflect.Int32 {
		return int32(field.Int())
	}
	return 0
}

type requestCall struct {
	call    string
	reply   string
	handler ReplyHandler
}

func (rc *requestCall) handle(context uint32, msg api.Message) bool {
	switch name := msg.GetMessageName(); {
	case name != rc.reply:
		rc.fail(context, fmt.Errorf("%w %s", ErrUnexpectedReply, name))
	case retvalOf(msg) != 0:
		rc.handler(context, msg, &CallError{Call: rc.call, Context: context, Retval: retvalOf(msg)})
	default:
		rc.handler(context, msg, nil)
	}
	return true
}

func (rc *requestCall) fail(context uint32, e error) {
	rc.handler(context, nil, &CallError{Call: rc.call, Context: context, Err: e})
}

type dumpCall struct {
	call      string
	details   string
	onDetails DetailsHandler
	onDone    DoneHandler
}

func (dc *dumpCall) handle(context uint32, msg api.Message) bool {
	switch m := msg.(type) {
	case *memclnt.ControlPingReply:
		if m.Retval != 0 {
			dc.onDone(context, &CallError{Call: dc.call, Context: context, Retval: m.Retval})
		} else {
			dc.onDone(context, nil)
		}
		return true
	}

	if name := msg.GetMessageName(); name != dc.details {
		dc.fail(context, fmt.Errorf("%w %s", ErrUnexpectedReply, name))
		return true
	}
	dc.onDetails(context, msg)
	return false
}

func (dc *dumpCall) fail(context uint32, e error) {
	dc.onDone(context, &CallError{Call: dc.call, Context: context, Err: e})
}
