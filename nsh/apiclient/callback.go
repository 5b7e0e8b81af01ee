package apiclient

import (
	"github.com/usnistgov/nshsfc/nsh/binapi/nshapi"
	api "go.fd.io/govpp/api"
	"go.fd.io/govpp/binapi/memclnt"
	"go.fd.io/govpp/binapi/vlib"
)

// Callbacks contains handlers of CallbackAPI.
// Each handler is optional.
type Callbacks struct {
	OnNshAddDelEntryReply func(context uint32, reply *nshapi.NshAddDelEntryReply)
	OnNshEntryDetails     func(context uint32, details *nshapi.NshEntryDetails)
	OnNshAddDelMapReply   func(context uint32, reply *nshapi.NshAddDelMapReply)
	OnNshMapDetails       func(context uint32, details *nshapi.NshMapDetails)
	OnCliInbandReply      func(context uint32, reply *vlib.CliInbandReply)
	OnControlPingReply    func(context uint32, reply *memclnt.ControlPingReply)

	// OnDumpDone is invoked after the last details message of a successful dump.
	OnDumpDone func(context uint32, call string)

	// OnError is invoked when a call fails.
	OnError func(e *CallError)
}

// CallbackAPI sends requests and delivers replies through registered callbacks.
//
// Every method returns the correlation id of the request, which is also passed to the callbacks.
// Callbacks run on the connection's RX goroutine; they must not block or invoke Conn.Close.
type CallbackAPI struct {
	c  *Conn
	cb Callbacks
}

// NewCallbackAPI creates CallbackAPI.
func NewCallbackAPI(c *Conn, cb Callbacks) *CallbackAPI {
	return &CallbackAPI{c: c, cb: cb}
}

// NshAddDelEntry adds or deletes an NSH entry.
func (a *CallbackAPI) NshAddDelEntry(req *nshapi.NshAddDelEntry) (context uint32, e error) {
	return sendWithCallback(a, req, a.cb.OnNshAddDelEntryReply)
}

// NshEntryDump dumps NSH entries.
func (a *CallbackAPI) NshEntryDump(req *nshapi.NshEntryDump) (context uint32, e error) {
	return dumpWithCallback(a, req, a.cb.OnNshEntryDetails)
}

// NshAddDelMap adds or deletes an NSH map.
func (a *CallbackAPI) NshAddDelMap(req *nshapi.NshAddDelMap) (context uint32, e error) {
	return sendWithCallback(a, req, a.cb.OnNshAddDelMapReply)
}

// NshMapDump dumps NSH maps.
func (a *CallbackAPI) NshMapDump(req *nshapi.NshMapDump) (context uint32, e error) {
	return dumpWithCallback(a, req, a.cb.OnNshMapDetails)
}

// CliInband executes a CLI command on the engine.
func (a *CallbackAPI) CliInband(req *vlib.CliInband) (context uint32, e error) {
	return sendWithCallback(a, req, a.cb.OnCliInbandReply)
}

// ControlPing pings the engine.
func (a *CallbackAPI) ControlPing(req *memclnt.ControlPing) (context uint32, e error) {
	return sendWithCallback(a, req, a.cb.OnControlPingReply)
}

func (a *CallbackAPI) onError(e error) {
	if a.cb.OnError == nil {
		return
	}
	a.cb.OnError(e.(*CallError))
}

func sendWithCallback[R api.Message](a *CallbackAPI, req api.Message, cb func(uint32, R)) (uint32, error) {
	return a.c.SendRequest(req, func(context uint32, reply api.Message, e error) {
		switch {
		case e != nil:
			a.onError(e)
		case cb != nil:
			cb(context, reply.(R))
		}
	})
}

func dumpWithCallback[D api.Message](a *CallbackAPI, req api.Message, cb func(uint32, D)) (uint32, error) {
	return a.c.SendDump(req,
		func(context uint32, details api.Message) {
			if cb != nil {
				cb(context, details.(D))
			}
		},
		func(context uint32, e error) {
			switch {
			case e != nil:
				a.onError(e)
			case a.cb.OnDumpDone != nil:
				a.cb.OnDumpDone(context, req.GetMessageName())
			}
		},
	)
}
