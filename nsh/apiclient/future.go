package apiclient

import (
	"context"

	"github.com/usnistgov/nshsfc/nsh/binapi/nshapi"
	api "go.fd.io/govpp/api"
	"go.fd.io/govpp/binapi/memclnt"
	"go.fd.io/govpp/binapi/vlib"
)

// Future is the eventual result of a call.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(value T, e error) {
	f.value, f.err = value, e
	close(f.done)
}

// Done returns a channel that is closed when the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is available.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// Get blocks until the result is available or ctx is canceled.
func (f *Future[T]) Get(ctx context.Context) (value T, e error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return value, ctx.Err()
	}
}

// Reply is the result of a request.
type Reply[R api.Message] struct {
	Context uint32
	Reply   R
}

// Dump is the result of a dump request.
type Dump[D api.Message] struct {
	Context uint32
	// Details contains details messages in arrival order; it has no nil element.
	Details []D
}

// FutureAPI sends requests and returns futures of their results.
//
// A failed call resolves its future with a *CallError.
type FutureAPI struct {
	c *Conn
}

// NewFutureAPI creates FutureAPI.
func NewFutureAPI(c *Conn) *FutureAPI {
	return &FutureAPI{c: c}
}

// NshAddDelEntry adds or deletes an NSH entry.
func (a *FutureAPI) NshAddDelEntry(req *nshapi.NshAddDelEntry) *Future[Reply[*nshapi.NshAddDelEntryReply]] {
	return sendWithFuture[*nshapi.NshAddDelEntryReply](a.c, req)
}

// NshEntryDump dumps NSH entries.
func (a *FutureAPI) NshEntryDump(req *nshapi.NshEntryDump) *Future[Dump[*nshapi.NshEntryDetails]] {
	return dumpWithFuture[*nshapi.NshEntryDetails](a.c, req)
}

// NshAddDelMap adds or deletes an NSH map.
func (a *FutureAPI) NshAddDelMap(req *nshapi.NshAddDelMap) *Future[Reply[*nshapi.NshAddDelMapReply]] {
	return sendWithFuture[*nshapi.NshAddDelMapReply](a.c, req)
}

// NshMapDump dumps NSH maps.
func (a *FutureAPI) NshMapDump(req *nshapi.NshMapDump) *Future[Dump[*nshapi.NshMapDetails]] {
	return dumpWithFuture[*nshapi.NshMapDetails](a.c, req)
}

// CliInband executes a CLI command on the engine.
func (a *FutureAPI) CliInband(req *vlib.CliInband) *Future[Reply[*vlib.CliInbandReply]] {
	return sendWithFuture[*vlib.CliInbandReply](a.c, req)
}

// ControlPing pings the engine.
func (a *FutureAPI) ControlPing(req *memclnt.ControlPing) *Future[Reply[*memclnt.ControlPingReply]] {
	return sendWithFuture[*memclnt.ControlPingReply](a.c, req)
}

func sendWithFuture[R api.Message](c *Conn, req api.Message) *Future[Reply[R]] {
	f := newFuture[Reply[R]]()
	_, e := c.SendRequest(req, func(context uint32, reply api.Message, e error) {
		r := Reply[R]{Context: context}
		if reply != nil {
			r.Reply = reply.(R)
		}
		f.resolve(r, e)
	})
	if e != nil {
		f.resolve(Reply[R]{}, e)
	}
	return f
}

func dumpWithFuture[D api.Message](c *Conn, req api.Message) *Future[Dump[D]] {
	f := newFuture[Dump[D]]()
	var details []D
	_, e := c.SendDump(req,
		func(context uint32, d api.Message) {
			details = append(details, d.(D))
		},
		func(context uint32, e error) {
			f.resolve(Dump[D]{Context: context, Details: details}, e)
		},
	)
	if e != nil {
		f.resolve(Dump[D]{}, e)
	}
	return f
}
