package harness

import (
	"context"
	"io"

	"github.com/usnistgov/nshsfc/nsh/apiclient"
	"github.com/usnistgov/nshsfc/nsh/binapi/nshapi"
)

// RunCallback runs the callback flow.
// Call failures are printed and do not stop the flow.
func RunCallback(ctx context.Context, c *apiclient.Conn, out io.Writer, cfg Config) error {
	cfg.applyDefaults()
	w := &syncWriter{w: out}
	completed := make(chan uint32)
	done := make(chan struct{})
	defer close(done)
	complete := func(context uint32) {
		select {
		case completed <- context:
		case <-done:
		}
	}

	a := apiclient.NewCallbackAPI(c, apiclient.Callbacks{
		OnNshAddDelEntryReply: func(context uint32, reply *nshapi.NshAddDelEntryReply) {
			w.Printf("Received NshAddDelEntryReply: context=%d\n", context)
			complete(context)
		},
		OnNshEntryDetails: func(context uint32, details *nshapi.NshEntryDetails) {
			printDetails(w, context, details)
		},
		OnDumpDone: func(context uint32, call string) {
			complete(context)
		},
		OnError: func(e *apiclient.CallError) {
			w.Printf("Received onError exception: call=%s, context=%d, retval=%d\n", e.Call, e.Context, e.Retval)
			complete(e.Context)
		},
	})

	waitFor := func(id uint32) error {
		for {
			select {
			case done := <-completed:
				if done == id {
					return sleep(ctx, cfg.Delay.Duration())
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	w.Printf("Testing callback API\n")

	w.Printf("Sending NshAddDelEntry request...\n")
	id, e := a.NshAddDelEntry(nshapi.NewNshAddDelEntry(true, *cfg.Entry))
	if e != nil {
		return e
	}
	w.Printf("NshAddDelEntry send result = %d\n", id)
	if e = waitFor(id); e != nil {
		return e
	}

	w.Printf("Sending NshEntryDump request...\n")
	id, e = a.NshEntryDump(&nshapi.NshEntryDump{EntryIndex: *cfg.DumpIndex})
	if e != nil {
		return e
	}
	w.Printf("NshEntryDump send result = %d\n", id)
	return waitFor(id)
}
