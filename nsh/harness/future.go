package harness

import (
	"context"
	"errors"
	"io"

	"github.com/usnistgov/nshsfc/nsh/apiclient"
	"github.com/usnistgov/nshsfc/nsh/binapi/nshapi"
)

// ErrNilDetails indicates a dump result contains a nil element.
var ErrNilDetails = errors.New("dump result contains nil element")

// RunFuture runs the future flow.
// It stops at the first failed call.
func RunFuture(ctx context.Context, c *apiclient.Conn, out io.Writer, cfg Config) error {
	cfg.applyDefaults()
	w := &syncWriter{w: out}
	a := apiclient.NewFutureAPI(c)

	w.Printf("Testing future API\n")

	w.Printf("Sending NshAddDelEntry request...\n")
	reply, e := a.NshAddDelEntry(nshapi.NewNshAddDelEntry(true, *cfg.Entry)).Get(ctx)
	if e != nil {
		return e
	}
	w.Printf("Received NshAddDelEntryReply: context=%d\n", reply.Context)

	w.Printf("Sending NshEntryDump request...\n")
	dump, e := a.NshEntryDump(&nshapi.NshEntryDump{EntryIndex: *cfg.DumpIndex}).Get(ctx)
	if e != nil {
		return e
	}
	return printDump(w, dump)
}

func printDump(w *syncWriter, dump apiclient.Dump[*nshapi.NshEntryDetails]) error {
	for _, details := range dump.Details {
		if details == nil {
			return ErrNilDetails
		}
		printDetails(w, dump.Context, details)
	}
	return nil
}
