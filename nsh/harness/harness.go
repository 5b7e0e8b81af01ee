// Package harness contains the demonstration flows of the callback and future APIs.
//
// Both flows add one NSH entry, then dump NSH entries, and print every reply.
package harness

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/usnistgov/nshsfc/core/logging"
	"github.com/usnistgov/nshsfc/core/nnduration"
	"github.com/usnistgov/nshsfc/nsh"
	"github.com/usnistgov/nshsfc/nsh/binapi/nshapi"
	"go.uber.org/zap"
)

var logger = logging.New("harness")

// Config contains harness configuration.
type Config struct {
	// Entry is the entry to be added.
	// The default is DefaultEntry().
	Entry *nsh.Entry `json:"entry,omitempty"`

	// DumpIndex is the entry_index of the dump request.
	// The default is nsh.IndexAll.
	DumpIndex *uint32 `json:"dumpIndex,omitempty"`

	// Delay is an additional pause after each reply in the callback flow.
	Delay nnduration.Milliseconds `json:"delay,omitempty"`
}

func (cfg *Config) applyDefaults() {
	if cfg.Entry == nil {
		ent := DefaultEntry()
		cfg.Entry = &ent
	}
	if cfg.DumpIndex == nil {
		index := nsh.IndexAll
		cfg.DumpIndex = &index
	}
}

// DefaultEntry returns the entry added by the flows: nsp=1 nsi=2, MD type 1, next protocol IPv4.
func DefaultEntry() nsh.Entry {
	return nsh.Entry{
		NspNsi:       nsh.MakeNspNsi(1, 2),
		Length:       nsh.MdType1Length,
		MdType:       nsh.MdType1,
		NextProtocol: nsh.NextIPv4,
	}
}

// syncWriter serializes writes from the caller and the RX goroutine.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *syncWriter) Printf(format string, a ...any) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	fmt.Fprintf(sw.w, format, a...)
}

func printDetails(w *syncWriter, context uint32, d *nshapi.NshEntryDetails) {
	w.Printf("Received NshEntryDetails: context=%d, nspNsi=%d, mdType=%d, verOC=%d, length=%d, nextProtocol=%d\n",
		context, d.NspNsi, d.MdType, d.VerOC, d.Length, d.NextProtocol)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	logger.Debug("sleeping", zap.Duration("delay", d))
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
