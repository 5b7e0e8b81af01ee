// Package nshmgmt exposes NSH entry and map management over JSON-RPC.
package nshmgmt

import (
	"context"
	"time"

	"github.com/usnistgov/nshsfc/nsh"
	"github.com/usnistgov/nshsfc/nsh/apiclient"
	"github.com/usnistgov/nshsfc/nsh/binapi/nshapi"
	"go.fd.io/govpp/binapi/memclnt"
	"go.fd.io/govpp/binapi/vlib"
)

// DefaultTimeout is the default per-call timeout.
const DefaultTimeout = 5 * time.Second

// NshMgmt is the "Nsh" service.
// It forwards requests to an engine through the binary API.
type NshMgmt struct {
	API     *apiclient.FutureAPI
	Timeout time.Duration
}

func (mg NshMgmt) withTimeout() (context.Context, context.CancelFunc) {
	timeout := mg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

// IndexArg selects records by pool index.
type IndexArg struct {
	// Index is the pool index; nil selects every record.
	Index *uint32
}

func (arg IndexArg) index() uint32 {
	if arg.Index == nil {
		return nsh.IndexAll
	}
	return *arg.Index
}

// IndexReply contains the pool index of a created record.
type IndexReply struct {
	Context uint32
	Index   uint32
}

// EntryInfo describes an NSH entry.
type EntryInfo struct {
	Index uint32
	nsh.Entry
}

// MapInfo describes an NSH map.
type MapInfo struct {
	Index uint32
	nsh.Map
}

// ListEntries lists NSH entries.
func (mg NshMgmt) ListEntries(args IndexArg, reply *[]EntryInfo) error {
	ctx, cancel := mg.withTimeout()
	defer cancel()

	res, e := mg.API.NshEntryDump(&nshapi.NshEntryDump{EntryIndex: args.index()}).Get(ctx)
	if e != nil {
		return e
	}

	list := []EntryInfo{}
	for _, d := range res.Details {
		list = append(list, EntryInfo{Index: d.EntryIndex, Entry: d.Entry()})
	}
	*reply = list
	return nil
}

// CreateEntry adds an NSH entry.
func (mg NshMgmt) CreateEntry(args nsh.Entry, reply *IndexReply) error {
	return mg.addDelEntry(true, args, reply)
}

// DeleteEntry deletes the NSH entry with the same NspNsi.
func (mg NshMgmt) DeleteEntry(args nsh.Entry, reply *IndexReply) error {
	return mg.addDelEntry(false, args, reply)
}

func (mg NshMgmt) addDelEntry(isAdd bool, ent nsh.Entry, reply *IndexReply) error {
	ctx, cancel := mg.withTimeout()
	defer cancel()

	res, e := mg.API.NshAddDelEntry(nshapi.NewNshAddDelEntry(isAdd, ent)).Get(ctx)
	if e != nil {
		return e
	}
	reply.Context, reply.Index = res.Context, res.Reply.EntryIndex
	return nil
}

// ListMaps lists NSH maps.
func (mg NshMgmt) ListMaps(args IndexArg, reply *[]MapInfo) error {
	ctx, cancel := mg.withTimeout()
	defer cancel()

	res, e := mg.API.NshMapDump(&nshapi.NshMapDump{MapIndex: args.index()}).Get(ctx)
	if e != nil {
		return e
	}

	list := []MapInfo{}
	for _, d := range res.Details {
		list = append(list, MapInfo{Index: d.MapIndex, Map: d.Map()})
	}
	*reply = list
	return nil
}

// CreateMap adds an NSH map.
func (mg NshMgmt) CreateMap(args nsh.Map, reply *IndexReply) error {
	return mg.addDelMap(true, args, reply)
}

// DeleteMap deletes the NSH map with the same NspNsi.
func (mg NshMgmt) DeleteMap(args nsh.Map, reply *IndexReply) error {
	return mg.addDelMap(false, args, reply)
}

func (mg NshMgmt) addDelMap(isAdd bool, m nsh.Map, reply *IndexReply) error {
	ctx, cancel := mg.withTimeout()
	defer cancel()

	res, e := mg.API.NshAddDelMap(nshapi.NewNshAddDelMap(isAdd, m)).Get(ctx)
	if e != nil {
		return e
	}
	reply.Context, reply.Index = res.Context, res.Reply.MapIndex
	return nil
}

// ExecArg contains a debug CLI command.
type ExecArg struct {
	Line string
}

// ExecReply contains debug CLI output.
type ExecReply struct {
	Output string
}

// Exec runs a debug CLI command on the engine.
func (mg NshMgmt) Exec(args ExecArg, reply *ExecReply) error {
	ctx, cancel := mg.withTimeout()
	defer cancel()

	res, e := mg.API.CliInband(&vlib.CliInband{Cmd: args.Line}).Get(ctx)
	if e != nil {
		return e
	}
	reply.Output = res.Reply.Reply
	return nil
}

// PingReply contains the engine liveness result.
type PingReply struct {
	Context     uint32
	ClientIndex uint32
	VpePID      uint32
	Duration    time.Duration
}

// Ping sends a control ping.
func (mg NshMgmt) Ping(args struct{}, reply *PingReply) error {
	ctx, cancel := mg.withTimeout()
	defer cancel()

	t0 := time.Now()
	res, e := mg.API.ControlPing(&memclnt.ControlPing{}).Get(ctx)
	if e != nil {
		return e
	}
	reply.Context = res.Context
	reply.ClientIndex = res.Reply.ClientIndex
	reply.VpePID = res.Reply.VpePID
	reply.Duration = time.Since(t0)
	return nil
}
