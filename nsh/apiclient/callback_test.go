package apiclient_test

import (
	"testing"
	"time"

	"github.com/usnistgov/nshsfc/nsh"
	"github.com/usnistgov/nshsfc/nsh/apiclient"
	"github.com/usnistgov/nshsfc/nsh/binapi/nshapi"
)

type callbackEvent struct {
	kind    string
	context uint32
	value   any
}

func TestCallbackAPI(t *testing.T) {
	assert, require := makeAR(t)
	_, c := startEngine(t)

	events := make(chan callbackEvent, 16)
	a := apiclient.NewCallbackAPI(c, apiclient.Callbacks{
		OnNshAddDelEntryReply: func(context uint32, reply *nshapi.NshAddDelEntryReply) {
			events <- callbackEvent{"reply", context, reply}
		},
		OnNshEntryDetails: func(context uint32, details *nshapi.NshEntryDetails) {
			events <- callbackEvent{"details", context, details}
		},
		OnDumpDone: func(context uint32, call string) {
			events <- callbackEvent{"done", context, call}
		},
		OnError: func(e *apiclient.CallError) {
			events <- callbackEvent{"error", e.Context, e}
		},
	})
	next := func() callbackEvent {
		select {
		case evt := <-events:
			return evt
		case <-time.After(5 * time.Second):
			require.FailNow("callback not invoked")
		}
		return callbackEvent{}
	}

	var ctxAdd [3]uint32
	for i := range ctxAdd {
		ent := nsh.Entry{
			NspNsi:       nsh.MakeNspNsi(7, uint8(i+1)),
			Length:       nsh.MdType1Length,
			MdType:       nsh.MdType1,
			NextProtocol: nsh.NextIPv6,
		}
		context, e := a.NshAddDelEntry(nshapi.NewNshAddDelEntry(true, ent))
		require.NoError(e)
		ctxAdd[i] = context
	}
	for i := range ctxAdd {
		evt := next()
		assert.Equal("reply", evt.kind)
		assert.Equal(ctxAdd[i], evt.context)
		assert.EqualValues(i, evt.value.(*nshapi.NshAddDelEntryReply).EntryIndex)
	}

	ctxDel, e := a.NshAddDelEntry(nshapi.NewNshAddDelEntry(false, nsh.Entry{NspNsi: nsh.MakeNspNsi(9, 9)}))
	require.NoError(e)
	evt := next()
	assert.Equal("error", evt.kind)
	assert.Equal(ctxDel, evt.context)
	callErr := evt.value.(*apiclient.CallError)
	assert.Equal("nsh_add_del_entry", callErr.Call)
	assert.EqualValues(nsh.RetvalNoSuchEntry, callErr.Retval)
	assert.Contains(callErr.Error(), "context=")

	ctxDump, e := a.NshEntryDump(&nshapi.NshEntryDump{EntryIndex: nsh.IndexAll})
	require.NoError(e)
	for i := 0; i < 3; i++ {
		evt = next()
		assert.Equal("details", evt.kind)
		assert.Equal(ctxDump, evt.context)
		details := evt.value.(*nshapi.NshEntryDetails)
		require.NotNil(details)
		assert.EqualValues(i, details.EntryIndex)
		assert.Equal(nsh.MakeNspNsi(7, uint8(i+1)), details.Entry().NspNsi)
	}
	evt = next()
	assert.Equal("done", evt.kind)
	assert.Equal(ctxDump, evt.context)
	assert.Equal("nsh_entry_dump", evt.value)

	// no handler registered for map replies: nothing is delivered, and the call completes
	_, e = a.NshMapDump(&nshapi.NshMapDump{MapIndex: nsh.IndexAll})
	require.NoError(e)
	evt = next()
	assert.Equal("done", evt.kind)
	assert.Equal("nsh_map_dump", evt.value)
}
