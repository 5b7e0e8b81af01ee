package harness_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/usnistgov/nshsfc/core/testenv"
	"github.com/usnistgov/nshsfc/nsh"
	"github.com/usnistgov/nshsfc/nsh/apiclient"
	"github.com/usnistgov/nshsfc/nsh/harness"
	"github.com/usnistgov/nshsfc/nsh/nshplugin"
	"github.com/usnistgov/nshsfc/nsh/sockettransport"
	"go.fd.io/govpp/binapi/memclnt"
)

var makeAR = testenv.MakeAR

func connect(t testing.TB, p *nshplugin.Plugin) *apiclient.Conn {
	_, require := makeAR(t)
	s := nshplugin.NewServer(p, nshplugin.ServerConfig{})
	trA, trB, e := sockettransport.Pipe(sockettransport.Config{})
	require.NoError(e)
	s.ServeTransport(trB)

	c, e := apiclient.Connect(context.Background(), trA, apiclient.Config{})
	require.NoError(e)
	t.Cleanup(func() {
		c.Close()
		s.Close()
	})
	return c
}

func TestCallback(t *testing.T) {
	assert, require := makeAR(t)
	p := nshplugin.New()
	c := connect(t, p)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	require.NoError(harness.RunCallback(ctx, c, &out, harness.Config{}))
	assert.Contains(out.String(), "Received NshAddDelEntryReply: context=1\n")
	assert.Contains(out.String(), "Received NshEntryDetails: context=2, nspNsi=258, mdType=1, verOC=0, length=6, nextProtocol=1\n")
	assert.Len(p.Entries(nsh.IndexAll), 1)

	// second run: the entry exists, so the add call fails and the flow continues
	out.Reset()
	require.NoError(harness.RunCallback(ctx, c, &out, harness.Config{Delay: 10}))
	assert.Contains(out.String(), "Received onError exception: call=nsh_add_del_entry, context=3, retval=-73\n")
	assert.Equal(1, strings.Count(out.String(), "Received NshEntryDetails:"))
}

func TestFuture(t *testing.T) {
	assert, require := makeAR(t)
	c := connect(t, nshplugin.New())

	var out bytes.Buffer
	require.NoError(harness.RunFuture(context.Background(), c, &out, harness.Config{}))
	assert.Equal("Testing future API\n"+
		"Sending NshAddDelEntry request...\n"+
		"Received NshAddDelEntryReply: context=1\n"+
		"Sending NshEntryDump request...\n"+
		"Received NshEntryDetails: context=2, nspNsi=258, mdType=1, verOC=0, length=6, nextProtocol=1\n",
		out.String())

	e := harness.RunFuture(context.Background(), c, &out, harness.Config{})
	var callErr *apiclient.CallError
	require.ErrorAs(e, &callErr)
	assert.Equal("nsh_add_del_entry", callErr.Call)
	assert.EqualValues(-73, callErr.Retval)
}

func TestCallbackCanceled(t *testing.T) {
	assert, require := makeAR(t)
	c := connect(t, nshplugin.New())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		e := harness.RunCallback(ctx, c, io.Discard, harness.Config{Delay: 10})
		assert.ErrorIs(e, context.Canceled)
	}

	// late replies must not stall the RX goroutine
	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_, e := apiclient.NewFutureAPI(c).ControlPing(&memclnt.ControlPing{}).Get(ctx2)
	require.NoError(e)
}
