package apiclient_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/usnistgov/nshsfc/nsh"
	"github.com/usnistgov/nshsfc/nsh/apiclient"
	"github.com/usnistgov/nshsfc/nsh/apiwire"
	"github.com/usnistgov/nshsfc/nsh/binapi/nshapi"
	"github.com/usnistgov/nshsfc/nsh/nshplugin"
	"github.com/usnistgov/nshsfc/nsh/sockettransport"
	api "go.fd.io/govpp/api"
	"go.fd.io/govpp/binapi/memclnt"
)

// fakeEngine is a scripted engine on a channel transport.
type fakeEngine struct {
	t         testing.TB
	rx        chan []byte
	tx        chan []byte
	closeOnce sync.Once
	table     *apiwire.MessageTable
}

func newFakeEngine(t testing.TB) *fakeEngine {
	return &fakeEngine{
		t:     t,
		rx:    make(chan []byte, 16),
		tx:    make(chan []byte, 16),
		table: nshplugin.NewServer(nshplugin.New(), nshplugin.ServerConfig{}).MessageTable(),
	}
}

func (fe *fakeEngine) Rx() <-chan []byte {
	return fe.rx
}

func (fe *fakeEngine) Tx() chan<- []byte {
	return fe.tx
}

// disconnect simulates engine failure by closing the client's RX channel.
func (fe *fakeEngine) disconnect() {
	fe.closeOnce.Do(func() { close(fe.rx) })
}

// recv returns the next message sent by client, or nil if client closed the transport.
func (fe *fakeEngine) recv() (api.Message, apiwire.Header) {
	_, require := makeAR(fe.t)
	select {
	case wire, ok := <-fe.tx:
		if !ok {
			fe.disconnect()
			return nil, apiwire.Header{}
		}
		msg, h, e := fe.table.Decode(wire)
		require.NoError(e)
		return msg, h
	case <-time.After(5 * time.Second):
		require.FailNow("no request")
	}
	return nil, apiwire.Header{}
}

func (fe *fakeEngine) send(msg api.Message, context uint32) {
	_, require := makeAR(fe.t)
	wire, e := fe.table.Encode(msg, 1, context)
	require.NoError(e)
	fe.rx <- wire
}

func (fe *fakeEngine) handshake(except ...api.Message) {
	_, require := makeAR(fe.t)
	msg, h := fe.recv()
	require.IsType(&memclnt.SockclntCreate{}, msg)

	reply := &memclnt.SockclntCreateReply{Index: 42}
NEXT:
	for _, ent := range fe.table.Entries() {
		for _, x := range except {
			if ent.NameCRC == apiwire.NameCRC(x) {
				continue NEXT
			}
		}
		reply.MessageTable = append(reply.MessageTable, memclnt.MessageTableEntry{Index: ent.ID, Name: ent.NameCRC})
	}
	reply.Count = uint16(len(reply.MessageTable))
	fe.send(reply, h.Context)
}

func connectFake(t testing.TB, fe *fakeEngine, except ...api.Message) *apiclient.Conn {
	_, require := makeAR(t)
	go fe.handshake(except...)
	c, e := apiclient.Connect(context.Background(), fe, apiclient.Config{CloseTimeout: 100 * time.Millisecond})
	require.NoError(e)
	return c
}

func TestUncorrelated(t *testing.T) {
	assert, require := makeAR(t)
	fe := newFakeEngine(t)
	c := connectFake(t, fe, &nshapi.NshMapDump{})
	assert.EqualValues(42, c.ClientIndex())
	assert.True(c.Supports(&nshapi.NshEntryDump{}))
	assert.False(c.Supports(&nshapi.NshMapDump{}))

	a := apiclient.NewFutureAPI(c)
	f := a.NshAddDelEntry(nshapi.NewNshAddDelEntry(true, nsh.Entry{NspNsi: 258}))
	msg, h := fe.recv()
	require.IsType(&nshapi.NshAddDelEntry{}, msg)
	assert.EqualValues(42, h.ClientIndex)
	assert.NotZero(h.Context)

	// reply with a wrong context is dropped
	fe.send(&nshapi.NshAddDelEntryReply{EntryIndex: 99}, h.Context+1000)
	fe.send(&nshapi.NshAddDelEntryReply{EntryIndex: 7}, h.Context)

	reply, e := f.Wait()
	require.NoError(e)
	assert.Equal(h.Context, reply.Context)
	assert.EqualValues(7, reply.Reply.EntryIndex)
	assert.EqualValues(1, c.Counters().NUncorrelated)

	_, e = a.NshMapDump(&nshapi.NshMapDump{}).Wait()
	assert.ErrorIs(e, apiclient.ErrUnknownMessage)

	f2 := a.NshEntryDump(&nshapi.NshEntryDump{EntryIndex: nsh.IndexAll})
	msg, h = fe.recv()
	require.IsType(&nshapi.NshEntryDump{}, msg)
	msg, h2 := fe.recv()
	require.IsType(&memclnt.ControlPing{}, msg)
	assert.Equal(h.Context, h2.Context)
	// reply of an unexpected type fails the call
	fe.send(&nshapi.NshAddDelMapReply{}, h.Context)
	_, e = f2.Wait()
	assert.ErrorIs(e, apiclient.ErrUnexpectedReply)

	go func() {
		msg, h := fe.recv()
		if _, ok := msg.(*memclnt.SockclntDelete); ok {
			fe.send(&memclnt.SockclntDeleteReply{}, h.Context)
		}
		fe.recv()
	}()
	assert.NoError(c.Close())
}

func TestDisconnect(t *testing.T) {
	assert, require := makeAR(t)
	fe := newFakeEngine(t)
	c := connectFake(t, fe)

	a := apiclient.NewFutureAPI(c)
	f := a.NshEntryDump(&nshapi.NshEntryDump{EntryIndex: nsh.IndexAll})
	fe.recv()
	_, h := fe.recv()
	fe.send(&nshapi.NshEntryDetails{EntryIndex: 0, NspNsi: 258}, h.Context)
	fe.disconnect()

	dump, e := f.Wait()
	assert.ErrorIs(e, apiclient.ErrClosed)
	assert.Equal(h.Context, dump.Context)
	assert.Len(dump.Details, 1)

	_, e = a.ControlPing(&memclnt.ControlPing{}).Wait()
	assert.ErrorIs(e, apiclient.ErrClosed)
	assert.True(c.IsDown())

	require.NoError(c.Close())
}

func TestHandshakeTimeout(t *testing.T) {
	assert, _ := makeAR(t)
	fe := newFakeEngine(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	go func() {
		fe.recv() // sockclnt_create
		fe.recv() // TX closed
	}()
	_, e := apiclient.Connect(ctx, fe, apiclient.Config{})
	assert.ErrorIs(e, context.DeadlineExceeded)
}

func TestUnixSocket(t *testing.T) {
	assert, require := makeAR(t)

	s := nshplugin.NewServer(nshplugin.New(), nshplugin.ServerConfig{})
	defer s.Close()
	addr, e := s.Listen("unix", filepath.Join(t.TempDir(), "api.sock"))
	require.NoError(e)

	tr, e := sockettransport.Dial(addr.Network(), addr.String())
	require.NoError(e)
	c, e := apiclient.Connect(context.Background(), tr, apiclient.Config{})
	require.NoError(e)

	states := make(chan bool, 1)
	defer c.OnStateChange(func(isDown bool) { states <- isDown }).Close()

	a := apiclient.NewFutureAPI(c)
	reply, e := a.NshAddDelEntry(nshapi.NewNshAddDelEntry(true, nsh.Entry{NspNsi: nsh.MakeNspNsi(3, 3), MdType: nsh.MdType1})).Wait()
	require.NoError(e)
	assert.EqualValues(0, reply.Reply.EntryIndex)
	assert.Len(s.Plugin().Entries(nsh.IndexAll), 1)
	assert.Equal(1, s.NSessions())

	require.NoError(c.Close())
	assert.Len(states, 0)
}

func TestDial(t *testing.T) {
	assert, require := makeAR(t)

	s := nshplugin.NewServer(nshplugin.New(), nshplugin.ServerConfig{})
	defer s.Close()
	addr, e := s.Listen("tcp", "127.0.0.1:0")
	require.NoError(e)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, e := apiclient.Dial(ctx, "tcp:"+addr.String(), apiclient.DialConfig{
		Config: apiclient.Config{ClientName: "dial-test"},
	})
	require.NoError(e)
	defer c.Close()

	reply, e := apiclient.NewFutureAPI(c).ControlPing(&memclnt.ControlPing{}).Get(ctx)
	require.NoError(e)
	assert.Equal(c.ClientIndex(), reply.Reply.ClientIndex)

	_, e = apiclient.Dial(ctx, "udp:127.0.0.1:1", apiclient.DialConfig{})
	assert.Error(e)
}
