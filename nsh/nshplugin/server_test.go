package nshplugin_test

import (
	"testing"
	"time"

	"github.com/usnistgov/nshsfc/nsh"
	"github.com/usnistgov/nshsfc/nsh/apiwire"
	"github.com/usnistgov/nshsfc/nsh/binapi/nshapi"
	"github.com/usnistgov/nshsfc/nsh/nshplugin"
	"github.com/usnistgov/nshsfc/nsh/sockettransport"
	api "go.fd.io/govpp/api"
	"go.fd.io/govpp/binapi/memclnt"
	"go.fd.io/govpp/binapi/vlib"
)

type rawClient struct {
	t     testing.TB
	tr    sockettransport.Transport
	table *apiwire.MessageTable
}

func (c *rawClient) send(msg api.Message, context uint32) {
	_, require := makeAR(c.t)
	wire, e := c.table.Encode(msg, 1, context)
	require.NoError(e)
	c.tr.Tx() <- wire
}

func (c *rawClient) recv() (api.Message, apiwire.Header) {
	_, require := makeAR(c.t)
	select {
	case wire, ok := <-c.tr.Rx():
		require.True(ok)
		msg, h, e := c.table.Decode(wire)
		require.NoError(e)
		return msg, h
	case <-time.After(5 * time.Second):
		require.FailNow("no reply")
	}
	return nil, apiwire.Header{}
}

func TestServer(t *testing.T) {
	assert, require := makeAR(t)

	p := nshplugin.New()
	s := nshplugin.NewServer(p, nshplugin.ServerConfig{})
	defer s.Close()

	trA, trB, e := sockettransport.Pipe(sockettransport.Config{})
	require.NoError(e)
	s.ServeTransport(trB)
	c := &rawClient{t: t, tr: trA, table: s.MessageTable()}

	// dropped before handshake
	c.send(&memclnt.ControlPing{}, 1)

	c.send(&memclnt.SockclntCreate{Name: "test"}, 2)
	msg, h := c.recv()
	require.IsType(&memclnt.SockclntCreateReply{}, msg)
	assert.EqualValues(2, h.Context)
	createReply := msg.(*memclnt.SockclntCreateReply)
	assert.EqualValues(0, createReply.Response)
	assert.Equal(s.MessageTable().Len(), len(createReply.MessageTable))
	var addDelEntryID uint16
	for _, ent := range createReply.MessageTable {
		if ent.Name == apiwire.NameCRC(&nshapi.NshAddDelEntry{}) {
			addDelEntryID = ent.Index
		}
	}
	assert.GreaterOrEqual(addDelEntryID, uint16(100))
	assert.Equal(1, s.NSessions())

	ent := nsh.Entry{
		NspNsi:       nsh.MakeNspNsi(1, 2),
		Length:       nsh.MdType1Length,
		MdType:       nsh.MdType1,
		NextProtocol: nsh.NextIPv4,
	}
	c.send(nshapi.NewNshAddDelEntry(true, ent), 3)
	msg, h = c.recv()
	require.IsType(&nshapi.NshAddDelEntryReply{}, msg)
	assert.EqualValues(3, h.Context)
	assert.EqualValues(0, msg.(*nshapi.NshAddDelEntryReply).Retval)
	assert.EqualValues(0, msg.(*nshapi.NshAddDelEntryReply).EntryIndex)

	c.send(nshapi.NewNshAddDelEntry(true, ent), 4)
	msg, h = c.recv()
	require.IsType(&nshapi.NshAddDelEntryReply{}, msg)
	assert.EqualValues(4, h.Context)
	assert.EqualValues(nsh.RetvalInvalidValue, msg.(*nshapi.NshAddDelEntryReply).Retval)

	c.send(&nshapi.NshEntryDump{EntryIndex: nsh.IndexAll}, 5)
	c.send(&memclnt.ControlPing{}, 5)
	msg, h = c.recv()
	require.IsType(&nshapi.NshEntryDetails{}, msg)
	assert.EqualValues(5, h.Context)
	assert.Equal(ent, msg.(*nshapi.NshEntryDetails).Entry())
	msg, h = c.recv()
	require.IsType(&memclnt.ControlPingReply{}, msg)
	assert.EqualValues(5, h.Context)

	c.send(&vlib.CliInband{Cmd: "show nsh map"}, 6)
	msg, h = c.recv()
	require.IsType(&vlib.CliInbandReply{}, msg)
	assert.EqualValues(6, h.Context)
	assert.Equal("No nsh maps configured.\n", msg.(*vlib.CliInbandReply).Reply)

	c.send(&vlib.CliInband{Cmd: "create nsh entry nsp 1"}, 7)
	msg, _ = c.recv()
	require.IsType(&vlib.CliInbandReply{}, msg)
	assert.EqualValues(0, msg.(*vlib.CliInbandReply).Retval)
	assert.Equal("nsi not specified\n", msg.(*vlib.CliInbandReply).Reply)

	c.send(&memclnt.SockclntDelete{Index: createReply.Index}, 8)
	msg, h = c.recv()
	require.IsType(&memclnt.SockclntDeleteReply{}, msg)
	assert.EqualValues(8, h.Context)

	select {
	case _, ok := <-trA.Rx():
		assert.False(ok)
	case <-time.After(5 * time.Second):
		assert.Fail("session not closed")
	}
	close(trA.Tx())
}
