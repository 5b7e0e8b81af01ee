package apiwire_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/usnistgov/nshsfc/core/testenv"
	"github.com/usnistgov/nshsfc/nsh/apiwire"
	"github.com/usnistgov/nshsfc/nsh/binapi"
	"github.com/usnistgov/nshsfc/nsh/binapi/nshapi"
	"go.fd.io/govpp/binapi/memclnt"
	"go.fd.io/govpp/binapi/vlib"
)

var (
	makeAR       = testenv.MakeAR
	bytesFromHex = testenv.BytesFromHex
	bytesEqual   = testenv.BytesEqual
)

func TestFrame(t *testing.T) {
	assert, require := makeAR(t)

	var b []byte
	b = apiwire.AppendFrame(b, []byte{0xA0, 0xA1, 0xA2})
	b = apiwire.AppendFrame(b, []byte{0xB0, 0xB1})
	assert.Equal(bytesFromHex("0000000000000000 00000003 00000000 A0A1A2"), b[:19])

	r := bytes.NewReader(b)
	msg, e := apiwire.ReadFrame(r, 0)
	require.NoError(e)
	bytesEqual(assert, []byte{0xA0, 0xA1, 0xA2}, msg)
	msg, e = apiwire.ReadFrame(r, 0)
	require.NoError(e)
	bytesEqual(assert, []byte{0xB0, 0xB1}, msg)
	_, e = apiwire.ReadFrame(r, 0)
	assert.ErrorIs(e, io.EOF)

	_, e = apiwire.ReadFrame(bytes.NewReader(bytesFromHex("0000000000000000 00000100 00000000")), 64)
	assert.ErrorIs(e, apiwire.ErrFrame)

	_, e = apiwire.ReadFrame(bytes.NewReader(bytesFromHex("0000000000000000 00000004 00000000 A0A1")), 0)
	assert.ErrorIs(e, io.ErrUnexpectedEOF)
}

func TestHeader(t *testing.T) {
	assert, require := makeAR(t)

	req := &nshapi.NshEntryDump{EntryIndex: 7}
	wire, e := apiwire.Encode(req, apiwire.Header{MsgID: 0x0102, ClientIndex: 0x0A, Context: 0x0B})
	require.NoError(e)
	assert.Equal(bytesFromHex("0102 0000000A 0000000B 00000007"), wire)

	var decReq nshapi.NshEntryDump
	h, e := apiwire.Decode(wire, &decReq)
	require.NoError(e)
	assert.Equal(apiwire.Header{MsgID: 0x0102, ClientIndex: 0x0A, Context: 0x0B}, h)
	assert.EqualValues(7, decReq.EntryIndex)

	reply := &nshapi.NshAddDelEntryReply{Retval: -6, EntryIndex: 1}
	wire, e = apiwire.Encode(reply, apiwire.Header{MsgID: 0x0103, ClientIndex: 0x0A, Context: 0x0B})
	require.NoError(e)
	assert.Equal(bytesFromHex("0103 0000000B FFFFFFFA 00000001"), wire)

	_, e = apiwire.Decode(wire[:9], &nshapi.NshAddDelEntryReply{})
	assert.ErrorIs(e, apiwire.ErrTruncated)
	_, e = apiwire.Decode(wire[:4], &nshapi.NshAddDelEntryReply{})
	assert.ErrorIs(e, apiwire.ErrTruncated)

	cliReply := &vlib.CliInbandReply{Reply: "abc"}
	wire, e = apiwire.Encode(cliReply, apiwire.Header{MsgID: 0x0104, Context: 0x0C})
	require.NoError(e)
	var decCli vlib.CliInbandReply
	_, e = apiwire.Decode(wire, &decCli)
	require.NoError(e)
	assert.Equal("abc", decCli.Reply)
	_, e = apiwire.Decode(wire[:len(wire)-1], &decCli)
	assert.ErrorIs(e, apiwire.ErrTruncated)
}

func TestTable(t *testing.T) {
	assert, require := makeAR(t)

	tbl := apiwire.NewMessageTable()
	tbl.Add(binapi.SockclntCreateID, (*memclnt.SockclntCreate)(nil))
	tbl.Add(100, (*nshapi.NshEntryDump)(nil))
	tbl.Add(101, (*nshapi.NshEntryDetails)(nil))
	assert.Equal(3, tbl.Len())
	assert.Equal("nsh_entry_dump_cdaf8ccb", apiwire.NameCRC(&nshapi.NshEntryDump{}))

	entries := tbl.Entries()
	require.Len(entries, 3)
	assert.EqualValues(binapi.SockclntCreateID, entries[0].ID)
	assert.Equal("nsh_entry_details", entries[2].NameCRC[:17])

	wire, e := tbl.Encode(&nshapi.NshEntryDump{EntryIndex: 3}, 1, 2)
	require.NoError(e)
	msg, h, e := tbl.Decode(wire)
	require.NoError(e)
	assert.EqualValues(100, h.MsgID)
	assert.EqualValues(2, h.Context)
	require.IsType(&nshapi.NshEntryDump{}, msg)
	assert.EqualValues(3, msg.(*nshapi.NshEntryDump).EntryIndex)

	_, e = tbl.Encode(&nshapi.NshMapDump{}, 1, 2)
	assert.ErrorIs(e, apiwire.ErrUnknownMessage)
	_, _, e = tbl.Decode(bytesFromHex("00FF 00000001 00000002"))
	assert.ErrorIs(e, apiwire.ErrUnknownMessage)
}
