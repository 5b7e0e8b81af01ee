package nshapi_test

import (
	"testing"

	"github.com/usnistgov/nshsfc/core/testenv"
	"github.com/usnistgov/nshsfc/nsh"
	"github.com/usnistgov/nshsfc/nsh/binapi/nshapi"
)

var (
	makeAR       = testenv.MakeAR
	bytesFromHex = testenv.BytesFromHex
)

func TestAddDelEntryEncoding(t *testing.T) {
	assert, require := makeAR(t)

	ent := nsh.Entry{
		NspNsi:       nsh.MakeNspNsi(1, 2),
		Length:       nsh.MdType1Length,
		MdType:       nsh.MdType1,
		NextProtocol: nsh.NextIPv4,
		C3:           0xA0B0C0D0,
	}
	req := nshapi.NewNshAddDelEntry(true, ent)
	assert.EqualValues(258, req.NspNsi)
	assert.Equal(25, req.Size())

	wire, e := req.Marshal(nil)
	require.NoError(e)
	assert.Equal(bytesFromHex("01 00000102 01 00 06 01 00000000 00000000 A0B0C0D0 00000000"), wire)

	var decoded nshapi.NshAddDelEntry
	require.NoError(decoded.Unmarshal(wire))
	assert.True(decoded.IsAdd)
	assert.Equal(ent, decoded.Entry())
}

func TestEntryDetails(t *testing.T) {
	assert, require := makeAR(t)

	ent := nsh.Entry{
		NspNsi:       nsh.MakeNspNsi(0xABCDEF, 9),
		VerOC:        nsh.MakeVerOC(0, false, true),
		Length:       nsh.MdType1Length,
		MdType:       nsh.MdType1,
		NextProtocol: nsh.NextEthernet,
		C1:           1,
		C2:           2,
	}
	details := nshapi.NewNshEntryDetails(7, ent)
	wire, e := details.Marshal(nil)
	require.NoError(e)
	assert.Equal(bytesFromHex("00000007 ABCDEF09 01 10 06 03 00000001 00000002 00000000 00000000"), wire)

	var decoded nshapi.NshEntryDetails
	require.NoError(decoded.Unmarshal(wire))
	assert.EqualValues(7, decoded.EntryIndex)
	assert.Equal(ent, decoded.Entry())
}

func TestMapMessages(t *testing.T) {
	assert, require := makeAR(t)

	m := nsh.Map{
		NspNsi:       nsh.MakeNspNsi(185, 255),
		MappedNspNsi: nsh.MakeNspNsi(185, 254),
		Action:       nsh.ActionPop,
		SwIfIndex:    3,
		NextNode:     nsh.NextEncapVxlan6,
	}
	req := nshapi.NewNshAddDelMap(false, m)
	wire, e := req.Marshal(nil)
	require.NoError(e)
	assert.Equal(bytesFromHex("00 0000B9FF 0000B9FE 00000002 00000003 00000004"), wire)
	assert.Equal(m, req.Map())

	details := nshapi.NewNshMapDetails(1, m)
	assert.Equal(m, details.Map())
	assert.Equal(24, details.Size())
}

func TestAllMessages(t *testing.T) {
	assert, _ := makeAR(t)

	names := map[string]bool{}
	for _, msg := range nshapi.AllMessages() {
		names[msg.GetMessageName()] = true
		assert.Len(msg.GetCrcString(), 8, msg.GetMessageName())
	}
	assert.Len(names, 8)
	assert.True(names["nsh_entry_details"])
}
