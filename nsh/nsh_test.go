package nsh_test

import (
	"encoding/json"
	"testing"

	"github.com/usnistgov/nshsfc/core/testenv"
	"github.com/usnistgov/nshsfc/nsh"
)

var makeAR = testenv.MakeAR

func TestNspNsi(t *testing.T) {
	assert, require := makeAR(t)

	v := nsh.MakeNspNsi(1, 2)
	assert.EqualValues(258, v)
	assert.EqualValues(1, v.Nsp())
	assert.EqualValues(2, v.Nsi())
	assert.Equal("1:2", v.String())

	for _, tt := range []struct {
		nsp uint32
		nsi uint8
	}{
		{0, 0}, {1, 2}, {0xABCDEF, 0xFF}, {nsh.MaxNsp, 0}, {185, 255},
	} {
		v := nsh.MakeNspNsi(tt.nsp, tt.nsi)
		assert.Equal(uint32(v)>>8, v.Nsp())
		assert.Equal(uint8(uint32(v)&0xFF), v.Nsi())
		assert.Equal(tt.nsp, v.Nsp())
		assert.Equal(tt.nsi, v.Nsi())
	}

	assert.EqualValues(0xFFFFFF01, nsh.MakeNspNsi(0x1FFFFFF, 1))
	assert.EqualValues(nsh.MakeNspNsi(7, 9), nsh.MakeNspNsi(7, 200).WithNsi(9))

	var decoded struct {
		A nsh.NspNsi `json:"a"`
		B nsh.NspNsi `json:"b"`
	}
	require.NoError(json.Unmarshal([]byte(`{"a":"1:2","b":"770"}`), &decoded))
	assert.EqualValues(258, decoded.A)
	assert.EqualValues(770, decoded.B)
	assert.Error(json.Unmarshal([]byte(`{"a":"1:256"}`), &decoded))
	assert.Error(json.Unmarshal([]byte(`{"a":"x"}`), &decoded))

	assert.JSONEq(`{"a":"1:2","b":"3:2"}`, testenv.ToJSON(decoded))
}

func TestEntry(t *testing.T) {
	assert, _ := makeAR(t)

	ent := nsh.Entry{
		NspNsi:       nsh.MakeNspNsi(1, 2),
		VerOC:        nsh.MakeVerOC(1, true, false),
		Length:       nsh.MdType1Length,
		MdType:       nsh.MdType1,
		NextProtocol: nsh.NextIPv4,
		C1:           11,
		C4:           44,
	}
	assert.EqualValues(0x60, ent.VerOC)
	assert.EqualValues(1, ent.Version())
	assert.True(ent.HasOBit())
	assert.False(ent.HasCBit())
	assert.NoError(ent.Validate())
	assert.Equal("nsh ver 1 O-set len 6 (24 bytes) md_type 1 next_protocol 1\n"+
		"  service path 1 service index 2\n"+
		"  c1 11 c2 0 c3 0 c4 44\n", ent.String())

	ent.MdType = nsh.MdType2
	assert.Error(ent.Validate())

	assert.Equal("ip6", nsh.NextIPv6.String())
	assert.Equal("9", nsh.NextProtocol(9).String())

	np, e := nsh.ParseNextProtocol("ethernet")
	assert.NoError(e)
	assert.Equal(nsh.NextEthernet, np)
	_, e = nsh.ParseNextProtocol("9")
	assert.Error(e)
}

func TestMap(t *testing.T) {
	assert, require := makeAR(t)

	for _, tt := range []struct {
		s   string
		a   nsh.Action
		bad bool
	}{
		{"swap", nsh.ActionSwap, false},
		{"push", nsh.ActionPush, false},
		{"pop", nsh.ActionPop, false},
		{"7", nsh.Action(7), false},
		{"drop", 0, true},
	} {
		a, e := nsh.ParseAction(tt.s)
		if tt.bad {
			assert.Error(e, tt.s)
		} else if assert.NoError(e, tt.s) {
			assert.Equal(tt.a, a, tt.s)
		}
	}
	assert.Equal("unknown 7", nsh.Action(7).String())

	for _, name := range []string{"vxlan6", "encap-vxlan6"} {
		nn, e := nsh.ParseNextNode(name)
		assert.NoError(e, name)
		assert.Equal(nsh.NextEncapVxlan6, nn, name)
	}
	nn, e := nsh.ParseNextNode("drop")
	assert.NoError(e)
	assert.Equal(nsh.NextDrop, nn)
	_, e = nsh.ParseNextNode("encap-mpls")
	assert.Error(e)

	m := nsh.Map{
		NspNsi:       nsh.MakeNspNsi(185, 255),
		MappedNspNsi: nsh.MakeNspNsi(185, 254),
		Action:       nsh.ActionSwap,
		SwIfIndex:    4,
		NextNode:     nsh.NextEncapVxlanGpe,
	}
	assert.Equal("nsh entry nsp: 185 nsi: 255 maps to nsp: 185 nsi: 254  nsh_action swap\n"+
		"encapped by VXLAN GPE intf: 4", m.String())
	assert.False(m.NextNode.IsProxy())

	m.NextNode = nsh.NextEncapVxlan4
	assert.True(m.NextNode.IsProxy())
	ps, e := nsh.MakeProxySession(m)
	require.NoError(e)
	assert.Equal(nsh.NextEncapVxlan4, ps.TransportType)
	assert.EqualValues(4, ps.TransportIndex)
	assert.Equal(nsh.MakeNspNsi(185, 254), ps.NspNsi)

	m.NspNsi = nsh.MakeNspNsi(185, 0)
	_, e = nsh.MakeProxySession(m)
	assert.Error(e)

	m.NextNode = nsh.NextDrop
	assert.Contains(m.String(), "only GRE and VXLANGPE support in this rev")
}
