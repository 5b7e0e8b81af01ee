package nshplugin_test

import (
	"testing"

	"github.com/usnistgov/nshsfc/nsh"
	"github.com/usnistgov/nshsfc/nsh/nshplugin"
)

func TestCliEntry(t *testing.T) {
	assert, require := makeAR(t)
	p := nshplugin.New()

	output, e := p.Exec("show nsh entry")
	require.NoError(e)
	assert.Equal("No nsh entries configured.\n", output)

	_, e = p.Exec("create nsh entry nsp 1 nsi 2 md-type 1 version 1 o-bit 1 c1 1 c2 2 c3 3 c4 4 next-ethernet")
	require.NoError(e)

	list := p.Entries(nsh.IndexAll)
	require.Len(list, 1)
	ent := list[0].Entry
	assert.EqualValues(258, ent.NspNsi)
	assert.Equal(nsh.MakeVerOC(1, true, false), ent.VerOC)
	assert.EqualValues(nsh.MdType1Length, ent.Length)
	assert.Equal(nsh.NextEthernet, ent.NextProtocol)
	assert.EqualValues(4, ent.C4)

	output, e = p.Exec("show nsh entry")
	require.NoError(e)
	assert.Equal(ent.String(), output)

	_, e = p.Exec("create nsh entry nsp 1 nsi 2 md-type 1")
	assert.EqualError(e, "nsh_add_del_entry returned -73")

	_, e = p.Exec("create nsh entry nsp 1 nsi 2 md-type 1 del")
	require.NoError(e)
	assert.Len(p.Entries(nsh.IndexAll), 0)

	for _, tt := range []struct {
		line string
		err  string
	}{
		{"create nsh entry nsi 2 md-type 1", "nsp not specified"},
		{"create nsh entry nsp 1 md-type 1", "nsi not specified"},
		{"create nsh entry nsp 1 nsi 2", "md-type 1 only supported at this time"},
		{"create nsh entry nsp 1 nsi 2 md-type 2", "md-type 1 only supported at this time"},
		{"create nsh entry nsp 1 nsi 256 md-type 1", "parse error: 'nsi 256'"},
		{"create nsh entry nsp 1 nsi 2 md-type 1 tlv 00", "parse error: 'tlv 00'"},
		{"create nsh entry nsp", "parse error: 'nsp' needs a value"},
		{"delete nsh entry", "unknown input `delete nsh entry'"},
	} {
		_, e = p.Exec(tt.line)
		assert.EqualError(e, tt.err, tt.line)
	}
}

func TestCliMap(t *testing.T) {
	assert, require := makeAR(t)
	p := nshplugin.New()

	output, e := p.Exec("show nsh map")
	require.NoError(e)
	assert.Equal("No nsh maps configured.\n", output)

	_, e = p.Exec("create nsh map nsp 185 nsi 255 mapped-nsp 185 mapped-nsi 254 nsh_action swap encap-gre-intf 3")
	require.NoError(e)
	_, e = p.Exec(`create nsh map nsp 186 nsi 1 mapped-nsp 186 mapped-nsi 1 nsh_action "pop" encap-vxlan6-intf 4`)
	require.NoError(e)

	list := p.Maps(nsh.IndexAll)
	require.Len(list, 2)
	assert.Equal(nsh.Map{
		NspNsi:       nsh.MakeNspNsi(185, 255),
		MappedNspNsi: nsh.MakeNspNsi(185, 254),
		Action:       nsh.ActionSwap,
		SwIfIndex:    3,
		NextNode:     nsh.NextEncapGRE,
	}, list[0].Map)
	assert.Equal(nsh.NextEncapVxlan6, list[1].NextNode)

	output, e = p.Exec("show nsh map")
	require.NoError(e)
	assert.Equal(list[0].Map.String()+"\n"+list[1].Map.String()+"\n", output)

	output, e = p.Exec("show nsh proxy-session")
	require.NoError(e)
	assert.Equal("nsh-proxy encap-vxlan6 intf: 4 pushes nsp: 186 nsi: 0\n", output)

	for _, tt := range []struct {
		line string
		err  string
	}{
		{"create nsh map nsp 185 nsi 255 mapped-nsp 1 mapped-nsi 1 nsh_action push encap-none", "mapping already exists. Remove it first."},
		{"create nsh map nsp 187 nsi 1 mapped-nsp 1 mapped-nsi 1 nsh_action push encap-vxlan6-intf 4", "nsh-proxy-session already exists. Remove it first."},
		{"create nsh map del nsp 188 nsi 1 mapped-nsp 1 mapped-nsi 1 nsh_action push encap-none", "mapping does not exist."},
		{"create nsh map nsp 189 nsi 0 mapped-nsp 1 mapped-nsi 1 nsh_action push encap-vxlan4-intf 5", "nsh_add_del_proxy_session() returned -73"},
		{"create nsh map nsi 1 mapped-nsp 1 mapped-nsi 1 nsh_action push encap-none", "nsp nsi pair required. Key: for NSH entry"},
		{"create nsh map nsp 1 nsi 1 mapped-nsi 1 nsh_action push encap-none", "mapped-nsp mapped-nsi pair required. Key: for NSH entry"},
		{"create nsh map nsp 1 nsi 1 mapped-nsp 1 mapped-nsi 1 encap-none", "nsh_action required: swap|push|pop."},
		{"create nsh map nsp 1 nsi 1 mapped-nsp 1 mapped-nsi 1 nsh_action push", "must specific action: [encap-gre-intf <nn> | encap-vxlan-gpe-intf <nn> | encap-none]"},
		{"create nsh map nsp 1 nsi 1 mapped-nsp 1 mapped-nsi 1 nsh_action rotate encap-none", "parse error: 'nsh_action rotate'"},
		{`create nsh map nsp "1`, "parse error: Unterminated double-quoted string"},
	} {
		_, e = p.Exec(tt.line)
		assert.EqualError(e, tt.err, tt.line)
	}
	assert.Len(p.Maps(nsh.IndexAll), 2)

	_, e = p.Exec("create nsh map del nsp 186 nsi 1 mapped-nsp 186 mapped-nsi 1 nsh_action pop encap-vxlan6-intf 4")
	require.NoError(e)
	assert.Len(p.ProxySessions(), 0)

	output, e = p.Exec("show nsh proxy-session")
	require.NoError(e)
	assert.Equal("No nsh proxy sessions configured.\n", output)

	_, e = p.Exec("create nsh map nsp 190 nsi 3 mapped-nsp 190 mapped-nsi 3 nsh_action 7 encap-vxlan-gpe-intf 9")
	require.NoError(e)
	list = p.Maps(1)
	require.Len(list, 1)
	assert.EqualValues(7, list[0].Action)
	assert.Equal(nsh.NextEncapVxlanGpe, list[0].NextNode)
}
