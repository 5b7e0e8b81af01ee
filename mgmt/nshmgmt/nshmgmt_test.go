package nshmgmt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/usnistgov/nshsfc/core/testenv"
	"github.com/usnistgov/nshsfc/mgmt/nshmgmt"
	"github.com/usnistgov/nshsfc/nsh"
	"github.com/usnistgov/nshsfc/nsh/apiclient"
	"github.com/usnistgov/nshsfc/nsh/nshplugin"
	"github.com/usnistgov/nshsfc/nsh/sockettransport"
	api "go.fd.io/govpp/api"
)

var makeAR = testenv.MakeAR

func newMgmt(t testing.TB, p *nshplugin.Plugin) nshmgmt.NshMgmt {
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
	return nshmgmt.NshMgmt{API: apiclient.NewFutureAPI(c)}
}

func TestMaps(t *testing.T) {
	assert, require := makeAR(t)
	p := nshplugin.New()
	mg := newMgmt(t, p)

	m := nsh.Map{
		NspNsi:       nsh.MakeNspNsi(185, 255),
		MappedNspNsi: nsh.MakeNspNsi(183, 254),
		Action:       nsh.ActionSwap,
		SwIfIndex:    4,
		NextNode:     nsh.NextEncapVxlan4,
	}
	var created nshmgmt.IndexReply
	require.NoError(mg.CreateMap(m, &created))
	assert.Len(p.ProxySessions(), 1)

	var maps []nshmgmt.MapInfo
	require.NoError(mg.ListMaps(nshmgmt.IndexArg{Index: &created.Index}, &maps))
	require.Len(maps, 1)
	assert.Equal(m, maps[0].Map)

	missing := created.Index + 1
	require.NoError(mg.ListMaps(nshmgmt.IndexArg{Index: &missing}, &maps))
	assert.Len(maps, 0)

	var deleted nshmgmt.IndexReply
	require.NoError(mg.DeleteMap(m, &deleted))
	assert.Len(p.ProxySessions(), 0)

	e := mg.DeleteMap(m, &deleted)
	var callErr *apiclient.CallError
	require.ErrorAs(e, &callErr)
	assert.Equal("nsh_add_del_map", callErr.Call)
	var vppErr api.VPPApiError
	require.True(errors.As(e, &vppErr))
	assert.Equal(api.NO_SUCH_ENTRY, vppErr)
}

func TestExec(t *testing.T) {
	assert, require := makeAR(t)
	p := nshplugin.New()
	mg := newMgmt(t, p)

	var reply nshmgmt.ExecReply
	require.NoError(mg.Exec(nshmgmt.ExecArg{Line: "create nsh entry nsp 185 nsi 255 md-type 1 c1 1 next-ethernet"}, &reply))
	assert.Len(p.Entries(nsh.IndexAll), 1)

	require.NoError(mg.Exec(nshmgmt.ExecArg{Line: "show nsh map"}, &reply))
	assert.Contains(reply.Output, "No nsh maps configured.")
}
