package apiclient_test

import (
	"context"
	"testing"
	"time"

	"github.com/usnistgov/nshsfc/core/testenv"
	"github.com/usnistgov/nshsfc/nsh/apiclient"
	"github.com/usnistgov/nshsfc/nsh/nshplugin"
	"github.com/usnistgov/nshsfc/nsh/sockettransport"
)

var makeAR = testenv.MakeAR

// startEngine connects a client to an in-process engine.
func startEngine(t testing.TB) (*nshplugin.Server, *apiclient.Conn) {
	_, require := makeAR(t)

	s := nshplugin.NewServer(nshplugin.New(), nshplugin.ServerConfig{})
	trA, trB, e := sockettransport.Pipe(sockettransport.Config{})
	require.NoError(e)
	s.ServeTransport(trB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, e := apiclient.Connect(ctx, trA, apiclient.Config{ClientName: t.Name()})
	require.NoError(e)

	t.Cleanup(func() {
		c.Close()
		s.Close()
	})
	return s, c
}
