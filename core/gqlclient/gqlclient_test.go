package gqlclient_test

import (
	"context"
	"testing"

	"github.com/usnistgov/nshsfc/core/gqlclient"
	"github.com/usnistgov/nshsfc/core/version"
	"go4.org/must"
)

func TestClient(t *testing.T) {
	assert, require := makeAR(t)

	c, e := gqlclient.New(gqlclient.Config{HTTPUri: serverURI})
	require.NoError(e)
	defer must.Close(c)

	var reply version.Version
	e = c.Do(context.Background(), `
		query {
			version
		}
	`, nil, "version", &reply)
	require.NoError(e)
	assert.Equal(version.V.Commit, reply.Commit)

	e = c.Do(context.Background(), `{ noSuchField }`, nil, "", &reply)
	assert.Error(e)

	_, e = gqlclient.New(gqlclient.Config{HTTPUri: "unix:///run/x.sock"})
	assert.Error(e)
}

func TestMakeListenAddress(t *testing.T) {
	assert, _ := makeAR(t)

	for _, tt := range []struct {
		uri    string
		listen string
		bad    bool
	}{
		{"http://127.0.0.1:3030/", "127.0.0.1:3030", false},
		{"http://[::1]/", "[::1]:80", false},
		{"https://localhost/", "localhost:443", false},
		{"ftp://localhost/", "", true},
	} {
		listen, e := gqlclient.MakeListenAddress(tt.uri)
		if tt.bad {
			assert.Error(e, tt.uri)
		} else if assert.NoError(e, tt.uri) {
			assert.Equal(tt.listen, listen, tt.uri)
		}
	}
}
