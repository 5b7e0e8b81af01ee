package gqlclient_test

import (
	"net/http/httptest"
	"os"
	"testing"

	"github.com/usnistgov/nshsfc/core/gqlserver"
	"github.com/usnistgov/nshsfc/core/testenv"
)

var (
	makeAR = testenv.MakeAR

	serverURI string
)

func TestMain(m *testing.M) {
	h, e := gqlserver.Handler()
	if e != nil {
		panic(e)
	}

	server := httptest.NewServer(h)
	serverURI = server.URL
	code := m.Run()
	server.Close()
	os.Exit(code)
}
