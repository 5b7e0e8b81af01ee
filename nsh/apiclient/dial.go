package apiclient

import (
	"context"
	"fmt"

	"github.com/usnistgov/nshsfc/nsh/sockettransport"
	"go.fd.io/govpp/adapter/socketclient"
)

// DialConfig contains Dial settings.
type DialConfig struct {
	Config

	// Transport configures the socket transport.
	Transport sockettransport.Config `json:"transport,omitempty"`

	// GoVPP selects GoVPP socketclient instead of the socket transport.
	// It supports Unix sockets only, and does not redial.
	GoVPP bool `json:"govpp,omitempty"`
}

// Dial connects to an engine listening at a socket address.
// addr is "unix:/path", "tcp:host:port", or a Unix socket path.
func Dial(ctx context.Context, addr string, cfg DialConfig) (*Conn, error) {
	network, address, e := sockettransport.ParseAddress(addr)
	if e != nil {
		return nil, e
	}

	if cfg.GoVPP {
		if network != "unix" {
			return nil, fmt.Errorf("GoVPP socketclient cannot dial %s", network)
		}
		return ConnectAdapter(ctx, socketclient.NewVppClient(address), cfg.Config)
	}

	tr, e := sockettransport.Dialer{Config: cfg.Transport}.DialContext(ctx, network, address)
	if e != nil {
		return nil, e
	}
	return Connect(ctx, tr, cfg.Config)
}
