package sockettransport

import (
	"context"
	"fmt"
	"net"
	"strings"
)

// ParseAddress parses a socket address string.
//
// Accepted formats:
//   - unix:/path/to/socket
//   - tcp:host:port
//   - /path/to/socket (Unix socket)
func ParseAddress(addr string) (network, address string, e error) {
	switch {
	case addr == "":
		return "", "", fmt.Errorf("empty socket address")
	case strings.HasPrefix(addr, "/"):
		return "unix", addr, nil
	}

	network, address, ok := strings.Cut(addr, ":")
	if !ok || address == "" {
		return "", "", fmt.Errorf("bad socket address %q", addr)
	}
	if _, ok := implByNetwork[network]; !ok || network == "pipe" {
		return "", "", fmt.Errorf("unknown network %s", network)
	}
	return network, address, nil
}

// Dial opens a socket transport using a default Dialer.
func Dial(network, address string) (Transport, error) {
	return Dialer{}.Dial(network, address)
}

// Dialer contains settings for Dial.
type Dialer struct {
	Config
}

// Dial opens a socket transport, according to the configuration in the Dialer.
func (dialer Dialer) Dial(network, address string) (Transport, error) {
	return dialer.DialContext(context.Background(), network, address)
}

// DialContext opens a socket transport with a context that bounds the initial connection.
func (dialer Dialer) DialContext(ctx context.Context, network, address string) (Transport, error) {
	if _, ok := implByNetwork[network]; !ok {
		return nil, fmt.Errorf("unknown network %s", network)
	}

	var d net.Dialer
	conn, e := d.DialContext(ctx, network, address)
	if e != nil {
		return nil, e
	}
	return New(conn, dialer.Config)
}
