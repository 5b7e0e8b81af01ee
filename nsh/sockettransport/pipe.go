package sockettransport

import (
	"net"
)

// Pipe creates a pair of transports connected via net.Pipe().
// Redialing is always disabled.
func Pipe(cfg Config) (trA, trB Transport, e error) {
	cfg.DisableRedial = true
	connA, connB := net.Pipe()

	trA, e = New(connA, cfg)
	if e != nil {
		return nil, nil, e
	}

	trB, e = New(connB, cfg)
	if e != nil {
		return nil, nil, e
	}

	return
}
