package sockettransport

import (
	"bufio"
	"errors"
	"net"

	"github.com/usnistgov/nshsfc/nsh/apiwire"
)

type impl interface {
	// Redial the socket.
	Redial(oldConn net.Conn) (net.Conn, error)

	// Receive messages on the socket and pass them to tr.rx.
	// Returns upon socket error.
	RxLoop(tr *transport) error
}

var implByNetwork = map[string]impl{}

type streamImpl struct{}

func (streamImpl) RxLoop(tr *transport) error {
	r := bufio.NewReaderSize(tr.Conn(), tr.cfg.RxBufferLength)
	for {
		msg, e := apiwire.ReadFrame(r, tr.cfg.MaxMessageLength)
		if e != nil {
			return e
		}
		tr.nRxFrames.Add(1)
		tr.rx <- msg
	}
}

// remoteAddrRedialer redials with only remote addr.
type remoteAddrRedialer struct{}

func (remoteAddrRedialer) Redial(oldConn net.Conn) (net.Conn, error) {
	remote := oldConn.RemoteAddr()
	oldConn.Close()
	return net.Dial(remote.Network(), remote.String())
}

var errNoRedial = errors.New("socket cannot be redialed")

// noRedialer refuses to redial.
type noRedialer struct{}

func (noRedialer) Redial(oldConn net.Conn) (net.Conn, error) {
	return nil, errNoRedial
}

type socketImpl struct {
	streamImpl
	remoteAddrRedialer
}

type pipeImpl struct {
	streamImpl
	noRedialer
}

func init() {
	var socket socketImpl
	implByNetwork["tcp"] = socket
	implByNetwork["tcp4"] = socket
	implByNetwork["tcp6"] = socket
	implByNetwork["unix"] = socket
	implByNetwork["pipe"] = pipeImpl{}
}
