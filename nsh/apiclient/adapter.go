package apiclient

import (
	"context"
	"sync"

	"github.com/usnistgov/nshsfc/nsh/apiwire"
	"go.fd.io/govpp/adapter"
	"go.uber.org/zap"
)

// msgIDResolver is implemented by transports that register the client themselves.
// Conn skips its own handshake and resolves message IDs through GetMsgID.
type msgIDResolver interface {
	GetMsgID(msgName, msgCrc string) (uint16, error)
}

// adapterTransport carries messages over a GoVPP adapter such as socketclient.
// The adapter owns the socket, the framing, and client registration.
type adapterTransport struct {
	a  adapter.VppAPI
	rx chan []byte
	tx chan []byte

	mu     sync.Mutex
	closed bool
}

func newAdapterTransport(a adapter.VppAPI) (*adapterTransport, error) {
	at := &adapterTransport{
		a:  a,
		rx: make(chan []byte, 64),
		tx: make(chan []byte, 64),
	}
	a.SetMsgCallback(at.receive)
	if e := a.Connect(); e != nil {
		return nil, e
	}
	go at.txLoop()
	return at, nil
}

func (at *adapterTransport) Rx() <-chan []byte {
	return at.rx
}

func (at *adapterTransport) Tx() chan<- []byte {
	return at.tx
}

func (at *adapterTransport) GetMsgID(msgName, msgCrc string) (uint16, error) {
	return at.a.GetMsgID(msgName, msgCrc)
}

func (at *adapterTransport) receive(msgID uint16, data []byte) {
	wire := append([]byte(nil), data...)
	at.mu.Lock()
	defer at.mu.Unlock()
	if !at.closed {
		at.rx <- wire
	}
}

func (at *adapterTransport) txLoop() {
	for wire := range at.tx {
		context, e := apiwire.PeekRequestContext(wire)
		if e == nil {
			e = at.a.SendMsg(context, wire)
		}
		if e != nil {
			logger.Warn("adapter SendMsg error", zap.Error(e))
		}
	}

	if e := at.a.Disconnect(); e != nil {
		logger.Warn("adapter Disconnect error", zap.Error(e))
	}
	at.mu.Lock()
	at.closed = true
	close(at.rx)
	at.mu.Unlock()
}

// ConnectAdapter connects to the engine through a GoVPP adapter, such as socketclient.
//
// The adapter performs client registration and deregistration.
// The Conn owns the adapter afterwards: it is disconnected when the Conn is closed.
func ConnectAdapter(ctx context.Context, a adapter.VppAPI, cfg Config) (*Conn, error) {
	tr, e := newAdapterTransport(a)
	if e != nil {
		return nil, e
	}
	return Connect(ctx, tr, cfg)
}
