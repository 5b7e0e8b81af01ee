// Package apiclient implements a binary API client for the NSH plugin.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/usnistgov/nshsfc/core/emission"
	"github.com/usnistgov/nshsfc/core/logging"
	"github.com/usnistgov/nshsfc/nsh/apiwire"
	"github.com/usnistgov/nshsfc/nsh/binapi"
	api "go.fd.io/govpp/api"
	"go.fd.io/govpp/binapi/memclnt"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var logger = logging.New("apiclient")

// Transport represents a message channel to the engine.
// sockettransport.Transport satisfies this interface.
type Transport interface {
	// Rx returns a channel to receive incoming messages.
	// This channel is closed when the transport is closed.
	Rx() <-chan []byte

	// Tx returns a channel to send outgoing messages.
	// Closing this channel causes the transport to close.
	Tx() chan<- []byte
}

// stateNotifier is implemented by transports that can recover from socket errors.
type stateNotifier interface {
	OnStateChange(cb func(isDown bool)) io.Closer
}

// Config contains Conn configuration.
type Config struct {
	// ClientName is the client name sent in handshake.
	// The default is "nshsfc".
	ClientName string `json:"clientName,omitempty"`

	// CloseTimeout is the maximum wait for sockclnt_delete_reply during Close.
	// The default is 1s.
	CloseTimeout time.Duration `json:"closeTimeout,omitempty"`
}

func (cfg *Config) applyDefaults() {
	if cfg.ClientName == "" {
		cfg.ClientName = "nshsfc"
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = time.Second
	}
}

// Counters contains Conn counters.
type Counters struct {
	// NUncorrelated is the number of dropped messages whose context matches no pending call.
	NUncorrelated uint64 `json:"nUncorrelated"`

	// NUnknown is the number of dropped messages that cannot be decoded.
	NUnknown uint64 `json:"nUnknown"`

	// NPending is the current number of pending calls.
	NPending int `json:"nPending"`
}

func (cnt Counters) String() string {
	return fmt.Sprintf("%d pending, %d uncorrelated, %d unknown", cnt.NPending, cnt.NUncorrelated, cnt.NUnknown)
}

// Conn is a connection to the engine.
//
// Every request is assigned a nonzero correlation id, which is echoed in its replies.
// A reply is delivered only to the call that has the same correlation id.
// Handlers are invoked on a single goroutine, in the order that replies arrive.
type Conn struct {
	cfg         Config
	tr          Transport
	table       atomic.Pointer[apiwire.MessageTable]
	clientIndex atomic.Uint32
	catalog     map[string]api.Message
	ready       chan error
	stateCh     chan bool
	stateSub    io.Closer
	rxDone      chan struct{}
	emitter     *emission.Emitter

	txMu    sync.RWMutex
	closing bool

	mu          sync.Mutex
	pending     map[uint32]pendingCall
	lastContext uint32
	down        bool
	rxErr       error

	nUncorrelated atomic.Uint64
	nUnknown      atomic.Uint64

	external  bool
	closeOnce sync.Once
	closeErr  error
}

// Connect performs handshake on a transport and returns a Conn.
//
// The Conn owns the transport afterwards: it is closed when the Conn is closed or the handshake fails.
func Connect(ctx context.Context, tr Transport, cfg Config) (c *Conn, e error) {
	cfg.applyDefaults()
	c = &Conn{
		cfg:     cfg,
		tr:      tr,
		catalog: map[string]api.Message{},
		ready:   make(chan error, 1),
		stateCh: make(chan bool, 8),
		rxDone:  make(chan struct{}),
		emitter: emission.NewEmitter(),
		pending: map[uint32]pendingCall{},
		down:    true,
	}
	for _, msg := range binapi.AllMessages() {
		c.catalog[apiwire.NameCRC(msg)] = msg
	}

	go c.rxLoop()
	if sn, ok := tr.(stateNotifier); ok {
		c.stateSub = sn.OnStateChange(func(isDown bool) { c.stateCh <- isDown })
	}

	if res, ok := tr.(msgIDResolver); ok {
		c.adoptMessageTable(res)
	} else if e = c.sendHandshake(); e == nil {
		select {
		case e = <-c.ready:
		case <-ctx.Done():
			e = ctx.Err()
		case <-c.rxDone:
			e = ErrClosed
		}
	}
	if e != nil {
		c.Close()
		return nil, fmt.Errorf("handshake: %w", e)
	}

	logger.Info("connected",
		zap.String("client", cfg.ClientName),
		zap.Uint32("client-index", c.clientIndex.Load()),
		zap.Int("messages", c.table.Load().Len()),
	)
	return c, nil
}

// ClientIndex returns the client index assigned by the engine.
func (c *Conn) ClientIndex() uint32 {
	return c.clientIndex.Load()
}

// Supports determines whether the engine supports a message.
func (c *Conn) Supports(msg api.Message) bool {
	tbl := c.table.Load()
	if tbl == nil {
		return false
	}
	_, e := tbl.LookupID(msg)
	return e == nil
}

// IsDown returns whether the transport is down.
func (c *Conn) IsDown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.down
}

// OnStateChange registers a callback to be invoked when the connection goes up or down.
// The connection goes up after handshake completes on a redialed transport.
func (c *Conn) OnStateChange(cb func(isDown bool)) io.Closer {
	return c.emitter.On(eventStateChange, cb)
}

// Counters returns current counters.
func (c *Conn) Counters() (cnt Counters) {
	c.mu.Lock()
	cnt.NPending = len(c.pending)
	c.mu.Unlock()
	cnt.NUncorrelated = c.nUncorrelated.Load()
	cnt.NUnknown = c.nUnknown.Load()
	return cnt
}

// SendRequest sends a request and registers a handler for its reply.
// Returns the correlation id.
func (c *Conn) SendRequest(req api.Message, handler ReplyHandler) (context uint32, e error) {
	call := &requestCall{
		call:    req.GetMessageName(),
		reply:   ReplyName(req.GetMessageName()),
		handler: handler,
	}
	return c.send(call, req)
}

// SendDump sends a dump request followed by control_ping, and registers handlers for the details
// and the completion. Returns the correlation id.
func (c *Conn) SendDump(req api.Message, onDetails DetailsHandler, onDone DoneHandler) (context uint32, e error) {
	call := &dumpCall{
		call:      req.GetMessageName(),
		details:   DetailsName(req.GetMessageName()),
		onDetails: onDetails,
		onDone:    onDone,
	}
	return c.send(call, req, &memclnt.ControlPing{})
}

func (c *Conn) send(call pendingCall, msgs ...api.Message) (context uint32, e error) {
	if context, e = c.register(call); e != nil {
		return 0, &CallError{Call: msgs[0].GetMessageName(), Err: e}
	}

	tbl, clientIndex := c.table.Load(), c.clientIndex.Load()
	wires := make([][]byte, len(msgs))
	for i, msg := range msgs {
		if wires[i], e = tbl.Encode(msg, clientIndex, context); e != nil {
			break
		}
	}
	if e == nil {
		e = c.transmit(wires...)
	}

	if e != nil {
		if !c.unregister(context) {
			// call has been failed by RX goroutine, which invoked its handler
			return context, nil
		}
		if errors.Is(e, apiwire.ErrUnknownMessage) {
			e = fmt.Errorf("%w: %v", ErrUnknownMessage, e)
		}
		return 0, &CallError{Call: msgs[0].GetMessageName(), Context: context, Err: e}
	}
	return context, nil
}

func (c *Conn) register(call pendingCall) (context uint32, e error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.rxErr != nil:
		return 0, c.rxErr
	case c.down:
		return 0, ErrDisconnected
	}

	for {
		c.lastContext++
		if _, used := c.pending[c.lastContext]; c.lastContext != 0 && !used {
			break
		}
	}
	c.pending[c.lastContext] = call
	return c.lastContext, nil
}

func (c *Conn) unregister(context uint32) (ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok = c.pending[context]
	delete(c.pending, context)
	return ok
}

func (c *Conn) transmit(wires ...[]byte) error {
	c.txMu.RLock()
	defer c.txMu.RUnlock()
	if c.closing {
		return ErrClosed
	}
	for _, wire := range wires {
		c.tr.Tx() <- wire
	}
	return nil
}

func (c *Conn) sendHandshake() error {
	wire, e := apiwire.Encode(&memclnt.SockclntCreate{Name: c.cfg.ClientName},
		apiwire.Header{MsgID: binapi.SockclntCreateID})
	if e != nil {
		return e
	}
	return c.transmit(wire)
}

func (c *Conn) rxLoop() {
	defer close(c.rxDone)
	for {
		select {
		case wire, ok := <-c.tr.Rx():
			if !ok {
				c.failAll(ErrClosed, true)
				return
			}
			c.receive(wire)
		case isDown := <-c.stateCh:
			c.handleTransportState(isDown)
		}
	}
}

func (c *Conn) receive(wire []byte) {
	id, e := apiwire.PeekMsgID(wire)
	if e != nil {
		c.nUnknown.Add(1)
		return
	}
	if id == binapi.SockclntCreateReplyID {
		c.handleHandshake(wire)
		return
	}

	tbl := c.table.Load()
	if tbl == nil {
		c.nUnknown.Add(1)
		logger.Warn("message before handshake", zap.Uint16("msg-id", id))
		return
	}
	msg, h, e := tbl.Decode(wire)
	if e != nil {
		c.nUnknown.Add(1)
		logger.Warn("cannot decode message", zap.Uint16("msg-id", id), zap.Error(e))
		return
	}

	c.mu.Lock()
	call := c.pending[h.Context]
	c.mu.Unlock()
	if call == nil {
		c.nUncorrelated.Add(1)
		logger.Warn("uncorrelated message dropped",
			zap.String("msg", msg.GetMessageName()),
			zap.Uint32("context", h.Context),
		)
		return
	}

	if call.handle(h.Context, msg) {
		c.unregister(h.Context)
	}
}

func (c *Conn) handleHandshake(wire []byte) {
	var reply memclnt.SockclntCreateReply
	if _, e := apiwire.Decode(wire, &reply); e != nil {
		c.signalReady(e)
		return
	}
	if reply.Response != 0 {
		c.signalReady(fmt.Errorf("sockclnt_create: %w", api.RetvalToVPPApiError(reply.Response)))
		return
	}

	tbl := apiwire.NewMessageTable()
	tbl.Add(binapi.SockclntCreateID, (*memclnt.SockclntCreate)(nil))
	tbl.Add(binapi.SockclntCreateReplyID, (*memclnt.SockclntCreateReply)(nil))
	for _, ent := range reply.MessageTable {
		if msg, ok := c.catalog[ent.Name]; ok {
			tbl.Add(ent.Index, msg)
		}
	}
	c.table.Store(tbl)
	c.clientIndex.Store(reply.Index)

	c.mu.Lock()
	wasDown := c.down
	c.down = false
	c.mu.Unlock()

	c.signalReady(nil)
	if wasDown {
		c.emitter.EmitSync(eventStateChange, false)
	}
}

// adoptMessageTable builds the message table from a transport that has registered the client.
func (c *Conn) adoptMessageTable(res msgIDResolver) {
	tbl := apiwire.NewMessageTable()
	for _, msg := range c.catalog {
		if id, e := res.GetMsgID(msg.GetMessageName(), msg.GetCrcString()); e == nil {
			tbl.Add(id, msg)
		}
	}
	c.table.Store(tbl)
	c.external = true

	c.mu.Lock()
	c.down = false
	c.mu.Unlock()
}

func (c *Conn) signalReady(e error) {
	select {
	case c.ready <- e:
	default:
	}
}

func (c *Conn) handleTransportState(isDown bool) {
	if !isDown {
		if e := c.sendHandshake(); e != nil {
			logger.Warn("handshake after redial failed", zap.Error(e))
		}
		return
	}

	c.mu.Lock()
	wasDown := c.down
	c.down = true
	c.mu.Unlock()
	c.failAll(ErrDisconnected, false)
	if !wasDown {
		c.emitter.EmitSync(eventStateChange, true)
	}
}

// failAll terminates all pending calls.
// If final is true, subsequent calls are rejected with the same error.
func (c *Conn) failAll(e error, final bool) {
	c.mu.Lock()
	pending := c.pending
	c.pending = map[uint32]pendingCall{}
	if final {
		c.rxErr = e
		c.down = true
	}
	c.mu.Unlock()

	for context, call := range pending {
		call.fail(context, e)
	}
}

// Close disconnects from the engine and closes the transport.
// Pending calls fail with ErrClosed.
// It must not be invoked from a handler.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() { c.closeErr = c.close() })
	return c.closeErr
}

func (c *Conn) close() (e error) {
	if c.stateSub != nil {
		e = multierr.Append(e, c.stateSub.Close())
	}

	if !c.IsDown() && !c.external {
		done := make(chan error, 1)
		_, eSend := c.SendRequest(&memclnt.SockclntDelete{Index: c.clientIndex.Load()},
			func(context uint32, reply api.Message, e error) { done <- e })
		if eSend == nil {
			select {
			case eSend = <-done:
			case <-time.After(c.cfg.CloseTimeout):
				eSend = fmt.Errorf("sockclnt_delete: %w", context.DeadlineExceeded)
			}
		}
		e = multierr.Append(e, eSend)
	}

	c.txMu.Lock()
	c.closing = true
	close(c.tr.Tx())
	c.txMu.Unlock()

	<-c.rxDone
	return e
}

const (
	eventStateChange = "StateChange"
)
