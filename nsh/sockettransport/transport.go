// Package sockettransport implements a binary API transport based on stream sockets.
package sockettransport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/math"
	"github.com/usnistgov/nshsfc/core/emission"
	"github.com/usnistgov/nshsfc/core/logging"
	"github.com/usnistgov/nshsfc/nsh/apiwire"
	"go.uber.org/zap"
)

var logger = logging.New("sockettransport")

// Queue size defaults.
const (
	DefaultRxQueueSize = 64
	DefaultTxQueueSize = 64
)

// Config contains socket transport configuration.
type Config struct {
	// RxQueueSize is the Go channel buffer size of RX channel.
	// The default is DefaultRxQueueSize.
	RxQueueSize int `json:"rxQueueSize,omitempty"`

	// TxQueueSize is the Go channel buffer size of TX channel.
	// The default is DefaultTxQueueSize.
	TxQueueSize int `json:"txQueueSize,omitempty"`

	// RxBufferLength is the socket read buffer length.
	// The default is 16384.
	RxBufferLength int `json:"rxBufferLength,omitempty"`

	// MaxMessageLength is the maximum length of an incoming message.
	// The default is apiwire.DefaultMaxMessageLength.
	MaxMessageLength int `json:"maxMessageLength,omitempty"`

	// RedialBackoffInitial is the initial backoff period during redialing.
	// The default is 100ms.
	RedialBackoffInitial time.Duration `json:"redialBackoffInitial,omitempty"`

	// RedialBackoffMaximum is the maximum backoff period during redialing.
	// The default is 60s.
	// The minimum is RedialBackoffInitial.
	RedialBackoffMaximum time.Duration `json:"redialBackoffMaximum,omitempty"`

	// DisableRedial disables redialing.
	// If true, the transport closes its RX channel upon the first socket error.
	// Sockets accepted by a listener should always set this.
	DisableRedial bool `json:"disableRedial,omitempty"`
}

func (cfg *Config) applyDefaults() {
	if cfg.RxQueueSize <= 0 {
		cfg.RxQueueSize = DefaultRxQueueSize
	}
	if cfg.TxQueueSize <= 0 {
		cfg.TxQueueSize = DefaultTxQueueSize
	}
	if cfg.RxBufferLength <= 0 {
		cfg.RxBufferLength = 16384
	}
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = apiwire.DefaultMaxMessageLength
	}
	if cfg.RedialBackoffInitial <= 0 {
		cfg.RedialBackoffInitial = 100 * time.Millisecond
	}
	if cfg.RedialBackoffMaximum <= 0 {
		cfg.RedialBackoffMaximum = 60 * time.Second
	}
	cfg.RedialBackoffMaximum = time.Duration(math.MaxInt64(int64(cfg.RedialBackoffMaximum), int64(cfg.RedialBackoffInitial)))
}

// Counters contains socket transport counters.
type Counters struct {
	// NRedials indicates how many times the socket has been redialed.
	NRedials int `json:"nRedials"`

	// NRxFrames is the number of received messages.
	NRxFrames uint64 `json:"nRxFrames"`

	// NTxFrames is the number of sent messages.
	NTxFrames uint64 `json:"nTxFrames"`

	// NTxErrors is the number of messages that could not be sent.
	NTxErrors uint64 `json:"nTxErrors"`

	// RxQueueLength is the current number of messages in the RX queue.
	RxQueueLength int `json:"rxQueueLength"`

	// TxQueueLength is the current number of messages in the TX queue.
	TxQueueLength int `json:"txQueueLength"`
}

func (cnt Counters) String() string {
	return fmt.Sprintf("%dredials, rx %dframes %dqueued, tx %dframes %derrors %dqueued",
		cnt.NRedials, cnt.NRxFrames, cnt.RxQueueLength, cnt.NTxFrames, cnt.NTxErrors, cnt.TxQueueLength)
}

// Transport sends and receives binary API messages over a socket.
//
// Each item on the RX and TX channels is one message without frame header.
//
// A transport has automatic error handling: if a socket error occurs, the transport automatically
// redials the socket. In case the socket cannot be redialed, the transport remains in "down" status.
//
// A transport closes itself after its TX channel has been closed.
type Transport interface {
	// Rx returns a channel to receive incoming messages.
	// This function always returns the same channel.
	// This channel is closed when the transport is closed or cannot recover from an error.
	Rx() <-chan []byte

	// Tx returns a channel to send outgoing messages.
	// This function always returns the same channel.
	// Closing this channel causes the transport to close.
	Tx() chan<- []byte

	// Conn returns the underlying socket.
	// Caller may gather information from this socket, but should not close or send/receive on it.
	// The socket may be replaced during redialing.
	Conn() net.Conn

	// IsDown returns whether the transport is down (socket is disconnected).
	IsDown() bool

	// OnStateChange registers a callback to be invoked when the transport goes up or down.
	OnStateChange(cb func(isDown bool)) io.Closer

	// Counters returns current counters.
	Counters() Counters
}

type transport struct {
	cfg       Config
	impl      impl
	conn      atomic.Value // net.Conn
	rx        chan []byte
	tx        chan []byte
	nRedials  atomic.Int32
	nRxFrames atomic.Uint64
	nTxFrames atomic.Uint64
	nTxErrors atomic.Uint64
	isDown    atomic.Bool
	closed    atomic.Bool
	closing   chan struct{}
	emitter   *emission.Emitter
}

// New creates a socket transport.
func New(conn net.Conn, cfg Config) (Transport, error) {
	network := conn.LocalAddr().Network()
	impl, ok := implByNetwork[network]
	if !ok {
		return nil, fmt.Errorf("unknown network %s", network)
	}
	cfg.applyDefaults()

	tr := &transport{
		cfg:     cfg,
		impl:    impl,
		rx:      make(chan []byte, cfg.RxQueueSize),
		tx:      make(chan []byte, cfg.TxQueueSize),
		closing: make(chan struct{}),
		emitter: emission.NewEmitter(),
	}

	tr.conn.Store(conn)
	go tr.rxLoop()
	go tr.txLoop()
	return tr, nil
}

func (tr *transport) Rx() <-chan []byte {
	return tr.rx
}

func (tr *transport) Tx() chan<- []byte {
	return tr.tx
}

func (tr *transport) Conn() net.Conn {
	return tr.conn.Load().(net.Conn)
}

func (tr *transport) IsDown() bool {
	return tr.isDown.Load()
}

func (tr *transport) OnStateChange(cb func(isDown bool)) io.Closer {
	return tr.emitter.On(eventStateChange, cb)
}

func (tr *transport) Counters() (cnt Counters) {
	cnt.NRedials = int(tr.nRedials.Load())
	cnt.NRxFrames = tr.nRxFrames.Load()
	cnt.NTxFrames = tr.nTxFrames.Load()
	cnt.NTxErrors = tr.nTxErrors.Load()
	cnt.RxQueueLength = len(tr.rx)
	cnt.TxQueueLength = len(tr.tx)
	return cnt
}

func (tr *transport) rxLoop() {
	defer close(tr.rx)
	for {
		e := tr.impl.RxLoop(tr)
		if tr.closed.Load() {
			return
		}
		logger.Debug("socket error", zap.Error(e))
		if tr.cfg.DisableRedial || !tr.redial() {
			tr.setDown(true)
			return
		}
	}
}

func (tr *transport) txLoop() {
	var buf []byte
	for wire := range tr.tx {
		buf = apiwire.AppendFrame(buf[:0], wire)
		if _, e := tr.Conn().Write(buf); e != nil {
			tr.nTxErrors.Add(1)
			// unblock RX side so that it can redial
			tr.Conn().Close()
			continue
		}
		tr.nTxFrames.Add(1)
	}
	tr.closed.Store(true)
	close(tr.closing)
	tr.Conn().Close()
}

// redial reconnects the socket, returns false if transport has been closed.
func (tr *transport) redial() bool {
	tr.setDown(true)

	backoff := tr.cfg.RedialBackoffInitial
	for {
		select {
		case <-tr.closing:
			return false
		case <-time.After(backoff):
		}
		backoff = time.Duration(math.MinInt64(int64(backoff*2), int64(tr.cfg.RedialBackoffMaximum)))

		conn, e := tr.impl.Redial(tr.Conn())
		if errors.Is(e, errNoRedial) {
			return false
		}
		tr.nRedials.Add(1)
		if e != nil {
			logger.Debug("redial error", zap.Error(e), zap.Duration("backoff", backoff))
			continue
		}

		tr.conn.Store(conn)
		if tr.closed.Load() {
			conn.Close()
			return false
		}
		tr.setDown(false)
		return true
	}
}

func (tr *transport) setDown(isDown bool) {
	if tr.isDown.Swap(isDown) == isDown {
		return
	}
	tr.emitter.EmitSync(eventStateChange, isDown)
}

const (
	eventStateChange = "StateChange"
)
