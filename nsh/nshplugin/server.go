package nshplugin

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"github.com/usnistgov/nshsfc/nsh/apiwire"
	"github.com/usnistgov/nshsfc/nsh/binapi"
	"github.com/usnistgov/nshsfc/nsh/sockettransport"
	"go.fd.io/govpp/binapi/memclnt"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Transport represents a message channel to one client.
// sockettransport.Transport satisfies this interface.
type Transport interface {
	Rx() <-chan []byte
	Tx() chan<- []byte
}

// ServerConfig contains Server configuration.
type ServerConfig struct {
	// Transport configures socket transports of accepted connections.
	// Redialing is always disabled.
	Transport sockettransport.Config `json:"transport,omitempty"`
}

// Server serves the binary API of a Plugin.
type Server struct {
	cfg     ServerConfig
	plugin  *Plugin
	table   *apiwire.MessageTable
	closing atomic.Bool
	wg      sync.WaitGroup

	mu        sync.Mutex
	listeners []net.Listener
	sessions  map[uint32]*session
	lastIndex uint32
}

// NewServer creates a Server.
func NewServer(plugin *Plugin, cfg ServerConfig) *Server {
	cfg.Transport.DisableRedial = true
	s := &Server{
		cfg:      cfg,
		plugin:   plugin,
		table:    apiwire.NewMessageTable(),
		sessions: map[uint32]*session{},
	}

	s.table.Add(binapi.SockclntCreateID, (*memclnt.SockclntCreate)(nil))
	s.table.Add(binapi.SockclntCreateReplyID, (*memclnt.SockclntCreateReply)(nil))
	for i, msg := range binapi.CoreMessages() {
		s.table.Add(binapi.CoreMsgIDBase+uint16(i), msg)
	}
	for i, msg := range binapi.PluginMessages() {
		s.table.Add(binapi.PluginMsgIDBase+uint16(i), msg)
	}
	return s
}

// Plugin returns the served Plugin.
func (s *Server) Plugin() *Plugin {
	return s.plugin
}

// MessageTable returns the message table advertised to clients.
func (s *Server) MessageTable() *apiwire.MessageTable {
	return s.table
}

// NSessions returns the number of connected clients.
func (s *Server) NSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Listen creates a listener and serves it in the background.
// An existing Unix socket file is replaced.
func (s *Server) Listen(network, address string) (net.Addr, error) {
	if network == "unix" {
		if e := os.Remove(address); e != nil && !errors.Is(e, os.ErrNotExist) {
			return nil, fmt.Errorf("os.Remove(%s): %w", address, e)
		}
	}

	listener, e := net.Listen(network, address)
	if e != nil {
		return nil, e
	}
	if e = s.Serve(listener); e != nil {
		listener.Close()
		return nil, e
	}
	return listener.Addr(), nil
}

// Serve accepts connections on a listener in the background.
// The listener is closed when the Server is closed.
func (s *Server) Serve(listener net.Listener) error {
	if s.closing.Load() {
		return errServerClosed
	}

	s.mu.Lock()
	s.listeners = append(s.listeners, listener)
	s.mu.Unlock()

	s.wg.Add(1)
	go s.acceptLoop(listener)
	logger.Info("listening", zap.Stringer("addr", listener.Addr()))
	return nil
}

func (s *Server) acceptLoop(listener net.Listener) {
	defer s.wg.Done()
	for {
		conn, e := listener.Accept()
		if e != nil {
			if !s.closing.Load() {
				logger.Error("accept error", zap.Error(e))
			}
			return
		}

		tr, e := sockettransport.New(conn, s.cfg.Transport)
		if e != nil {
			logger.Warn("sockettransport.New error", zap.Error(e))
			conn.Close()
			continue
		}
		s.ServeTransport(tr)
	}
}

// ServeTransport serves one client over a transport in the background.
// The Server owns the transport afterwards.
func (s *Server) ServeTransport(tr Transport) {
	s.mu.Lock()
	s.lastIndex++
	sess := &session{
		s:     s,
		tr:    tr,
		index: s.lastIndex,
	}
	sess.logger = logger.With(zap.Uint32("client-index", sess.index))
	s.sessions[sess.index] = sess
	s.mu.Unlock()

	if s.closing.Load() {
		sess.close()
	}

	stats.SessionOpened()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sess.run()

		s.mu.Lock()
		delete(s.sessions, sess.index)
		s.mu.Unlock()
		stats.SessionClosed()
	}()
}

// Close stops listening, disconnects all clients, and waits for sessions to end.
func (s *Server) Close() (e error) {
	if s.closing.Swap(true) {
		return nil
	}

	s.mu.Lock()
	for _, listener := range s.listeners {
		e = multierr.Append(e, listener.Close())
	}
	for _, sess := range s.sessions {
		sess.close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return e
}

var errServerClosed = errors.New("server closed")
