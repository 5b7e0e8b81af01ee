// Package mgmt serves management RPCs over JSON-RPC 2.0.
package mgmt

import (
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"os"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/powerman/rpc-codec/jsonrpc2"
	"github.com/usnistgov/nshsfc/core/logging"
	"github.com/usnistgov/nshsfc/nsh/sockettransport"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var logger = logging.New("mgmt")

var errServerClosed = errors.New("mgmt server closed")

// Server is a JSON-RPC 2.0 server.
type Server struct {
	rpc       *rpc.Server
	mu        sync.Mutex
	listeners []net.Listener
	conns     map[net.Conn]bool
	closing   atomic.Bool
	wg        sync.WaitGroup
}

// NewServer creates a Server without any registered service.
func NewServer() *Server {
	return &Server{
		rpc:   rpc.NewServer(),
		conns: map[net.Conn]bool{},
	}
}

// Register publishes methods of mg.
// The service name is the type name with "Mgmt" suffix removed.
func (s *Server) Register(mg any) error {
	typeName := reflect.Indirect(reflect.ValueOf(mg)).Type().Name()
	name := strings.TrimSuffix(typeName, "Mgmt")
	return s.rpc.RegisterName(name, mg)
}

// Listen creates a listener on a socket address and serves it in the background.
// addr is "unix:/path", "tcp:host:port", or a bare Unix socket path.
func (s *Server) Listen(addr string) (net.Addr, error) {
	network, address, e := sockettransport.ParseAddress(addr)
	if e != nil {
		return nil, e
	}

	if network == "unix" {
		if e := os.Remove(address); e != nil && !errors.Is(e, os.ErrNotExist) {
			return nil, fmt.Errorf("os.Remove(%s): %w", address, e)
		}
	}

	listener, e := net.Listen(network, address)
	if e != nil {
		return nil, fmt.Errorf("cannot listen on %s %s: %w", network, address, e)
	}
	if e = s.Serve(listener); e != nil {
		listener.Close()
		return nil, e
	}
	return listener.Addr(), nil
}

// Serve accepts connections on a listener in the background.
func (s *Server) Serve(listener net.Listener) error {
	if s.closing.Load() {
		return errServerClosed
	}

	s.mu.Lock()
	s.listeners = append(s.listeners, listener)
	s.mu.Unlock()

	s.wg.Add(1)
	go s.serve(listener)
	logger.Info("listening", zap.Stringer("addr", listener.Addr()))
	return nil
}

func (s *Server) serve(listener net.Listener) {
	defer s.wg.Done()
	for {
		conn, e := listener.Accept()
		if e != nil {
			if !s.closing.Load() {
				logger.Error("accept error", zap.Error(e))
			}
			return
		}

		s.mu.Lock()
		s.conns[conn] = true
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.rpc.ServeCodec(jsonrpc2.NewServerCodec(conn, s.rpc))
			s.mu.Lock()
			delete(s.conns, conn)
			s.mu.Unlock()
		}()
	}
}

// Close stops listening and disconnects all clients.
func (s *Server) Close() (e error) {
	if s.closing.Swap(true) {
		return nil
	}

	s.mu.Lock()
	for _, listener := range s.listeners {
		e = multierr.Append(e, listener.Close())
	}
	s.listeners = nil
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return e
}
