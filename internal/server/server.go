package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Handler serves a single connection until it is closed.
type Handler func(ctx context.Context, conn net.Conn) error

// Server accepts connections and serves each one on its own go routine.
type Server struct {
	name    string
	addr    string
	handler Handler
	log     zerolog.Logger
	ready   chan struct{}

	listen   func(network, addr string) (net.Listener, error)
	mutex    *sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
}

const maxAcceptDelay = time.Second

// NewServer creates a new server listening on the given address.
func NewServer(name string, addr string, handler Handler) *Server {
	return &Server{
		name:    name,
		addr:    addr,
		handler: handler,
		log:     log.With().Str("server", name).Logger(),
		ready:   make(chan struct{}),
		listen:  net.Listen,
		mutex:   new(sync.Mutex),
		conns:   make(map[net.Conn]struct{}),
	}
}

// WithLogger sets the log sink of the server.
func (s *Server) WithLogger(l zerolog.Logger) *Server {
	s.log = l.With().Str("server", s.name).Logger()
	return s
}

// Ready is closed once the server is accepting connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the address the server listens on.
// It is only available after the server is ready.
func (s *Server) Addr() net.Addr {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run accepts connections until the context is cancelled or accepting fails.
// Temporary accept errors are retried with a growing delay.
// On return the listener and all connections are closed and their handlers have finished.
func (s *Server) Run(ctx context.Context) error {
	listener, err := s.listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("could not start server '%s' on %s: %w", s.name, s.addr, err)
	}
	s.mutex.Lock()
	s.listener = listener
	s.mutex.Unlock()
	close(s.ready)

	s.log.Info().Str("addr", listener.Addr().String()).Msg("server started")

	ctx, cancel := context.WithCancel(ctx)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		listener.Close()
		s.closeAll()
	}()

	wg := new(sync.WaitGroup)
	defer func() {
		cancel()
		<-stopped
		wg.Wait()
	}()

	var delay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.log.Info().Msg("server stopped")
				return nil
			}
			if temporary(err) {
				if delay == 0 {
					delay = 5 * time.Millisecond
				} else {
					delay *= 2
				}
				if delay > maxAcceptDelay {
					delay = maxAcceptDelay
				}
				s.log.Warn().Err(err).Dur("retry", delay).Msg("could not accept connection")
				select {
				case <-time.After(delay):
					continue
				case <-ctx.Done():
					s.log.Info().Msg("server stopped")
					return nil
				}
			}
			s.log.Error().Err(err).Msg("server failed")
			return fmt.Errorf("could not accept connection: %w", err)
		}
		delay = 0
		if !s.track(conn) {
			conn.Close()
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.serve(ctx, conn)
		}()
	}
}

// temporary reports whether the accept error may go away on its own, e.g. running out of file descriptors.
func temporary(err error) bool {
	var ne interface{ Temporary() bool }
	return errors.As(err, &ne) && ne.Temporary()
}

func (s *Server) serve(ctx context.Context, conn net.Conn) {
	defer func() {
		s.untrack(conn)
		conn.Close()
	}()
	start := time.Now()
	remote := conn.RemoteAddr().String()
	s.log.Info().Str("remote", remote).Msg("client connected")
	err := s.handler(ctx, conn)
	s.log.Info().
		Str("remote", remote).
		Float64("duration", time.Since(start).Seconds()).
		AnErr("reason", err).
		Msg("client disconnected")
}

func (s *Server) track(conn net.Conn) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.conns == nil {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.conns, conn)
}

func (s *Server) closeAll() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
	// no more connections are accepted after this point
	s.conns = nil
}
