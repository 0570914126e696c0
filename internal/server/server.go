// SPDX-License-Identifier: MPL-2.0

package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dexd/dexd/internal/console"

	"github.com/charmbracelet/log"
)

const (
	// DefaultHost is the loopback name the daemon binds to.
	DefaultHost = "localhost"
	// DefaultPort is the port clients poll.
	DefaultPort = 2345

	// drainTimeout bounds how long header lines are discarded after the
	// request line before the response is written.
	drainTimeout = time.Second
)

type (
	// Config holds the listener settings.
	Config struct {
		Host string
		// Port 0 binds a random free port.
		Port int
		// Name and Version identify the daemon in the "<Name>-Version"
		// response header.
		Name    string
		Version string
		// ReadTimeout bounds reading the request line.
		ReadTimeout time.Duration
		// StartupTimeout bounds Start.
		StartupTimeout time.Duration
	}

	// Server accepts one connection at a time and answers it through a
	// Router.
	Server struct {
		lifecycle

		cfg    Config
		router *Router
		logger *log.Logger

		lnMu     sync.Mutex
		listener net.Listener
		addr     string
	}
)

// New creates a server. Zero Config fields take their defaults; a nil
// logger discards request logs.
func New(cfg Config, router *Router, logger *log.Logger) *Server {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Name == "" {
		cfg.Name = "Dex"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = 5 * time.Second
	}
	if router == nil {
		router = NewRouter()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		cfg:    cfg,
		router: router,
		logger: logger,
	}
	s.init()
	return s
}

// Start binds the listener and starts the accept loop. It returns once the
// server is accepting connections, or with the bind error.
func (s *Server) Start(ctx context.Context) error {
	if err := s.toStarting(ctx); err != nil {
		return err
	}

	startupCtx, cancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer cancel()

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		s.toFailed(fmt.Errorf("listen on %s: %w", addr, err))
		return s.lastError()
	}

	s.lnMu.Lock()
	s.listener = listener
	s.addr = listener.Addr().String()
	s.lnMu.Unlock()

	s.wg.Add(1)
	go s.serve(listener)

	select {
	case <-s.startedCh:
		return nil
	case <-startupCtx.Done():
		_ = listener.Close()
		s.toFailed(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
		return s.lastError()
	}
}

// Stop closes the listener and waits for the in-flight connection, if
// any, to finish. Safe to call more than once.
func (s *Server) Stop() error {
	if !s.toStopping() {
		s.wg.Wait()
		return nil
	}

	var closeErr error
	s.lnMu.Lock()
	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			closeErr = err
		}
	}
	s.lnMu.Unlock()

	s.wg.Wait()
	s.toStopped()
	close(s.errCh)

	return closeErr
}

// Wait blocks until the accept loop exits and returns the failure, if any.
func (s *Server) Wait() error {
	s.wg.Wait()
	if s.State() == StateFailed {
		return s.lastError()
	}
	return nil
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	return s.current()
}

// Err delivers an error if the accept loop dies unexpectedly. It is closed
// by Stop.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.lnMu.Lock()
	defer s.lnMu.Unlock()
	return s.addr
}

// URL returns the base URL clients poll.
func (s *Server) URL() string {
	addr := s.Addr()
	if addr == "" {
		return ""
	}
	return "http://" + addr
}

// serve is the accept loop. Each connection is handled to completion before
// the next Accept.
func (s *Server) serve(listener net.Listener) {
	defer s.wg.Done()

	s.toRunning()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || s.ctx.Err() != nil {
				return
			}
			s.toFailed(fmt.Errorf("accept: %w", err))
			return
		}
		s.handle(s.ctx, conn)
	}
}

// handle answers one connection and closes it.
func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	reader := bufio.NewReader(conn)

	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		s.logger.Print(console.Red("[Blank request]"))
		s.logger.Print(console.Grey(console.Separator))
		return
	}

	req := parseRequestLine(line)
	s.logger.Print(console.Green(req.Method + " " + req.Path))

	drainHeaders(conn, reader)

	resp := s.router.Dispatch(ctx, req)
	if err := writeResponse(conn, resp, s.cfg.Name+"-Version", s.cfg.Version); err != nil {
		s.logger.Error("write response", "err", err)
	}

	s.logger.Print(console.Grey(console.Separator))
}

// drainHeaders discards header lines up to the blank line so closing the
// connection does not reset it while the client still has unread request
// bytes in flight.
func drainHeaders(conn net.Conn, reader *bufio.Reader) {
	_ = conn.SetReadDeadline(time.Now().Add(drainTimeout))
	for {
		line, err := reader.ReadString('\n')
		if err != nil || strings.TrimSpace(line) == "" {
			return
		}
	}
}
