// Package server implements the network front end: a TCP listener that
// hands each accepted connection to the worker pool, and a per-connection
// handler that reads requests and writes responses over the wire protocol
// until the connection closes or the server shuts down.
package server

import (
	stdErrors "errors"
	"io"
	"net"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/internal/storage"
	"github.com/ignitedb/ignite/internal/wire"
	"github.com/ignitedb/ignite/internal/workerpool"
	kverrors "github.com/ignitedb/ignite/pkg/errors"
)

// Server is the TCP front end for one Engine.
type Server struct {
	engine      *engine.Engine
	pool        *workerpool.Pool
	log         *zap.SugaredLogger
	addr        string
	readTimeout time.Duration

	listener net.Listener
	shutdown atomic.Bool
}

// New creates a Server. Run must be called to actually bind and serve.
func New(eng *engine.Engine, pool *workerpool.Pool, log *zap.SugaredLogger, addr string, readTimeout time.Duration) *Server {
	return &Server{engine: eng, pool: pool, log: log, addr: addr, readTimeout: readTimeout}
}

// Run binds addr and serves until Stop is called. It polls the accept loop
// on a short deadline rather than blocking forever, so Stop is observed
// promptly even with no incoming connections.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to bind server address").WithPath(s.addr)
	}
	s.listener = ln
	s.log.Infow("server listening", "addr", s.Addr())

	tcpLn, _ := ln.(*net.TCPListener)

	for {
		if s.shutdown.Load() {
			return nil
		}
		if tcpLn != nil {
			_ = tcpLn.SetDeadline(time.Now().Add(200 * time.Millisecond))
		}

		conn, err := ln.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if s.shutdown.Load() {
				return nil
			}
			s.log.Errorw("accept failed", "error", err)
			continue
		}

		s.pool.Spawn(func() { s.handle(conn) })
	}
}

// Addr returns the bound address, resolved to its concrete port when Addr
// was given as "host:0".
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop flags the server for shutdown and closes the listener, unblocking
// Run.
func (s *Server) Stop() {
	s.shutdown.Store(true)
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

// handle serves one connection until EOF, a decode/write failure, or
// shutdown. It owns one ReaderCache for the connection's whole lifetime,
// the per-goroutine reader cache scoping described in internal/storage.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	cache := s.engine.NewReaderCache()
	defer cache.Close()

	wc := wire.NewConn(conn)
	tcpConn, _ := conn.(*net.TCPConn)

	for {
		if s.shutdown.Load() {
			return
		}
		if tcpConn != nil {
			_ = tcpConn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}

		req, err := wc.ReadRequest()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				// json.Decoder keeps returning an error once it has seen
				// one, so reading on after an idle timeout needs a fresh
				// Conn. A request only partly received when the deadline
				// passed loses its buffered prefix; its remainder then
				// fails to decode and the connection closes.
				wc = wire.NewConn(conn)
				continue
			}
			if stdErrors.Is(err, io.EOF) {
				return
			}
			s.log.Debugw("connection read failed, closing", "error", err)
			return
		}

		resp := s.dispatch(cache, req)
		if err := wc.WriteResponse(resp); err != nil {
			s.log.Debugw("connection write failed, closing", "error", err)
			return
		}
		if err := wc.Flush(); err != nil {
			s.log.Debugw("connection flush failed, closing", "error", err)
			return
		}
	}
}

func (s *Server) dispatch(cache *storage.ReaderCache, req wire.Request) wire.Response {
	switch req.Op {
	case wire.OpGet:
		value, ok, err := s.engine.Get(cache, req.Key)
		if err != nil {
			return wire.Response{Op: wire.OpGet, Ok: false, Error: err.Error()}
		}
		if !ok {
			return wire.Response{Op: wire.OpGet, Ok: true}
		}
		return wire.Response{Op: wire.OpGet, Ok: true, Value: &value}
	case wire.OpSet:
		if err := s.engine.Set(req.Key, req.Value); err != nil {
			return wire.Response{Op: wire.OpSet, Ok: false, Error: err.Error()}
		}
		return wire.Response{Op: wire.OpSet, Ok: true}
	case wire.OpRemove:
		if err := s.engine.Remove(req.Key); err != nil {
			return wire.Response{Op: wire.OpRemove, Ok: false, Error: err.Error()}
		}
		return wire.Response{Op: wire.OpRemove, Ok: true}
	default:
		return wire.Response{Op: req.Op, Ok: false, Error: "unknown operation"}
	}
}
