package server

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/internal/wire"
	"github.com/ignitedb/ignite/internal/workerpool"
	"github.com/ignitedb/ignite/pkg/client"
	"github.com/ignitedb/ignite/pkg/options"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	log := zap.NewNop().Sugar()
	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()
	opts.Addr = "127.0.0.1:0"

	eng, err := engine.New(context.Background(), &engine.Config{Options: &opts, Logger: log})
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	t.Cleanup(func() { eng.Close() })

	pool := workerpool.New(2, log)
	t.Cleanup(pool.Stop)

	srv := New(eng, pool, log, opts.Addr, opts.ReadTimeout)

	ready := make(chan struct{})
	go func() {
		go func() {
			for srv.listener == nil {
				time.Sleep(time.Millisecond)
			}
			close(ready)
		}()
		_ = srv.Run()
	}()
	t.Cleanup(srv.Stop)

	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start listening in time")
	}

	return srv, srv.Addr()
}

func TestServerRoundTripsSetGetRemove(t *testing.T) {
	t.Parallel()

	_, addr := newTestServer(t)

	c, err := client.Connect(addr, time.Second)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer c.Close()

	if err := c.Set("key1", "value1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := c.Get("key1")
	if err != nil || !ok || value != "value1" {
		t.Fatalf("got (%q, %v, %v), want (\"value1\", true, nil)", value, ok, err)
	}

	if err := c.Remove("key1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	_, ok, err = c.Get("key1")
	if err != nil || ok {
		t.Fatalf("expected a miss after Remove, got ok=%v err=%v", ok, err)
	}
}

func TestServerReportsMissingKeyOnRemove(t *testing.T) {
	t.Parallel()

	_, addr := newTestServer(t)

	c, err := client.Connect(addr, time.Second)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer c.Close()

	err = c.Remove("never-set")
	if err == nil {
		t.Fatal("expected an error removing a key that was never set")
	}
	if !client.IsKeyNotFound(err) {
		t.Fatalf("expected IsKeyNotFound to recognize %v", err)
	}
}

func TestDispatchRejectsUnknownOperation(t *testing.T) {
	t.Parallel()

	s, addr := newTestServer(t)
	_ = addr

	resp := s.dispatch(s.engine.NewReaderCache(), wire.Request{Op: "bogus", Key: "k"})
	if resp.Ok {
		t.Fatal("expected Ok=false for an unknown operation")
	}
}
