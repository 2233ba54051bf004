// Package client is a thin, synchronous client for the ignite wire
// protocol, used by the command-line client and usable directly by other
// Go programs that want to talk to a remote ignite server.
package client

import (
	stdErrors "errors"
	"fmt"
	"net"
	"time"

	"github.com/ignitedb/ignite/internal/wire"
	kverrors "github.com/ignitedb/ignite/pkg/errors"
)

// Client is a single connection to an ignite server. It is not safe for
// concurrent use: the wire protocol carries no request IDs, so requests
// and responses must be matched strictly in send order.
type Client struct {
	conn net.Conn
	wc   *wire.Conn
}

// Connect dials addr with the given timeout and returns a ready Client.
func Connect(addr string, timeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	return &Client{conn: conn, wc: wire.NewConn(conn)}, nil
}

// Set stores value under key.
func (c *Client) Set(key, value string) error {
	resp, err := c.roundTrip(wire.Request{Op: wire.OpSet, Key: key, Value: value})
	if err != nil {
		return err
	}
	if !resp.Ok {
		return kverrors.NewRemoteError(resp.Error)
	}
	return nil
}

// Get fetches key's value. A missing key is reported as ("", false, nil).
func (c *Client) Get(key string) (string, bool, error) {
	resp, err := c.roundTrip(wire.Request{Op: wire.OpGet, Key: key})
	if err != nil {
		return "", false, err
	}
	if !resp.Ok {
		return "", false, kverrors.NewRemoteError(resp.Error)
	}
	if resp.Value == nil {
		return "", false, nil
	}
	return *resp.Value, true, nil
}

// Remove deletes key. Removing a key with no value is reported as an
// error response from the server; IsKeyNotFound distinguishes that case
// from any other remote failure.
func (c *Client) Remove(key string) error {
	resp, err := c.roundTrip(wire.Request{Op: wire.OpRemove, Key: key})
	if err != nil {
		return err
	}
	if !resp.Ok {
		return kverrors.NewRemoteError(resp.Error)
	}
	return nil
}

// IsKeyNotFound reports whether err is the remote "missing key" response a
// Remove call can return. The wire protocol carries only an opaque message
// string, so this matches on the well-known text the server always sends
// for that case rather than on a wrapped sentinel, which cannot survive a
// process boundary.
func IsKeyNotFound(err error) bool {
	var re *kverrors.RemoteError
	return err != nil && stdErrors.As(err, &re) && re.Error() == kverrors.KeyNotFoundMessage
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) roundTrip(req wire.Request) (wire.Response, error) {
	if err := c.wc.WriteRequest(req); err != nil {
		return wire.Response{}, fmt.Errorf("sending request: %w", err)
	}
	resp, err := c.wc.ReadResponse()
	if err != nil {
		return wire.Response{}, fmt.Errorf("reading response: %w", err)
	}
	return resp, nil
}
