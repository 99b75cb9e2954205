package walletws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/cardano-connect/go-cip30/internal/core/ports"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/thanhpk/randstr"
	"go.uber.org/ratelimit"
)

const (
	correlationIDLen = 16
	// outgoing frame pacing, keeps a misbehaving page from flooding the
	// extension bridge
	maxFramesPerSecond = 50
)

// ErrClosed is returned by calls issued after the connection dropped.
var ErrClosed = errors.New("connection to the wallet bridge is closed")

// Client speaks the JSON frame protocol of a browser-extension bridge over a
// websocket: every request carries a correlation id, the bridge answers with
// a result or error frame for that id, in any order. One client serves one
// wallet.
type Client struct {
	conn    *websocket.Conn
	limiter ratelimit.Limiter

	writeMtx sync.Mutex

	mtx     sync.Mutex
	pending map[string]chan frame
	closed  chan struct{}
}

type frame struct {
	ID     string          `json:"id"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *wireError      `json:"error,omitempty"`
}

// wireError mirrors the error envelopes of the browser protocol. Kind picks
// the vocabulary the numeric code belongs to.
type wireError struct {
	Kind    string `json:"kind"`
	Code    int    `json:"code"`
	Info    string `json:"info"`
	MaxSize int    `json:"maxSize,omitempty"`
}

func (e *wireError) toPortsError() error {
	switch e.Kind {
	case "txSign":
		return &ports.TxSignError{Code: e.Code, Info: e.Info}
	case "txSend":
		return &ports.TxSendError{Code: e.Code, Info: e.Info}
	case "dataSign":
		return &ports.DataSignError{Code: e.Code, Info: e.Info}
	case "paginate":
		return &ports.PaginateError{MaxSize: e.MaxSize}
	default:
		return &ports.APIError{Code: e.Code, Info: e.Info}
	}
}

// Dial connects to a wallet bridge endpoint.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing wallet bridge: %w", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	c := &Client{
		conn:    conn,
		limiter: ratelimit.New(maxFramesPerSecond),
		pending: map[string]chan frame{},
		closed:  make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Close tears the connection down; pending calls fail with ErrClosed.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) readLoop() {
	defer func() {
		c.mtx.Lock()
		close(c.closed)
		c.pending = nil
		c.mtx.Unlock()
	}()

	for {
		var f frame
		if err := c.conn.ReadJSON(&f); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.WithError(err).Debug("wallet bridge read loop stopped")
			}
			return
		}

		c.mtx.Lock()
		ch, ok := c.pending[f.ID]
		if ok {
			delete(c.pending, f.ID)
		}
		c.mtx.Unlock()

		if !ok {
			log.Debugf("dropping frame with unknown correlation id %s", f.ID)
			continue
		}
		ch <- f
	}
}

func (c *Client) call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	var rawParams json.RawMessage
	if params != nil {
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		rawParams = encoded
	}

	id := randstr.Hex(correlationIDLen)
	ch := make(chan frame, 1)

	c.mtx.Lock()
	select {
	case <-c.closed:
		c.mtx.Unlock()
		return nil, ErrClosed
	default:
	}
	c.pending[id] = ch
	c.mtx.Unlock()

	c.limiter.Take()

	c.writeMtx.Lock()
	err := c.conn.WriteJSON(frame{ID: id, Method: method, Params: rawParams})
	c.writeMtx.Unlock()
	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("writing %s frame: %w", method, err)
	}

	select {
	case f := <-ch:
		if f.Error != nil {
			return nil, f.Error.toPortsError()
		}
		return f.Result, nil
	case <-c.closed:
		return nil, ErrClosed
	case <-ctx.Done():
		c.forget(id)
		return nil, ctx.Err()
	}
}

func (c *Client) forget(id string) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.pending != nil {
		delete(c.pending, id)
	}
}

func (c *Client) callInto(ctx context.Context, method string, params, out interface{}) error {
	raw, err := c.call(ctx, method, params)
	if err != nil {
		return err
	}
	if out == nil || raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s result: %w", method, err)
	}
	return nil
}
