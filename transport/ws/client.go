// Package ws provides the WebSocket transport session: one logical
// connection to the bridge with autonomous reconnect, surfaced to the
// pipeline as a polled queue of tagged events.
package ws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/edgevoice/airlink"
)

// ErrNotConnected is returned by SendBinary while no session is
// established. Callers treat it as a dropped chunk, not a failure.
var ErrNotConnected = errors.New("ws: not connected")

type DialConfig struct {
	URL            string
	ConnectTimeout time.Duration
	Headers        http.Header
}

func (d *DialConfig) Defaults() {
	if d.ConnectTimeout == 0 {
		d.ConnectTimeout = 10 * time.Second
	}
}

func (d *DialConfig) doDial(ctx context.Context) (*websocket.Conn, error) {
	d.Defaults()

	u, err := url.Parse(d.URL)
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, d.ConnectTimeout)
	defer cancel()

	conn, resp, err := websocket.DefaultDialer.DialContext(dialCtx, u.String(), d.Headers)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		_ = conn.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return conn, nil
}

// Endpoint builds a ws:// URL from host, port and path.
func Endpoint(host string, port int, path string) string {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return fmt.Sprintf("ws://%s%s", net.JoinHostPort(host, strconv.Itoa(port)), path)
}

type ClientConfig struct {
	Dial              DialConfig
	ReconnectInterval time.Duration
	PingInterval      time.Duration
	EventQueueSize    int
	Logger            *slog.Logger
}

func (c *ClientConfig) Defaults() {
	if c.ReconnectInterval == 0 {
		c.ReconnectInterval = 5 * time.Second
	}
	if c.PingInterval == 0 {
		c.PingInterval = 10 * time.Second
	}
	if c.EventQueueSize == 0 {
		c.EventQueueSize = 256
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	c.Dial.Defaults()
}

// Client maintains exactly one logical session to the bridge. After
// every loss it re-dials on a fixed interval until Close is called;
// the consumer only observes the resulting events via Poll.
type Client struct {
	config ClientConfig
	logger *slog.Logger

	events chan airlink.Event

	mu      sync.Mutex
	conn    *websocket.Conn
	started bool

	writeMu sync.Mutex // gorilla allows one concurrent writer

	close     chan struct{}
	closeOnce sync.Once
	done      chan struct{}

	framesDropped atomic.Int64
}

func NewClient(config ClientConfig) *Client {
	config.Defaults()

	id, _ := gonanoid.New()
	logger := config.Logger.With(
		slog.String("transport", "websocket"),
		slog.String("component", "client"),
		slog.String("session_id", id),
		slog.String("endpoint", config.Dial.URL),
	)

	return &Client{
		config: config,
		logger: logger,
		events: make(chan airlink.Event, config.EventQueueSize),
		close:  make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Connect implements airlink.Session.
func (c *Client) Connect(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	go c.run(ctx)
}

func (c *Client) run(ctx context.Context) {
	defer close(c.done)

	for {
		conn, err := c.config.Dial.doDial(ctx)
		if err != nil {
			c.logger.Debug("dial failed", slog.Any("err", err))
		} else {
			c.serveConn(ctx, conn)
		}

		select {
		case <-c.close:
			return
		case <-ctx.Done():
			return
		case <-time.After(c.config.ReconnectInterval):
		}
	}
}

func (c *Client) serveConn(ctx context.Context, conn *websocket.Conn) {
	logger := c.logger.With(slog.String("remote_addr", conn.RemoteAddr().String()))

	conn.SetPingHandler(func(message string) error {
		logger.Debug("received ping")
		err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(1*time.Second))
		if err == websocket.ErrCloseSent {
			return nil
		} else if e, ok := err.(net.Error); ok && e.Timeout() {
			return nil
		}
		return err
	})
	conn.SetPongHandler(func(string) error {
		logger.Debug("received pong")
		return nil
	})

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	logger.Info("connected")
	c.emit(airlink.Event{Kind: airlink.EventConnected})

	stop := make(chan struct{})
	go c.keepalive(ctx, conn, stop)

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			logger.Debug("read failed", slog.Any("err", err))
			break
		}
		switch mt {
		case websocket.BinaryMessage:
			c.emit(airlink.Event{Kind: airlink.EventBinary, Data: data})
		case websocket.TextMessage:
			c.emit(airlink.Event{Kind: airlink.EventText, Data: data})
		}
	}

	close(stop)
	c.mu.Lock()
	c.conn = nil
	c.mu.Unlock()
	_ = conn.Close()

	logger.Info("disconnected")
	c.emit(airlink.Event{Kind: airlink.EventDisconnected})
}

// keepalive pings the bridge and tears the connection down when the
// session is closed or the context ends, unblocking the read loop.
func (c *Client) keepalive(ctx context.Context, conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-c.close:
			_ = conn.Close()
			return
		case <-ctx.Done():
			_ = conn.Close()
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(1*time.Second))
			c.writeMu.Unlock()
			if err != nil {
				c.logger.Debug("ping failed", slog.Any("err", err))
			}
		}
	}
}

// emit queues ev for Poll. Data frames may be dropped when the queue
// is full; lifecycle events always get through.
func (c *Client) emit(ev airlink.Event) {
	select {
	case c.events <- ev:
		return
	default:
	}

	switch ev.Kind {
	case airlink.EventBinary, airlink.EventText:
		c.framesDropped.Add(1)
		c.logger.Debug("event queue full, frame dropped",
			slog.String("kind", ev.Kind.String()),
		)
	default:
		c.events <- ev
	}
}

// Poll implements airlink.Session. It dispatches every queued event
// synchronously to fn and returns without waiting for more.
func (c *Client) Poll(fn func(airlink.Event)) int {
	n := 0
	for {
		select {
		case ev := <-c.events:
			fn(ev)
			n++
		default:
			return n
		}
	}
}

// SendBinary implements airlink.Session. A connection lost between the
// state check and the write surfaces as an error here; the frame is
// gone either way and the read loop reports the disconnect.
func (c *Client) SendBinary(p []byte) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	err := conn.WriteMessage(websocket.BinaryMessage, p)
	c.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("ws: send binary: %w", err)
	}
	return nil
}

// FramesDropped returns the number of inbound data frames discarded
// because the event queue was full.
func (c *Client) FramesDropped() int64 {
	return c.framesDropped.Load()
}

// Close implements airlink.Session. It stops the reconnect machinery
// for good and waits for the run loop to finish.
func (c *Client) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		close(c.close)
	})

	c.mu.Lock()
	conn := c.conn
	started := c.started
	c.mu.Unlock()

	if conn != nil {
		c.writeMu.Lock()
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"),
			time.Now().Add(1*time.Second),
		)
		c.writeMu.Unlock()
		_ = conn.Close()
	}

	if !started {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("close: %w", ctx.Err())
	case <-c.done:
		return nil
	}
}

var _ airlink.Session = &Client{}
