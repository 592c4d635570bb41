package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client maintains one venue stream session through connect, auth,
// keepalive, and reconnect cycles. All exported methods are safe for
// concurrent use.
type Client struct {
	cfg    Config
	logger *slog.Logger

	onConnect    func()
	onDisconnect func()
	onMessage    func(Message)
	onError      func(error)

	mu             sync.Mutex
	state          State
	conn           *websocket.Conn
	gen            int // bumped per successful dial; stale goroutines check it
	attempts       int
	suppress       bool // explicit disconnect: no automatic redial
	reconnectTimer *time.Timer
	keepaliveStop  chan struct{}
	target         string
	history        *history
	latest         *Message

	messagesReceived int64
	parseErrors      int64
	reconnects       int64
	keepalivesSent   int64
	sendsDropped     int64

	// gorilla allows a single concurrent writer per connection
	writeMu sync.Mutex
}

type pingFrame struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
}

// NewClient validates cfg and returns a client ready to Connect. Zero
// numeric fields are filled from DefaultConfig. The zero value of
// AutoReconnect disables reconnection, so callers normally start from
// DefaultConfig and override what they need.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fillDefaults(&cfg)

	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.VenueID <= 0 {
		return nil, ErrInvalidVenue
	}
	switch cfg.AuthMode {
	case AuthHandshake:
	case AuthToken:
		if cfg.Token == "" {
			return nil, ErrMissingToken
		}
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}

	cfg.Channels = append([]string(nil), cfg.Channels...)
	target, err := Target(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:          cfg,
		logger:       logger.With("venue", cfg.VenueID),
		onConnect:    cfg.OnConnect,
		onDisconnect: cfg.OnDisconnect,
		onMessage:    cfg.OnMessage,
		onError:      cfg.OnError,
		target:       target,
		history:      newHistory(cfg.HistoryLimit),
	}, nil
}

func fillDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.AuthMode == "" {
		cfg.AuthMode = def.AuthMode
	}
	if cfg.MaxReconnectAttempts == 0 {
		cfg.MaxReconnectAttempts = def.MaxReconnectAttempts
	}
	if cfg.ReconnectBase == 0 {
		cfg.ReconnectBase = def.ReconnectBase
	}
	if cfg.BackoffCeiling == 0 {
		cfg.BackoffCeiling = def.BackoffCeiling
	}
	if cfg.KeepaliveInterval == 0 {
		cfg.KeepaliveInterval = def.KeepaliveInterval
	}
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = def.HandshakeTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.HistoryLimit == 0 {
		cfg.HistoryLimit = def.HistoryLimit
	}
}

// Connect opens the venue stream. It is a no-op when a session is already
// connecting or established, so repeated calls never stack sockets. On
// dial failure the error is returned and, with auto-reconnect enabled,
// the retry schedule is engaged in the background.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return nil
	}
	c.suppress = false
	c.state = StateConnecting
	c.mu.Unlock()

	return c.dial(ctx)
}

// dial performs one connection attempt. Called synchronously from Connect
// and asynchronously from the reconnect timer.
func (c *Client) dial(ctx context.Context) error {
	c.mu.Lock()
	if c.suppress || c.state != StateConnecting {
		c.mu.Unlock()
		return nil
	}
	target := c.target
	c.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, target, nil)
	if err != nil {
		err = fmt.Errorf("dial venue stream: %w", err)
		c.mu.Lock()
		if c.suppress || c.state != StateConnecting {
			c.mu.Unlock()
			return err
		}
		c.scheduleReconnectLocked()
		c.mu.Unlock()
		c.reportError(err)
		return err
	}

	c.mu.Lock()
	if c.suppress || c.state != StateConnecting {
		// Disconnect raced the dial; drop the fresh socket.
		c.mu.Unlock()
		conn.Close()
		return nil
	}
	c.gen++
	gen := c.gen
	c.conn = conn
	connected := c.cfg.AuthMode == AuthToken
	if connected {
		c.state = StateConnected
		c.attempts = 0
		c.startKeepaliveLocked(gen)
	} else {
		c.state = StateAuthenticating
	}
	c.mu.Unlock()

	go c.readLoop(conn, gen)

	c.logger.Debug("socket open", "mode", string(c.cfg.AuthMode))
	if connected {
		c.callOnConnect()
	}
	return nil
}

// scheduleReconnectLocked decides what happens after the socket is gone:
// either arm the backoff timer for the next attempt or give up and go
// back to StateDisconnected. Caller holds c.mu.
func (c *Client) scheduleReconnectLocked() {
	c.conn = nil
	if c.suppress || !c.cfg.AutoReconnect || c.attempts >= c.cfg.MaxReconnectAttempts {
		if !c.suppress && c.cfg.AutoReconnect {
			c.logger.Warn("reconnect budget exhausted", "attempts", c.attempts)
		}
		c.state = StateDisconnected
		return
	}
	c.attempts++
	c.reconnects++
	delay := Backoff(c.attempts, c.cfg.ReconnectBase, c.cfg.BackoffCeiling)
	c.state = StateConnecting
	c.stopReconnectTimerLocked()
	c.reconnectTimer = time.AfterFunc(delay, func() {
		c.dial(context.Background())
	})
	c.logger.Info("reconnect scheduled", "attempt", c.attempts, "delay", delay)
}

func (c *Client) stopReconnectTimerLocked() {
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
}

func (c *Client) readLoop(conn *websocket.Conn, gen int) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleClose(gen, err)
			return
		}
		c.route(gen, data, time.Now().UTC())
	}
}

// handleClose runs when the socket drops out from under the read loop.
// Explicit Disconnect tears down before the read loop notices, so a stale
// generation or missing conn means the close is already handled.
func (c *Client) handleClose(gen int, cause error) {
	c.mu.Lock()
	if gen != c.gen || c.conn == nil {
		c.mu.Unlock()
		return
	}
	suppressed := c.suppress
	c.stopKeepaliveLocked()
	c.conn.Close()
	c.scheduleReconnectLocked()
	c.mu.Unlock()

	if !suppressed && !isNormalClose(cause) {
		c.reportError(fmt.Errorf("venue stream closed: %w", cause))
	}
	c.logger.Info("socket closed", "error", cause)
	c.callOnDisconnect()
}

func isNormalClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}

// route parses one inbound frame and feeds the router: auth frames drive
// the state machine, everything else lands in history, the latest slot,
// and the message callback. Unparseable frames are counted and dropped.
func (c *Client) route(gen int, data []byte, receivedAt time.Time) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil || msg.Event == "" {
		c.mu.Lock()
		c.parseErrors++
		c.mu.Unlock()
		c.logger.Warn("dropping malformed frame", "error", err, "bytes", len(data))
		return
	}
	msg.ReceivedAt = receivedAt

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.messagesReceived++

	if msg.Event == EventAuthSuccess {
		if c.state == StateAuthenticating {
			c.state = StateConnected
			c.attempts = 0
			c.startKeepaliveLocked(gen)
			c.mu.Unlock()
			c.logger.Info("authenticated")
			c.callOnConnect()
			return
		}
		c.mu.Unlock()
		c.logger.Debug("duplicate auth frame ignored")
		return
	}

	c.history.append(msg)
	m := msg
	c.latest = &m
	c.mu.Unlock()

	if c.onMessage != nil {
		c.onMessage(msg)
	}
}

func (c *Client) startKeepaliveLocked(gen int) {
	if c.keepaliveStop != nil {
		return
	}
	stop := make(chan struct{})
	c.keepaliveStop = stop
	go c.keepaliveLoop(gen, stop)
}

func (c *Client) stopKeepaliveLocked() {
	if c.keepaliveStop != nil {
		close(c.keepaliveStop)
		c.keepaliveStop = nil
	}
}

// keepaliveLoop sends an application-level ping every interval while the
// session stays connected. The server uses these to reap dead clients, so
// they are JSON frames rather than protocol pings.
func (c *Client) keepaliveLoop(gen int, stop <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.KeepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			if gen != c.gen || c.state != StateConnected || c.conn == nil {
				c.mu.Unlock()
				return
			}
			conn := c.conn
			c.keepalivesSent++
			c.mu.Unlock()

			payload, err := json.Marshal(pingFrame{
				Event:     EventPing,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			if err != nil {
				continue
			}
			if err := c.writeFrame(conn, payload); err != nil {
				c.logger.Debug("keepalive write failed", "error", err)
			}
		}
	}
}

func (c *Client) writeFrame(conn *websocket.Conn, payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// Send transmits an event frame if the socket is open (connected or mid
// auth). The event name becomes the frame's "event" key and data entries
// are merged alongside it at the top level. Frames are dropped with a
// counter bump when the socket is down; write failures surface through
// OnError.
func (c *Client) Send(event string, data map[string]any) {
	c.mu.Lock()
	conn := c.conn
	open := conn != nil && (c.state == StateConnected || c.state == StateAuthenticating)
	if !open {
		c.sendsDropped++
	}
	c.mu.Unlock()
	if !open {
		c.logger.Debug("send dropped, no open socket", "event", event)
		return
	}

	frame := make(map[string]any, len(data)+1)
	for k, v := range data {
		frame[k] = v
	}
	frame["event"] = event
	payload, err := json.Marshal(frame)
	if err != nil {
		c.reportError(fmt.Errorf("encode %s frame: %w", event, err))
		return
	}
	if err := c.writeFrame(conn, payload); err != nil {
		c.reportError(fmt.Errorf("write %s frame: %w", event, err))
	}
}

// Subscribe asks the server to add channels to the live session. The
// request is dropped when no session is up; persistent channel changes go
// through SetChannels.
func (c *Client) Subscribe(channels ...string) {
	if len(channels) == 0 {
		return
	}
	c.Send(EventSubscribe, map[string]any{"channels": channels})
}

// Unsubscribe asks the server to remove channels from the live session.
func (c *Client) Unsubscribe(channels ...string) {
	if len(channels) == 0 {
		return
	}
	c.Send(EventUnsubscribe, map[string]any{"channels": channels})
}

// Disconnect closes the session and suppresses automatic reconnection,
// including any reconnect already scheduled. Safe to call from any state
// and more than once.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.suppress = true
	c.stopReconnectTimerLocked()
	c.stopKeepaliveLocked()
	hadConn := c.conn != nil
	if hadConn {
		c.writeClose(c.conn)
		c.conn.Close()
		c.conn = nil
	}
	c.state = StateDisconnected
	c.mu.Unlock()

	if hadConn {
		c.callOnDisconnect()
	}
}

func (c *Client) writeClose(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}

// SetChannels replaces the channel set. The server only reads channels at
// handshake time, so the session is torn down and re-established against
// a rebuilt URL. The reconnect budget starts fresh.
func (c *Client) SetChannels(ctx context.Context, channels []string) error {
	c.Disconnect()

	c.mu.Lock()
	c.cfg.Channels = append([]string(nil), channels...)
	target, err := Target(c.cfg)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.target = target
	c.attempts = 0
	c.mu.Unlock()

	return c.Connect(ctx)
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connected reports whether the session is authenticated and live.
func (c *Client) Connected() bool {
	return c.State() == StateConnected
}

// Latest returns the most recently routed message.
func (c *Client) Latest() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest == nil {
		return Message{}, false
	}
	return *c.latest, true
}

// History returns the retained messages, oldest first. History survives
// reconnects; only the cap bounds it.
func (c *Client) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.snapshot()
}

// Channels returns the channel set the client connects with.
func (c *Client) Channels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.cfg.Channels...)
}

// Stats returns a snapshot of client counters.
func (c *Client) Stats() ClientStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ClientStats{
		State:             c.state,
		ReconnectAttempts: c.attempts,
		MessagesReceived:  c.messagesReceived,
		ParseErrors:       c.parseErrors,
		Reconnects:        c.reconnects,
		KeepalivesSent:    c.keepalivesSent,
		SendsDropped:      c.sendsDropped,
		HistoryLen:        c.history.len(),
	}
}

func (c *Client) callOnConnect() {
	if c.onConnect != nil {
		c.onConnect()
	}
}

func (c *Client) callOnDisconnect() {
	if c.onDisconnect != nil {
		c.onDisconnect()
	}
}

func (c *Client) reportError(err error) {
	c.logger.Error("venue stream error", "error", err)
	if c.onError != nil {
		c.onError(err)
	}
}
