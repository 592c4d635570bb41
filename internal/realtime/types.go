package realtime

import (
	"encoding/json"
	"errors"
	"time"
)

// Errors
var (
	ErrMissingBaseURL = errors.New("base url is required")
	ErrInvalidVenue   = errors.New("venue id must be positive")
	ErrMissingToken   = errors.New("token auth mode requires a token")
)

// State identifies the connection lifecycle phase.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAuthenticating
	StateConnected
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Event names reserved by the stream protocol. connected and
// disconnected are lifecycle names the venue namespace keeps clear of
// domain events; the rest appear as wire frames.
const (
	EventConnected    = "connected"
	EventDisconnected = "disconnected"
	EventPing         = "ping"
	EventPong         = "pong"
	EventAuthSuccess  = "auth_success"
	EventSubscribe    = "subscribe"
	EventUnsubscribe  = "unsubscribe"
)

// AuthMode selects how the client authenticates a fresh socket.
type AuthMode string

const (
	// AuthHandshake holds the session in StateAuthenticating until the
	// server confirms with an auth_success frame.
	AuthHandshake AuthMode = "handshake"

	// AuthToken carries the token in the connection URL; the session is
	// considered authenticated as soon as the socket opens.
	AuthToken AuthMode = "token"
)

// Message is a single inbound frame from the venue stream.
type Message struct {
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	VenueID   *int            `json:"venue_id,omitempty"`

	// ReceivedAt is stamped by the client when the frame is read.
	ReceivedAt time.Time `json:"-"`
}

// Config holds configuration for a venue stream client.
// Callers should start from DefaultConfig and override what they need.
type Config struct {
	// BaseURL is the dashboard origin, e.g. "wss://pos.example.com".
	// http and https schemes are mapped to ws and wss.
	BaseURL string

	// VenueID scopes the connection to a single venue.
	VenueID int

	// Channels requested at connect time. Changing the set requires a
	// reconnect; see Client.SetChannels.
	Channels []string

	AuthMode AuthMode
	Token    string

	AutoReconnect        bool
	MaxReconnectAttempts int
	ReconnectBase        time.Duration
	BackoffCeiling       time.Duration

	KeepaliveInterval time.Duration
	HandshakeTimeout  time.Duration
	WriteTimeout      time.Duration

	// HistoryLimit caps the retained message history.
	HistoryLimit int

	// Callbacks are invoked without internal locks held, so they may call
	// back into the client (e.g. Subscribe from OnConnect). OnMessage and
	// OnError run on the read goroutine in arrival order.
	OnConnect    func()
	OnDisconnect func()
	OnMessage    func(Message)
	OnError      func(error)
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		AuthMode:             AuthHandshake,
		AutoReconnect:        true,
		MaxReconnectAttempts: 5,
		ReconnectBase:        2 * time.Second,
		BackoffCeiling:       30 * time.Second,
		KeepaliveInterval:    30 * time.Second,
		HandshakeTimeout:     10 * time.Second,
		WriteTimeout:         5 * time.Second,
		HistoryLimit:         100,
	}
}

// ClientStats is a point-in-time snapshot of client counters.
type ClientStats struct {
	State             State
	ReconnectAttempts int
	MessagesReceived  int64
	ParseErrors       int64
	Reconnects        int64
	KeepalivesSent    int64
	SendsDropped      int64
	HistoryLen        int
}
