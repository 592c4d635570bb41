package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/restosuite/venuestream/internal/realtime"
)

// Config contains configuration for the Redis fanout.
type Config struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces the per-venue channels.
	Prefix string

	// BufferSize is the capacity of the outbound publish queue.
	BufferSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:       "localhost:6379",
		Prefix:     "venuestream:",
		BufferSize: 1000,
	}
}

// envelope wraps a message with the originating instance ID so that
// subscribers can tell apart feeds from redundant recorders.
type envelope struct {
	InstanceID string           `json:"instance_id"`
	Message    realtime.Message `json:"message"`
}

// Stats holds counters for a publisher.
type Stats struct {
	Published int64
	Dropped   int64
	Failed    int64
}

// Publisher fans venue events out to a per-venue Redis channel.
type Publisher struct {
	cfg        Config
	logger     *slog.Logger
	client     *redis.Client
	channel    string
	instanceID string

	// Input from the realtime client's message callback
	input chan realtime.Message

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	active  bool
	metrics Stats
}

// NewPublisher creates a publisher for the given venue.
func NewPublisher(cfg Config, venueID int, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.Prefix == "" {
		cfg.Prefix = def.Prefix
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	return &Publisher{
		cfg:    cfg,
		logger: logger.With("component", "redis-fanout"),
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		channel:    cfg.Prefix + "venue:" + strconv.Itoa(venueID),
		instanceID: uuid.New().String(),
		input:      make(chan realtime.Message, cfg.BufferSize),
	}
}

// Start pings Redis and begins publishing queued events.
func (p *Publisher) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	if err := p.client.Ping(p.ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	p.mu.Lock()
	p.active = true
	p.mu.Unlock()

	p.wg.Add(1)
	go p.publishLoop()

	p.logger.Info("redis fanout started",
		"instance_id", p.instanceID,
		"channel", p.channel,
	)
	return nil
}

// Stop stops the publish loop and closes the Redis connection.
func (p *Publisher) Stop() error {
	p.mu.Lock()
	p.active = false
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	return p.client.Close()
}

// Enqueue hands a message to the publisher without blocking. The message
// is dropped when the queue is full.
func (p *Publisher) Enqueue(msg realtime.Message) {
	select {
	case p.input <- msg:
	default:
		p.mu.Lock()
		p.metrics.Dropped++
		p.mu.Unlock()
		p.logger.Debug("publish queue full, dropping", "event", msg.Event)
	}
}

// Available reports whether the publisher is running.
func (p *Publisher) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Stats returns current metrics.
func (p *Publisher) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.metrics
}

// publishLoop publishes queued messages until the context is cancelled.
func (p *Publisher) publishLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case msg := <-p.input:
			p.publish(msg)
		}
	}
}

// publish wraps a message in an envelope and sends it to the venue channel.
func (p *Publisher) publish(msg realtime.Message) {
	data, err := json.Marshal(envelope{
		InstanceID: p.instanceID,
		Message:    msg,
	})
	if err != nil {
		p.mu.Lock()
		p.metrics.Failed++
		p.mu.Unlock()
		p.logger.Error("envelope marshal failed", "error", err, "event", msg.Event)
		return
	}

	if err := p.client.Publish(p.ctx, p.channel, data).Err(); err != nil {
		p.mu.Lock()
		p.metrics.Failed++
		p.mu.Unlock()
		p.logger.Error("publish failed", "error", err, "event", msg.Event)
		return
	}

	p.mu.Lock()
	p.metrics.Published++
	p.mu.Unlock()
}
