package recorder

import (
	"time"
)

// Config contains configuration for the event writer.
type Config struct {
	// BatchSize is the number of rows to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration

	// BufferSize is the capacity of the inbound event queue.
	BufferSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     500,
		FlushInterval: time.Second,
		BufferSize:    10000,
	}
}

// eventRow represents a row to be inserted into the venue_events table.
type eventRow struct {
	ReceivedAt int64 // Microseconds
	EventTS    int64 // Microseconds, 0 when the frame carried no timestamp
	VenueID    int
	Event      string
	Payload    []byte // JSONB, nil when the frame carried no data
}

// Stats holds counters for a writer.
type Stats struct {
	Inserts int64
	Errors  int64
	Flushes int64
	Dropped int64
}
