// Package recorder implements the batch writer for venue events.
//
// The writer consumes messages from the realtime client through a bounded
// queue, transforms them into rows and flushes them to the venue_events
// table using pgx batches.
//
// Writes are append-only (never update, only insert).
// Timestamps are stored as integer microseconds since the Unix epoch.
package recorder
