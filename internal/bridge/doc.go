// Package bridge implements the Redis fanout for venue events.
//
// Each event accepted by the realtime client is wrapped in an envelope
// carrying the publishing instance ID and published to a per-venue Redis
// channel. Dashboard backends subscribe to these channels to feed local
// consumers without holding their own venue socket.
//
// The fanout is best effort: events are dropped when the queue is full
// and publish failures are counted, never retried.
package bridge
