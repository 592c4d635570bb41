// Package database provides connection pool management for the venue
// events store (PostgreSQL).
package database
