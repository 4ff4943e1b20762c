// Package storage is the client's local persistence: a single SQLite file
// (pure-Go modernc driver) holding a key–value metadata table. The schema
// is owned by embedded goose migrations applied on Open.
//
// The only value the client persists today is the credential token; see
// package tokens for the typed accessor.
package storage
