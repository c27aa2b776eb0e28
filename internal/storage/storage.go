// Package storage provides the client-side persistence abstraction.
//
// Every module that keeps state (auth session, conversations, quiz
// attempts, progress, transcripts) receives a Storage explicitly, so
// tests can substitute the in-memory implementation.
package storage

import "errors"

// ErrNotFound reports a missing key.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a string key-value store.
type Storage interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) (string, error)
	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Keys returns all stored keys with the given prefix.
	Keys(prefix string) ([]string, error)
	// Clear removes all keys.
	Clear() error
}
