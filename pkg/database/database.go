package database

import (
	"errors"
)

// ErrNotFound means that the value for the given key was not found
// in the database.
var ErrNotFound = errors.New("value not found for this key")

// Database is the interface every storage backend has to satisfy.
// Values returned by Get are owned by the caller.
type Database interface {
	// Has checks whether the key is in the database
	Has(key []byte) (bool, error)
	// Put adds the value to the database for the given key,
	// overwriting any previous value
	Put(key []byte, value []byte) error
	// Get returns the value for the given key, ErrNotFound when absent
	Get(key []byte) ([]byte, error)
	// Delete removes the key from the database, it is not an error to
	// delete an absent key
	Delete(key []byte) error
	// Prefix returns all values whose key starts with the given prefix
	Prefix(prefix []byte) ([][]byte, error)
	// Close releases the underlying resources
	Close() error
}
