package db

import "io"

// Represents a data store that can read from the database
//
//go:generate mockgen -destination=../mocks/mock_db.go -package=mocks github.com/NethermindEth/snapreader/db KeyValueReader,Iterator
type KeyValueReader interface {
	// Checks if a key exists in the data store
	Has(key []byte) (bool, error)
	// Retrieves a value for a given key if it exists.
	// The value passed to cb is only valid until cb returns.
	Get(key []byte, cb func(value []byte) error) error
	Iterable
}

// Represents a data store that can write to the database
type KeyValueWriter interface {
	// Inserts a given value into the data store
	Put(key []byte, value []byte) error
	// Deletes a given key from the data store
	Delete(key []byte) error
}

// Helper interface
type Helper interface {
	Update(func(Batch) error) error
	// This will create a read-only snapshot and apply the callback to it
	View(func(Snapshot) error) error
	// Returns the underlying database
	Impl() any
}

// Represents a key-value data store that can handle different operations
type KeyValueStore interface {
	KeyValueReader
	KeyValueWriter
	Batcher
	Snapshotter
	Helper
	io.Closer

	WithListener(listener EventListener) KeyValueStore
}
