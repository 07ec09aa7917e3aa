package pebble

import (
	"slices"
	"time"

	"github.com/NethermindEth/snapreader/db"
	"github.com/cockroachdb/pebble"
)

var _ db.Iterator = (*iterator)(nil)

type iterator struct {
	iter     *pebble.Iterator
	listener db.EventListener
}

// Valid : see db.Iterator.Valid
func (i *iterator) Valid() bool {
	return i.iter.Valid()
}

// First : see db.Iterator.First
func (i *iterator) First() bool {
	return i.iter.First()
}

// Key : see db.Iterator.Key
func (i *iterator) Key() []byte {
	return i.iter.Key()
}

// Value : see db.Iterator.Value
func (i *iterator) Value() ([]byte, error) {
	val, err := i.iter.ValueAndErr()
	if err != nil {
		return nil, err
	}
	return slices.Clone(val), nil
}

// Next : see db.Iterator.Next
func (i *iterator) Next() bool {
	return i.iter.Next()
}

// Seek : see db.Iterator.Seek
func (i *iterator) Seek(key []byte) bool {
	start := time.Now()
	defer func() {
		i.listener.OnIO(false, time.Since(start))
	}()

	return i.iter.SeekGE(key)
}

// Close : see db.Iterator.Close
func (i *iterator) Close() error {
	return i.iter.Close()
}
