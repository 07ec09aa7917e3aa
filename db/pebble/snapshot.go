package pebble

import (
	"errors"
	"time"

	"github.com/NethermindEth/snapreader/db"
	"github.com/cockroachdb/pebble"
)

var _ db.Snapshot = (*snapshot)(nil)

type snapshot struct {
	snapshot *pebble.Snapshot
	listener db.EventListener
}

func (s *snapshot) Has(key []byte) (bool, error) {
	_, closer, err := s.snapshot.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, closer.Close()
}

func (s *snapshot) Get(key []byte, cb func(value []byte) error) error {
	start := time.Now()
	defer func() {
		s.listener.OnIO(false, time.Since(start))
	}()

	val, closer, err := s.snapshot.Get(key)
	return get(val, closer, err, cb)
}

func (s *snapshot) NewIterator(prefix []byte, withUpperBound bool) (db.Iterator, error) {
	it, err := s.snapshot.NewIter(iterOptions(prefix, withUpperBound))
	if err != nil {
		return nil, err
	}

	return &iterator{iter: it, listener: s.listener}, nil
}

func (s *snapshot) Close() error {
	return s.snapshot.Close()
}
