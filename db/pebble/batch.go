package pebble

import (
	"errors"
	"time"

	"github.com/NethermindEth/snapreader/db"
	"github.com/cockroachdb/pebble"
)

var (
	_ db.Batch = (*batch)(nil)

	ErrDiscardedBatch = errors.New("discarded batch")
)

type batch struct {
	batch    *pebble.Batch
	listener db.EventListener
}

func (b *batch) Put(key, val []byte) error {
	if b.batch == nil {
		return ErrDiscardedBatch
	} else if len(key) == 0 {
		return errors.New("empty key")
	}

	start := time.Now()
	defer func() {
		b.listener.OnIO(true, time.Since(start))
	}()

	return b.batch.Set(key, val, pebble.Sync)
}

func (b *batch) Delete(key []byte) error {
	if b.batch == nil {
		return ErrDiscardedBatch
	}
	return b.batch.Delete(key, pebble.Sync)
}

func (b *batch) Size() int {
	if b.batch == nil {
		return 0
	}
	return b.batch.Len()
}

func (b *batch) Write() error {
	if b.batch == nil {
		return ErrDiscardedBatch
	}
	return b.batch.Commit(pebble.Sync)
}

func (b *batch) Reset() {
	if b.batch != nil {
		b.batch.Reset()
	}
}

func (b *batch) close() error {
	if b.batch == nil {
		return nil
	}
	err := b.batch.Close()
	b.batch = nil
	return err
}
