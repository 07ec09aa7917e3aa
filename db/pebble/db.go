package pebble

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/NethermindEth/snapreader/db"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

var _ db.KeyValueStore = (*DB)(nil)

type DB struct {
	pebble   *pebble.DB
	listener db.EventListener
}

// New opens a new database at the given path
func New(path string, options ...Option) (*DB, error) {
	opts := &pebble.Options{}
	for _, option := range options {
		if err := option(opts); err != nil {
			return nil, err
		}
	}
	return newPebble(path, opts)
}

// NewMem opens a new in-memory database
func NewMem() (*DB, error) {
	return newPebble("", &pebble.Options{
		FS: vfs.NewMem(),
	})
}

// NewMemTest opens a new in-memory database, closed when the test ends
func NewMemTest(t testing.TB) *DB {
	memDB, err := NewMem()
	if err != nil {
		t.Fatalf("create in-memory db: %v", err)
	}
	t.Cleanup(func() {
		if err := memDB.Close(); err != nil {
			t.Errorf("close in-memory db: %v", err)
		}
	})
	return memDB
}

func newPebble(path string, options *pebble.Options) (*DB, error) {
	pDB, err := pebble.Open(path, options)
	if err != nil {
		return nil, err
	}
	return &DB{pebble: pDB, listener: &db.SelectiveListener{}}, nil
}

// WithListener registers an EventListener
func (d *DB) WithListener(listener db.EventListener) db.KeyValueStore {
	d.listener = listener
	return d
}

func (d *DB) Has(key []byte) (bool, error) {
	_, closer, err := d.pebble.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, closer.Close()
}

func (d *DB) Get(key []byte, cb func(value []byte) error) error {
	start := time.Now()
	defer func() {
		d.listener.OnIO(false, time.Since(start))
	}()

	val, closer, err := d.pebble.Get(key)
	return get(val, closer, err, cb)
}

func (d *DB) Put(key, value []byte) error {
	start := time.Now()
	defer func() {
		d.listener.OnIO(true, time.Since(start))
	}()

	return d.pebble.Set(key, value, pebble.Sync)
}

func (d *DB) Delete(key []byte) error {
	return d.pebble.Delete(key, pebble.Sync)
}

func (d *DB) NewIterator(prefix []byte, withUpperBound bool) (db.Iterator, error) {
	it, err := d.pebble.NewIter(iterOptions(prefix, withUpperBound))
	if err != nil {
		return nil, err
	}
	return &iterator{iter: it, listener: d.listener}, nil
}

func (d *DB) NewBatch() db.Batch {
	return &batch{batch: d.pebble.NewBatch(), listener: d.listener}
}

func (d *DB) NewSnapshot() db.Snapshot {
	return &snapshot{snapshot: d.pebble.NewSnapshot(), listener: d.listener}
}

// Update : see db.Helper.Update
func (d *DB) Update(fn func(db.Batch) error) (err error) {
	b := d.NewBatch()
	defer db.CloseAndWrapOnError(b.(*batch).close, &err)

	if err = fn(b); err != nil {
		return err
	}
	return b.Write()
}

// View : see db.Helper.View
func (d *DB) View(fn func(db.Snapshot) error) (err error) {
	snap := d.NewSnapshot()
	defer db.CloseAndWrapOnError(snap.Close, &err)
	return fn(snap)
}

// Close : see io.Closer.Close
func (d *DB) Close() error {
	return d.pebble.Close()
}

// Impl : see db.Helper.Impl
func (d *DB) Impl() any {
	return d.pebble
}

func iterOptions(prefix []byte, withUpperBound bool) *pebble.IterOptions {
	iterOpt := &pebble.IterOptions{LowerBound: prefix}
	if withUpperBound {
		iterOpt.UpperBound = db.UpperBound(prefix)
	}
	return iterOpt
}

func get(val []byte, closer io.Closer, err error, cb func([]byte) error) (retErr error) {
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return db.ErrKeyNotFound
		}
		return err
	}
	defer db.CloseAndWrapOnError(closer.Close, &retErr)
	return cb(val)
}
