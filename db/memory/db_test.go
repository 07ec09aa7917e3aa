package memory_test

import (
	"testing"

	"github.com/NethermindEth/snapreader/db"
	"github.com/NethermindEth/snapreader/db/memory"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noop = func(val []byte) error {
	return nil
}

func TestDatabase(t *testing.T) {
	t.Run("get after put", func(t *testing.T) {
		testDB := memory.New()
		require.NoError(t, testDB.Put([]byte("key"), []byte("value")))

		require.NoError(t, testDB.Get([]byte("key"), func(val []byte) error {
			assert.Equal(t, "value", string(val))
			return nil
		}))

		has, err := testDB.Has([]byte("key"))
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("missing key", func(t *testing.T) {
		testDB := memory.New()
		require.ErrorIs(t, testDB.Get([]byte("key"), noop), db.ErrKeyNotFound)
	})

	t.Run("closed database", func(t *testing.T) {
		testDB := memory.New()
		require.NoError(t, testDB.Close())
		require.Error(t, testDB.Get([]byte("key"), noop))
		require.Error(t, testDB.Put([]byte("key"), nil))
	})
}

func TestSnapshot(t *testing.T) {
	testDB := memory.New()
	require.NoError(t, testDB.Put([]byte("key1"), []byte("value1")))

	snap := testDB.NewSnapshot()
	t.Cleanup(func() {
		require.NoError(t, snap.Close())
	})

	require.NoError(t, testDB.Put([]byte("key2"), []byte("value2")))
	require.NoError(t, testDB.Put([]byte("key1"), []byte("changed")))

	require.NoError(t, snap.Get([]byte("key1"), func(val []byte) error {
		assert.Equal(t, "value1", string(val))
		return nil
	}))
	require.ErrorIs(t, snap.Get([]byte("key2"), noop), db.ErrKeyNotFound)
}

func TestSnapshotOfClosedDatabase(t *testing.T) {
	t.Run("after close", func(t *testing.T) {
		testDB := memory.New()
		require.NoError(t, testDB.Close())
		assert.Panics(t, func() { testDB.NewSnapshot() })
		require.Error(t, testDB.View(func(db.Snapshot) error { return nil }))
	})

	t.Run("racing close", func(t *testing.T) {
		testDB := memory.New()
		require.NoError(t, testDB.Put([]byte("key"), []byte("value")))

		var wg conc.WaitGroup
		for range 16 {
			wg.Go(func() {
				defer func() {
					// losing the race to Close is the only allowed panic
					if recovered := recover(); recovered != nil {
						assert.ErrorContains(t, recovered.(error), "closed")
					}
				}()
				snap := testDB.NewSnapshot()
				assert.NoError(t, snap.Get([]byte("key"), noop))
			})
		}
		wg.Go(func() {
			assert.NoError(t, testDB.Close())
		})
		wg.Wait()
	})
}

func TestBatch(t *testing.T) {
	testDB := memory.New()
	require.NoError(t, testDB.Put([]byte("gone"), []byte{1}))

	err := testDB.Update(func(b db.Batch) error {
		if err := b.Put([]byte("key"), []byte{2}); err != nil {
			return err
		}
		return b.Delete([]byte("gone"))
	})
	require.NoError(t, err)

	has, err := testDB.Has([]byte("gone"))
	require.NoError(t, err)
	assert.False(t, has)

	has, err = testDB.Has([]byte("key"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestIterator(t *testing.T) {
	testDB := memory.New()
	for _, k := range []string{"a1", "b1", "b2", "b3", "c1"} {
		require.NoError(t, testDB.Put([]byte(k), []byte(k)))
	}

	t.Run("with upper bound stays in prefix", func(t *testing.T) {
		it, err := testDB.NewIterator([]byte("b"), true)
		require.NoError(t, err)
		defer func() { require.NoError(t, it.Close()) }()

		var keys []string
		for it.First(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Key()))
		}
		assert.Equal(t, []string{"b1", "b2", "b3"}, keys)
	})

	t.Run("seek lands on next key", func(t *testing.T) {
		it, err := testDB.NewIterator([]byte("b"), true)
		require.NoError(t, err)
		defer func() { require.NoError(t, it.Close()) }()

		require.True(t, it.Seek([]byte("b15")))
		assert.Equal(t, []byte("b2"), it.Key())

		val, err := it.Value()
		require.NoError(t, err)
		assert.Equal(t, []byte("b2"), val)

		assert.False(t, it.Seek([]byte("b4")))
	})

	t.Run("without upper bound", func(t *testing.T) {
		it, err := testDB.NewIterator([]byte("b3"), false)
		require.NoError(t, err)
		defer func() { require.NoError(t, it.Close()) }()

		var keys []string
		for it.First(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Key()))
		}
		assert.Equal(t, []string{"b3", "c1"}, keys)
	})
}
