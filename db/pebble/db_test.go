package pebble_test

import (
	"context"
	"testing"
	"time"

	"github.com/NethermindEth/snapreader/db"
	"github.com/NethermindEth/snapreader/db/pebble"
	"github.com/NethermindEth/snapreader/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noop = func(val []byte) error {
	return nil
}

func TestDB(t *testing.T) {
	t.Run("put then get", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)
		require.NoError(t, testDB.Put([]byte("key"), []byte("value")))

		require.NoError(t, testDB.Get([]byte("key"), func(val []byte) error {
			assert.Equal(t, "value", string(val))
			return nil
		}))

		has, err := testDB.Has([]byte("key"))
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("missing key maps to db.ErrKeyNotFound", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)
		require.ErrorIs(t, testDB.Get([]byte("key"), noop), db.ErrKeyNotFound)

		has, err := testDB.Has([]byte("key"))
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("callback error is returned", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)
		require.NoError(t, testDB.Put([]byte("key"), []byte("value")))

		cbErr := assert.AnError
		require.ErrorIs(t, testDB.Get([]byte("key"), func([]byte) error { return cbErr }), cbErr)
	})
}

func TestSnapshot(t *testing.T) {
	testDB := pebble.NewMemTest(t)
	require.NoError(t, testDB.Put([]byte("key1"), []byte("value1")))

	snap := testDB.NewSnapshot()
	defer func() {
		require.NoError(t, snap.Close())
	}()

	require.NoError(t, testDB.Update(func(b db.Batch) error {
		require.NoError(t, b.Put([]byte("key1"), []byte("changed")))
		return b.Put([]byte("key2"), []byte("value2"))
	}))

	t.Run("snapshot does not see later writes", func(t *testing.T) {
		require.NoError(t, snap.Get([]byte("key1"), func(val []byte) error {
			assert.Equal(t, "value1", string(val))
			return nil
		}))
		require.ErrorIs(t, snap.Get([]byte("key2"), noop), db.ErrKeyNotFound)
	})

	t.Run("database sees later writes", func(t *testing.T) {
		require.NoError(t, testDB.View(func(s db.Snapshot) error {
			return s.Get([]byte("key2"), func(val []byte) error {
				assert.Equal(t, "value2", string(val))
				return nil
			})
		}))
	})
}

func TestIterator(t *testing.T) {
	testDB := pebble.NewMemTest(t)
	for _, k := range []string{"a1", "b1", "b2", "b3", "c1"} {
		require.NoError(t, testDB.Put([]byte(k), []byte(k)))
	}

	snap := testDB.NewSnapshot()
	defer func() {
		require.NoError(t, snap.Close())
	}()

	it, err := snap.NewIterator([]byte("b"), true)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, it.Close())
	}()

	var keys []string
	for it.First(); it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.Equal(t, []string{"b1", "b2", "b3"}, keys)

	require.True(t, it.Seek([]byte("b15")))
	val, err := it.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("b2"), val)

	assert.False(t, it.Seek([]byte("b4")))
}

func TestListener(t *testing.T) {
	var reads, writes int
	testDB := pebble.NewMemTest(t)
	testDB.WithListener(&db.SelectiveListener{
		OnIOCb: func(write bool, _ time.Duration) {
			if write {
				writes++
			} else {
				reads++
			}
		},
	})

	require.NoError(t, testDB.Put([]byte("key"), []byte("value")))
	require.NoError(t, testDB.Get([]byte("key"), noop))
	require.ErrorIs(t, testDB.Get([]byte("missing"), noop), db.ErrKeyNotFound)

	assert.Equal(t, 1, writes)
	assert.Equal(t, 2, reads)

	it, err := testDB.NewIterator([]byte("k"), true)
	require.NoError(t, err)
	assert.True(t, it.Seek([]byte("k")))
	require.NoError(t, it.Close())
	assert.Equal(t, 3, reads)
}

func TestCalculatePrefixSize(t *testing.T) {
	testDB := pebble.NewMemTest(t)
	require.NoError(t, testDB.Put([]byte{1, 1}, []byte("abc")))
	require.NoError(t, testDB.Put([]byte{1, 2}, []byte("de")))
	require.NoError(t, testDB.Put([]byte{2, 1}, []byte("unrelated")))

	item, err := pebble.CalculatePrefixSize(context.Background(), testDB, []byte{1})
	require.NoError(t, err)
	assert.Equal(t, uint(2), item.Count)
	assert.Equal(t, utils.DataSize(9), item.Size)

	item, err = pebble.CalculatePrefixSize(context.Background(), testDB, []byte{3})
	require.NoError(t, err)
	assert.Equal(t, uint(0), item.Count)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pebble.CalculatePrefixSize(ctx, testDB, []byte{1})
	require.ErrorIs(t, err, context.Canceled)
}
