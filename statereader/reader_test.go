package statereader_test

import (
	"errors"
	"testing"

	"github.com/NethermindEth/snapreader/core"
	"github.com/NethermindEth/snapreader/core/felt"
	"github.com/NethermindEth/snapreader/core/state/statetest"
	"github.com/NethermindEth/snapreader/db"
	"github.com/NethermindEth/snapreader/db/memory"
	"github.com/NethermindEth/snapreader/db/pebble"
	"github.com/NethermindEth/snapreader/mocks"
	"github.com/NethermindEth/snapreader/statereader"
	"github.com/NethermindEth/snapreader/utils"
	"github.com/sourcegraph/conc/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	contractAddr = felt.FromUint64[felt.Address](0x1)
	slotKey      = felt.FromUint64[felt.Felt](0x2)
	sierraHash   = felt.FromUint64[felt.ClassHash](0x51)
	legacyHash   = felt.FromUint64[felt.ClassHash](0xd0)
)

// seed writes a small history:
//
//	block 3:  legacy class declared, contract deployed with the legacy class
//	block 10: slot set to 7, nonce 1
//	block 12: sierra class declared
//	block 20: slot set to 9, nonce 2, contract replaced with the sierra class
func seed(t *testing.T, txn db.KeyValueWriter) (*core.DeprecatedCairoClass, *core.CasmClass) {
	t.Helper()

	w := statetest.NewWriter(txn)
	legacy := &core.DeprecatedCairoClass{
		Program:   "H4sIAAAAAAAA",
		Externals: []core.EntryPoint{{Selector: felt.NewFromUint64[felt.Felt](1), Offset: felt.NewFromUint64[felt.Felt](0)}},
	}
	casm := &core.CasmClass{
		CompilerVersion: "2.6.0",
		Bytecode:        []*felt.Felt{felt.NewFromUint64[felt.Felt](0x40780017fff7fff)},
		External:        []core.CasmEntryPoint{{Selector: felt.NewFromUint64[felt.Felt](2), Offset: 0, Builtins: []string{"range_check"}}},
	}

	require.NoError(t, w.DeclareDeprecatedClass(&legacyHash, legacy, 3))
	require.NoError(t, w.SetClassHash(&contractAddr, &legacyHash, 3))
	require.NoError(t, w.SetStorage(&contractAddr, &slotKey, felt.NewFromUint64[felt.Felt](7), 10))
	require.NoError(t, w.SetNonce(&contractAddr, felt.NewFromUint64[felt.Felt](1), 10))
	require.NoError(t, w.DeclareClass(&sierraHash, casm, 12))
	require.NoError(t, w.SetStorage(&contractAddr, &slotKey, felt.NewFromUint64[felt.Felt](9), 20))
	require.NoError(t, w.SetNonce(&contractAddr, felt.NewFromUint64[felt.Felt](2), 20))
	require.NoError(t, w.SetClassHash(&contractAddr, &sierraHash, 20))
	return legacy, casm
}

func TestReader(t *testing.T) {
	testDB := memory.New()
	legacy, casm := seed(t, testDB)

	snap := testDB.NewSnapshot()
	t.Cleanup(func() {
		require.NoError(t, snap.Close())
	})

	t.Run("height is fixed", func(t *testing.T) {
		assert.Equal(t, uint64(15), statereader.New(snap, 15).Height())
	})

	t.Run("storage as of height", func(t *testing.T) {
		tests := []struct {
			height uint64
			want   uint64
		}{
			{height: 0, want: 0},
			{height: 10, want: 7},
			{height: 15, want: 7},
			{height: 20, want: 9},
			{height: 25, want: 9},
		}
		for _, test := range tests {
			got, err := statereader.New(snap, test.height).StorageAt(&contractAddr, &slotKey)
			require.NoError(t, err)
			assert.Equal(t, felt.FromUint64[felt.Felt](test.want), got, "height %d", test.height)
		}
	})

	t.Run("nonce as of height", func(t *testing.T) {
		reader := statereader.New(snap, 19)
		got, err := reader.NonceAt(&contractAddr)
		require.NoError(t, err)
		assert.Equal(t, felt.FromUint64[felt.Felt](1), got)
	})

	t.Run("class hash as of height", func(t *testing.T) {
		got, err := statereader.New(snap, 19).ClassHashAt(&contractAddr)
		require.NoError(t, err)
		assert.Equal(t, legacyHash, got)

		got, err = statereader.New(snap, 20).ClassHashAt(&contractAddr)
		require.NoError(t, err)
		assert.Equal(t, sierraHash, got)
	})

	t.Run("absent values are zero", func(t *testing.T) {
		unknown := felt.FromUint64[felt.Address](0xdead)
		reader := statereader.New(snap, 100)

		storage, err := reader.StorageAt(&unknown, &slotKey)
		require.NoError(t, err)
		assert.True(t, felt.IsZero(storage))

		nonce, err := reader.NonceAt(&unknown)
		require.NoError(t, err)
		assert.True(t, nonce.IsZero())

		classHash, err := reader.ClassHashAt(&unknown)
		require.NoError(t, err)
		assert.True(t, classHash.IsZero())
	})

	t.Run("compiled class", func(t *testing.T) {
		_, err := statereader.New(snap, 11).CompiledClass(&sierraHash)
		require.ErrorIs(t, err, statereader.ErrUndeclaredClass)

		got, err := statereader.New(snap, 12).CompiledClass(&sierraHash)
		require.NoError(t, err)
		assert.Equal(t, core.NewCasmExecutableClass(casm), got)
	})

	t.Run("legacy class", func(t *testing.T) {
		_, err := statereader.New(snap, 2).CompiledClass(&legacyHash)
		require.ErrorIs(t, err, statereader.ErrUndeclaredClass)

		got, err := statereader.New(snap, 3).CompiledClass(&legacyHash)
		require.NoError(t, err)
		assert.Equal(t, core.NewDeprecatedExecutableClass(legacy), got)
	})

	t.Run("legacy reader", func(t *testing.T) {
		reader := statereader.NewLegacy(snap, 100)

		got, err := reader.CompiledClass(&legacyHash)
		require.NoError(t, err)
		assert.Equal(t, core.ClassV0, got.Version())

		_, err = reader.CompiledClass(&sierraHash)
		require.ErrorIs(t, err, statereader.ErrUndeclaredClass)

		storage, err := reader.StorageAt(&contractAddr, &slotKey)
		require.NoError(t, err)
		assert.Equal(t, felt.FromUint64[felt.Felt](9), storage)
	})

	t.Run("repeated reads agree", func(t *testing.T) {
		reader := statereader.New(snap, 15)
		for range 3 {
			storage, err := reader.StorageAt(&contractAddr, &slotKey)
			require.NoError(t, err)
			assert.Equal(t, felt.FromUint64[felt.Felt](7), storage)

			class, err := reader.CompiledClass(&sierraHash)
			require.NoError(t, err)
			assert.Equal(t, casm, class.Casm)
		}
	})

	t.Run("compiled class hash is unsupported", func(t *testing.T) {
		reader := statereader.New(snap, 100)
		assert.PanicsWithValue(t, statereader.ErrCompiledClassHashUnsupported, func() {
			_, _ = reader.CompiledClassHash(&sierraHash)
		})
	})
}

func TestReaderSnapshotIsolation(t *testing.T) {
	testDB := memory.New()
	_, casm := seed(t, testDB)

	snap := testDB.NewSnapshot()
	t.Cleanup(func() {
		require.NoError(t, snap.Close())
	})

	// writes after the snapshot is taken are not visible through it
	w := statetest.NewWriter(testDB)
	require.NoError(t, w.SetStorage(&contractAddr, &slotKey, felt.NewFromUint64[felt.Felt](11), 21))

	before := statereader.New(snap, 11)
	after := statereader.New(snap, 12)

	p := pool.New().WithErrors()
	for range 8 {
		p.Go(func() error {
			_, err := before.CompiledClass(&sierraHash)
			if !errors.Is(err, statereader.ErrUndeclaredClass) {
				return errors.New("class visible before its declaration")
			}
			return nil
		})
		p.Go(func() error {
			class, err := after.CompiledClass(&sierraHash)
			if err != nil {
				return err
			}
			if class.Casm == nil || class.Casm.CompilerVersion != casm.CompilerVersion {
				return errors.New("unexpected compiled class")
			}
			return nil
		})
		p.Go(func() error {
			value, err := statereader.New(snap, 100).StorageAt(&contractAddr, &slotKey)
			if err != nil {
				return err
			}
			if !felt.Equal(value, felt.FromUint64[felt.Felt](9)) {
				return errors.New("snapshot observed a later write")
			}
			return nil
		})
	}
	require.NoError(t, p.Wait())
}

func TestReaderInconsistentStore(t *testing.T) {
	testDB := memory.New()
	require.NoError(t, statetest.NewWriter(testDB).PutDeclarationHeight(&sierraHash, 12))

	reader := statereader.New(testDB, 12)
	inconsistency := recoverInconsistency(t, func() {
		_, _ = reader.CompiledClass(&sierraHash)
	})
	assert.Equal(t, sierraHash, inconsistency.ClassHash)
}

func TestReaderErrors(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	errStore := errors.New("disk on fire")

	assertReadError := func(t *testing.T, err error) {
		t.Helper()
		require.ErrorIs(t, err, statereader.ErrStateRead)
		require.NotErrorIs(t, err, errStore)

		var readErr *statereader.ReadError
		require.ErrorAs(t, err, &readErr)
		assert.Contains(t, readErr.Msg, errStore.Error())
	}

	t.Run("contract state", func(t *testing.T) {
		txn := mocks.NewMockKeyValueReader(mockCtrl)
		txn.EXPECT().NewIterator(gomock.Any(), true).Return(nil, errStore).Times(3)
		reader := statereader.New(txn, 5)

		_, err := reader.StorageAt(&contractAddr, &slotKey)
		assertReadError(t, err)
		_, err = reader.NonceAt(&contractAddr)
		assertReadError(t, err)
		_, err = reader.ClassHashAt(&contractAddr)
		assertReadError(t, err)
	})

	t.Run("declaration lookup", func(t *testing.T) {
		var outcome statereader.ClassOutcome
		txn := mocks.NewMockKeyValueReader(mockCtrl)
		txn.EXPECT().Get(db.ClassDeclarationHeightKey(&sierraHash), gomock.Any()).Return(errStore)
		reader := statereader.New(txn, 5, statereader.WithListener(&statereader.SelectiveListener{
			OnClassResolvedCb: func(o statereader.ClassOutcome) { outcome = o },
		}))

		_, err := reader.CompiledClass(&sierraHash)
		assertReadError(t, err)
		require.NotErrorIs(t, err, statereader.ErrUndeclaredClass)
		assert.Equal(t, statereader.ClassReadFailed, outcome)
	})

	t.Run("casm lookup", func(t *testing.T) {
		txn := mocks.NewMockKeyValueReader(mockCtrl)
		txn.EXPECT().Get(db.ClassDeclarationHeightKey(&sierraHash), gomock.Any()).
			DoAndReturn(func(_ []byte, cb func([]byte) error) error {
				return cb(db.MarshalBlockNumber(1))
			})
		txn.EXPECT().Get(db.CasmClassKey(&sierraHash), gomock.Any()).Return(errStore)

		_, err := statereader.New(txn, 5).CompiledClass(&sierraHash)
		assertReadError(t, err)
	})

	t.Run("deprecated lookup", func(t *testing.T) {
		txn := mocks.NewMockKeyValueReader(mockCtrl)
		txn.EXPECT().Get(db.ClassDeclarationHeightKey(&legacyHash), gomock.Any()).Return(db.ErrKeyNotFound)
		txn.EXPECT().NewIterator(db.DeprecatedClassHistoryKey(&legacyHash), true).Return(nil, errStore)

		_, err := statereader.New(txn, 5).CompiledClass(&legacyHash)
		assertReadError(t, err)
	})
}

func TestReaderOnPebble(t *testing.T) {
	testDB := pebble.NewMemTest(t)
	var (
		legacy *core.DeprecatedCairoClass
		casm   *core.CasmClass
	)
	require.NoError(t, testDB.Update(func(b db.Batch) error {
		legacy, casm = seed(t, b)
		return nil
	}))

	require.NoError(t, testDB.View(func(snap db.Snapshot) error {
		reader := statereader.New(snap, 15, statereader.WithLogger(utils.NewNopLogger()))

		storage, err := reader.StorageAt(&contractAddr, &slotKey)
		require.NoError(t, err)
		assert.Equal(t, felt.FromUint64[felt.Felt](7), storage)

		class, err := reader.CompiledClass(&legacyHash)
		require.NoError(t, err)
		assert.Equal(t, legacy, class.Deprecated)

		class, err = reader.CompiledClass(&sierraHash)
		require.NoError(t, err)
		assert.Equal(t, casm, class.Casm)

		_, err = statereader.New(snap, 11).CompiledClass(&sierraHash)
		require.ErrorIs(t, err, statereader.ErrUndeclaredClass)
		return nil
	}))
}
