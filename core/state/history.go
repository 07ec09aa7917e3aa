package state

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/snapreader/core"
	"github.com/NethermindEth/snapreader/core/felt"
	"github.com/NethermindEth/snapreader/db"
	"github.com/NethermindEth/snapreader/encoder"
	"github.com/NethermindEth/snapreader/utils"
)

// HistoryReader performs typed point lookups against a read-only view of the
// store. Lookups of contract data and deprecated classes are answered as of
// the end of the given block; declarations and compiled classes are not
// height scoped.
type HistoryReader struct {
	txn db.KeyValueReader
}

func NewHistoryReader(txn db.KeyValueReader) *HistoryReader {
	return &HistoryReader{txn: txn}
}

// ContractStorageAt returns the value of a storage location of the given
// contract at the height `height`, or zero if it was never written.
func (r *HistoryReader) ContractStorageAt(
	addr *felt.Address,
	location *felt.Felt,
	height uint64,
) (felt.Felt, error) {
	value, err := r.feltAt(db.ContractStorageHistoryKey(addr, location), height)
	if err != nil {
		return felt.Zero, fmt.Errorf("storage %s of contract %s: %w", location, addr, err)
	}
	return value, nil
}

// ContractNonceAt returns the nonce of the contract at `height`, or zero if
// none was recorded yet.
func (r *HistoryReader) ContractNonceAt(addr *felt.Address, height uint64) (felt.Felt, error) {
	value, err := r.feltAt(db.ContractNonceHistoryKey(addr), height)
	if err != nil {
		return felt.Zero, fmt.Errorf("nonce of contract %s: %w", addr, err)
	}
	return value, nil
}

// ContractClassHashAt returns the class hash deployed at the address at
// `height`, or the zero class hash if nothing was deployed.
func (r *HistoryReader) ContractClassHashAt(
	addr *felt.Address,
	height uint64,
) (felt.ClassHash, error) {
	value, err := r.feltAt(db.ContractClassHashHistoryKey(addr), height)
	if err != nil {
		return felt.ClassHash{}, fmt.Errorf("class hash of contract %s: %w", addr, err)
	}
	return felt.ClassHash(value), nil
}

// DeprecatedClassAt returns the Cairo 0 class declared at or before `height`
func (r *HistoryReader) DeprecatedClassAt(
	classHash *felt.ClassHash,
	height uint64,
) (*core.DeprecatedCairoClass, bool, error) {
	var class core.DeprecatedCairoClass
	found, err := r.valueAt(db.DeprecatedClassHistoryKey(classHash), height, func(val []byte) error {
		return encoder.Unmarshal(val, &class)
	})
	if err != nil {
		return nil, false, fmt.Errorf("deprecated class %s: %w", classHash, err)
	}
	if !found {
		return nil, false, nil
	}
	return &class, true, nil
}

// ClassDeclarationHeight returns the block number a Sierra class was declared
// at. The caller decides whether that is visible from its height.
func (r *HistoryReader) ClassDeclarationHeight(classHash *felt.ClassHash) (uint64, bool, error) {
	var height uint64
	err := r.txn.Get(db.ClassDeclarationHeightKey(classHash), func(val []byte) error {
		var err error
		height, err = db.UnmarshalBlockNumber(val)
		return err
	})
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("declaration height of class %s: %w", classHash, err)
	}
	return height, true, nil
}

// CasmClass returns the compiled form of a Sierra class
func (r *HistoryReader) CasmClass(classHash *felt.ClassHash) (*core.CasmClass, bool, error) {
	var class core.CasmClass
	err := r.txn.Get(db.CasmClassKey(classHash), func(val []byte) error {
		return encoder.Unmarshal(val, &class)
	})
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("casm of class %s: %w", classHash, err)
	}
	return &class, true, nil
}

func (r *HistoryReader) feltAt(prefix []byte, height uint64) (felt.Felt, error) {
	var value felt.Felt
	_, err := r.valueAt(prefix, height, func(val []byte) error {
		return value.SetBytesCanonical(val)
	})
	return value, err
}

// valueAt calls cb with the newest record under prefix written at or before
// height. It reports whether such a record exists.
func (r *HistoryReader) valueAt(prefix []byte, height uint64, cb func([]byte) error) (bool, error) {
	it, err := r.txn.NewIterator(prefix, true)
	if err != nil {
		return false, err
	}

	if !it.Seek(db.HistoryKey(prefix, height)) {
		return false, it.Close()
	}

	if _, err = db.HistoryHeight(it.Key(), prefix); err != nil {
		return false, utils.RunAndWrapOnError(it.Close, err)
	}

	val, err := it.Value()
	if err = utils.RunAndWrapOnError(it.Close, err); err != nil {
		return false, err
	}

	return true, cb(val)
}
