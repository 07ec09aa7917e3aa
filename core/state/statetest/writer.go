// Package statetest lays out history records the way state.HistoryReader
// expects to find them. It is meant for tests and fixtures; block ingestion
// is not part of this module.
package statetest

import (
	"github.com/NethermindEth/snapreader/core"
	"github.com/NethermindEth/snapreader/core/felt"
	"github.com/NethermindEth/snapreader/db"
	"github.com/NethermindEth/snapreader/encoder"
)

type Writer struct {
	txn db.KeyValueWriter
}

func NewWriter(txn db.KeyValueWriter) *Writer {
	return &Writer{txn: txn}
}

func (w *Writer) SetStorage(addr *felt.Address, location, value *felt.Felt, height uint64) error {
	return w.setFelt(db.ContractStorageHistoryKey(addr, location), value, height)
}

func (w *Writer) SetNonce(addr *felt.Address, nonce *felt.Felt, height uint64) error {
	return w.setFelt(db.ContractNonceHistoryKey(addr), nonce, height)
}

func (w *Writer) SetClassHash(addr *felt.Address, classHash *felt.ClassHash, height uint64) error {
	return w.setFelt(db.ContractClassHashHistoryKey(addr), (*felt.Felt)(classHash), height)
}

// DeclareDeprecatedClass records a Cairo 0 class as declared at height
func (w *Writer) DeclareDeprecatedClass(
	classHash *felt.ClassHash,
	class *core.DeprecatedCairoClass,
	height uint64,
) error {
	encoded, err := encoder.Marshal(class)
	if err != nil {
		return err
	}
	return w.txn.Put(db.HistoryKey(db.DeprecatedClassHistoryKey(classHash), height), encoded)
}

// DeclareClass records a Sierra class as declared at height along with its
// compiled form.
func (w *Writer) DeclareClass(classHash *felt.ClassHash, casm *core.CasmClass, height uint64) error {
	if err := w.PutCasm(classHash, casm); err != nil {
		return err
	}
	return w.PutDeclarationHeight(classHash, height)
}

// PutDeclarationHeight writes only the declaration record of a class
func (w *Writer) PutDeclarationHeight(classHash *felt.ClassHash, height uint64) error {
	return w.txn.Put(db.ClassDeclarationHeightKey(classHash), db.MarshalBlockNumber(height))
}

// PutCasm writes only the compiled form of a class
func (w *Writer) PutCasm(classHash *felt.ClassHash, casm *core.CasmClass) error {
	encoded, err := encoder.Marshal(casm)
	if err != nil {
		return err
	}
	return w.txn.Put(db.CasmClassKey(classHash), encoded)
}

func (w *Writer) setFelt(prefix []byte, value *felt.Felt, height uint64) error {
	return w.txn.Put(db.HistoryKey(prefix, height), value.Marshal())
}
