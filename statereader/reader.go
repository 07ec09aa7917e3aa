package statereader

import (
	"errors"

	"github.com/NethermindEth/snapreader/core"
	"github.com/NethermindEth/snapreader/core/felt"
	"github.com/NethermindEth/snapreader/core/state"
	"github.com/NethermindEth/snapreader/db"
	"github.com/NethermindEth/snapreader/utils"
)

//go:generate mockgen -destination=../mocks/mock_statereader.go -package=mocks github.com/NethermindEth/snapreader/statereader StateReader
type StateReader interface {
	// StorageAt returns the value at key in the storage of addr, zero if unset
	StorageAt(addr *felt.Address, key *felt.Felt) (felt.Felt, error)
	// NonceAt returns the nonce of addr, zero if unset
	NonceAt(addr *felt.Address) (felt.Felt, error)
	// ClassHashAt returns the class hash deployed at addr, zero if undeployed
	ClassHashAt(addr *felt.Address) (felt.ClassHash, error)
	// CompiledClass returns the executable body of a declared class
	CompiledClass(classHash *felt.ClassHash) (core.ExecutableClass, error)
	// CompiledClassHash returns the hash of the compiled form of a Sierra class
	CompiledClassHash(classHash *felt.ClassHash) (felt.CasmClassHash, error)
}

var _ StateReader = (*Reader)(nil)

// Reader serves the state as of the end of a single block. The height is
// fixed at construction and the underlying transaction is borrowed: it must
// stay open for as long as the Reader is used.
type Reader struct {
	height  uint64
	history *state.HistoryReader
	classes *ClassResolver
	log     utils.SimpleLogger
}

type Option func(*options)

type options struct {
	log      utils.SimpleLogger
	listener EventListener
}

func WithLogger(log utils.SimpleLogger) Option {
	return func(o *options) {
		o.log = log
	}
}

func WithListener(listener EventListener) Option {
	return func(o *options) {
		o.listener = listener
	}
}

// New returns a Reader bound to height. Classes resolve to their compiled
// form when declared at or before height and fall back to the Cairo 0 store
// otherwise.
func New(txn db.KeyValueReader, height uint64, opts ...Option) *Reader {
	history := state.NewHistoryReader(txn)
	return newReader(history, NewClassResolver(history, height), height, opts)
}

// NewLegacy returns a Reader bound to height that only serves Cairo 0
// classes, ignoring declaration records.
func NewLegacy(txn db.KeyValueReader, height uint64, opts ...Option) *Reader {
	history := state.NewHistoryReader(txn)
	return newReader(history, NewLegacyClassResolver(history, height), height, opts)
}

func newReader(history *state.HistoryReader, classes *ClassResolver, height uint64, opts []Option) *Reader {
	o := options{
		log:      utils.NewNopLogger(),
		listener: &SelectiveListener{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Reader{
		height:  height,
		history: history,
		classes: classes.WithLogger(o.log).WithListener(o.listener),
		log:     o.log,
	}
}

// Height returns the block number the reader is bound to
func (r *Reader) Height() uint64 {
	return r.height
}

func (r *Reader) StorageAt(addr *felt.Address, key *felt.Felt) (felt.Felt, error) {
	value, err := r.history.ContractStorageAt(addr, key, r.height)
	if err != nil {
		r.log.Errorw("Failed to read contract storage", "address", addr, "key", key, "height", r.height, "err", err)
		return felt.Zero, readError(err)
	}
	return value, nil
}

func (r *Reader) NonceAt(addr *felt.Address) (felt.Felt, error) {
	nonce, err := r.history.ContractNonceAt(addr, r.height)
	if err != nil {
		r.log.Errorw("Failed to read contract nonce", "address", addr, "height", r.height, "err", err)
		return felt.Zero, readError(err)
	}
	return nonce, nil
}

func (r *Reader) ClassHashAt(addr *felt.Address) (felt.ClassHash, error) {
	classHash, err := r.history.ContractClassHashAt(addr, r.height)
	if err != nil {
		r.log.Errorw("Failed to read contract class hash", "address", addr, "height", r.height, "err", err)
		return felt.ClassHash{}, readError(err)
	}
	return classHash, nil
}

// CompiledClass returns the compiled class of a Sierra class declared at or
// before the reader's height, or else the Cairo 0 class known at that height.
//
// It panics with an *InconsistentStoreError if the class is declared but its
// compiled class is missing from the store.
func (r *Reader) CompiledClass(classHash *felt.ClassHash) (core.ExecutableClass, error) {
	class, err := r.classes.Resolve(classHash)
	if err != nil {
		if errors.Is(err, ErrUndeclaredClass) {
			return core.ExecutableClass{}, err
		}
		r.log.Errorw("Failed to read class", "classHash", classHash, "height", r.height, "err", err)
		return core.ExecutableClass{}, readError(err)
	}
	return class, nil
}

// CompiledClassHash is not supported yet and always panics with
// ErrCompiledClassHashUnsupported.
// TODO: serve compiled class hashes once they are stored alongside declarations.
func (r *Reader) CompiledClassHash(_ *felt.ClassHash) (felt.CasmClassHash, error) {
	panic(ErrCompiledClassHashUnsupported)
}
