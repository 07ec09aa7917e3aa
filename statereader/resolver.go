package statereader

import (
	"github.com/NethermindEth/snapreader/core"
	"github.com/NethermindEth/snapreader/core/felt"
	"github.com/NethermindEth/snapreader/core/state"
	"github.com/NethermindEth/snapreader/utils"
)

// ClassResolver finds the executable body of a class as of a fixed height.
//
// Sierra classes are tracked by a declaration record plus a compiled class
// keyed by hash. Cairo 0 classes predate that scheme and are only stored
// height scoped, so they are looked up when no visible declaration exists.
type ClassResolver struct {
	history    *state.HistoryReader
	height     uint64
	legacyOnly bool
	log        utils.SimpleLogger
	listener   EventListener
}

func NewClassResolver(history *state.HistoryReader, height uint64) *ClassResolver {
	return &ClassResolver{
		history:  history,
		height:   height,
		log:      utils.NewNopLogger(),
		listener: &SelectiveListener{},
	}
}

// NewLegacyClassResolver returns a resolver that ignores declaration records
// and only serves Cairo 0 classes.
func NewLegacyClassResolver(history *state.HistoryReader, height uint64) *ClassResolver {
	r := NewClassResolver(history, height)
	r.legacyOnly = true
	return r
}

func (r *ClassResolver) WithLogger(log utils.SimpleLogger) *ClassResolver {
	r.log = log
	return r
}

func (r *ClassResolver) WithListener(listener EventListener) *ClassResolver {
	r.listener = listener
	return r
}

// Resolve returns the executable class of classHash. Storage failures are
// returned unmapped; an invisible class yields an *UndeclaredClassError.
//
// Resolve panics with an *InconsistentStoreError if the class is declared at
// or before the resolver's height but its compiled class is missing.
func (r *ClassResolver) Resolve(classHash *felt.ClassHash) (core.ExecutableClass, error) {
	class, outcome, err := r.resolve(classHash)
	r.listener.OnClassResolved(outcome)
	return class, err
}

func (r *ClassResolver) resolve(classHash *felt.ClassHash) (core.ExecutableClass, ClassOutcome, error) {
	if !r.legacyOnly {
		declaredAt, declared, err := r.history.ClassDeclarationHeight(classHash)
		if err != nil {
			return core.ExecutableClass{}, ClassReadFailed, err
		}

		if declared && declaredAt <= r.height {
			casm, found, err := r.history.CasmClass(classHash)
			if err != nil {
				return core.ExecutableClass{}, ClassReadFailed, err
			}
			if !found {
				inconsistency := &InconsistentStoreError{ClassHash: *classHash, DeclaredAt: declaredAt}
				r.log.Errorw("Compiled class missing for declared class", "classHash", classHash,
					"declaredAt", declaredAt, "height", r.height)
				panic(inconsistency)
			}
			return core.NewCasmExecutableClass(casm), ClassResolvedCasm, nil
		}

		if declared {
			r.log.Debugw("Class declared after reader height", "classHash", classHash,
				"declaredAt", declaredAt, "height", r.height)
		}
	}

	deprecated, found, err := r.history.DeprecatedClassAt(classHash, r.height)
	if err != nil {
		return core.ExecutableClass{}, ClassReadFailed, err
	}
	if !found {
		r.log.Debugw("Class is not declared", "classHash", classHash, "height", r.height)
		return core.ExecutableClass{}, ClassUndeclared, &UndeclaredClassError{ClassHash: *classHash}
	}
	return core.NewDeprecatedExecutableClass(deprecated), ClassResolvedDeprecated, nil
}
