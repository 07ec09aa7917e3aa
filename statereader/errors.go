package statereader

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/snapreader/core/felt"
)

var (
	// ErrStateRead matches every *ReadError
	ErrStateRead = errors.New("failed to read state")
	// ErrUndeclaredClass matches every *UndeclaredClassError
	ErrUndeclaredClass = errors.New("undeclared class")
	// ErrInconsistentStore matches every *InconsistentStoreError
	ErrInconsistentStore = errors.New("inconsistent store")
	// ErrCompiledClassHashUnsupported is the panic value of Reader.CompiledClassHash
	ErrCompiledClassHashUnsupported = errors.New("compiled class hash lookup is not supported")
)

// ReadError is returned when the underlying store fails for any reason other
// than a missing key. Only the diagnostic text of the storage error is kept so
// that storage error types do not reach the execution engine.
type ReadError struct {
	Msg string
}

func (e *ReadError) Error() string {
	return "failed to read state: " + e.Msg
}

func (e *ReadError) Is(target error) bool {
	return target == ErrStateRead
}

// UndeclaredClassError is returned when a class hash has no body visible at
// the reader's height.
type UndeclaredClassError struct {
	ClassHash felt.ClassHash
}

func (e *UndeclaredClassError) Error() string {
	return fmt.Sprintf("class with hash %s is not declared", &e.ClassHash)
}

func (e *UndeclaredClassError) Is(target error) bool {
	return target == ErrUndeclaredClass
}

// InconsistentStoreError is the panic value raised when a class is declared
// at or before the reader's height but its compiled form is missing.
type InconsistentStoreError struct {
	ClassHash  felt.ClassHash
	DeclaredAt uint64
}

func (e *InconsistentStoreError) Error() string {
	return fmt.Sprintf(
		"class %s is declared at block %d but its compiled class is missing, database is inconsistent",
		&e.ClassHash, e.DeclaredAt,
	)
}

func (e *InconsistentStoreError) Is(target error) bool {
	return target == ErrInconsistentStore
}

// readError flattens a storage error into a *ReadError
func readError(err error) error {
	return &ReadError{Msg: err.Error()}
}
