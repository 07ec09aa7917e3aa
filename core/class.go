package core

import (
	"encoding/json"
	"fmt"

	"github.com/NethermindEth/snapreader/core/felt"
)

// DeprecatedCairoClass is a Cairo 0 class. It predates Sierra and is executed
// as stored.
type DeprecatedCairoClass struct {
	Abi json.RawMessage
	// External functions defined in the class.
	Externals []EntryPoint
	// Functions that receive L1 messages. See
	// https://www.cairo-lang.org/docs/hello_starknet/l1l2.html#receiving-a-message-from-l1
	L1Handlers []EntryPoint
	// Constructors for the class. Currently, only one is allowed.
	Constructors []EntryPoint
	// Base64 encoding of compressed Program
	Program string
}

// SegmentLengths describes how the bytecode of a CasmClass is split into
// (possibly nested) segments.
type SegmentLengths struct {
	Children []SegmentLengths
	Length   uint64
}

// CasmClass is the ahead-of-time compiled form of a Sierra class.
type CasmClass struct {
	Bytecode               []*felt.Felt
	PythonicHints          json.RawMessage
	CompilerVersion        string
	Hints                  json.RawMessage
	Prime                  string
	External               []CasmEntryPoint
	L1Handler              []CasmEntryPoint
	Constructor            []CasmEntryPoint
	BytecodeSegmentLengths SegmentLengths
}

type ClassVersion uint8

const (
	// ClassV0 classes are interpreted from their Cairo 0 definition
	ClassV0 ClassVersion = iota
	// ClassV1 classes run their CASM
	ClassV1
)

func (v ClassVersion) String() string {
	switch v {
	case ClassV0:
		return "v0"
	case ClassV1:
		return "v1"
	default:
		return fmt.Sprintf("ClassVersion(%d)", uint8(v))
	}
}

// ExecutableClass is the body of a class in the form the VM runs it. Exactly
// one of Deprecated and Casm is set, and callers are expected to switch on
// Version (or the nil-ness of the fields) since the two generations are
// executed differently.
type ExecutableClass struct {
	Deprecated *DeprecatedCairoClass
	Casm       *CasmClass
}

func NewDeprecatedExecutableClass(class *DeprecatedCairoClass) ExecutableClass {
	return ExecutableClass{Deprecated: class}
}

func NewCasmExecutableClass(class *CasmClass) ExecutableClass {
	return ExecutableClass{Casm: class}
}

func (c ExecutableClass) Version() ClassVersion {
	if c.Casm != nil {
		return ClassV1
	}
	return ClassV0
}

// Validate reports whether exactly one variant is set
func (c ExecutableClass) Validate() error {
	switch {
	case c.Deprecated != nil && c.Casm != nil:
		return fmt.Errorf("executable class has both a deprecated and a casm body")
	case c.Deprecated == nil && c.Casm == nil:
		return fmt.Errorf("executable class has no body")
	}
	return nil
}
