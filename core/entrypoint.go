package core

import "github.com/NethermindEth/snapreader/core/felt"

// EntryPoint uniquely identifies a Cairo 0 function to execute.
type EntryPoint struct {
	// starknet_keccak hash of the function signature.
	Selector *felt.Felt
	// The offset of the instruction that should be called in the class's bytecode.
	Offset *felt.Felt
}

// CasmEntryPoint is an entry point of a compiled Sierra class.
type CasmEntryPoint struct {
	Selector *felt.Felt
	// Offset of the entry point in the bytecode.
	Offset uint64
	// Builtins used by the entry point, in the order the VM expects them.
	Builtins []string
}
