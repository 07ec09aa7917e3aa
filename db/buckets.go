package db

import (
	"slices"
	"strconv"
)

type Bucket byte

// Pebble does not support buckets to differentiate between groups of
// keys like Bolt or MDBX does. We use a global prefix list as a poor
// man's bucket alternative.
const (
	// ContractStorageHistory: contract address + storage location + height -> storage value
	ContractStorageHistory Bucket = iota
	// ContractNonceHistory: contract address + height -> nonce
	ContractNonceHistory
	// ContractClassHashHistory: contract address + height -> class hash
	ContractClassHashHistory
	// DeprecatedClassHistory: class hash + height -> Cairo 0 class definition
	DeprecatedClassHistory
	// ClassDeclarationHeight: class hash -> block number the Sierra class was declared at
	ClassDeclarationHeight
	// CasmClass: class hash -> compiled class
	CasmClass
)

var bucketNames = [...]string{
	ContractStorageHistory:   "ContractStorageHistory",
	ContractNonceHistory:     "ContractNonceHistory",
	ContractClassHashHistory: "ContractClassHashHistory",
	DeprecatedClassHistory:   "DeprecatedClassHistory",
	ClassDeclarationHeight:   "ClassDeclarationHeight",
	CasmClass:                "CasmClass",
}

// BucketValues returns every known bucket in prefix order
func BucketValues() []Bucket {
	buckets := make([]Bucket, len(bucketNames))
	for i := range bucketNames {
		buckets[i] = Bucket(i)
	}
	return buckets
}

func (b Bucket) String() string {
	if int(b) < len(bucketNames) {
		return bucketNames[b]
	}
	return "Bucket(" + strconv.Itoa(int(b)) + ")"
}

// Key flattens a prefix and series of byte arrays into a single []byte.
func (b Bucket) Key(key ...[]byte) []byte {
	return append([]byte{byte(b)}, slices.Concat(key...)...)
}
