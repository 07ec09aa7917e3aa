package db

import (
	"encoding/binary"
	"errors"

	"github.com/NethermindEth/snapreader/core/felt"
)

// HeightSize is the length of the height suffix of every history key
const HeightSize = 8

var ErrMalformedHistoryKey = errors.New("malformed history key")

func ContractStorageHistoryKey(addr *felt.Address, loc *felt.Felt) []byte {
	return ContractStorageHistory.Key(addr.Marshal(), loc.Marshal())
}

func ContractNonceHistoryKey(addr *felt.Address) []byte {
	return ContractNonceHistory.Key(addr.Marshal())
}

func ContractClassHashHistoryKey(addr *felt.Address) []byte {
	return ContractClassHashHistory.Key(addr.Marshal())
}

func DeprecatedClassHistoryKey(classHash *felt.ClassHash) []byte {
	return DeprecatedClassHistory.Key(classHash.Marshal())
}

func ClassDeclarationHeightKey(classHash *felt.ClassHash) []byte {
	return ClassDeclarationHeight.Key(classHash.Marshal())
}

func CasmClassKey(classHash *felt.ClassHash) []byte {
	return CasmClass.Key(classHash.Marshal())
}

// HistoryKey appends the height to a history prefix. Heights are stored bit
// inverted so that, within a prefix, newer records sort before older ones and
// seeking to HistoryKey(prefix, h) lands on the newest record at or below h.
func HistoryKey(prefix []byte, height uint64) []byte {
	key := make([]byte, len(prefix), len(prefix)+HeightSize)
	copy(key, prefix)
	return binary.BigEndian.AppendUint64(key, ^height)
}

// HistoryHeight extracts the height from a key built by HistoryKey
func HistoryHeight(key []byte, prefix []byte) (uint64, error) {
	if len(key) != len(prefix)+HeightSize {
		return 0, ErrMalformedHistoryKey
	}
	return ^binary.BigEndian.Uint64(key[len(prefix):]), nil
}

// MarshalBlockNumber encodes a block number as a big-endian uint64
func MarshalBlockNumber(blockNumber uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, blockNumber)
}

// UnmarshalBlockNumber decodes a value written by MarshalBlockNumber
func UnmarshalBlockNumber(data []byte) (uint64, error) {
	if len(data) != HeightSize {
		return 0, errors.New("block number must be 8 bytes long")
	}
	return binary.BigEndian.Uint64(data), nil
}
