package felt

import (
	"errors"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/fxamacker/cbor/v2"
)

// Felt is an element of the Stark field.
type Felt fp.Element

const (
	Limbs = fp.Limbs // number of 64 bits words needed to represent a Element
	Bits  = fp.Bits  // number of bits needed to represent a Element
	Bytes = fp.Bytes // number of bytes needed to represent a Element
)

var (
	_ cbor.Marshaler   = (*Felt)(nil)
	_ cbor.Unmarshaler = (*Felt)(nil)
)

// Zero felt constant
var Zero = Felt{}

var bigIntPool = sync.Pool{
	New: func() any {
		return new(big.Int)
	},
}

// Impl returns the underlying field element type
func (z *Felt) Impl() *fp.Element {
	return (*fp.Element)(z)
}

// UnmarshalJSON accepts numbers and strings as input.
// See Element.SetString for valid prefixes (0x, 0b, ...).
// If there is an error, we try to explicitly unmarshal from hex before
// returning an error. This implementation is taken from [gnark-crypto].
//
// [gnark-crypto]: https://github.com/ConsenSys/gnark-crypto/blob/9fd0a7de2044f088a29cfac373da73d868230148/ecc/stark-curve/fp/element.go#L1028-L1056
func (z *Felt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > fp.Bits*3 {
		return errors.New("value too large (max = Element.Bits * 3)")
	}

	// we accept numbers and strings, remove leading and trailing quotes if any
	if len(s) > 0 && s[0] == '"' {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '"' {
		s = s[:len(s)-1]
	}

	// get temporary big int from the pool
	vv := bigIntPool.Get().(*big.Int)
	defer bigIntPool.Put(vv)

	if _, ok := vv.SetString(s, 0); !ok {
		if _, ok := vv.SetString(s, 16); !ok {
			return errors.New("can't parse into a big.Int: " + s)
		}
	}

	z.Impl().SetBigInt(vv)
	return nil
}

// MarshalJSON forwards the call to underlying field element implementation
func (z *Felt) MarshalJSON() ([]byte, error) {
	return []byte(`"` + z.String() + `"`), nil
}

// MarshalCBOR encodes the felt as a 32 byte big-endian byte string
func (z Felt) MarshalCBOR() ([]byte, error) {
	b := z.Bytes()
	return cbor.Marshal(b[:])
}

// UnmarshalCBOR decodes a felt encoded by MarshalCBOR
func (z *Felt) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return err
	}
	return z.SetBytesCanonical(b)
}

// SetBytes forwards the call to underlying field element implementation
func (z *Felt) SetBytes(e []byte) *Felt {
	z.Impl().SetBytes(e)
	return z
}

// SetBytesCanonical sets z from a 32 byte big-endian slice, rejecting
// values that are not reduced modulo the field order.
func (z *Felt) SetBytesCanonical(data []byte) error {
	return z.Impl().SetBytesCanonical(data)
}

// SetString forwards the call to underlying field element implementation
func (z *Felt) SetString(number string) (*Felt, error) {
	_, err := z.Impl().SetString(number)
	return z, err
}

// SetUint64 forwards the call to underlying field element implementation
func (z *Felt) SetUint64(v uint64) *Felt {
	z.Impl().SetUint64(v)
	return z
}

// SetRandom forwards the call to underlying field element implementation
func (z *Felt) SetRandom() (*Felt, error) {
	_, err := z.Impl().SetRandom()
	return z, err
}

// String returns the 0x prefixed hex representation
func (z *Felt) String() string {
	return "0x" + z.Impl().Text(16)
}

// Text forwards the call to underlying field element implementation
func (z *Felt) Text(base int) string {
	return z.Impl().Text(base)
}

// Equal forwards the call to underlying field element implementation
func (z *Felt) Equal(x *Felt) bool {
	return z.Impl().Equal(x.Impl())
}

// Marshal forwards the call to underlying field element implementation
func (z *Felt) Marshal() []byte {
	return z.Impl().Marshal()
}

// Unmarshal forwards the call to underlying field element implementation
func (z *Felt) Unmarshal(e []byte) {
	z.Impl().SetBytes(e)
}

// Bytes forwards the call to underlying field element implementation
func (z *Felt) Bytes() [32]byte {
	return z.Impl().Bytes()
}

// IsZero forwards the call to underlying field element implementation
func (z *Felt) IsZero() bool {
	return z.Impl().IsZero()
}
