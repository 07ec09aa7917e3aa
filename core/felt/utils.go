package felt

// FeltLike is satisfied by every type defined on top of a field element,
// e.g. Felt, Address, ClassHash.
type FeltLike interface {
	~[Limbs]uint64
}

func IsZero[F FeltLike](v F) bool {
	f := Felt(v)
	return f.IsZero()
}

func Equal[F FeltLike](a, b F) bool {
	fa := Felt(a)
	fb := Felt(b)
	return fa.Equal(&fb)
}

// FromUint64 returns a value of type F holding num
func FromUint64[F FeltLike](num uint64) F {
	var f Felt
	f.SetUint64(num)
	return F(f)
}

// NewFromUint64 is like FromUint64 but returns a pointer
func NewFromUint64[F FeltLike](num uint64) *F {
	f := FromUint64[F](num)
	return &f
}

// FromBytes returns a value of type F holding the big-endian value of b,
// reduced modulo the field order
func FromBytes[F FeltLike](b []byte) F {
	var f Felt
	f.SetBytes(b)
	return F(f)
}

// NewFromBytes is like FromBytes but returns a pointer
func NewFromBytes[F FeltLike](b []byte) *F {
	f := FromBytes[F](b)
	return &f
}

// FromString parses a decimal or 0x prefixed hex string into F
func FromString[F FeltLike](s string) (F, error) {
	var f Felt
	if _, err := f.SetString(s); err != nil {
		return F{}, err
	}
	return F(f), nil
}

// UnsafeFromString is like FromString but panics on malformed input.
// Meant for tests and constants.
func UnsafeFromString[F FeltLike](s string) F {
	f, err := FromString[F](s)
	if err != nil {
		panic(err)
	}
	return f
}
