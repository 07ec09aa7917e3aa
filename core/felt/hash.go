package felt

type Hash Felt

func (h *Hash) Bytes() [32]byte {
	return (*Felt)(h).Bytes()
}

func (h *Hash) String() string {
	return (*Felt)(h).String()
}

// ClassHash identifies a contract class. Both the deprecated (Cairo 0) and
// the Sierra generation of a class are addressed by a ClassHash.
type ClassHash Hash

func (h *ClassHash) String() string {
	return (*Hash)(h).String()
}

func (h *ClassHash) Marshal() []byte {
	return (*Felt)(h).Marshal()
}

func (h *ClassHash) IsZero() bool {
	return (*Felt)(h).IsZero()
}

func (h *ClassHash) Equal(x *ClassHash) bool {
	return (*Felt)(h).Equal((*Felt)(x))
}

func (h *ClassHash) UnmarshalJSON(data []byte) error {
	return (*Felt)(h).UnmarshalJSON(data)
}

func (h *ClassHash) MarshalJSON() ([]byte, error) {
	return (*Felt)(h).MarshalJSON()
}

// CasmClassHash is the hash of the compiled (CASM) form of a Sierra class.
type CasmClassHash ClassHash

func (h *CasmClassHash) String() string {
	return (*ClassHash)(h).String()
}
