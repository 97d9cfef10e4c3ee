package borsh

import (
	"github.com/eluv-io/errors-go"
	"github.com/mr-tron/base58"
)

// PubKeyLen is the length of a public key in bytes.
const PubKeyLen = 32

// PubKey is a 32-byte public key. It accepts raw bytes ([]byte or [32]byte)
// or the base58 text form and always decodes to the base58 text form.
var PubKey Type = pubKeyType{}

type pubKeyType struct{}

func (pubKeyType) sealed()        {}
func (pubKeyType) Kind() Kind     { return KindPubKey }
func (pubKeyType) String() string { return KindPubKey.String() }
func (pubKeyType) Sizeof() Size   { return FixedSize(PubKeyLen) }

func (t pubKeyType) Serialize(buf *Buffer, v interface{}) error {
	e := errors.Template("Serialize", K.Value, "type", t.String())

	var raw []byte
	switch key := v.(type) {
	case []byte:
		raw = key
	case [PubKeyLen]byte:
		raw = key[:]
	case string:
		var err error
		if raw, err = base58.Decode(key); err != nil {
			return e(err, "reason", "invalid base58")
		}
	default:
		return e(K.Type, "value_type", typeName(v))
	}
	if len(raw) != PubKeyLen {
		return e("reason", "invalid length", "expected", PubKeyLen, "actual", len(raw))
	}
	buf.WriteFixedArray(raw)
	return nil
}

func (t pubKeyType) Deserialize(buf *Buffer) (interface{}, error) {
	raw, err := buf.ReadFixedArray(PubKeyLen)
	if err != nil {
		return nil, errors.E("Deserialize", err, "type", t.String())
	}
	return base58.Encode(raw), nil
}

// PaddingType writes sizeof(inner) zero bytes. On decode the bytes are
// skipped without inspection and no value is produced: records omit padding
// fields from their decoded mapping.
type PaddingType struct {
	inner Type
	n     int
}

// NewPadding returns a padding descriptor as large as the encoding of inner.
// Fails with K.Value if inner does not have a fixed size.
func NewPadding(inner Type) (*PaddingType, error) {
	e := errors.Template("NewPadding", K.Value)
	if inner == nil {
		return nil, e(K.Type, "reason", "nil inner type")
	}
	n, fixed := inner.Sizeof().Fixed()
	if !fixed {
		return nil, e("reason", "inner type has no fixed size", "inner", inner.String())
	}
	return &PaddingType{inner: inner, n: n}, nil
}

// Padding is like NewPadding but panics on error.
func Padding(inner Type) *PaddingType {
	p, err := NewPadding(inner)
	if err != nil {
		panic(err)
	}
	return p
}

// Inner returns the descriptor the padding size is taken from.
func (t *PaddingType) Inner() Type { return t.inner }

func (t *PaddingType) sealed()        {}
func (t *PaddingType) Kind() Kind     { return KindPadding }
func (t *PaddingType) String() string { return "Padding<" + t.inner.String() + ">" }
func (t *PaddingType) Sizeof() Size   { return FixedSize(t.n) }

// Serialize ignores v.
func (t *PaddingType) Serialize(buf *Buffer, _ interface{}) error {
	p := buf.reserve(t.n)
	for i := range p {
		p[i] = 0
	}
	return nil
}

// Deserialize skips the padding bytes and returns nil.
func (t *PaddingType) Deserialize(buf *Buffer) (interface{}, error) {
	if _, err := buf.consume("Deserialize", t.n); err != nil {
		return nil, errors.E("Deserialize", err, "type", t.String())
	}
	return nil, nil
}
