package borsh

import (
	"unicode/utf8"

	"github.com/eluv-io/errors-go"
)

// Predefined variable-length descriptors.
var (
	String Type = stringType{}
	Bytes  Type = bytesType{}
)

// stringType is UTF-8 text with a u32 byte length prefix.
type stringType struct{}

func (stringType) sealed()        {}
func (stringType) Kind() Kind     { return KindString }
func (stringType) String() string { return KindString.String() }
func (stringType) Sizeof() Size   { return Unknown }

func (t stringType) Serialize(buf *Buffer, v interface{}) error {
	s, ok := v.(string)
	if !ok {
		return errors.E("Serialize", K.Type, "type", t.String(), "value_type", typeName(v))
	}
	if !utf8.ValidString(s) {
		return errors.E("Serialize", K.Type, "type", t.String(), "reason", "invalid UTF-8")
	}
	if err := buf.WriteVec([]byte(s)); err != nil {
		return errors.E("Serialize", err, "type", t.String())
	}
	return nil
}

func (t stringType) Deserialize(buf *Buffer) (interface{}, error) {
	p, err := buf.ReadVec()
	if err != nil {
		return nil, errors.E("Deserialize", err, "type", t.String())
	}
	if !utf8.Valid(p) {
		return nil, errors.E("Deserialize", K.Value, "type", t.String(), "reason", "invalid UTF-8")
	}
	return string(p), nil
}

// bytesType is an opaque byte string with a u32 length prefix.
type bytesType struct{}

func (bytesType) sealed()        {}
func (bytesType) Kind() Kind     { return KindBytes }
func (bytesType) String() string { return KindBytes.String() }
func (bytesType) Sizeof() Size   { return Unknown }

func (t bytesType) Serialize(buf *Buffer, v interface{}) error {
	p, ok := v.([]byte)
	if !ok {
		return errors.E("Serialize", K.Type, "type", t.String(), "value_type", typeName(v))
	}
	if err := buf.WriteVec(p); err != nil {
		return errors.E("Serialize", err, "type", t.String())
	}
	return nil
}

func (t bytesType) Deserialize(buf *Buffer) (interface{}, error) {
	p, err := buf.ReadVec()
	if err != nil {
		return nil, errors.E("Deserialize", err, "type", t.String())
	}
	return p, nil
}
