package borsh

import (
	"math"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/borsh-go/util/numberutil"
)

// Predefined scalar descriptors.
var (
	U8   Type = &intType{kind: KindU8, bits: 8}
	U16  Type = &intType{kind: KindU16, bits: 16}
	U32  Type = &intType{kind: KindU32, bits: 32}
	U64  Type = &intType{kind: KindU64, bits: 64}
	U128 Type = &intType{kind: KindU128, bits: 128}
	I8   Type = &intType{kind: KindI8, bits: 8, signed: true}
	I16  Type = &intType{kind: KindI16, bits: 16, signed: true}
	I32  Type = &intType{kind: KindI32, bits: 32, signed: true}
	I64  Type = &intType{kind: KindI64, bits: 64, signed: true}
	I128 Type = &intType{kind: KindI128, bits: 128, signed: true}
	F32  Type = &floatType{kind: KindF32, bits: 32}
	F64  Type = &floatType{kind: KindF64, bits: 64}
	Bool Type = boolType{}
)

// intType is a fixed-width integer. Integers of up to 64 bits decode to the
// matching Go type, 128-bit integers decode to *big.Int.
type intType struct {
	kind   Kind
	bits   int
	signed bool
}

func (t *intType) sealed()        {}
func (t *intType) Kind() Kind     { return t.kind }
func (t *intType) String() string { return t.kind.String() }
func (t *intType) Sizeof() Size   { return FixedSize(t.bits / 8) }

func (t *intType) Serialize(buf *Buffer, v interface{}) error {
	i, err := numberutil.AsBigIntErr(v)
	if err != nil {
		return errors.E("Serialize", K.Type, err, "type", t.String(), "value_type", typeName(v))
	}
	if t.signed {
		err = buf.WriteSigned(t.bits, i)
	} else {
		err = buf.WriteUnsigned(t.bits, i)
	}
	if err != nil {
		return errors.E("Serialize", err, "type", t.String())
	}
	return nil
}

func (t *intType) Deserialize(buf *Buffer) (interface{}, error) {
	var res interface{}
	var err error
	switch t.kind {
	case KindU8:
		res, err = buf.ReadU8()
	case KindU16:
		res, err = buf.ReadU16()
	case KindU32:
		res, err = buf.ReadU32()
	case KindU64:
		res, err = buf.ReadU64()
	case KindU128:
		res, err = buf.ReadU128()
	case KindI8:
		res, err = buf.ReadI8()
	case KindI16:
		res, err = buf.ReadI16()
	case KindI32:
		res, err = buf.ReadI32()
	case KindI64:
		res, err = buf.ReadI64()
	case KindI128:
		res, err = buf.ReadI128()
	}
	if err != nil {
		return nil, errors.E("Deserialize", err, "type", t.String())
	}
	return res, nil
}

// floatType is an IEEE-754 floating point number. With validation enabled,
// finite values that exceed the range of F32 are rejected rather than
// silently turned into infinities.
type floatType struct {
	kind Kind
	bits int
}

func (t *floatType) sealed()        {}
func (t *floatType) Kind() Kind     { return t.kind }
func (t *floatType) String() string { return t.kind.String() }
func (t *floatType) Sizeof() Size   { return FixedSize(t.bits / 8) }

func (t *floatType) Serialize(buf *Buffer, v interface{}) error {
	f, err := numberutil.AsFloat64Err(v)
	if err != nil {
		return errors.E("Serialize", K.Type, err, "type", t.String(), "value_type", typeName(v))
	}
	if t.bits == 64 {
		buf.WriteF64(f)
		return nil
	}
	if buf.validate && !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
		return errors.E("Serialize", K.Range,
			"type", t.String(),
			"value", f,
			"max", math.MaxFloat32)
	}
	buf.WriteF32(float32(f))
	return nil
}

func (t *floatType) Deserialize(buf *Buffer) (interface{}, error) {
	var res interface{}
	var err error
	if t.bits == 64 {
		res, err = buf.ReadF64()
	} else {
		res, err = buf.ReadF32()
	}
	if err != nil {
		return nil, errors.E("Deserialize", err, "type", t.String())
	}
	return res, nil
}

// boolType accepts bool values and the integers 0 and 1.
type boolType struct{}

func (boolType) sealed()        {}
func (boolType) Kind() Kind     { return KindBool }
func (boolType) String() string { return KindBool.String() }
func (boolType) Sizeof() Size   { return FixedSize(1) }

func (t boolType) Serialize(buf *Buffer, v interface{}) error {
	if b, ok := v.(bool); ok {
		buf.WriteBool(b)
		return nil
	}
	if i, err := numberutil.AsBigIntErr(v); err == nil && i.IsInt64() {
		switch i.Int64() {
		case 0:
			buf.WriteBool(false)
			return nil
		case 1:
			buf.WriteBool(true)
			return nil
		}
	}
	return errors.E("Serialize", K.Type,
		"type", t.String(),
		"value_type", typeName(v),
		"reason", "expected bool or integer 0 or 1")
}

func (t boolType) Deserialize(buf *Buffer) (interface{}, error) {
	b, err := buf.ReadBool()
	if err != nil {
		return nil, errors.E("Deserialize", err, "type", t.String())
	}
	return b, nil
}

