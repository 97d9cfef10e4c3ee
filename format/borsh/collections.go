package borsh

import (
	"reflect"
	"strconv"

	"github.com/eluv-io/errors-go"
)

// -----------------------------------------------------------------------------
// Optional
// -----------------------------------------------------------------------------

// OptionalType encodes a value that may be absent: a one-byte discriminant
// followed by the inner encoding if the value is present.
type OptionalType struct {
	inner Type
}

// Optional returns the descriptor of an optional value of type inner. A nil
// interface or nil pointer is encoded as absent.
func Optional(inner Type) *OptionalType {
	mustType("Optional", inner)
	return &OptionalType{inner: inner}
}

// Inner returns the descriptor of the present value.
func (t *OptionalType) Inner() Type { return t.inner }

func (t *OptionalType) sealed()        {}
func (t *OptionalType) Kind() Kind     { return KindOptional }
func (t *OptionalType) String() string { return "Optional<" + t.inner.String() + ">" }

// Sizeof is unknown even for fixed-size inner types, since presence is data
// dependent.
func (t *OptionalType) Sizeof() Size { return Unknown }

func (t *OptionalType) Serialize(buf *Buffer, v interface{}) error {
	if isNil(v) {
		buf.WriteOption(false)
		return nil
	}
	buf.WriteOption(true)
	return t.inner.Serialize(buf, v)
}

func (t *OptionalType) Deserialize(buf *Buffer) (interface{}, error) {
	present, err := buf.ReadOption()
	if err != nil {
		return nil, errors.E("Deserialize", err, "type", t.String())
	}
	if !present {
		return nil, nil
	}
	return t.inner.Deserialize(buf)
}

// -----------------------------------------------------------------------------
// Array
// -----------------------------------------------------------------------------

// ArrayType is a fixed number of elements written back to back without a
// count prefix.
type ArrayType struct {
	elem Type
	n    int
}

// Array returns the descriptor of a fixed-length sequence of n elements. It
// panics if elem is nil or n is negative.
func Array(elem Type, n int) *ArrayType {
	mustType("Array", elem)
	if n < 0 {
		panic("borsh.Array: negative length " + strconv.Itoa(n))
	}
	return &ArrayType{elem: elem, n: n}
}

// Elem returns the element descriptor.
func (t *ArrayType) Elem() Type { return t.elem }

// Len returns the number of elements.
func (t *ArrayType) Len() int { return t.n }

func (t *ArrayType) sealed()    {}
func (t *ArrayType) Kind() Kind { return KindArray }
func (t *ArrayType) String() string {
	return "Array<" + t.elem.String() + "," + strconv.Itoa(t.n) + ">"
}

func (t *ArrayType) Sizeof() Size {
	n, fixed := t.elem.Sizeof().Fixed()
	if !fixed {
		return Unknown
	}
	return FixedSize(n * t.n)
}

func (t *ArrayType) Serialize(buf *Buffer, v interface{}) error {
	seq, ok := asSequence(v)
	if !ok {
		return errors.E("Serialize", K.Type, "type", t.String(), "value_type", typeName(v))
	}
	if seq.Len() != t.n {
		return errors.E("Serialize", K.Value,
			"type", t.String(),
			"reason", "length mismatch",
			"expected", t.n,
			"actual", seq.Len())
	}
	return serializeElements(buf, t.elem, seq)
}

func (t *ArrayType) Deserialize(buf *Buffer) (interface{}, error) {
	if n, fixed := t.Sizeof().Fixed(); fixed && n > buf.Remaining() {
		return nil, errors.E("Deserialize", K.Truncated,
			"type", t.String(),
			"need", n,
			"remaining", buf.Remaining())
	}
	return deserializeElements(buf, t.elem, t.n)
}

// -----------------------------------------------------------------------------
// Vector
// -----------------------------------------------------------------------------

// VectorType is a u32 element count followed by the elements.
type VectorType struct {
	elem Type
}

// Vector returns the descriptor of a variable-length sequence of elements of
// type elem.
func Vector(elem Type) *VectorType {
	mustType("Vector", elem)
	return &VectorType{elem: elem}
}

// Elem returns the element descriptor.
func (t *VectorType) Elem() Type { return t.elem }

func (t *VectorType) sealed()        {}
func (t *VectorType) Kind() Kind     { return KindVector }
func (t *VectorType) String() string { return "Vector<" + t.elem.String() + ">" }
func (t *VectorType) Sizeof() Size   { return Unknown }

// MaxZeroSizeElements is the maximum number of elements of a vector whose
// elements occupy no bytes on the wire, e.g. Vector<Record{}>.
const MaxZeroSizeElements = 1 << 16

func (t *VectorType) Serialize(buf *Buffer, v interface{}) error {
	seq, ok := asSequence(v)
	if !ok {
		return errors.E("Serialize", K.Type, "type", t.String(), "value_type", typeName(v))
	}
	if seq.Len() > MaxZeroSizeElements && zeroSize(t.elem) {
		return errors.E("Serialize", K.Value,
			"reason", "too many zero-size elements",
			"type", t.String(),
			"count", seq.Len(),
			"limit", MaxZeroSizeElements)
	}
	if err := buf.WriteLen(seq.Len()); err != nil {
		return errors.E("Serialize", err, "type", t.String())
	}
	return serializeElements(buf, t.elem, seq)
}

func (t *VectorType) Deserialize(buf *Buffer) (interface{}, error) {
	count, err := buf.ReadLen()
	if err != nil {
		return nil, errors.E("Deserialize", err, "type", t.String())
	}
	if size, fixed := t.elem.Sizeof().Fixed(); fixed && size > 0 && count > buf.Remaining()/size {
		return nil, errors.E("Deserialize", K.Truncated,
			"type", t.String(),
			"count", count,
			"remaining", buf.Remaining())
	}
	if count > MaxZeroSizeElements && zeroSize(t.elem) {
		return nil, errors.E("Deserialize", K.Value,
			"reason", "too many zero-size elements",
			"type", t.String(),
			"count", count,
			"limit", MaxZeroSizeElements)
	}
	return deserializeElements(buf, t.elem, count)
}

// -----------------------------------------------------------------------------
// helpers
// -----------------------------------------------------------------------------

// zeroSize returns true if values of type t are always encoded with 0 bytes.
func zeroSize(t Type) bool {
	switch typ := t.(type) {
	case *Record:
		for _, f := range typ.fields {
			if !zeroSize(f.Type) {
				return false
			}
		}
		return true
	case *ArrayType:
		return typ.n == 0 || zeroSize(typ.elem)
	}
	size, fixed := t.Sizeof().Fixed()
	return fixed && size == 0
}

// asSequence returns the reflected value of v if it is a slice or an array.
func asSequence(v interface{}) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, true
	}
	return reflect.Value{}, false
}

func serializeElements(buf *Buffer, elem Type, seq reflect.Value) error {
	if list, ok := seq.Interface().([]interface{}); ok {
		for i, e := range list {
			if err := elem.Serialize(buf, e); err != nil {
				return errors.E("Serialize", err, "index", i)
			}
		}
		return nil
	}
	for i := 0; i < seq.Len(); i++ {
		if err := elem.Serialize(buf, seq.Index(i).Interface()); err != nil {
			return errors.E("Serialize", err, "index", i)
		}
	}
	return nil
}

func deserializeElements(buf *Buffer, elem Type, count int) ([]interface{}, error) {
	// zero-size or variable-size elements: grow as we go
	capacity := count
	if capacity > buf.Remaining() {
		capacity = buf.Remaining()
	}
	res := make([]interface{}, 0, capacity)
	for i := 0; i < count; i++ {
		e, err := elem.Deserialize(buf)
		if err != nil {
			return nil, errors.E("Deserialize", err, "index", i)
		}
		res = append(res, e)
	}
	return res, nil
}
