package borsh

import (
	"fmt"
	"reflect"
	"strconv"
)

// Kind identifies the variant of a type descriptor.
type Kind uint8

const (
	KindU8 Kind = iota
	KindU16
	KindU32
	KindU64
	KindU128
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindF32
	KindF64
	KindBool
	KindString
	KindBytes
	KindOptional
	KindArray
	KindVector
	KindSet
	KindMap
	KindPubKey
	KindPadding
	KindRecord
)

var kindNames = [...]string{
	KindU8:       "U8",
	KindU16:      "U16",
	KindU32:      "U32",
	KindU64:      "U64",
	KindU128:     "U128",
	KindI8:       "I8",
	KindI16:      "I16",
	KindI32:      "I32",
	KindI64:      "I64",
	KindI128:     "I128",
	KindF32:      "F32",
	KindF64:      "F64",
	KindBool:     "Bool",
	KindString:   "String",
	KindBytes:    "Bytes",
	KindOptional: "Optional",
	KindArray:    "Array",
	KindVector:   "Vector",
	KindSet:      "Set",
	KindMap:      "Map",
	KindPubKey:   "PubKey",
	KindPadding:  "Padding",
	KindRecord:   "Record",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Size is the encoded size of a type descriptor: either a fixed number of
// bytes or unknown (variable length). The zero value is unknown.
type Size struct {
	n     int
	fixed bool
}

// Unknown is the size of variable-length descriptors.
var Unknown = Size{}

// FixedSize returns a fixed size of n bytes.
func FixedSize(n int) Size {
	return Size{n: n, fixed: true}
}

// Fixed returns the size in bytes and true if the size is fixed, or 0 and
// false if it is unknown.
func (s Size) Fixed() (int, bool) {
	return s.n, s.fixed
}

// IsFixed returns true if the size is known.
func (s Size) IsFixed() bool {
	return s.fixed
}

func (s Size) String() string {
	if !s.fixed {
		return "unknown"
	}
	return strconv.Itoa(s.n)
}

// Type is a type descriptor: it serializes values of one shape into a Buffer,
// deserializes them back and reports the encoded size when statically known.
//
// The set of implementations is closed; all of them are defined in this
// package and are immutable after construction, hence safe for concurrent use.
type Type interface {
	// Kind returns the variant of the descriptor.
	Kind() Kind
	// Serialize writes v to buf. Values are validated at this boundary.
	Serialize(buf *Buffer, v interface{}) error
	// Deserialize reads a value from buf.
	Deserialize(buf *Buffer) (interface{}, error)
	// Sizeof returns the encoded size if it is the same for all values.
	Sizeof() Size
	// String returns the shape of the descriptor, e.g. "Vector<U32>". Equal
	// shapes produce equal strings.
	String() string

	sealed()
}

// Entry is a key/value pair. A slice of entries may be used as input for Map
// descriptors when keys are not comparable in Go, e.g. byte slices or
// records. Maps with such keys also decode to a []Entry.
type Entry struct {
	Key   interface{}
	Value interface{}
}

// isNil returns true for nil interfaces and nil pointers.
func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// typeName returns the Go type of v for error reporting.
func typeName(v interface{}) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

// mustType panics if t is nil. Constructors of composite descriptors use it,
// since a nil element descriptor is a programming error.
func mustType(op string, t Type) {
	if t == nil {
		panic(fmt.Sprintf("borsh.%s: nil element type", op))
	}
}
