package borsh

import (
	"bytes"
	"reflect"
	"sort"

	"github.com/eluv-io/errors-go"
)

// -----------------------------------------------------------------------------
// Set
// -----------------------------------------------------------------------------

// SetType is a collection of unique elements in canonical order.
type SetType struct {
	elem Type
}

// Set returns the descriptor of a set of elements of type elem. Input values
// may be slices or arrays (the elements) or maps (the keys are the elements).
// Elements with identical encodings collapse into one. Decoded sets are
// []interface{} in canonical order.
func Set(elem Type) *SetType {
	mustType("Set", elem)
	return &SetType{elem: elem}
}

// Elem returns the element descriptor.
func (t *SetType) Elem() Type { return t.elem }

func (t *SetType) sealed()        {}
func (t *SetType) Kind() Kind     { return KindSet }
func (t *SetType) String() string { return "Set<" + t.elem.String() + ">" }
func (t *SetType) Sizeof() Size   { return Unknown }

func (t *SetType) Serialize(buf *Buffer, v interface{}) error {
	e := errors.Template("Serialize", "type", t.String())

	var elements []interface{}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elements = make([]interface{}, rv.Len())
		for i := range elements {
			elements[i] = rv.Index(i).Interface()
		}
	case reflect.Map:
		elements = make([]interface{}, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			elements = append(elements, iter.Key().Interface())
		}
	default:
		return e(K.Type, "value_type", typeName(v))
	}

	encoded := make([][]byte, len(elements))
	for i, element := range elements {
		p, err := buf.isolate(t.elem, element)
		if err != nil {
			return e(err)
		}
		encoded[i] = p
	}
	if err := buf.WriteHashSet(encoded); err != nil {
		return e(err)
	}
	return nil
}

func (t *SetType) Deserialize(buf *Buffer) (interface{}, error) {
	e := errors.Template("Deserialize", "type", t.String())

	raw, err := buf.ReadHashSet()
	if err != nil {
		return nil, e(err)
	}
	ordered := sortUnique(raw)
	res := make([]interface{}, len(ordered))
	for i, p := range ordered {
		if res[i], err = buf.restore(t.elem, p); err != nil {
			return nil, e(err)
		}
	}
	return res, nil
}

// -----------------------------------------------------------------------------
// Map
// -----------------------------------------------------------------------------

// MapType is a collection of key/value entries in canonical order of the
// encoded keys.
type MapType struct {
	key   Type
	value Type
}

// Map returns the descriptor of a map with keys of type key and values of
// type value. Input values may be any Go map or a []Entry; the latter allows
// keys that are not comparable in Go.
//
// Decoded maps are map[interface{}]interface{} if the decoded keys can serve
// as Go map keys by value. Keys that decode to slices, maps or pointers
// (Bytes, Array, Vector, Set, Map, Record, U128, I128 and optionals thereof)
// decode to a []Entry in canonical order instead, which Serialize accepts
// as input.
func Map(key, value Type) *MapType {
	mustType("Map", key)
	mustType("Map", value)
	return &MapType{key: key, value: value}
}

// Key returns the key descriptor.
func (t *MapType) Key() Type { return t.key }

// Value returns the value descriptor.
func (t *MapType) Value() Type { return t.value }

func (t *MapType) sealed()    {}
func (t *MapType) Kind() Kind { return KindMap }
func (t *MapType) String() string {
	return "Map<" + t.key.String() + "," + t.value.String() + ">"
}
func (t *MapType) Sizeof() Size { return Unknown }

func (t *MapType) Serialize(buf *Buffer, v interface{}) error {
	e := errors.Template("Serialize", "type", t.String())

	var entries []Entry
	switch m := v.(type) {
	case []Entry:
		entries = m
	case map[string]interface{}:
		entries = make([]Entry, 0, len(m))
		for k, val := range m {
			entries = append(entries, Entry{Key: k, Value: val})
		}
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Map {
			return e(K.Type, "value_type", typeName(v))
		}
		entries = make([]Entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries = append(entries, Entry{Key: iter.Key().Interface(), Value: iter.Value().Interface()})
		}
	}

	raw := make([]RawEntry, len(entries))
	for i, entry := range entries {
		var err error
		if raw[i].Key, err = buf.isolate(t.key, entry.Key); err != nil {
			return e(err, "entry", "key")
		}
		if raw[i].Value, err = buf.isolate(t.value, entry.Value); err != nil {
			return e(err, "entry", "value", "key", entry.Key)
		}
	}
	if err := buf.WriteHashMap(raw); err != nil {
		return e(err)
	}
	return nil
}

func (t *MapType) Deserialize(buf *Buffer) (interface{}, error) {
	e := errors.Template("Deserialize", "type", t.String())

	raw, err := buf.ReadHashMap()
	if err != nil {
		return nil, e(err)
	}

	// last occurrence of an encoded key wins
	index := make(map[string]int, len(raw))
	unique := raw[:0]
	for _, entry := range raw {
		if i, ok := index[string(entry.Key)]; ok {
			unique[i] = entry
			continue
		}
		index[string(entry.Key)] = len(unique)
		unique = append(unique, entry)
	}

	if entryKeyed(t.key) {
		sort.SliceStable(unique, func(i, j int) bool {
			return bytes.Compare(unique[i].Key, unique[j].Key) < 0
		})
		res := make([]Entry, len(unique))
		for i, entry := range unique {
			if res[i].Key, err = buf.restore(t.key, entry.Key); err != nil {
				return nil, e(err, "entry", "key")
			}
			if res[i].Value, err = buf.restore(t.value, entry.Value); err != nil {
				return nil, e(err, "entry", "value")
			}
		}
		return res, nil
	}

	res := make(map[interface{}]interface{}, len(unique))
	for _, entry := range unique {
		key, err := buf.restore(t.key, entry.Key)
		if err != nil {
			return nil, e(err, "entry", "key")
		}
		val, err := buf.restore(t.value, entry.Value)
		if err != nil {
			return nil, e(err, "entry", "value")
		}
		res[key] = val
	}
	return res, nil
}

// entryKeyed returns true if values decoded with t cannot be used as Go map
// keys by value.
func entryKeyed(t Type) bool {
	switch t.Kind() {
	case KindBytes, KindArray, KindVector, KindSet, KindMap, KindRecord, KindU128, KindI128:
		return true
	case KindOptional:
		return entryKeyed(t.(*OptionalType).inner)
	}
	return false
}

// -----------------------------------------------------------------------------
// scratch buffer
// -----------------------------------------------------------------------------

// scratchBuffer returns the reset scratch buffer of b, creating it on first
// use. It inherits the validation and metrics settings of b.
func (b *Buffer) scratchBuffer() *Buffer {
	if b.scratch == nil {
		b.scratch = NewBuffer(0)
	}
	b.scratch.validate = b.validate
	b.scratch.metrics = b.metrics
	b.scratch.Reset()
	return b.scratch
}

// isolate serializes v with t into a byte string of its own, leaving the
// bytes already written to b untouched.
func (b *Buffer) isolate(t Type, v interface{}) ([]byte, error) {
	s := b.scratchBuffer()
	if err := t.Serialize(s, v); err != nil {
		return nil, err
	}
	return append([]byte(nil), s.Bytes()...), nil
}

// restore deserializes a value of type t from the isolated byte string p. All
// bytes of p must be consumed.
func (b *Buffer) restore(t Type, p []byte) (interface{}, error) {
	s := b.scratchBuffer()
	s.WriteFixedArray(p)
	v, err := t.Deserialize(s)
	if err != nil {
		return nil, err
	}
	if s.Remaining() != 0 {
		return nil, errors.E("restore", K.Value,
			"type", t.String(),
			"reason", "trailing bytes in collection entry",
			"trailing", s.Remaining())
	}
	return v, nil
}
