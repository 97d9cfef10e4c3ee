package borsh

import (
	"reflect"
	"sort"
	"strings"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/borsh-go/collections/set"
)

// Field is a named record field.
type Field struct {
	Name string
	Type Type
}

// F is a shorthand for creating a Field.
func F(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

// Record is an ordered list of named fields, encoded as the concatenation of
// the field encodings in declaration order. Records decode to
// map[string]interface{}; padding fields are omitted from the result.
//
// A Record is immutable: WithStrict and WithExactSize return modified copies.
type Record struct {
	fields    []Field
	names     []string // sorted field names
	strict    bool
	exactSize bool
	name      string
}

// NewRecord creates a record from the given fields, whose order is the wire
// order. Fails with K.Type if a field has no type and with K.Value if a field
// name is empty or used twice.
//
// The returned record is not strict and reports an exact size, see
// WithStrict and WithExactSize.
func NewRecord(fields ...Field) (*Record, error) {
	e := errors.Template("NewRecord", K.Value)

	r := &Record{
		fields:    make([]Field, len(fields)),
		names:     make([]string, 0, len(fields)),
		exactSize: true,
	}
	copy(r.fields, fields)
	for i, f := range fields {
		if f.Name == "" {
			return nil, e("reason", "empty field name", "index", i)
		}
		if f.Type == nil {
			return nil, e(K.Type, "reason", "field type is nil", "field", f.Name)
		}
		if set.ContainsFn[string](strings.Compare, r.names, f.Name) {
			return nil, e("reason", "duplicate field name", "field", f.Name)
		}
		r.names = set.InsertFn[string](strings.Compare, r.names, f.Name)
	}
	r.name = r.render()
	return r, nil
}

// MustRecord is like NewRecord but panics on error.
func MustRecord(fields ...Field) *Record {
	r, err := NewRecord(fields...)
	if err != nil {
		panic(err)
	}
	return r
}

// WithStrict returns a copy of the record that, if strict is true, requires
// the key set of encoded mappings to equal the declared field set. Keys of
// padding fields are optional in strict mode.
func (r *Record) WithStrict(strict bool) *Record {
	c := *r
	c.strict = strict
	c.name = c.render()
	return &c
}

// WithExactSize returns a copy of the record with the given size policy. If
// exact is true (the default), Sizeof is unknown as soon as one field has an
// unknown size. Otherwise Sizeof sums the fixed-size fields only, yielding a
// lower bound of the encoded size.
func (r *Record) WithExactSize(exact bool) *Record {
	c := *r
	c.exactSize = exact
	c.name = c.render()
	return &c
}

// Fields returns a copy of the record's fields in wire order.
func (r *Record) Fields() []Field {
	res := make([]Field, len(r.fields))
	copy(res, r.fields)
	return res
}

// Strict returns true if the record validates key sets.
func (r *Record) Strict() bool { return r.strict }

// ExactSize returns the size policy of the record.
func (r *Record) ExactSize() bool { return r.exactSize }

func (r *Record) sealed()        {}
func (r *Record) Kind() Kind     { return KindRecord }
func (r *Record) String() string { return r.name }

func (r *Record) render() string {
	sb := strings.Builder{}
	sb.WriteString("Record{")
	for i, f := range r.fields {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(f.Name)
		sb.WriteString(":")
		sb.WriteString(f.Type.String())
	}
	sb.WriteString("}")
	switch {
	case r.strict && !r.exactSize:
		sb.WriteString("[strict,inexact]")
	case r.strict:
		sb.WriteString("[strict]")
	case !r.exactSize:
		sb.WriteString("[inexact]")
	}
	return sb.String()
}

func (r *Record) Sizeof() Size {
	total := 0
	for _, f := range r.fields {
		n, fixed := f.Type.Sizeof().Fixed()
		if !fixed {
			if r.exactSize {
				return Unknown
			}
			continue
		}
		total += n
	}
	return FixedSize(total)
}

func (r *Record) Serialize(buf *Buffer, v interface{}) error {
	e := errors.Template("Serialize", "type", r.String())

	values, ok := asStringMap(v)
	if !ok {
		return e(K.Type, "value_type", typeName(v))
	}

	if r.strict {
		var missing, extra []string
		for _, f := range r.fields {
			if _, found := values[f.Name]; !found && f.Type.Kind() != KindPadding {
				missing = append(missing, f.Name)
			}
		}
		for key := range values {
			if !set.ContainsFn[string](strings.Compare, r.names, key) {
				extra = append(extra, key)
			}
		}
		if len(missing) > 0 {
			return e(K.Value, "reason", "missing keys", "missing", missing)
		}
		if len(extra) > 0 {
			sort.Strings(extra)
			return e(K.Value, "reason", "extra keys", "extra", extra)
		}
	}

	for _, f := range r.fields {
		val, found := values[f.Name]
		if !found && f.Type.Kind() != KindPadding {
			return e(K.Lookup, "field", f.Name)
		}
		if err := f.Type.Serialize(buf, val); err != nil {
			return e(err, "field", f.Name)
		}
	}
	return nil
}

func (r *Record) Deserialize(buf *Buffer) (interface{}, error) {
	res := make(map[string]interface{}, len(r.fields))
	for _, f := range r.fields {
		val, err := f.Type.Deserialize(buf)
		if err != nil {
			return nil, errors.E("Deserialize", err, "type", r.String(), "field", f.Name)
		}
		if f.Type.Kind() == KindPadding {
			continue
		}
		res[f.Name] = val
	}
	return res, nil
}

// asStringMap returns v as a map[string]interface{} if it is a map with keys
// of a string kind.
func asStringMap(v interface{}) (map[string]interface{}, bool) {
	if m, ok := v.(map[string]interface{}); ok {
		return m, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	res := make(map[string]interface{}, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		res[iter.Key().String()] = iter.Value().Interface()
	}
	return res, true
}
