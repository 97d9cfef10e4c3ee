package borsh

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/big"
	"sort"

	"github.com/eluv-io/errors-go"
)

// DefaultCapacity is the capacity of a buffer created with a non-positive
// initial capacity.
const DefaultCapacity = 128

// Buffer is a growable byte store with a read/write cursor. Writes append at
// the end of the committed bytes, reads consume committed bytes starting at
// the cursor. At all times 0 <= Offset() <= Len() <= Cap().
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	data     []byte // backing storage, len(data) is the capacity
	size     int    // committed bytes
	offset   int    // read cursor
	validate bool   // range checks on numeric writes
	metrics  *Metrics
	scratch  *Buffer // isolated encoding of set elements and map entries
}

// NewBuffer creates a buffer with the given initial capacity and range
// validation enabled. A capacity <= 0 is replaced by DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		data:     make([]byte, capacity),
		validate: true,
	}
}

// NewBufferFrom creates a buffer holding a copy of data, ready to be read
// from the start.
func NewBufferFrom(data []byte) *Buffer {
	b := NewBuffer(len(data))
	b.WriteFixedArray(data)
	return b
}

// SetValidation enables or disables range validation of numeric writes and
// returns the buffer for call chaining.
func (b *Buffer) SetValidation(validate bool) *Buffer {
	b.validate = validate
	return b
}

// Validation returns true if range validation is enabled.
func (b *Buffer) Validation() bool {
	return b.validate
}

// SetMetrics sets the metrics that record growth steps of this buffer.
func (b *Buffer) SetMetrics(m *Metrics) *Buffer {
	b.metrics = m
	return b
}

// Len returns the number of committed bytes.
func (b *Buffer) Len() int { return b.size }

// Cap returns the capacity of the backing storage.
func (b *Buffer) Cap() int { return len(b.data) }

// Offset returns the position of the read cursor.
func (b *Buffer) Offset() int { return b.offset }

// Remaining returns the number of committed bytes not yet read.
func (b *Buffer) Remaining() int { return b.size - b.offset }

// Bytes returns the committed bytes. The slice aliases the buffer's storage
// and is only valid until the next write or reset.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.size]
}

// Reset discards all committed bytes and rewinds the read cursor, keeping the
// backing storage for reuse.
func (b *Buffer) Reset() {
	b.size = 0
	b.offset = 0
}

// ResetOffset rewinds the read cursor to the start of the committed bytes.
func (b *Buffer) ResetOffset() {
	b.offset = 0
}

// Grow ensures that n more bytes can be written without reallocation.
// Capacity at least doubles on each growth step.
func (b *Buffer) Grow(n int) {
	needed := b.size + n
	if needed <= len(b.data) {
		return
	}
	capacity := len(b.data) * 2
	if capacity < needed {
		capacity = needed
	}
	data := make([]byte, capacity)
	copy(data, b.data[:b.size])
	log.Debug("buffer grown", "from", len(b.data), "to", capacity)
	b.data = data
	b.metrics.grown()
}

// reserve commits n bytes and returns the slice to write them to.
func (b *Buffer) reserve(n int) []byte {
	b.Grow(n)
	p := b.data[b.size : b.size+n]
	b.size += n
	return p
}

// consume advances the read cursor by n bytes and returns them.
func (b *Buffer) consume(op string, n int) ([]byte, error) {
	if n < 0 || n > b.Remaining() {
		return nil, errors.E(op, K.Truncated,
			"need", n,
			"remaining", b.Remaining(),
			"offset", b.offset)
	}
	p := b.data[b.offset : b.offset+n]
	b.offset += n
	return p, nil
}

// -----------------------------------------------------------------------------
// writes
// -----------------------------------------------------------------------------

func (b *Buffer) WriteU8(v uint8) {
	b.reserve(1)[0] = v
}

func (b *Buffer) WriteU16(v uint16) {
	binary.LittleEndian.PutUint16(b.reserve(2), v)
}

func (b *Buffer) WriteU32(v uint32) {
	binary.LittleEndian.PutUint32(b.reserve(4), v)
}

func (b *Buffer) WriteU64(v uint64) {
	binary.LittleEndian.PutUint64(b.reserve(8), v)
}

func (b *Buffer) WriteI8(v int8)   { b.WriteU8(uint8(v)) }
func (b *Buffer) WriteI16(v int16) { b.WriteU16(uint16(v)) }
func (b *Buffer) WriteI32(v int32) { b.WriteU32(uint32(v)) }
func (b *Buffer) WriteI64(v int64) { b.WriteU64(uint64(v)) }

// WriteF32 writes the IEEE-754 bit pattern of v.
func (b *Buffer) WriteF32(v float32) {
	b.WriteU32(math.Float32bits(v))
}

// WriteF64 writes the IEEE-754 bit pattern of v.
func (b *Buffer) WriteF64(v float64) {
	b.WriteU64(math.Float64bits(v))
}

func (b *Buffer) WriteBool(v bool) {
	if v {
		b.WriteU8(1)
	} else {
		b.WriteU8(0)
	}
}

// WriteU128 writes v as a 128-bit little-endian unsigned integer.
func (b *Buffer) WriteU128(v *big.Int) error {
	return b.WriteUnsigned(128, v)
}

// WriteI128 writes v as a 128-bit little-endian two's complement integer.
func (b *Buffer) WriteI128(v *big.Int) error {
	return b.WriteSigned(128, v)
}

// WriteUnsigned writes v as an unsigned little-endian integer of the given
// bit width (8, 16, 32, 64 or 128). With validation enabled, values outside
// [0, 2^bits-1] fail with a K.Range error and nothing is written. Without
// validation, v is truncated to the width.
func (b *Buffer) WriteUnsigned(bits int, v *big.Int) error {
	if b.validate && (v.Sign() < 0 || v.BitLen() > bits) {
		return errors.E("Buffer.WriteUnsigned", K.Range,
			"bits", bits,
			"value", v.String(),
			"min", 0,
			"max", maxUnsigned(bits).String())
	}
	b.writeTwosComplement(bits, v)
	return nil
}

// WriteSigned writes v as a little-endian two's complement integer of the
// given bit width (8, 16, 32, 64 or 128). With validation enabled, values
// outside [-2^(bits-1), 2^(bits-1)-1] fail with a K.Range error and nothing
// is written. Without validation, v is truncated to the width.
func (b *Buffer) WriteSigned(bits int, v *big.Int) error {
	if b.validate && (v.Cmp(minSigned(bits)) < 0 || v.Cmp(maxSigned(bits)) > 0) {
		return errors.E("Buffer.WriteSigned", K.Range,
			"bits", bits,
			"value", v.String(),
			"min", minSigned(bits).String(),
			"max", maxSigned(bits).String())
	}
	b.writeTwosComplement(bits, v)
	return nil
}

func (b *Buffer) writeTwosComplement(bits int, v *big.Int) {
	n := bits / 8
	if bits <= 64 && (v.IsInt64() || v.IsUint64()) {
		var u uint64
		if v.IsInt64() {
			u = uint64(v.Int64())
		} else {
			u = v.Uint64()
		}
		p := b.reserve(n)
		for i := 0; i < n; i++ {
			p[i] = byte(u >> (8 * i))
		}
		return
	}
	// reduce modulo 2^bits: handles negative values and truncation alike
	u := new(big.Int).And(v, maxUnsigned(bits))
	be := u.FillBytes(make([]byte, n))
	p := b.reserve(n)
	for i := 0; i < n; i++ {
		p[i] = be[n-1-i]
	}
}

// WriteFixedArray writes the raw bytes without length prefix.
func (b *Buffer) WriteFixedArray(p []byte) {
	copy(b.reserve(len(p)), p)
}

// WriteLen writes a u32 length or count prefix. With validation enabled,
// lengths above 2^32-1 fail with a K.Range error.
func (b *Buffer) WriteLen(n int) error {
	if n < 0 || (b.validate && uint64(n) > math.MaxUint32) {
		return errors.E("Buffer.WriteLen", K.Range, "length", n, "max", uint32(math.MaxUint32))
	}
	b.WriteU32(uint32(n))
	return nil
}

// WriteVec writes a u32 length prefix followed by the raw bytes.
func (b *Buffer) WriteVec(p []byte) error {
	if err := b.WriteLen(len(p)); err != nil {
		return err
	}
	b.WriteFixedArray(p)
	return nil
}

// WriteOption writes the one-byte discriminant of an optional value.
func (b *Buffer) WriteOption(present bool) {
	b.WriteBool(present)
}

// WriteEnum writes the one-byte variant index of an enum value.
func (b *Buffer) WriteEnum(variant uint8) {
	b.WriteU8(variant)
}

// RawEntry is a serialized key/value pair of a map.
type RawEntry struct {
	Key   []byte
	Value []byte
}

// WriteHashMap writes a u32 entry count followed by the entries in canonical
// order: sorted by the unsigned lexicographic order of their key bytes. Each
// key and each value is written as a length-prefixed byte string. Entries
// with identical keys collapse into one if their values are identical too,
// otherwise the call fails with a K.Value error.
func (b *Buffer) WriteHashMap(entries []RawEntry) error {
	e := errors.Template("Buffer.WriteHashMap", K.Value)

	sorted := make([]RawEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Key, sorted[j].Key) < 0
	})

	unique := sorted[:0]
	for _, entry := range sorted {
		if n := len(unique); n > 0 && bytes.Equal(unique[n-1].Key, entry.Key) {
			if !bytes.Equal(unique[n-1].Value, entry.Value) {
				return e("reason", "conflicting values for identical key encoding", "key", entry.Key)
			}
			continue
		}
		unique = append(unique, entry)
	}

	if err := b.WriteLen(len(unique)); err != nil {
		return err
	}
	for _, entry := range unique {
		if err := b.WriteVec(entry.Key); err != nil {
			return err
		}
		if err := b.WriteVec(entry.Value); err != nil {
			return err
		}
	}
	return nil
}

// WriteHashSet writes a u32 element count followed by the length-prefixed
// elements in canonical order: sorted by the unsigned lexicographic order of
// their bytes. Duplicate elements collapse.
func (b *Buffer) WriteHashSet(elements [][]byte) error {
	ordered := sortUnique(elements)
	if err := b.WriteLen(len(ordered)); err != nil {
		return err
	}
	for _, element := range ordered {
		if err := b.WriteVec(element); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// reads
// -----------------------------------------------------------------------------

func (b *Buffer) ReadU8() (uint8, error) {
	p, err := b.consume("Buffer.ReadU8", 1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (b *Buffer) ReadU16() (uint16, error) {
	p, err := b.consume("Buffer.ReadU16", 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(p), nil
}

func (b *Buffer) ReadU32() (uint32, error) {
	p, err := b.consume("Buffer.ReadU32", 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(p), nil
}

func (b *Buffer) ReadU64() (uint64, error) {
	p, err := b.consume("Buffer.ReadU64", 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(p), nil
}

func (b *Buffer) ReadI8() (int8, error) {
	v, err := b.ReadU8()
	return int8(v), err
}

func (b *Buffer) ReadI16() (int16, error) {
	v, err := b.ReadU16()
	return int16(v), err
}

func (b *Buffer) ReadI32() (int32, error) {
	v, err := b.ReadU32()
	return int32(v), err
}

func (b *Buffer) ReadI64() (int64, error) {
	v, err := b.ReadU64()
	return int64(v), err
}

func (b *Buffer) ReadF32() (float32, error) {
	v, err := b.ReadU32()
	return math.Float32frombits(v), err
}

func (b *Buffer) ReadF64() (float64, error) {
	v, err := b.ReadU64()
	return math.Float64frombits(v), err
}

// ReadBool reads one byte, which must be 0 (false) or 1 (true). Other values
// fail with a K.Value error.
func (b *Buffer) ReadBool() (bool, error) {
	return b.readFlag("Buffer.ReadBool")
}

func (b *Buffer) readFlag(op string) (bool, error) {
	p, err := b.consume(op, 1)
	if err != nil {
		return false, err
	}
	switch p[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.E(op, K.Value,
		"reason", "non-canonical discriminant",
		"value", p[0],
		"offset", b.offset-1)
}

// ReadU128 reads a 128-bit little-endian unsigned integer.
func (b *Buffer) ReadU128() (*big.Int, error) {
	return b.ReadUnsigned(128)
}

// ReadI128 reads a 128-bit little-endian two's complement integer.
func (b *Buffer) ReadI128() (*big.Int, error) {
	return b.ReadSigned(128)
}

// ReadUnsigned reads an unsigned little-endian integer of the given bit
// width.
func (b *Buffer) ReadUnsigned(bits int) (*big.Int, error) {
	n := bits / 8
	p, err := b.consume("Buffer.ReadUnsigned", n)
	if err != nil {
		return nil, err
	}
	be := make([]byte, n)
	for i := 0; i < n; i++ {
		be[i] = p[n-1-i]
	}
	return new(big.Int).SetBytes(be), nil
}

// ReadSigned reads a little-endian two's complement integer of the given bit
// width.
func (b *Buffer) ReadSigned(bits int) (*big.Int, error) {
	v, err := b.ReadUnsigned(bits)
	if err != nil {
		return nil, err
	}
	if v.Bit(bits-1) == 1 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	}
	return v, nil
}

// ReadFixedArray reads n raw bytes. The returned slice is a copy.
func (b *Buffer) ReadFixedArray(n int) ([]byte, error) {
	p, err := b.consume("Buffer.ReadFixedArray", n)
	if err != nil {
		return nil, err
	}
	res := make([]byte, n)
	copy(res, p)
	return res, nil
}

// ReadLen reads a u32 length or count prefix.
func (b *Buffer) ReadLen() (int, error) {
	n, err := b.ReadU32()
	return int(n), err
}

// ReadVec reads a u32 length prefix and that many raw bytes.
func (b *Buffer) ReadVec() ([]byte, error) {
	n, err := b.ReadLen()
	if err != nil {
		return nil, err
	}
	return b.ReadFixedArray(n)
}

// ReadOption reads the one-byte discriminant of an optional value: 0 for
// absent, 1 for present. Other values fail with a K.Value error.
func (b *Buffer) ReadOption() (bool, error) {
	return b.readFlag("Buffer.ReadOption")
}

// ReadEnumVariant reads the one-byte variant index of an enum value.
func (b *Buffer) ReadEnumVariant() (uint8, error) {
	return b.ReadU8()
}

// ReadHashMap reads a u32 entry count and that many length-prefixed
// key/value byte strings, in wire order.
func (b *Buffer) ReadHashMap() ([]RawEntry, error) {
	count, err := b.ReadLen()
	if err != nil {
		return nil, err
	}
	// every entry takes at least 8 bytes: guard against bogus counts
	if count > b.Remaining()/8 {
		return nil, errors.E("Buffer.ReadHashMap", K.Truncated, "count", count, "remaining", b.Remaining())
	}
	entries := make([]RawEntry, count)
	for i := range entries {
		if entries[i].Key, err = b.ReadVec(); err != nil {
			return nil, err
		}
		if entries[i].Value, err = b.ReadVec(); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// ReadHashSet reads a u32 element count and that many length-prefixed
// element byte strings, in wire order.
func (b *Buffer) ReadHashSet() ([][]byte, error) {
	count, err := b.ReadLen()
	if err != nil {
		return nil, err
	}
	if count > b.Remaining()/4 {
		return nil, errors.E("Buffer.ReadHashSet", K.Truncated, "count", count, "remaining", b.Remaining())
	}
	elements := make([][]byte, count)
	for i := range elements {
		if elements[i], err = b.ReadVec(); err != nil {
			return nil, err
		}
	}
	return elements, nil
}

// sortUnique returns a sorted copy of elements without duplicates, in
// unsigned lexicographic byte order.
func sortUnique(elements [][]byte) [][]byte {
	sorted := make([][]byte, len(elements))
	copy(sorted, elements)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i], sorted[j]) < 0
	})
	unique := sorted[:0]
	for _, element := range sorted {
		if n := len(unique); n > 0 && bytes.Equal(unique[n-1], element) {
			continue
		}
		unique = append(unique, element)
	}
	return unique
}

// -----------------------------------------------------------------------------
// integer bounds
// -----------------------------------------------------------------------------

var one = big.NewInt(1)

func maxUnsigned(bits int) *big.Int {
	v := new(big.Int).Lsh(one, uint(bits))
	return v.Sub(v, one)
}

func maxSigned(bits int) *big.Int {
	v := new(big.Int).Lsh(one, uint(bits-1))
	return v.Sub(v, one)
}

func minSigned(bits int) *big.Int {
	v := new(big.Int).Lsh(one, uint(bits-1))
	return v.Neg(v)
}
