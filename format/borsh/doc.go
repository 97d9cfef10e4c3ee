/*
Package borsh implements the Borsh binary format: a deterministic, canonical,
length-prefixed encoding of structured data where identical logical values
always produce identical bytes.

Values are described by type descriptors (Type). Scalars are predefined
(U8 ... U128, I8 ... I128, F32, F64, Bool, String, Bytes, PubKey), composite
descriptors are built with constructors:

	point := borsh.MustRecord(
		borsh.F("x", borsh.I32),
		borsh.F("y", borsh.I32),
	)
	path := borsh.MustRecord(
		borsh.F("name", borsh.String),
		borsh.F("points", borsh.Vector(point)),
		borsh.F("tags", borsh.Set(borsh.String)),
	)

	bts, err := borsh.Encode(path, map[string]interface{}{...})
	val, err := borsh.Decode(path, bts)

Wire format, per value and recursively:

	U8..U128, I8..I128  little-endian, two's complement for signed
	F32, F64            IEEE-754 little-endian
	Bool                1 byte, 0x00 or 0x01
	String, Bytes       u32 length + raw bytes (UTF-8 for String)
	Optional(T)         1 byte (0 or 1) + T if present
	Array(T, n)         n x T, no prefix
	Vector(T)           u32 count + count x T
	Set(T)              u32 count + count x (u32 length + element)
	Map(K, V)           u32 count + count x (u32 length + key, u32 length + value)
	PubKey              32 raw bytes
	Padding(T)          sizeof(T) zero bytes
	Record              fields in declared order

Set elements and map entries are written in canonical order: each element
(or key) is serialized on its own and the entries are sorted by the unsigned
lexicographic order of these bytes. The output is therefore independent of
the iteration order of the Go containers passed in.

Encoding and decoding go through a Context, which either allocates a fresh
Buffer per call or reuses one top-level and one scratch buffer across calls
(see Options.Reuse). The package-level Encode and Decode functions use a
shared context in fresh-allocation mode.

Errors carry one of the kinds defined in K.
*/
package borsh

import (
	elog "github.com/eluv-io/log-go"
)

var log = elog.Get("/eluvio/format/borsh")
