package codecs

import (
	"io"
	"reflect"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/borsh-go/format/borsh"
)

// BorshMultiCodecPath is the MultiCodec path of Borsh streams.
const BorshMultiCodecPath = "/borsh"

// MaxBorshFrameSize is the maximum size of a single encoded object accepted by the Borsh decoder.
const MaxBorshFrameSize = 64 * 1024 * 1024

// NewBorshCodec returns a streaming codec for objects of the Borsh type t. Each object is written as a frame holding
// its Borsh encoding, itself encoded as Borsh Bytes (u32 length + raw bytes):
//
//	len1|object1|len2|object2|...
//
// The decoder stores decoded objects in the value pointed to by its argument: either an *interface{} or a pointer
// to the Go type produced by t (e.g. *map[string]interface{} for records, *uint32 for U32).
//
// The codec uses the given context for encoding and decoding, or a context with default options if ctx is nil.
func NewBorshCodec(t borsh.Type, ctx *borsh.Context) Codec {
	if ctx == nil {
		ctx = borsh.NewContext(borsh.DefaultOptions())
	}
	return NewCodec(
		func(w io.Writer) Encoder {
			return EncoderFunc(func(obj interface{}) error {
				return encodeBorshFrame(w, ctx, t, obj)
			})
		},
		func(r io.Reader) Decoder {
			return DecoderFunc(func(obj interface{}) error {
				return decodeBorshFrame(r, ctx, t, obj)
			})
		},
	)
}

// BorshMultiCodec returns a MultiCodec for objects of the Borsh type t, prefixing the stream with the "/borsh"
// header.
func BorshMultiCodec(t borsh.Type, ctx *borsh.Context) MultiCodec {
	return NewMultiCodec(NewBorshCodec(t, ctx), BorshMultiCodecPath)
}

func encodeBorshFrame(w io.Writer, ctx *borsh.Context, t borsh.Type, obj interface{}) error {
	e := errors.Template("borshEncoder.Encode", "type", t.String())

	bts, err := ctx.Encode(t, obj)
	if err != nil {
		return e(err)
	}
	frame := borsh.NewBuffer(4 + len(bts))
	if err = frame.WriteVec(bts); err != nil {
		return e(err)
	}
	if _, err = w.Write(frame.Bytes()); err != nil {
		return e(errors.K.IO, err)
	}
	return nil
}

func decodeBorshFrame(r io.Reader, ctx *borsh.Context, t borsh.Type, obj interface{}) error {
	e := errors.Template("borshDecoder.Decode", "type", t.String())

	target := reflect.ValueOf(obj)
	if target.Kind() != reflect.Ptr || target.IsNil() {
		return e(errors.K.Invalid, "reason", "target must be a non-nil pointer", "target", obj)
	}

	prefix := make([]byte, 4)
	if _, err := io.ReadFull(r, prefix); err != nil {
		if err == io.EOF {
			return err
		}
		return e(errors.K.IO, err, "reason", "failed to read frame length")
	}
	size, err := borsh.NewBufferFrom(prefix).ReadLen()
	if err != nil {
		return e(err)
	}
	if size > MaxBorshFrameSize {
		return e(errors.K.Invalid, "reason", "frame too large", "size", size, "max", MaxBorshFrameSize)
	}
	body := make([]byte, size)
	if _, err = io.ReadFull(r, body); err != nil {
		return e(errors.K.IO, err, "reason", "failed to read frame", "size", size)
	}

	val, err := ctx.Decode(t, body)
	if err != nil {
		return e(err)
	}

	elem := target.Elem()
	if val == nil {
		elem.Set(reflect.Zero(elem.Type()))
		return nil
	}
	rv := reflect.ValueOf(val)
	if !rv.Type().AssignableTo(elem.Type()) {
		return e(errors.K.Invalid,
			"reason", "cannot assign decoded value",
			"value_type", rv.Type().String(),
			"target_type", elem.Type().String())
	}
	elem.Set(rv)
	return nil
}
