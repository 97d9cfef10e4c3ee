package codecs

import (
	"io"
)

// Codec is an algorithm for coding data from one representation to another. For convenience, it's defined in the
// usual sense: a function and its inverse, to encode and decode.
type Codec interface {
	// Decoder wraps given io.Reader and returns an object which will decode bytes into objects.
	Decoder(r io.Reader) Decoder

	// Encoder wraps given io.Writer and returns an Encoder
	Encoder(w io.Writer) Encoder
}

// Encoder encodes objects into bytes and writes them to an underlying io.Writer. Works like encoding.Marshal
type Encoder interface {
	Encode(obj interface{}) error
}

// Decoder decodes objects from bytes from an underlying io.Reader, into given object. Works like encoding.Unmarshal.
// Returns io.EOF if the reader is exhausted before the next object starts.
type Decoder interface {
	Decode(obj interface{}) error
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(obj interface{}) error

func (f EncoderFunc) Encode(obj interface{}) error { return f(obj) }

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(obj interface{}) error

func (f DecoderFunc) Decode(obj interface{}) error { return f(obj) }

////////////////////////////////////////////////////////////////////////////////

type CreateEncoderFn func(w io.Writer) Encoder
type CreateDecoderFn func(io.Reader) Decoder

// NewCodec creates a new Codec from an encoder and a decoder creation function.
func NewCodec(enc CreateEncoderFn, dec CreateDecoderFn) Codec {
	return &codec{encoderFn: enc, decoderFn: dec}
}

type codec struct {
	encoderFn CreateEncoderFn
	decoderFn CreateDecoderFn
}

func (c *codec) Decoder(r io.Reader) Decoder {
	return c.decoderFn(r)
}

func (c *codec) Encoder(w io.Writer) Encoder {
	return c.encoderFn(w)
}
