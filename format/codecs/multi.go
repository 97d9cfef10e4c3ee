package codecs

import (
	"bytes"
	"io"

	"github.com/eluv-io/errors-go"
	mc "github.com/multiformats/go-multicodec"

	"github.com/eluv-io/borsh-go/format/codecs/header"
)

////////////////////////////////////////////////////////////////////////////////

// MultiCodec is the interface for a Codec that produces and consumes self-describing encodings. During encoding, it
// writes a header as a prefix to the encoded data stream. On decoding, it reads the header and ensures that it
// matches.
//
// The header is written only once at the very beginning even if the same encoder is used for encoding multiple
// objects:
//
//	HEADER|object1|object2|...
type MultiCodec interface {
	Header() header.Header
	Encoder(w io.Writer) Encoder
	Decoder(r io.Reader) Decoder
}

////////////////////////////////////////////////////////////////////////////////

func NewMultiCodec(codec Codec, path string) MultiCodec {
	return &multiCodec{
		codec:  codec,
		header: header.New(path),
	}
}

type multiCodec struct {
	codec  Codec
	header header.Header
}

func (m *multiCodec) Header() header.Header {
	return m.header
}

func (m *multiCodec) Encoder(w io.Writer) Encoder {
	return NewMultiEncoder(w, m.codec.Encoder(w), m.header.Path())
}

func (m *multiCodec) Decoder(r io.Reader) Decoder {
	return NewMultiDecoder(r, m.codec.Decoder(r), m.header.Path())
}

////////////////////////////////////////////////////////////////////////////////

// AsMulticodec returns the given MultiCodec as a github.com/multiformats/go-multicodec Multicodec, for use with the
// muxing and header utilities of that library.
func AsMulticodec(m MultiCodec) mc.Multicodec {
	return multicodecAdapter{m}
}

type multicodecAdapter struct {
	m MultiCodec
}

func (a multicodecAdapter) Header() []byte {
	return a.m.Header()
}

func (a multicodecAdapter) Encoder(w io.Writer) mc.Encoder {
	return a.m.Encoder(w)
}

func (a multicodecAdapter) Decoder(r io.Reader) mc.Decoder {
	return a.m.Decoder(r)
}

////////////////////////////////////////////////////////////////////////////////

//goland:noinspection GoExportedFuncWithUnexportedType
func NewMultiEncoder(writer io.Writer, encoder Encoder, path string) *multiEncoder {
	return &multiEncoder{
		writer:  writer,
		encoder: encoder,
		header:  header.New(path),
	}
}

type multiEncoder struct {
	writer        io.Writer
	encoder       Encoder
	header        header.Header
	headerWritten bool
}

func (e *multiEncoder) writeHeader() (err error) {
	if !e.headerWritten {
		err = header.WriteHeader(e.writer, e.header)
		if err != nil {
			return errors.E("multiEncoder.writeHeader", errors.K.IO, err)
		}
		e.headerWritten = true
	}
	return nil
}

func (e *multiEncoder) Encode(obj interface{}) error {
	err := e.writeHeader()
	if err == nil {
		err = e.encoder.Encode(obj)
	}
	return err
}

////////////////////////////////////////////////////////////////////////////////

//goland:noinspection GoExportedFuncWithUnexportedType
func NewMultiDecoder(reader io.Reader, decoder Decoder, path string) *multiDecoder {
	return &multiDecoder{
		reader:  reader,
		decoder: decoder,
		header:  header.New(path),
	}
}

type multiDecoder struct {
	reader     io.Reader
	decoder    Decoder
	header     header.Header
	headerRead bool
}

func (d *multiDecoder) readHeader() error {
	if !d.headerRead {
		hdr, err := header.ReadHeader(d.reader)
		if err != nil {
			if err == io.EOF {
				return err
			}
			return errors.E("multiDecoder.readHeader", errors.K.Invalid, err,
				"reason", "failed to read header",
				"expected", d.header.Path())
		}
		if !bytes.Equal(hdr, d.header) {
			return errors.E("multiDecoder.readHeader", errors.K.Invalid,
				"reason", "invalid header",
				"expected", d.header.Path(),
				"actual", hdr.Path())
		}
		d.headerRead = true
	}
	return nil
}

func (d *multiDecoder) Decode(obj interface{}) error {
	err := d.readHeader()
	if err == nil {
		err = d.decoder.Decode(obj)
	}
	return err
}
