package header

import (
	"errors"
	"io"
)

var (
	ErrHeaderInvalid = errors.New("MultiCodec header invalid")
	ErrVarints       = errors.New("MultiCodec varints not yet implemented")
)

// MaxPathLen is the maximum length of a header path. Longer paths would require a varint length prefix.
const MaxPathLen = 125

// Header is the header used by MultiCodecs to encode the codec type used to create an encoding. It's format is
//   - a single byte encoding the length of the rest of the header
//   - the "path" (an identifier) of the codec. By convention it starts with a slash and contains the codec's name, e.g.
//     "/borsh"
//   - a terminating newline to make the header more readable when looking at the encoded data
//
// For paths of up to MaxPathLen bytes, the format is identical to the one of github.com/multiformats/go-multicodec.
//
// Create it with New(path)
type Header []byte

// Path returns the path of the MultiCodec header.
func (h Header) Path() string {
	return Path(h)
}

// String is an alias of Path.
func (h Header) String() string {
	return h.Path()
}

// New returns a MultiCodec header built from the given path. Panics if the path is longer than MaxPathLen.
func New(path string) Header {
	b, err := NewNoPanic(path)
	if err != nil {
		panic(err.Error())
	}
	return b
}

// NewNoPanic works like New but it returns error instead of calling panic
func NewNoPanic(path string) (Header, error) {
	if len(path) > MaxPathLen {
		return nil, ErrVarints
	}

	l := len(path) + 1 // + \n
	buf := make([]byte, l+1)
	buf[0] = byte(l)
	copy(buf[1:], path)
	buf[l] = '\n'
	return buf, nil
}

// Path returns the MultiCodec path from header
func Path(hdr Header) string {
	if len(hdr) < 2 {
		return ""
	}
	hdr = hdr[1:]
	if hdr[len(hdr)-1] == '\n' {
		hdr = hdr[:len(hdr)-1]
	}
	return string(hdr)
}

// WriteHeader writes a MultiCodec header to a writer.
func WriteHeader(w io.Writer, hdr Header) error {
	_, err := w.Write(hdr)
	return err
}

// ReadHeader reads a MultiCodec header from a reader. Returns io.EOF if the reader is empty, io.ErrUnexpectedEOF if
// it ends within the header.
func ReadHeader(r io.Reader) (hdr Header, err error) {
	lbuf := make([]byte, 1)
	if _, err := io.ReadFull(r, lbuf); err != nil {
		return nil, err
	}

	l := int(lbuf[0])
	if l > MaxPathLen+1 {
		return nil, ErrVarints
	}
	if l == 0 {
		return nil, ErrHeaderInvalid
	}

	buf := make([]byte, l+1)
	buf[0] = lbuf[0]
	if _, err := io.ReadFull(r, buf[1:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if buf[l] != '\n' {
		return nil, ErrHeaderInvalid
	}
	return buf, nil
}
