package borsh

import (
	"github.com/mr-tron/base58"
	"github.com/zeebo/blake3"
)

// DigestLen is the length of a digest in bytes.
const DigestLen = 32

// Hash is the BLAKE3 digest of a canonical encoding.
type Hash [DigestLen]byte

// String returns the base58 text form of the digest.
func (h Hash) String() string {
	return base58.Encode(h[:])
}

// Digest encodes v with t and returns the BLAKE3-256 hash of the encoding.
// Since the encoding is canonical, equal values of the same shape always
// have the same digest, regardless of map and set iteration order.
func Digest(t Type, v interface{}) (Hash, error) {
	return defaultContext.Digest(t, v)
}

// Digest is like Encode but returns the BLAKE3-256 hash of the encoding.
func (c *Context) Digest(t Type, v interface{}) (Hash, error) {
	bts, err := c.Encode(t, v)
	if err != nil {
		return Hash{}, err
	}
	return blake3.Sum256(bts), nil
}
