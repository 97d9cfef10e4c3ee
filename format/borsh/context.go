package borsh

import (
	"sync"

	"github.com/eluv-io/errors-go"
)

// DefaultBufferSize is the initial capacity of buffers for descriptors
// without a fixed size.
const DefaultBufferSize = 512

// Options configures a Context.
type Options struct {
	// BufferSize is the initial capacity of the buffers created for
	// descriptors without a fixed size, and of the shared buffers in reuse
	// mode.
	BufferSize int
	// Reuse enables reuse mode: the context owns one top-level buffer and one
	// scratch buffer, which are reset and reused by every call. Calls are
	// serialized with a mutex.
	Reuse bool
	// Validate enables range checks of numeric values during encoding.
	Validate bool
	// Metrics records encode and decode counters. May be nil.
	Metrics *Metrics
}

// DefaultOptions returns the options of the package-level Encode and Decode
// functions: fresh buffers per call and validation enabled.
func DefaultOptions() Options {
	return Options{
		BufferSize: DefaultBufferSize,
		Validate:   true,
	}
}

// Context performs top-level encoding and decoding. It is safe for concurrent
// use in both allocation modes.
type Context struct {
	opts Options

	mutex   sync.Mutex // guards top and scratch in reuse mode
	top     *Buffer
	scratch *Buffer
}

// NewContext creates a context with the given options.
func NewContext(opts Options) *Context {
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	c := &Context{opts: opts}
	if opts.Reuse {
		c.top = c.newBuffer(opts.BufferSize)
		c.scratch = c.newBuffer(opts.BufferSize)
		c.top.scratch = c.scratch
	}
	log.Debug("context created",
		"reuse", opts.Reuse,
		"validate", opts.Validate,
		"buffer_size", opts.BufferSize)
	return c
}

// Options returns the options of this context.
func (c *Context) Options() Options {
	return c.opts
}

// Encode serializes v with t and returns the encoded bytes. The returned slice
// is owned by the caller.
func (c *Context) Encode(t Type, v interface{}) ([]byte, error) {
	if t == nil {
		return nil, errors.E("Encode", K.Type, "reason", "type is nil")
	}

	buf, release := c.acquire(t)
	defer release()

	if err := t.Serialize(buf, v); err != nil {
		c.opts.Metrics.failed()
		return nil, errors.E("Encode", err, "type", t.String())
	}
	res := make([]byte, buf.Len())
	copy(res, buf.Bytes())
	c.opts.Metrics.encoded(len(res))
	return res, nil
}

// Decode deserializes a value of type t from data. Bytes following the
// encoded value are ignored.
func (c *Context) Decode(t Type, data []byte) (interface{}, error) {
	if t == nil {
		return nil, errors.E("Decode", K.Type, "reason", "type is nil")
	}

	buf, release := c.acquire(t)
	defer release()

	buf.WriteFixedArray(data)
	v, err := t.Deserialize(buf)
	if err != nil {
		c.opts.Metrics.failed()
		return nil, errors.E("Decode", err, "type", t.String())
	}
	c.opts.Metrics.decoded(buf.Offset())
	return v, nil
}

// acquire returns a reset buffer for one top-level call and the function that
// releases it.
func (c *Context) acquire(t Type) (*Buffer, func()) {
	if c.opts.Reuse {
		c.mutex.Lock()
		c.top.Reset()
		return c.top, c.mutex.Unlock
	}
	size := c.opts.BufferSize
	if n, fixed := t.Sizeof().Fixed(); fixed && n > 0 {
		size = n
	}
	return c.newBuffer(size), func() {}
}

func (c *Context) newBuffer(size int) *Buffer {
	return NewBuffer(size).
		SetValidation(c.opts.Validate).
		SetMetrics(c.opts.Metrics)
}

// -----------------------------------------------------------------------------
// package-level functions
// -----------------------------------------------------------------------------

var defaultContext = NewContext(DefaultOptions())

// Encode serializes v with t in a fresh buffer, with validation enabled.
func Encode(t Type, v interface{}) ([]byte, error) {
	return defaultContext.Encode(t, v)
}

// Decode deserializes a value of type t from data.
func Decode(t Type, data []byte) (interface{}, error) {
	return defaultContext.Decode(t, data)
}
