package borsh

import (
	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/borsh-go/util/lru"
)

// DefaultMemoSize is the default capacity of a Memo.
const DefaultMemoSize = 1024

// Memo caches descriptors by shape name, so that a descriptor is constructed
// once and shared by all subsequent encode and decode calls of that shape.
// Descriptors are immutable, hence sharing them is safe. A Memo is safe for
// concurrent use; a nil *Memo caches nothing.
type Memo struct {
	cache *lru.Cache
}

// NewMemo creates a memo holding up to size descriptors. The least recently
// used descriptor is evicted when the memo is full.
func NewMemo(size int) *Memo {
	if size <= 0 {
		size = DefaultMemoSize
	}
	return &Memo{
		cache: lru.New(size).WithName("borsh-descriptors"),
	}
}

// Get returns the descriptor cached under name, calling build to construct
// and cache it if it is not yet present. Construction errors are returned and
// not cached.
func (m *Memo) Get(name string, build func() (Type, error)) (Type, error) {
	if m == nil {
		return build()
	}
	val, _, err := m.cache.GetOrCreate(name, func() (interface{}, error) {
		log.Debug("descriptor memo miss", "name", name)
		t, err := build()
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, errors.E("Memo.Get", K.Type, "reason", "build returned nil", "name", name)
		}
		return t, nil
	})
	if err != nil {
		return nil, errors.E("Memo.Get", err, "name", name)
	}
	return val.(Type), nil
}

// Intern returns the cached descriptor with the same shape as t, caching t if
// there is none. Equal shapes thereby share one descriptor instance.
func (m *Memo) Intern(t Type) Type {
	if m == nil || t == nil {
		return t
	}
	res, _ := m.Get(t.String(), func() (Type, error) { return t, nil })
	return res
}

// Len returns the number of cached descriptors.
func (m *Memo) Len() int {
	if m == nil {
		return 0
	}
	return m.cache.Len()
}

// Stats returns the hit and miss counts of the memo.
func (m *Memo) Stats() lru.Metrics {
	if m == nil {
		return lru.Metrics{}
	}
	return m.cache.Metrics()
}
