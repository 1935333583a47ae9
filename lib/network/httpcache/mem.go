package httpcache

import (
	"time"

	"github.com/hashicorp/golang-lru"
)

// MemCacheAdapter keeps up to `size` responses in process, evicting the least
// recently used one. Expiration is checked by the client on lookup.
type MemCacheAdapter struct {
	entries *lru.Cache
}

func NewMemCacheAdapter(size int) (*MemCacheAdapter, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &MemCacheAdapter{entries: entries}, nil
}

func (a *MemCacheAdapter) Get(key string) (*Response, bool) {
	v, found := a.entries.Get(key)
	if !found {
		return nil, false
	}
	resp, ok := v.(*Response)

	return resp, ok
}

func (a *MemCacheAdapter) Set(key string, resp *Response, _ time.Time) {
	a.entries.Add(key, resp)
}

func (a *MemCacheAdapter) Remove(key string) {
	a.entries.Remove(key)
}

var _ Adapter = (*MemCacheAdapter)(nil)
