package httpcache

import (
	"fmt"

	"github.com/photonwings/lottery-smart-contract/lib/common"
)

// NewAdapter returns nil without error when no adapter is configured.
func NewAdapter(cfg common.Config) (Adapter, error) {
	switch cfg.HTTPCacheAdapter {
	case "":
		return nil, nil
	case common.HTTPCacheMemoryAdapterName:
		return NewMemCacheAdapter(cfg.HTTPCachePoolSize)
	case common.HTTPCacheRedisAdapterName:
		if len(cfg.HTTPCacheRedisAddrs) < 1 {
			return nil, fmt.Errorf("redis addresses are missing")
		}
		return NewRedisCacheAdapter(&RedisRingOptions{
			Addrs: cfg.HTTPCacheRedisAddrs,
		}), nil
	default:
		return nil, fmt.Errorf("adapter not found: %q", cfg.HTTPCacheAdapter)
	}
}

// NewCache returns `NopClient` when no adapter is configured.
func NewCache(cfg common.Config, opts ...ClientOption) (Cache, error) {
	adapter, err := NewAdapter(cfg)
	if err != nil {
		return nil, err
	}
	if adapter == nil {
		return NewNopClient(), nil
	}

	opts = append([]ClientOption{WithAdapter(adapter), WithExpire(cfg.HTTPCacheExpire)}, opts...)

	return NewClient(opts...)
}
