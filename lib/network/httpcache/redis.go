package httpcache

import (
	"time"

	redisCache "github.com/go-redis/cache"
	"github.com/go-redis/redis"
	"github.com/vmihailenco/msgpack"
)

// RedisKeyPrefix namespaces the cached responses, so several nodes can share
// one ring with other users.
const RedisKeyPrefix = "lottery:http:"

// RedisCacheAdapter stores the responses msgpack encoded in a redis ring.
type RedisCacheAdapter struct {
	ring  *redis.Ring
	codec *redisCache.Codec
}

// RedisRingOptions maps a shard name to its address in `Addrs`.
type RedisRingOptions redis.RingOptions

func NewRedisCacheAdapter(opt *RedisRingOptions) *RedisCacheAdapter {
	ringOptions := redis.RingOptions(*opt)
	ring := redis.NewRing(&ringOptions)

	return &RedisCacheAdapter{
		ring: ring,
		codec: &redisCache.Codec{
			Redis: ring,
			Marshal: func(v interface{}) ([]byte, error) {
				return msgpack.Marshal(v)
			},
			Unmarshal: func(b []byte, v interface{}) error {
				return msgpack.Unmarshal(b, v)
			},
		},
	}
}

func (a *RedisCacheAdapter) Ping() error {
	return a.ring.Ping().Err()
}

func (a *RedisCacheAdapter) Close() error {
	return a.ring.Close()
}

func (a *RedisCacheAdapter) Get(key string) (*Response, bool) {
	resp := new(Response)
	if err := a.codec.Get(RedisKeyPrefix+key, resp); err != nil {
		return nil, false
	}

	return resp, true
}

// Set skips the responses already expired; a zero `expiration` never expires.
func (a *RedisCacheAdapter) Set(key string, resp *Response, expiration time.Time) {
	var ttl time.Duration
	if !expiration.IsZero() {
		if ttl = time.Until(expiration); ttl <= 0 {
			return
		}
	}

	a.codec.Set(&redisCache.Item{
		Key:        RedisKeyPrefix + key,
		Object:     resp,
		Expiration: ttl,
	})
}

func (a *RedisCacheAdapter) Remove(key string) {
	a.codec.Delete(RedisKeyPrefix + key)
}

var _ Adapter = (*RedisCacheAdapter)(nil)
