package common

import "time"

const (
	// DefaultEntranceFee is 0.01 coin
	DefaultEntranceFee Amount = AmountPerCoin / 100

	DefaultInterval             = 30 * time.Second
	DefaultKeeperInterval       = 5 * time.Second
	DefaultCallbackGasLimit     = uint32(500000)
	DefaultRequestConfirmations = uint16(3)
	DefaultGasLane              = "0xd89b2bf150e3b9e13446986e571fb9cab24b13cea0a43ea20a6049a85cc807cc"

	DefaultRateLimitAPI = "100-S"

	HTTPCacheMemoryAdapterName = "mem"
	HTTPCacheRedisAdapterName  = "redis"
	HTTPCachePoolSize          = 10000
	DefaultHTTPCacheExpire     = 3 * time.Second
)
