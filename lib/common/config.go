package common

import (
	"io/ioutil"
	"time"

	"gopkg.in/yaml.v2"
)

//
// Config is the configuration of a lottery node. The raffle part is fixed for
// the lifetime of the raffle; the rest only affects how the node serves it.
//
type Config struct {
	EntranceFee          Amount        `yaml:"entrance-fee"`
	Interval             time.Duration `yaml:"interval"`
	GasLane              string        `yaml:"gas-lane"`
	SubscriptionID       uint64        `yaml:"subscription-id"`
	RequestConfirmations uint16        `yaml:"request-confirmations"`
	CallbackGasLimit     uint32        `yaml:"callback-gas-limit"`

	// CoordinatorAddress signs the random words delivered over the network.
	CoordinatorAddress string `yaml:"coordinator-address"`

	// Those fields are not raffle-related
	KeeperInterval time.Duration `yaml:"keeper-interval"`
	NTPServer      string        `yaml:"ntp-server"`
	RateLimitAPI   string        `yaml:"rate-limit-api"`

	HTTPCacheAdapter    string            `yaml:"http-cache-adapter"`
	HTTPCachePoolSize   int               `yaml:"http-cache-pool-size"`
	HTTPCacheExpire     time.Duration     `yaml:"http-cache-expire"`
	HTTPCacheRedisAddrs map[string]string `yaml:"http-cache-redis-addrs"`
}

func NewConfig() Config {
	p := Config{}

	p.EntranceFee = DefaultEntranceFee
	p.Interval = DefaultInterval
	p.GasLane = DefaultGasLane
	p.RequestConfirmations = DefaultRequestConfirmations
	p.CallbackGasLimit = DefaultCallbackGasLimit

	p.KeeperInterval = DefaultKeeperInterval
	p.RateLimitAPI = DefaultRateLimitAPI

	p.HTTPCachePoolSize = HTTPCachePoolSize
	p.HTTPCacheExpire = DefaultHTTPCacheExpire

	return p
}

// LoadConfigFile overrides the fields of `c` found in the yaml file.
func (c *Config) LoadConfigFile(path string) error {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.UnmarshalStrict(b, c)
}
