package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	cmdcommon "github.com/photonwings/lottery-smart-contract/cmd/lottery/common"
	"github.com/photonwings/lottery-smart-contract/lib/common"
)

const envPrefix = "LOTTERY_"

type setting struct {
	usage string
	value func(c common.Config) string
	set   func(c *common.Config, v string) error
}

// settings are the fields of `common.Config` which can be set by the yaml
// file, the environment and the flags; the later wins.
var settings = map[string]setting{
	"entrance-fee": {
		"entrance fee in the smallest unit",
		func(c common.Config) string { return c.EntranceFee.String() },
		func(c *common.Config, v string) (err error) {
			c.EntranceFee, err = cmdcommon.ParseAmountFromString(v)
			return
		},
	},
	"interval": {
		"minimum duration of a round",
		func(c common.Config) string { return c.Interval.String() },
		func(c *common.Config, v string) (err error) {
			c.Interval, err = time.ParseDuration(v)
			return
		},
	},
	"gas-lane": {
		"gas lane, 32 bytes hex",
		func(c common.Config) string { return c.GasLane },
		func(c *common.Config, v string) error {
			c.GasLane = v
			return nil
		},
	},
	"subscription-id": {
		"oracle subscription id; created by the local coordinator when 0",
		func(c common.Config) string { return strconv.FormatUint(c.SubscriptionID, 10) },
		func(c *common.Config, v string) (err error) {
			c.SubscriptionID, err = strconv.ParseUint(v, 10, 64)
			return
		},
	},
	"coordinator-address": {
		"public address of the coordinator signing the random words; required with a remote coordinator",
		func(c common.Config) string { return c.CoordinatorAddress },
		func(c *common.Config, v string) error {
			c.CoordinatorAddress = v
			return nil
		},
	},
	"request-confirmations": {
		"confirmations the oracle waits before answering",
		func(c common.Config) string { return strconv.FormatUint(uint64(c.RequestConfirmations), 10) },
		func(c *common.Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 16)
			c.RequestConfirmations = uint16(n)
			return err
		},
	},
	"callback-gas-limit": {
		"gas limit of the randomness callback",
		func(c common.Config) string { return strconv.FormatUint(uint64(c.CallbackGasLimit), 10) },
		func(c *common.Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 32)
			c.CallbackGasLimit = uint32(n)
			return err
		},
	},
	"keeper-interval": {
		"interval of the upkeep checks",
		func(c common.Config) string { return c.KeeperInterval.String() },
		func(c *common.Config, v string) (err error) {
			c.KeeperInterval, err = time.ParseDuration(v)
			return
		},
	},
	"ntp-server": {
		"ntp server of the clock; the local clock is used when empty",
		func(c common.Config) string { return c.NTPServer },
		func(c *common.Config, v string) error {
			c.NTPServer = v
			return nil
		},
	},
	"rate-limit-api": {
		"rate limit of the api, '<limit>-<period>', eg. '100-S'",
		func(c common.Config) string { return c.RateLimitAPI },
		func(c *common.Config, v string) error {
			c.RateLimitAPI = v
			return nil
		},
	},
	"http-cache-adapter": {
		"http cache adapter, {mem, redis}; no cache when empty",
		func(c common.Config) string { return c.HTTPCacheAdapter },
		func(c *common.Config, v string) error {
			c.HTTPCacheAdapter = v
			return nil
		},
	},
	"http-cache-pool-size": {
		"size of the mem http cache",
		func(c common.Config) string { return strconv.Itoa(c.HTTPCachePoolSize) },
		func(c *common.Config, v string) (err error) {
			c.HTTPCachePoolSize, err = strconv.Atoi(v)
			return
		},
	},
	"http-cache-expire": {
		"expiration of the cached responses",
		func(c common.Config) string { return c.HTTPCacheExpire.String() },
		func(c *common.Config, v string) (err error) {
			c.HTTPCacheExpire, err = time.ParseDuration(v)
			return
		},
	},
	"http-cache-redis-addrs": {
		"redis servers, '<name>=<host:port>[,...]'",
		func(c common.Config) string {
			var l []string
			for k, v := range c.HTTPCacheRedisAddrs {
				l = append(l, k+"="+v)
			}
			return strings.Join(l, ",")
		},
		func(c *common.Config, v string) (err error) {
			c.HTTPCacheRedisAddrs, err = cmdcommon.ParseMapFlag(v)
			return
		},
	},
}

func envName(name string) string {
	return envPrefix + strings.ToUpper(strings.Replace(name, "-", "_", -1))
}

// addConfigFlags registers a string flag for each setting; the defaults are
// the ones of `common.NewConfig`.
func addConfigFlags(fs *pflag.FlagSet) {
	defaults := common.NewConfig()
	for name, s := range settings {
		fs.String(name, s.value(defaults), fmt.Sprintf("%s (%s)", s.usage, envName(name)))
	}
}

// loadConfig builds the config from the defaults, the yaml file at `path`,
// the environment and the changed flags of `fs`, in that order.
func loadConfig(fs *pflag.FlagSet, path string, lookupEnv func(string) (string, bool)) (common.Config, string, error) {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	config := common.NewConfig()
	if len(path) > 0 {
		if err := config.LoadConfigFile(path); err != nil {
			return config, "--config", err
		}
	}

	for name, s := range settings {
		if v, found := lookupEnv(envName(name)); found {
			if err := s.set(&config, v); err != nil {
				return config, envName(name), err
			}
		}
	}

	for name, s := range settings {
		f := fs.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := s.set(&config, f.Value.String()); err != nil {
			return config, "--" + name, err
		}
	}

	return config, "", nil
}
