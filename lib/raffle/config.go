package raffle

import (
	"fmt"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/photonwings/lottery-smart-contract/lib/common"
)

// Config is fixed for the lifetime of the engine. The oracle parameters are
// not interpreted by the engine, they are passed through to the oracle.
type Config struct {
	EntranceFee common.Amount
	Interval    time.Duration

	GasLane              ethcommon.Hash
	SubscriptionID       uint64
	RequestConfirmations uint16
	CallbackGasLimit     uint32
}

func NewConfig(c common.Config) (Config, error) {
	if !isHexHash(c.GasLane) {
		return Config{}, fmt.Errorf("invalid gas lane: %q", c.GasLane)
	}
	if c.Interval < 0 {
		return Config{}, fmt.Errorf("interval must not be negative: %s", c.Interval)
	}

	return Config{
		EntranceFee:          c.EntranceFee,
		Interval:             c.Interval,
		GasLane:              ethcommon.HexToHash(c.GasLane),
		SubscriptionID:       c.SubscriptionID,
		RequestConfirmations: c.RequestConfirmations,
		CallbackGasLimit:     c.CallbackGasLimit,
	}, nil
}

func isHexHash(s string) bool {
	if len(s) < 2 || s[0:2] != "0x" {
		s = "0x" + s
	}

	b, err := hexutil.Decode(s)
	return err == nil && len(b) == ethcommon.HashLength
}
