package raffle

import (
	"time"

	"github.com/photonwings/lottery-smart-contract/lib/common"
)

type Entered struct {
	Round  uint64        `json:"round"`
	Caller string        `json:"caller"`
	Value  common.Amount `json:"value"`
}

type UpkeepPerformed struct {
	Round     uint64    `json:"round"`
	RequestID RequestID `json:"request_id"`
}

type WinnerPicked struct {
	Round     uint64        `json:"round"`
	Winner    string        `json:"winner"`
	Amount    common.Amount `json:"amount"`
	Timestamp time.Time     `json:"timestamp"`
	Result    *Result       `json:"result"`
}
