package raffle

import (
	"context"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/photonwings/lottery-smart-contract/lib/common"
)

// RandomnessRequest carries the oracle parameters of the raffle. The engine
// always asks for a single word.
type RandomnessRequest struct {
	GasLane          ethcommon.Hash `json:"gas_lane"`
	SubscriptionID   uint64         `json:"subscription_id"`
	Confirmations    uint16         `json:"confirmations"`
	CallbackGasLimit uint32         `json:"callback_gas_limit"`
	NumWords         uint32         `json:"num_words"`
	Consumer         string         `json:"consumer"`
}

// Oracle accepts randomness requests. The random value is not returned here;
// it is delivered later through `Engine.FulfillRandomness`.
type Oracle interface {
	RequestRandomWords(ctx context.Context, req RandomnessRequest) (RequestID, error)
}

// Custody stores the round and moves the custodied pool.
type Custody interface {
	// LoadRound returns `errors.StorageRecordDoesNotExist` when no round was
	// saved yet.
	LoadRound() (*Round, error)
	SaveRound(round *Round) error

	// Payout credits `amount` to `winner` and saves the resolved `round` and
	// its `result`; either all of them happen or none.
	Payout(winner string, amount common.Amount, round *Round, result *Result) error
}
