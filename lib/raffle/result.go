package raffle

import (
	"fmt"
	"math/big"
	"time"

	"github.com/photonwings/lottery-smart-contract/lib/common"
)

// Result is the record of a resolved round.
type Result struct {
	Number        uint64        `json:"number"`
	Winner        string        `json:"winner"`
	Amount        common.Amount `json:"amount"`
	RequestID     RequestID     `json:"request_id"`
	RandomWord    string        `json:"random_word"`
	WinnerIndex   uint64        `json:"winner_index"`
	EntrantsCount uint64        `json:"entrants_count"`
	Timestamp     time.Time     `json:"timestamp"`
	Hash          string        `json:"hash"`
}

type resultHashable struct {
	Number        uint64
	Winner        string
	Amount        common.Amount
	RequestID     uint64
	RandomWord    string
	WinnerIndex   uint64
	EntrantsCount uint64
	Timestamp     string
}

func NewResult(round *Round, winnerIndex uint64, requestID RequestID, word *big.Int, now time.Time) (*Result, error) {
	r := &Result{
		Number:        round.Number,
		Winner:        round.Entrants[winnerIndex],
		Amount:        round.PoolBalance,
		RequestID:     requestID,
		RandomWord:    word.String(),
		WinnerIndex:   winnerIndex,
		EntrantsCount: uint64(len(round.Entrants)),
		Timestamp:     now,
	}
	hash, err := common.MakeObjectHashString(r.hashable())
	if err != nil {
		return nil, err
	}
	r.Hash = hash

	return r, nil
}

func (r *Result) hashable() resultHashable {
	return resultHashable{
		Number:        r.Number,
		Winner:        r.Winner,
		Amount:        r.Amount,
		RequestID:     uint64(r.RequestID),
		RandomWord:    r.RandomWord,
		WinnerIndex:   r.WinnerIndex,
		EntrantsCount: r.EntrantsCount,
		Timestamp:     common.FormatISO8601(r.Timestamp.UTC()),
	}
}

// IsWellFormed checks the hash against the content of the result.
func (r *Result) IsWellFormed() bool {
	hash, err := common.MakeObjectHashString(r.hashable())
	if err != nil {
		return false
	}

	return len(r.Hash) > 0 && r.Hash == hash
}

func (r *Result) Serialize() ([]byte, error) {
	return common.EncodeJSONValue(r)
}

func (r *Result) String() string {
	return string(common.MustJSONMarshal(r))
}

// ResultKey keeps the results sorted by round number in storage.
func ResultKey(number uint64) string {
	return fmt.Sprintf("%s%020d", ResultPrefix, number)
}

const (
	RoundKey     = "raffle-round"
	ResultPrefix = "raffle-result-"
)
