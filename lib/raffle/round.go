package raffle

import (
	"time"

	"github.com/photonwings/lottery-smart-contract/lib/common"
)

// RequestID identifies a randomness request issued to the oracle.
type RequestID uint64

// Round is the only persistent entity of the raffle. It cycles between
// `StateOpen` and `StateCalculating` for the whole lifetime of the engine.
//
// Invariants:
//  * `Entrants` is not empty iff `PoolBalance` > 0
//  * `State` is `StateCalculating` iff `PendingRequestID` is set
type Round struct {
	Number           uint64        `json:"number"`
	State            State         `json:"state"`
	Entrants         []string      `json:"entrants"`
	PoolBalance      common.Amount `json:"pool_balance"`
	LastTimestamp    time.Time     `json:"last_timestamp"`
	PendingRequestID *RequestID    `json:"pending_request_id,omitempty"`
	RecentWinner     string        `json:"recent_winner,omitempty"`
}

func NewRound(now time.Time) *Round {
	return &Round{
		Number:        1,
		State:         StateOpen,
		Entrants:      []string{},
		PoolBalance:   0,
		LastTimestamp: now,
	}
}

func (r *Round) Clone() *Round {
	n := *r

	n.Entrants = make([]string, len(r.Entrants))
	copy(n.Entrants, r.Entrants)

	if r.PendingRequestID != nil {
		id := *r.PendingRequestID
		n.PendingRequestID = &id
	}

	return &n
}

func (r *Round) HasPendingRequest() bool {
	return r.PendingRequestID != nil
}

func (r *Round) IsPendingRequest(id RequestID) bool {
	return r.PendingRequestID != nil && *r.PendingRequestID == id
}

func (r *Round) Serialize() ([]byte, error) {
	return common.EncodeJSONValue(r)
}

func (r *Round) String() string {
	return string(common.MustJSONMarshal(r))
}
