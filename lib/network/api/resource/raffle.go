package resource

import (
	"strconv"

	"github.com/nvellon/hal"

	"github.com/photonwings/lottery-smart-contract/lib/raffle"
)

type Raffle struct {
	round        *raffle.Round
	config       raffle.Config
	revision     uint64
	upkeepNeeded bool
}

func NewRaffle(round *raffle.Round, config raffle.Config, revision uint64, upkeepNeeded bool) *Raffle {
	return &Raffle{
		round:        round,
		config:       config,
		revision:     revision,
		upkeepNeeded: upkeepNeeded,
	}
}

func (r Raffle) GetMap() hal.Entry {
	e := hal.Entry{
		"round":          r.round.Number,
		"state":          r.round.State,
		"entrance_fee":   r.config.EntranceFee,
		"interval":       r.config.Interval.String(),
		"entrants":       len(r.round.Entrants),
		"pool_balance":   r.round.PoolBalance,
		"last_timestamp": r.round.LastTimestamp,
		"recent_winner":  r.round.RecentWinner,
		"upkeep_needed":  r.upkeepNeeded,
		"revision":       r.revision,
	}
	if r.round.PendingRequestID != nil {
		e["pending_request_id"] = *r.round.PendingRequestID
	}

	return e
}

func (r Raffle) Resource() *hal.Resource {
	rr := hal.NewResource(r, r.LinkSelf())
	rr.AddNewLink("entries", URLRaffleEntries)
	rr.AddLink("entrant", hal.NewLink(URLRaffleEntrant, hal.LinkAttr{"templated": true}))
	rr.AddNewLink("upkeep", URLRaffleUpkeep)
	rr.AddNewLink("results", URLRaffleResults+"{?cursor,limit,reverse}")
	if len(r.round.RecentWinner) > 0 {
		rr.AddNewLink("recent_winner", replaceID(URLAccounts, "id", r.round.RecentWinner))
	}

	return rr
}

func (r Raffle) LinkSelf() string {
	return URLRaffle
}

type Entrant struct {
	index   int
	address string
}

func NewEntrant(index int, address string) *Entrant {
	return &Entrant{index: index, address: address}
}

func (e Entrant) GetMap() hal.Entry {
	return hal.Entry{
		"index":   e.index,
		"address": e.address,
	}
}

func (e Entrant) Resource() *hal.Resource {
	r := hal.NewResource(e, e.LinkSelf())
	r.AddNewLink("account", replaceID(URLAccounts, "id", e.address))
	return r
}

func (e Entrant) LinkSelf() string {
	return replaceID(URLRaffleEntrant, "index", strconv.Itoa(e.index))
}

type Upkeep struct {
	needed    bool
	data      []byte
	requestID *raffle.RequestID
}

func NewUpkeep(needed bool, data []byte, requestID *raffle.RequestID) *Upkeep {
	return &Upkeep{needed: needed, data: data, requestID: requestID}
}

func (u Upkeep) GetMap() hal.Entry {
	e := hal.Entry{
		"upkeep_needed": u.needed,
		"perform_data":  u.data,
	}
	if u.requestID != nil {
		e["request_id"] = *u.requestID
	}

	return e
}

func (u Upkeep) Resource() *hal.Resource {
	return hal.NewResource(u, u.LinkSelf())
}

func (u Upkeep) LinkSelf() string {
	return URLRaffleUpkeep
}

type Result struct {
	r *raffle.Result
}

func NewResult(r *raffle.Result) *Result {
	return &Result{r: r}
}

func (r Result) GetMap() hal.Entry {
	return hal.Entry{
		"round":          r.r.Number,
		"winner":         r.r.Winner,
		"amount":         r.r.Amount,
		"request_id":     r.r.RequestID,
		"random_word":    r.r.RandomWord,
		"winner_index":   r.r.WinnerIndex,
		"entrants_count": r.r.EntrantsCount,
		"timestamp":      r.r.Timestamp,
		"hash":           r.r.Hash,
	}
}

func (r Result) Resource() *hal.Resource {
	rr := hal.NewResource(r, r.LinkSelf())
	rr.AddNewLink("winner", replaceID(URLAccounts, "id", r.r.Winner))
	return rr
}

func (r Result) LinkSelf() string {
	return replaceID(URLRaffleResult, "number", strconv.FormatUint(r.r.Number, 10))
}
