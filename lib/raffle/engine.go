package raffle

import (
	"context"
	"math/big"
	"sync"
	"time"

	observable "github.com/GianlucaGuarini/go-observable"
	logging "github.com/inconshreveable/log15"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/common/keypair"
	"github.com/photonwings/lottery-smart-contract/lib/common/observer"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
	"github.com/photonwings/lottery-smart-contract/lib/metrics"
)

const DefaultConsumer = "raffle"

type EngineOption func(*Engine)

func WithClock(clock common.Clock) EngineOption {
	return func(e *Engine) {
		e.clock = clock
	}
}

func WithObserver(o *observable.Observable) EngineOption {
	return func(e *Engine) {
		e.observer = o
	}
}

func WithLogger(l logging.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithConsumer sets the consumer name sent along the randomness requests.
func WithConsumer(consumer string) EngineOption {
	return func(e *Engine) {
		e.consumer = consumer
	}
}

// Engine owns the round. Every operation holds the lock for its whole
// duration, including the calls to the oracle and the custody, and the
// notifications are triggered only after the lock is released.
type Engine struct {
	sync.Mutex

	config   Config
	consumer string

	round    *Round
	revision uint64
	// unsaved is set when the round was changed but could not be saved.
	unsaved bool

	oracle   Oracle
	custody  Custody
	clock    common.Clock
	observer *observable.Observable
	log      logging.Logger
}

type notification struct {
	event string
	args  []interface{}
}

// NewEngine restores the round from `custody`; when nothing was saved yet, a
// new round is created and saved.
func NewEngine(config Config, oracle Oracle, custody Custody, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		config:   config,
		consumer: DefaultConsumer,
		oracle:   oracle,
		custody:  custody,
		clock:    common.SystemClock{},
		observer: observer.RaffleObserver,
		log:      log,
	}

	for _, opt := range opts {
		opt(e)
	}

	round, err := custody.LoadRound()
	switch {
	case err == nil:
		e.log.Debug("round restored", "round", round.Number, "state", round.State, "entrants", len(round.Entrants))
	case errors.Is(err, errors.StorageRecordDoesNotExist):
		round = NewRound(e.clock.Now())
		if err = custody.SaveRound(round); err != nil {
			return nil, err
		}
		e.log.Debug("new round created", "round", round.Number)
	default:
		return nil, err
	}

	e.round = round
	e.updateMetrics()

	return e, nil
}

// Enter adds `caller` to the entrants of the current round and adds `value`
// to the pool. The state is checked before the value.
func (e *Engine) Enter(caller string, value common.Amount) error {
	var n []notification
	defer func() { e.notify(n) }()

	e.Lock()
	defer e.Unlock()

	e.persist()

	if e.round.State != StateOpen {
		return errors.NotOpen
	}
	if value < e.config.EntranceFee {
		return errors.InsufficientEntranceFee.Clone().
			SetData("value", value).
			SetData("entrance_fee", e.config.EntranceFee)
	}
	if !keypair.IsValidAddress(caller) {
		return errors.InvalidAddress.Clone().SetData("caller", caller)
	}

	balance, err := e.round.PoolBalance.Add(value)
	if err != nil {
		return err
	}

	next := e.round.Clone()
	next.Entrants = append(next.Entrants, caller)
	next.PoolBalance = balance

	if err := e.commit(next); err != nil {
		return err
	}

	metrics.Raffle.AddEntry()
	e.log.Debug("entered", "round", next.Number, "caller", caller, "value", value, "pool", balance)

	n = append(n, notification{
		event: observer.EventEntered,
		args:  []interface{}{Entered{Round: next.Number, Caller: caller, Value: value}},
	})

	return nil
}

// UpkeepNeeded is the eligibility predicate of `CheckUpkeep`.
func UpkeepNeeded(round *Round, interval time.Duration, now time.Time) bool {
	return round.State == StateOpen &&
		now.Sub(round.LastTimestamp) >= interval &&
		round.PoolBalance > 0 &&
		len(round.Entrants) > 0
}

// CheckUpkeep does not change the round; the returned context is always
// empty. A round left unsaved by `PerformUpkeep` is saved again here.
func (e *Engine) CheckUpkeep() (bool, []byte) {
	e.Lock()
	defer e.Unlock()

	e.persist()

	return UpkeepNeeded(e.round, e.config.Interval, e.clock.Now()), []byte{}
}

// PerformUpkeep checks again the upkeep conditions and requests a single
// random word to the oracle. `proof` is not interpreted.
func (e *Engine) PerformUpkeep(ctx context.Context, proof []byte) (RequestID, error) {
	var n []notification
	defer func() { e.notify(n) }()

	e.Lock()
	defer e.Unlock()

	e.persist()

	if !UpkeepNeeded(e.round, e.config.Interval, e.clock.Now()) {
		return 0, errors.UpkeepNotNeeded.Clone().
			SetData("balance", e.round.PoolBalance).
			SetData("entrants", len(e.round.Entrants)).
			SetData("state", e.round.State.String())
	}

	id, err := e.oracle.RequestRandomWords(ctx, RandomnessRequest{
		GasLane:          e.config.GasLane,
		SubscriptionID:   e.config.SubscriptionID,
		Confirmations:    e.config.RequestConfirmations,
		CallbackGasLimit: e.config.CallbackGasLimit,
		NumWords:         1,
		Consumer:         e.consumer,
	})
	if err != nil {
		return 0, errors.Wrap(errors.OracleRequestFailed, err)
	}

	next := e.round.Clone()
	next.State = StateCalculating
	next.PendingRequestID = &id

	// The oracle already holds the request, so the round follows it even
	// when it can not be saved now.
	if err := e.commit(next); err != nil {
		e.log.Error("failed to save round; will retry", "round", next.Number, "request", id, "error", err)
		e.adopt(next)
		e.unsaved = true
	}

	e.log.Debug("upkeep performed", "round", next.Number, "request", id, "proof-size", len(proof))

	n = append(n, notification{
		event: observer.EventUpkeepPerformed,
		args:  []interface{}{UpkeepPerformed{Round: next.Number, RequestID: id}},
	})

	return id, nil
}

// FulfillRandomness picks the winner with the first word and pays out the
// whole pool. When the payout fails, nothing is changed and the same request
// can be fulfilled again.
func (e *Engine) FulfillRandomness(id RequestID, words []*big.Int) error {
	var n []notification
	defer func() { e.notify(n) }()

	e.Lock()
	defer e.Unlock()

	e.persist()

	if !e.round.IsPendingRequest(id) {
		return errors.UnknownRequest.Clone().SetData("request_id", id)
	}
	if len(words) < 1 || words[0] == nil {
		return errors.InvalidRandomWords
	}

	current := e.round
	index := new(big.Int).Mod(words[0], big.NewInt(int64(len(current.Entrants)))).Uint64()
	winner := current.Entrants[index]
	amount := current.PoolBalance
	now := e.clock.Now()

	result, err := NewResult(current, index, id, words[0], now)
	if err != nil {
		return err
	}

	next := current.Clone()
	next.Number = current.Number + 1
	next.State = StateOpen
	next.Entrants = []string{}
	next.PoolBalance = 0
	next.LastTimestamp = now
	next.PendingRequestID = nil
	next.RecentWinner = winner

	if err := e.custody.Payout(winner, amount, next, result); err != nil {
		metrics.Raffle.AddPayoutError()
		e.log.Error("failed to pay out", "round", current.Number, "winner", winner, "amount", amount, "error", err)
		return errors.Wrap(errors.PayoutFailed, err)
	}

	e.adopt(next)
	e.unsaved = false
	metrics.Raffle.AddPayout()

	e.log.Info("winner picked", "round", current.Number, "winner", winner, "amount", amount, "index", index)

	n = append(n, notification{
		event: observer.EventWinnerPicked,
		args: []interface{}{WinnerPicked{
			Round:     current.Number,
			Winner:    winner,
			Amount:    amount,
			Timestamp: now,
			Result:    result,
		}},
	})

	return nil
}

// commit saves `next` and replaces the current round with it. The current
// round stays as it is when saving fails.
func (e *Engine) commit(next *Round) error {
	if err := e.custody.SaveRound(next); err != nil {
		return err
	}

	e.adopt(next)
	e.unsaved = false

	return nil
}

func (e *Engine) adopt(next *Round) {
	e.round = next
	e.revision++
	e.updateMetrics()
}

// persist saves again the round left unsaved by a failed commit.
func (e *Engine) persist() {
	if !e.unsaved {
		return
	}

	if err := e.custody.SaveRound(e.round); err != nil {
		e.log.Warn("round is still unsaved", "round", e.round.Number, "error", err)
		return
	}

	e.unsaved = false
	e.log.Debug("unsaved round saved", "round", e.round.Number, "state", e.round.State)
}

func (e *Engine) updateMetrics() {
	metrics.Raffle.SetRound(e.round.Number)
	metrics.Raffle.SetState(uint8(e.round.State))
	metrics.Raffle.SetEntrants(len(e.round.Entrants))
	metrics.Raffle.SetPoolBalance(uint64(e.round.PoolBalance))
}

func (e *Engine) notify(n []notification) {
	for _, i := range n {
		e.observer.Trigger(i.event, i.args...)
	}
}

func (e *Engine) State() State {
	e.Lock()
	defer e.Unlock()

	return e.round.State
}

func (e *Engine) EntranceFee() common.Amount {
	return e.config.EntranceFee
}

func (e *Engine) Interval() time.Duration {
	return e.config.Interval
}

func (e *Engine) Config() Config {
	return e.config
}

func (e *Engine) NumberOfEntrants() int {
	e.Lock()
	defer e.Unlock()

	return len(e.round.Entrants)
}

func (e *Engine) Entrant(index int) (string, error) {
	e.Lock()
	defer e.Unlock()

	if index < 0 || index >= len(e.round.Entrants) {
		return "", errors.EntrantIndexOutOfRange.Clone().
			SetData("index", index).
			SetData("entrants", len(e.round.Entrants))
	}

	return e.round.Entrants[index], nil
}

func (e *Engine) RecentWinner() string {
	e.Lock()
	defer e.Unlock()

	return e.round.RecentWinner
}

func (e *Engine) LastTimestamp() time.Time {
	e.Lock()
	defer e.Unlock()

	return e.round.LastTimestamp
}

func (e *Engine) PoolBalance() common.Amount {
	e.Lock()
	defer e.Unlock()

	return e.round.PoolBalance
}

func (e *Engine) PendingRequestID() (RequestID, bool) {
	e.Lock()
	defer e.Unlock()

	if e.round.PendingRequestID == nil {
		return 0, false
	}

	return *e.round.PendingRequestID, true
}

// Round returns a copy of the current round.
func (e *Engine) Round() *Round {
	e.Lock()
	defer e.Unlock()

	return e.round.Clone()
}

// Revision is increased at every change of the round.
func (e *Engine) Revision() uint64 {
	e.Lock()
	defer e.Unlock()

	return e.revision
}

// Snapshot is read under a single lock, so its fields always agree.
type Snapshot struct {
	Round        *Round
	Revision     uint64
	UpkeepNeeded bool
}

func (e *Engine) Snapshot() Snapshot {
	e.Lock()
	defer e.Unlock()

	return Snapshot{
		Round:        e.round.Clone(),
		Revision:     e.revision,
		UpkeepNeeded: UpkeepNeeded(e.round, e.config.Interval, e.clock.Now()),
	}
}

// Unsaved reports whether the current round is only kept in memory.
func (e *Engine) Unsaved() bool {
	e.Lock()
	defer e.Unlock()

	return e.unsaved
}
