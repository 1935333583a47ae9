package raffle

import (
	"sync"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
)

// MemoryCustody keeps everything in memory. `Reject` makes the payouts to
// an address fail until `Accept` is called. `FailSaves` makes the next saves
// of the round fail.
type MemoryCustody struct {
	sync.RWMutex

	round    *Round
	balances map[string]common.Amount
	results  []*Result
	rejected map[string]bool

	failSaves int
	saveError error
}

func NewMemoryCustody() *MemoryCustody {
	return &MemoryCustody{
		balances: map[string]common.Amount{},
		rejected: map[string]bool{},
	}
}

func (m *MemoryCustody) LoadRound() (*Round, error) {
	m.RLock()
	defer m.RUnlock()

	if m.round == nil {
		return nil, errors.StorageRecordDoesNotExist
	}

	return m.round.Clone(), nil
}

func (m *MemoryCustody) SaveRound(round *Round) error {
	m.Lock()
	defer m.Unlock()

	if m.failSaves > 0 {
		m.failSaves--
		return m.saveError
	}

	m.round = round.Clone()

	return nil
}

// FailSaves makes the next `n` calls of `SaveRound` return `err`.
func (m *MemoryCustody) FailSaves(n int, err error) {
	m.Lock()
	defer m.Unlock()

	m.failSaves = n
	m.saveError = err
}

func (m *MemoryCustody) Payout(winner string, amount common.Amount, round *Round, result *Result) error {
	m.Lock()
	defer m.Unlock()

	if m.rejected[winner] {
		return errors.AccountFrozen.Clone().SetData("address", winner)
	}

	balance, err := m.balances[winner].Add(amount)
	if err != nil {
		return err
	}

	m.balances[winner] = balance
	m.round = round.Clone()
	m.results = append(m.results, result)

	return nil
}

func (m *MemoryCustody) Reject(address string) {
	m.Lock()
	defer m.Unlock()

	m.rejected[address] = true
}

func (m *MemoryCustody) Accept(address string) {
	m.Lock()
	defer m.Unlock()

	delete(m.rejected, address)
}

func (m *MemoryCustody) Balance(address string) common.Amount {
	m.RLock()
	defer m.RUnlock()

	return m.balances[address]
}

func (m *MemoryCustody) Results() []*Result {
	m.RLock()
	defer m.RUnlock()

	r := make([]*Result, len(m.results))
	copy(r, m.results)

	return r
}
