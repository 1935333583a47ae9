package ledger

import (
	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/raffle"
	"github.com/photonwings/lottery-smart-contract/lib/storage"
)

// Custody keeps the raffle round, the results and the participant accounts
// in the same leveldb.
type Custody struct {
	st *storage.LevelDBBackend
}

func NewCustody(st *storage.LevelDBBackend) *Custody {
	return &Custody{st: st}
}

func (c *Custody) Storage() *storage.LevelDBBackend {
	return c.st
}

func (c *Custody) LoadRound() (*raffle.Round, error) {
	var round raffle.Round
	if err := c.st.Get(raffle.RoundKey, &round); err != nil {
		return nil, err
	}

	return &round, nil
}

func (c *Custody) SaveRound(round *raffle.Round) error {
	return c.st.Put(raffle.RoundKey, round)
}

// Payout deposits `amount` to the `winner` account and saves `round` and
// `result` in one leveldb transaction.
func (c *Custody) Payout(winner string, amount common.Amount, round *raffle.Round, result *raffle.Result) (err error) {
	var ts *storage.LevelDBBackend
	if ts, err = c.st.OpenTransaction(); err != nil {
		return
	}

	defer func() {
		if err != nil {
			ts.Discard()
		}
	}()

	var account *Account
	if account, err = getOrNewAccount(ts, winner); err != nil {
		return
	}
	if err = account.Deposit(amount); err != nil {
		return
	}
	if err = account.save(ts); err != nil {
		return
	}
	if err = ts.Put(raffle.RoundKey, round); err != nil {
		return
	}
	if err = ts.New(raffle.ResultKey(result.Number), result); err != nil {
		return
	}
	if err = ts.Commit(); err != nil {
		return
	}

	log.Debug("paid out", "winner", winner, "amount", amount, "round", result.Number)
	account.notify()

	return
}

func GetResult(st *storage.LevelDBBackend, number uint64) (*raffle.Result, error) {
	var r raffle.Result
	if err := st.Get(raffle.ResultKey(number), &r); err != nil {
		return nil, err
	}

	return &r, nil
}

// GetResults iterates the results by round number. The cursor of `options`
// is a result key, see `raffle.ResultKey`.
func GetResults(st *storage.LevelDBBackend, options storage.ListOptions) (func() (*raffle.Result, []byte, bool), func()) {
	iterFunc, closeFunc := st.GetIterator(raffle.ResultPrefix, options)

	return (func() (*raffle.Result, []byte, bool) {
			item, hasNext := iterFunc()
			if !hasNext {
				return nil, nil, false
			}

			var r raffle.Result
			if err := common.DecodeJSONValue(item.Value, &r); err != nil {
				return nil, nil, false
			}
			return &r, item.Key, hasNext
		}), (func() {
			closeFunc()
		})
}

var _ raffle.Custody = (*Custody)(nil)
