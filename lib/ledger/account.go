package ledger

import (
	"fmt"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/common/observer"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
	"github.com/photonwings/lottery-smart-contract/lib/storage"
)

// Account is the balance of a participant. The storage should support,
//  * find by `Address`
//  * get list by created order
//
// models
//  * 'address'
// 	- 'ac-address-<Account.Address>': `Account`
//  * 'created'
// 	- 'ac-created-<sequential uuid1>': `Account.Address`
const (
	AccountPrefixAddress = "ac-address-"
	AccountPrefixCreated = "ac-created-"
)

type Account struct {
	Address string        `json:"address"`
	Balance common.Amount `json:"balance"`
	Frozen  bool          `json:"frozen"`
}

func NewAccount(address string, balance common.Amount) *Account {
	return &Account{
		Address: address,
		Balance: balance,
	}
}

func (a *Account) String() string {
	return string(common.MustJSONMarshal(a))
}

func (a *Account) Serialize() ([]byte, error) {
	return common.EncodeJSONValue(a)
}

func (a *Account) Deserialize(encoded []byte) error {
	return common.DecodeJSONValue(encoded, a)
}

// Save stores the account and notifies `observer.LedgerObserver`.
func (a *Account) Save(st *storage.LevelDBBackend) error {
	if err := a.save(st); err != nil {
		return err
	}

	a.notify()

	return nil
}

func (a *Account) save(st *storage.LevelDBBackend) error {
	key := GetAccountKey(a.Address)

	exists, err := ExistsAccount(st, a.Address)
	if err != nil {
		return err
	}

	if exists {
		return st.Set(key, a)
	}

	return st.News(
		storage.Item{Key: key, Value: a},
		storage.Item{Key: GetAccountCreatedKey(common.GetUniqueIDFromUUID()), Value: a.Address},
	)
}

func (a *Account) notify() {
	observer.LedgerObserver.Trigger(observer.AddressEvent(observer.EventAccountSaved, a.Address), a)
}

// Deposit adds fund to the account. If the amount would make the account
// overflow over the full supply of coin, an `error` is returned.
func (a *Account) Deposit(fund common.Amount) error {
	if a.Frozen {
		return errors.AccountFrozen.Clone().SetData("address", a.Address)
	}

	val, err := a.Balance.Add(fund)
	if err != nil {
		return err
	}
	a.Balance = val

	return nil
}

func GetAccountKey(address string) string {
	return fmt.Sprintf("%s%s", AccountPrefixAddress, address)
}

func GetAccountCreatedKey(created string) string {
	return fmt.Sprintf("%s%s", AccountPrefixCreated, created)
}

func ExistsAccount(st *storage.LevelDBBackend, address string) (bool, error) {
	return st.Has(GetAccountKey(address))
}

func GetAccount(st *storage.LevelDBBackend, address string) (*Account, error) {
	var a Account
	if err := st.Get(GetAccountKey(address), &a); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return nil, errors.AccountNotFound.Clone().SetData("address", address)
		}
		return nil, err
	}

	return &a, nil
}

// getOrNewAccount returns an empty account when `address` was never saved.
func getOrNewAccount(st *storage.LevelDBBackend, address string) (*Account, error) {
	a, err := GetAccount(st, address)
	if errors.Is(err, errors.AccountNotFound) {
		return NewAccount(address, 0), nil
	}

	return a, err
}

// GetAccountAddressesByCreated iterates the created index; the returned key
// is the cursor of the address.
func GetAccountAddressesByCreated(st *storage.LevelDBBackend, options storage.ListOptions) (func() (string, []byte, bool), func()) {
	iterFunc, closeFunc := st.GetIterator(AccountPrefixCreated, options)

	return (func() (string, []byte, bool) {
			item, hasNext := iterFunc()
			if !hasNext {
				return "", nil, false
			}

			var address string
			if err := common.DecodeJSONValue(item.Value, &address); err != nil {
				return "", nil, false
			}
			return address, item.Key, hasNext
		}), (func() {
			closeFunc()
		})
}

func GetAccountsByCreated(st *storage.LevelDBBackend, options storage.ListOptions) (func() (*Account, []byte, bool), func()) {
	iterFunc, closeFunc := GetAccountAddressesByCreated(st, options)

	return (func() (*Account, []byte, bool) {
			address, key, hasNext := iterFunc()
			if !hasNext {
				return nil, nil, false
			}

			a, err := GetAccount(st, address)
			if err != nil {
				return nil, nil, false
			}
			return a, key, hasNext
		}), (func() {
			closeFunc()
		})
}

// SetFrozen freezes or unfreezes the account; an unknown address is saved as
// a new empty account.
func SetFrozen(st *storage.LevelDBBackend, address string, frozen bool) (*Account, error) {
	a, err := getOrNewAccount(st, address)
	if err != nil {
		return nil, err
	}

	a.Frozen = frozen
	if err := a.Save(st); err != nil {
		return nil, err
	}

	log.Debug("account frozen state changed", "address", address, "frozen", frozen)

	return a, nil
}

func Freeze(st *storage.LevelDBBackend, address string) (*Account, error) {
	return SetFrozen(st, address, true)
}

func Unfreeze(st *storage.LevelDBBackend, address string) (*Account, error) {
	return SetFrozen(st, address, false)
}
