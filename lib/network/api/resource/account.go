package resource

import (
	"github.com/nvellon/hal"

	"github.com/photonwings/lottery-smart-contract/lib/ledger"
)

type Account struct {
	a *ledger.Account
}

func NewAccount(a *ledger.Account) *Account {
	return &Account{a: a}
}

func (a Account) GetMap() hal.Entry {
	return hal.Entry{
		"id":      a.a.Address,
		"address": a.a.Address,
		"balance": a.a.Balance,
		"frozen":  a.a.Frozen,
	}
}

func (a Account) Resource() *hal.Resource {
	return hal.NewResource(a, a.LinkSelf())
}

func (a Account) LinkSelf() string {
	return replaceID(URLAccounts, "id", a.a.Address)
}
