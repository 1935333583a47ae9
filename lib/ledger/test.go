package ledger

import (
	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/common/keypair"
)

func TestMakeAccount() *Account {
	return NewAccount(keypair.Random().Address(), common.Amount(2000))
}
