package raffle

import (
	"math/big"

	"github.com/btcsuite/btcutil/base58"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/common/keypair"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
)

// Fulfillments delivered over the network are signed by the coordinator over
// the rlp encoded request id and words; the signature is base58 encoded.
type fulfillmentHashable struct {
	RequestID   uint64
	RandomWords []string
}

func FulfillmentHash(id RequestID, words []*big.Int) ([]byte, error) {
	return common.MakeObjectHash(fulfillmentHashable{
		RequestID:   uint64(id),
		RandomWords: FormatWords(words),
	})
}

func SignFulfillment(kp *keypair.Full, id RequestID, words []*big.Int) (string, error) {
	h, err := FulfillmentHash(id, words)
	if err != nil {
		return "", err
	}

	signature, err := kp.Sign(h)
	if err != nil {
		return "", err
	}

	return base58.Encode(signature), nil
}

// VerifyFulfillment returns `errors.UnauthorizedFulfillment` unless
// `signature` was made by the `coordinator` address.
func VerifyFulfillment(coordinator string, id RequestID, words []*big.Int, signature string) error {
	unauthorized := func(reason string) error {
		return errors.UnauthorizedFulfillment.Clone().
			SetData("request_id", id).
			SetData("reason", reason)
	}

	if !keypair.IsValidAddress(coordinator) {
		return unauthorized("coordinator address is not set")
	}

	decoded := base58.Decode(signature)
	if len(decoded) < 1 {
		return unauthorized("signature is missing")
	}

	h, err := FulfillmentHash(id, words)
	if err != nil {
		return unauthorized(err.Error())
	}

	kp, err := keypair.Parse(coordinator)
	if err != nil {
		return unauthorized(err.Error())
	}

	if err := kp.Verify(h, decoded); err != nil {
		return unauthorized("bad signature")
	}

	return nil
}
