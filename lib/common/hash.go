package common

import (
	"github.com/btcsuite/btcutil/base58"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

func MakeHash(b []byte) []byte {
	return crypto.Keccak256(b)
}

func MakeObjectHash(i interface{}) (b []byte, err error) {
	var e []byte
	if e, err = rlp.EncodeToBytes(i); err != nil {
		return
	}

	b = MakeHash(e)

	return
}

// MakeObjectHashString returns the base58 encoded hash of the rlp encoded
// object.
func MakeObjectHashString(i interface{}) (string, error) {
	b, err := MakeObjectHash(i)
	if err != nil {
		return "", err
	}

	return base58.Encode(b), nil
}
