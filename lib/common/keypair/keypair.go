//
// Encapsulate Stellar's keypair package
//
// Participants, winners and the custody account are identified by stellar
// public addresses.
//
package keypair

import (
	stellar "github.com/stellar/go/keypair"
)

// Aliases to stellar types
type Full = stellar.Full
type KP = stellar.KP

// Aliases to stellar functions
var Master = stellar.Master
var Parse = stellar.Parse
var RandomCanFail = stellar.Random

// IsValidAddress checks `address` is a public address, not a secret seed.
func IsValidAddress(address string) bool {
	kp, err := stellar.Parse(address)
	if err != nil {
		return false
	}
	_, isFull := kp.(*stellar.Full)

	return !isFull
}
