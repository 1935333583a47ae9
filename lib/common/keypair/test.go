package keypair

import (
	stellar "github.com/stellar/go/keypair"
)

// Random makes a keypair for tests. It panics when the system entropy fails.
func Random() *Full {
	kp, err := stellar.Random()
	if err != nil {
		panic(err)
	}

	return kp
}

// RandomAddresses returns `n` participant addresses.
func RandomAddresses(n int) []string {
	addresses := make([]string, n)
	for i := range addresses {
		addresses[i] = Random().Address()
	}

	return addresses
}
