// Amount is the monetary type of the raffle pool and the ledger accounts.
// One coin is 10 million units. `Add` and `Sub` report overflow and underflow
// as errors; `MustSub` panics instead and is meant for tests.

package common

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/photonwings/lottery-smart-contract/lib/errors"
)

const (
	// 10,000,000 units == 1 coin
	AmountPerCoin Amount = 10000000
	// The maximum amount a pool or an account can ever hold
	MaximumBalance Amount = 1000000000000 * AmountPerCoin
	// An invalid valid, used to make an instance unusable
	invalidValue = Amount(MaximumBalance + 1)
)

// Main monetary type used accross the raffle and the ledger
type Amount uint64

// Check this type's invariant, that is, its value is <= MaximumBalance
func (a Amount) Invariant() {
	if a > MaximumBalance {
		// `uint64` is necessary to avoid a recursive call to `String`
		// which would lead to an infinite recursion
		panic(fmt.Errorf("Amount '%d' is higher than the total supply of coins (%d)", uint64(a), uint64(MaximumBalance)))
	}
}

func (a Amount) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, a.String())
}

// Stringer interface implementation
func (a Amount) String() string {
	a.Invariant()
	return strconv.FormatUint(uint64(a), 10)
}

//
// Add an `Amount` to this `Amount`
//
// If the resulting value would overflow MaximumBalance, an error is returned,
// along with the value (which would trigger a `panic` if used).
//
func (a Amount) Add(added Amount) (n Amount, err error) {
	a.Invariant()
	added.Invariant()
	if n = a + added; n > MaximumBalance {
		err = errors.MaximumBalanceReached
	}
	return
}

//
// Substract an `Amount` to this `Amount`
//
// If the resulting value would underflow, an error is returned,
// along with an invalid value (which would trigger a `panic` if used).
//
func (a Amount) Sub(sub Amount) (Amount, error) {
	a.Invariant()
	sub.Invariant()
	if a < sub {
		return invalidValue, errors.AccountBalanceUnderZero
	}
	return a - sub, nil
}

// Counterpart of `Sub` which panic instead of returning an error
// Useful for debugging and testing, should be avoided in regular code
func (a Amount) MustSub(sub Amount) Amount {
	if v, err := a.Sub(sub); err != nil {
		panic(err)
	} else {
		return v
	}
}

// Implement JSON's Marshaler interface
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", a.String())), nil
}

// Implement JSON's Unmarshaler interface
// If Unmarshalling errors, `a` will have an `invalidValue`
func (a *Amount) UnmarshalJSON(b []byte) (err error) {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		*a = invalidValue
		return errors.InvalidAmount
	}
	*a, err = AmountFromString(string(b[1 : len(b)-1]))
	return
}

// Parse an `Amount` from a string input
//
// Params:
//   str = a string consisting only of numbers, expressing an amount in units
//
// Returns:
//  A valid `Amount` and a `nil` error, or an invalid amount and an `error`
func AmountFromString(str string) (Amount, error) {
	value, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return invalidValue, err
	}
	if Amount(value) > MaximumBalance {
		return invalidValue, errors.MaximumBalanceReached
	}

	return Amount(value), nil
}
