package observer

import (
	"github.com/GianlucaGuarini/go-observable"
)

// RaffleObserver carries the raffle notifications. Handlers are called after
// the engine releases its lock, so they may read the engine back.
var RaffleObserver = observable.New()

// LedgerObserver carries account updates.
var LedgerObserver = observable.New()

const (
	EventEntered         = "entered"
	EventUpkeepPerformed = "upkeep-performed"
	EventWinnerPicked    = "winner-picked"
	EventAccountSaved    = "saved"
)

// AllRaffleEvents is used to listen every raffle notification at once.
var AllRaffleEvents = EventEntered + " " + EventUpkeepPerformed + " " + EventWinnerPicked

func AddressEvent(event, address string) string {
	return event + " address-" + address
}
