package resource

const (
	URLRaffle           = "/raffle"
	URLRaffleEntries    = "/raffle/entries"
	URLRaffleEntrant    = "/raffle/entrants/{index}"
	URLRaffleUpkeep     = "/raffle/upkeep"
	URLRaffleFulfill    = "/raffle/fulfill"
	URLRaffleResults    = "/raffle/results"
	URLRaffleResult     = "/raffle/results/{number}"
	URLAccountList      = "/accounts"
	URLAccounts         = "/accounts/{id}"
	URLSubscriptions    = "/coordinator/subscriptions"
	URLSubscription     = "/coordinator/subscriptions/{id}"
	URLSubscriptionFund = "/coordinator/subscriptions/{id}/fund"
	URLRequests         = "/coordinator/requests"
	URLRequestFulfill   = "/coordinator/requests/{id}/fulfill"
)
