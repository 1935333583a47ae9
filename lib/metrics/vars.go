package metrics

var (
	Raffle = NopRaffleMetrics()
	Keeper = NopKeeperMetrics()
	Oracle = NopOracleMetrics()
	API    = NopAPIMetrics()
)
