package metrics

func InitPrometheusMetrics() {
	Version = PromVersion()
	Raffle = PromRaffleMetrics()
	Keeper = PromKeeperMetrics()
	Oracle = PromOracleMetrics()
	API = PromAPIMetrics()
}
