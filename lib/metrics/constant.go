package metrics

const (
	Namespace       = "lottery"
	RaffleSubsystem = "raffle"
	KeeperSubsystem = "keeper"
	OracleSubsystem = "oracle"
	APISubsystem    = "api"
)

const (
	KeeperResult    = "result"
	KeeperPerformed = "performed"
	KeeperNotNeeded = "not_needed"
	KeeperFailed    = "failed"
)

const (
	APIRoute  = "route"
	APIMethod = "method"
	APIStatus = "status"
)
