package errors

var (
	// raffle
	NotOpen                 = NewError(100, "raffle is not open")
	InsufficientEntranceFee = NewError(101, "value is less than the entrance fee")
	UpkeepNotNeeded         = NewError(102, "upkeep not needed")
	UnknownRequest          = NewError(103, "request id does not match the pending request")
	PayoutFailed            = NewError(104, "failed to pay out the pool to the winner")
	EntrantIndexOutOfRange  = NewError(105, "entrant index out of range")
	InvalidAddress          = NewError(106, "invalid participant address")
	InvalidRandomWords      = NewError(107, "random words are empty")
	OracleRequestFailed     = NewError(108, "failed to request randomness")
	MaximumBalanceReached   = NewError(109, "monetary amount would be greater than the total supply of coins")
	InvalidAmount           = NewError(110, "invalid amount")
	UnauthorizedFulfillment = NewError(111, "fulfillment is not signed by the coordinator")

	// ledger
	AccountFrozen           = NewError(120, "account is frozen")
	AccountNotFound         = NewError(121, "account not found")
	AccountBalanceUnderZero = NewError(122, "account balance will be under zero")

	// oracle
	InvalidSubscription             = NewError(130, "invalid subscription")
	NonexistentRequest              = NewError(131, "nonexistent request")
	InsufficientSubscriptionBalance = NewError(132, "insufficient subscription balance")
	InvalidNumWords                 = NewError(133, "number of words is out of range")
	InvalidConsumer                 = NewError(134, "consumer is not registered to the subscription")

	// storage
	StorageRecordDoesNotExist  = NewError(140, "record does not exist in storage")
	StorageRecordAlreadyExists = NewError(141, "record already exists in storage")
	StorageCoreError           = NewError(142, "storage error")

	// http
	BadRequestParameter = NewError(150, "bad request parameter")
	TooManyRequests     = NewError(151, "too many requests")
)
