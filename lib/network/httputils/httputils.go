package httputils

import (
	"net/http"

	"github.com/photonwings/lottery-smart-contract/lib/errors"
)

// IsEventStream checks request header accept is text/event-stream
func IsEventStream(r *http.Request) bool {
	if r.Header.Get("Accept") == "text/event-stream" {
		return true
	}
	return false
}

var (
	ErrorsToStatus = map[uint]int{
		errors.NotOpen.Code:                         http.StatusConflict,
		errors.InsufficientEntranceFee.Code:         http.StatusBadRequest,
		errors.UpkeepNotNeeded.Code:                 http.StatusConflict,
		errors.UnknownRequest.Code:                  http.StatusConflict,
		errors.PayoutFailed.Code:                    http.StatusBadGateway,
		errors.EntrantIndexOutOfRange.Code:          http.StatusNotFound,
		errors.InvalidAddress.Code:                  http.StatusBadRequest,
		errors.InvalidRandomWords.Code:              http.StatusBadRequest,
		errors.OracleRequestFailed.Code:             http.StatusBadGateway,
		errors.MaximumBalanceReached.Code:           http.StatusBadRequest,
		errors.InvalidAmount.Code:                   http.StatusBadRequest,
		errors.UnauthorizedFulfillment.Code:         http.StatusForbidden,
		errors.AccountFrozen.Code:                   http.StatusForbidden,
		errors.AccountNotFound.Code:                 http.StatusNotFound,
		errors.AccountBalanceUnderZero.Code:         http.StatusBadRequest,
		errors.InvalidSubscription.Code:             http.StatusNotFound,
		errors.NonexistentRequest.Code:              http.StatusNotFound,
		errors.InsufficientSubscriptionBalance.Code: http.StatusPaymentRequired,
		errors.InvalidNumWords.Code:                 http.StatusBadRequest,
		errors.InvalidConsumer.Code:                 http.StatusBadRequest,
		errors.StorageRecordDoesNotExist.Code:       http.StatusNotFound,
		errors.StorageRecordAlreadyExists.Code:      http.StatusConflict,
		errors.StorageCoreError.Code:                http.StatusInternalServerError,
		errors.BadRequestParameter.Code:             http.StatusBadRequest,
		errors.TooManyRequests.Code:                 http.StatusTooManyRequests,
	}
)

func StatusCode(err error) int {
	if e, ok := err.(*errors.Error); ok {
		if status, found := ErrorsToStatus[e.Code]; found {
			return status
		}
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
