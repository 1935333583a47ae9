package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
	"github.com/photonwings/lottery-smart-contract/lib/network/api/resource"
	"github.com/photonwings/lottery-smart-contract/lib/raffle"
)

type FundRequest struct {
	Amount common.Amount `json:"amount"`
}

type RequestCreated struct {
	ID raffle.RequestID `json:"id"`
}

func parseID(r *http.Request) (uint64, error) {
	s := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.BadRequestParameter.Clone().SetData("id", s)
	}
	return id, nil
}

func (api NetworkHandlerAPI) PostSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	id := api.coordinator.CreateSubscription()

	s, err := api.coordinator.Subscription(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resource.NewSubscription(s))
}

func (api NetworkHandlerAPI) GetSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	s, err := api.coordinator.Subscription(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resource.NewSubscription(s))
}

func (api NetworkHandlerAPI) PostFundHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req FundRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s, err := api.coordinator.FundSubscription(id, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resource.NewSubscription(s))
}

// PostRequestHandler is the remote end of `oracle.HTTPCoordinator`.
func (api NetworkHandlerAPI) PostRequestHandler(w http.ResponseWriter, r *http.Request) {
	var req raffle.RandomnessRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id, err := api.coordinator.RequestRandomWords(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, RequestCreated{ID: id})
}

func (api NetworkHandlerAPI) GetRequestsHandler(w http.ResponseWriter, r *http.Request) {
	var resources []resource.Resource
	for _, req := range api.coordinator.Pending() {
		resources = append(resources, resource.NewRequest(req))
	}

	writeJSON(w, http.StatusOK, resource.NewResourceList(resources, r.URL.String(), "", ""))
}

func (api NetworkHandlerAPI) PostRequestFulfillHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := api.coordinator.FulfillRandomWords(r.Context(), raffle.RequestID(id)); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.raffleResource())
}
