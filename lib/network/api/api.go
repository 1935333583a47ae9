package api

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/photonwings/lottery-smart-contract/lib/errors"
	"github.com/photonwings/lottery-smart-contract/lib/network/api/resource"
	"github.com/photonwings/lottery-smart-contract/lib/network/httpcache"
	"github.com/photonwings/lottery-smart-contract/lib/network/httputils"
	"github.com/photonwings/lottery-smart-contract/lib/oracle"
	"github.com/photonwings/lottery-smart-contract/lib/raffle"
	"github.com/photonwings/lottery-smart-contract/lib/storage"
)

const maxRequestBodySize = 1 << 20

type NetworkHandlerAPI struct {
	engine             *raffle.Engine
	storage            *storage.LevelDBBackend
	coordinator        *oracle.Coordinator
	coordinatorAddress string
}

// NewNetworkHandlerAPI makes the handlers of the raffle node. `coordinator`
// may be nil; the coordinator routes are registered only with the local
// development coordinator. The words are accepted over http only when
// signed by `coordinatorAddress`; without it the fulfill route is not
// registered.
func NewNetworkHandlerAPI(engine *raffle.Engine, st *storage.LevelDBBackend, coordinator *oracle.Coordinator, coordinatorAddress string) *NetworkHandlerAPI {
	return &NetworkHandlerAPI{
		engine:             engine,
		storage:            st,
		coordinator:        coordinator,
		coordinatorAddress: coordinatorAddress,
	}
}

// CacheKey puts the engine revision in front of the url, so a cached page
// is never served after the raffle has changed.
func (api NetworkHandlerAPI) CacheKey(r *http.Request) string {
	return fmt.Sprintf("%d:%s", api.engine.Revision(), httpcache.URLKey(r))
}

// Routes registers the handlers on `router`. The GET handlers of the raffle
// are wrapped by `cache` except for the event streams.
func (api NetworkHandlerAPI) Routes(router *mux.Router, cache httpcache.Cache) {
	if cache == nil {
		cache = httpcache.NewNopClient()
	}

	cached := func(h http.HandlerFunc) http.HandlerFunc {
		wrapped := cache.WrapHandlerFunc(h)
		return func(w http.ResponseWriter, r *http.Request) {
			if httputils.IsEventStream(r) {
				h(w, r)
				return
			}
			wrapped(w, r)
		}
	}

	router.HandleFunc(resource.URLRaffle, cached(api.GetRaffleHandler)).Methods("GET")
	router.HandleFunc(resource.URLRaffleEntries, api.PostEntryHandler).Methods("POST")
	router.HandleFunc(resource.URLRaffleEntrant, cached(api.GetEntrantHandler)).Methods("GET")
	router.HandleFunc(resource.URLRaffleUpkeep, cached(api.GetUpkeepHandler)).Methods("GET")
	router.HandleFunc(resource.URLRaffleUpkeep, api.PostUpkeepHandler).Methods("POST")
	router.HandleFunc(resource.URLRaffleResults, cached(api.GetResultsHandler)).Methods("GET")
	router.HandleFunc(resource.URLRaffleResult, cached(api.GetResultHandler)).Methods("GET")
	router.HandleFunc(resource.URLAccountList, cached(api.GetAccountsHandler)).Methods("GET")
	router.HandleFunc(resource.URLAccounts, cached(api.GetAccountHandler)).Methods("GET")

	if len(api.coordinatorAddress) > 0 {
		router.HandleFunc(resource.URLRaffleFulfill, api.PostFulfillHandler).Methods("POST")
	}

	if api.coordinator == nil {
		return
	}

	router.HandleFunc(resource.URLSubscriptions, api.PostSubscriptionHandler).Methods("POST")
	router.HandleFunc(resource.URLSubscription, api.GetSubscriptionHandler).Methods("GET")
	router.HandleFunc(resource.URLSubscriptionFund, api.PostFundHandler).Methods("POST")
	router.HandleFunc(resource.URLRequests, api.GetRequestsHandler).Methods("GET")
	router.HandleFunc(resource.URLRequests, api.PostRequestHandler).Methods("POST")
	router.HandleFunc(resource.URLRequestFulfill, api.PostRequestFulfillHandler).Methods("POST")
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()

	body, err := ioutil.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		return errors.BadRequestParameter.Clone().SetData("error", err.Error())
	}
	if len(body) < 1 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		if e, ok := err.(*errors.Error); ok {
			return e
		}
		return errors.BadRequestParameter.Clone().SetData("error", err.Error())
	}

	return nil
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	if err := httputils.WriteJSON(w, code, v); err != nil {
		log.Error("failed to write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	if err := httputils.WriteError(w, err); err != nil {
		log.Error("failed to write error response", "err", err)
	}
}
