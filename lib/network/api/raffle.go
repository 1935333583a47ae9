package api

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/common/observer"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
	"github.com/photonwings/lottery-smart-contract/lib/ledger"
	"github.com/photonwings/lottery-smart-contract/lib/network/api/resource"
	"github.com/photonwings/lottery-smart-contract/lib/network/httputils"
	"github.com/photonwings/lottery-smart-contract/lib/raffle"
)

type EntryRequest struct {
	Caller string        `json:"caller"`
	Value  common.Amount `json:"value"`
}

type UpkeepRequest struct {
	Proof []byte `json:"proof"`
}

// FulfillRequest carries the random words as decimal strings, they are
// 256 bit integers. `Signature` is made by the coordinator, see
// `raffle.SignFulfillment`.
type FulfillRequest struct {
	RequestID   raffle.RequestID `json:"request_id"`
	RandomWords []string         `json:"random_words"`
	Signature   string           `json:"signature"`
}

func (f FulfillRequest) Words() ([]*big.Int, error) {
	return raffle.ParseWords(f.RandomWords)
}

func (api NetworkHandlerAPI) raffleResource() *resource.Raffle {
	snapshot := api.engine.Snapshot()
	return resource.NewRaffle(snapshot.Round, api.engine.Config(), snapshot.Revision, snapshot.UpkeepNeeded)
}

func (api NetworkHandlerAPI) GetRaffleHandler(w http.ResponseWriter, r *http.Request) {
	if httputils.IsEventStream(r) {
		es := NewEventStream(w, r, RenderRaffleEventFunc, DefaultContentType)
		run := es.Start(observer.RaffleObserver, observer.AllRaffleEvents)
		es.Render(api.raffleResource())
		run()
		return
	}

	writeJSON(w, http.StatusOK, api.raffleResource())
}

func (api NetworkHandlerAPI) PostEntryHandler(w http.ResponseWriter, r *http.Request) {
	var req EntryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := api.engine.Enter(req.Caller, req.Value); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.raffleResource())
}

func (api NetworkHandlerAPI) GetEntrantHandler(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, errors.BadRequestParameter.Clone().SetData("index", mux.Vars(r)["index"]))
		return
	}

	address, err := api.engine.Entrant(index)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resource.NewEntrant(index, address))
}

func (api NetworkHandlerAPI) GetUpkeepHandler(w http.ResponseWriter, r *http.Request) {
	snapshot := api.engine.Snapshot()
	writeJSON(w, http.StatusOK, resource.NewUpkeep(snapshot.UpkeepNeeded, []byte{}, snapshot.Round.PendingRequestID))
}

func (api NetworkHandlerAPI) PostUpkeepHandler(w http.ResponseWriter, r *http.Request) {
	var req UpkeepRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id, err := api.engine.PerformUpkeep(r.Context(), req.Proof)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, resource.NewUpkeep(false, req.Proof, &id))
}

func (api NetworkHandlerAPI) PostFulfillHandler(w http.ResponseWriter, r *http.Request) {
	var req FulfillRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	words, err := req.Words()
	if err != nil {
		writeError(w, err)
		return
	}

	if err := raffle.VerifyFulfillment(api.coordinatorAddress, req.RequestID, words, req.Signature); err != nil {
		log.Warn("fulfillment rejected", "request", req.RequestID, "remote", r.RemoteAddr, "error", err)
		writeError(w, err)
		return
	}

	if err := api.engine.FulfillRandomness(req.RequestID, words); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.raffleResource())
}

func (api NetworkHandlerAPI) GetResultsHandler(w http.ResponseWriter, r *http.Request) {
	p, err := httputils.NewPageQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var (
		cursor    []byte
		firstKey  []byte
		resources []resource.Resource
	)

	page := newPage(p)
	iterFunc, closeFunc := ledger.GetResults(api.storage, page.options)
	for !page.full(len(resources)) {
		result, key, hasNext := iterFunc()
		if !hasNext {
			break
		}
		if page.skip(key) {
			continue
		}
		if firstKey == nil {
			firstKey = key
		}
		cursor = key
		resources = append(resources, resource.NewResult(result))
	}
	closeFunc()

	list := resource.NewResourceList(resources, p.SelfLink(), p.NextLink(cursor), p.PrevLink(firstKey))
	writeJSON(w, http.StatusOK, list)
}

func (api NetworkHandlerAPI) GetResultHandler(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.ParseUint(mux.Vars(r)["number"], 10, 64)
	if err != nil {
		writeError(w, errors.BadRequestParameter.Clone().SetData("number", mux.Vars(r)["number"]))
		return
	}

	result, err := ledger.GetResult(api.storage, number)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resource.NewResult(result))
}
