package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/photonwings/lottery-smart-contract/lib/common/observer"
	"github.com/photonwings/lottery-smart-contract/lib/ledger"
	"github.com/photonwings/lottery-smart-contract/lib/network/api/resource"
	"github.com/photonwings/lottery-smart-contract/lib/network/httputils"
)

func (api NetworkHandlerAPI) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["id"]

	account, err := ledger.GetAccount(api.storage, address)
	if err != nil {
		writeError(w, err)
		return
	}

	if httputils.IsEventStream(r) {
		es := NewDefaultEventStream(w, r)
		run := es.Start(observer.LedgerObserver, "address-"+address)
		es.Render(resource.NewAccount(account))
		run()
		return
	}

	writeJSON(w, http.StatusOK, resource.NewAccount(account))
}

// GetAccountsHandler lists the accounts by the order they were created.
func (api NetworkHandlerAPI) GetAccountsHandler(w http.ResponseWriter, r *http.Request) {
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
	iterFunc, closeFunc := ledger.GetAccountsByCreated(api.storage, page.options)
	for !page.full(len(resources)) {
		account, key, hasNext := iterFunc()
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
		resources = append(resources, resource.NewAccount(account))
	}
	closeFunc()

	list := resource.NewResourceList(resources, p.SelfLink(), p.NextLink(cursor), p.PrevLink(firstKey))
	writeJSON(w, http.StatusOK, list)
}
