package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
	"github.com/photonwings/lottery-smart-contract/lib/network/httputils"
	"github.com/photonwings/lottery-smart-contract/lib/raffle"
)

func TestHTTPCoordinator(t *testing.T) {
	var received raffle.RandomnessRequest

	router := mux.NewRouter()
	router.HandleFunc(CoordinatorRequestsPath, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		if received.SubscriptionID != 1 {
			httputils.WriteError(w, errors.InvalidSubscription.Clone().SetData("subscription", received.SubscriptionID))
			return
		}
		httputils.WriteJSON(w, http.StatusCreated, map[string]interface{}{"id": 7})
	}).Methods("POST")

	ts := httptest.NewServer(router)
	defer ts.Close()

	endpoint, err := common.ParseEndpoint(ts.URL)
	require.NoError(t, err)

	h, err := NewHTTPCoordinator(endpoint, nil, nil)
	require.NoError(t, err)
	defer h.Close()

	req := testRequest(1)
	req.Consumer = raffle.DefaultConsumer

	id, err := h.RequestRandomWords(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, raffle.RequestID(7), id)
	require.Equal(t, req, received)

	_, err = h.RequestRandomWords(context.Background(), testRequest(2))
	require.True(t, errors.Is(err, errors.InvalidSubscription))
}
