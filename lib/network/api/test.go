package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/common/keypair"
	"github.com/photonwings/lottery-smart-contract/lib/ledger"
	"github.com/photonwings/lottery-smart-contract/lib/network/httpcache"
	"github.com/photonwings/lottery-smart-contract/lib/oracle"
	"github.com/photonwings/lottery-smart-contract/lib/raffle"
	"github.com/photonwings/lottery-smart-contract/lib/storage"
)

var testStartTime = time.Date(2018, 10, 1, 0, 0, 0, 0, time.UTC)

type testNode struct {
	server      *httptest.Server
	api         *NetworkHandlerAPI
	engine      *raffle.Engine
	coordinator *oracle.Coordinator
	signer      *keypair.Full
	storage     *storage.LevelDBBackend
	clock       *common.TestClock
}

func (n *testNode) Close() {
	n.server.Close()
	n.storage.Close()
}

func prepareTestNode(t *testing.T, cache httpcache.Cache) *testNode {
	st, err := storage.NewTestMemoryLevelDBBackend()
	require.NoError(t, err)

	config, err := raffle.NewConfig(common.NewTestConfig())
	require.NoError(t, err)

	clock := common.NewTestClock(testStartTime)
	coordinator := oracle.NewCoordinator()

	engine, err := raffle.NewEngine(config, coordinator, ledger.NewCustody(st), raffle.WithClock(clock))
	require.NoError(t, err)

	id := coordinator.CreateSubscription()
	require.Equal(t, config.SubscriptionID, id)
	_, err = coordinator.FundSubscription(id, common.Amount(10000000))
	require.NoError(t, err)
	require.NoError(t, coordinator.AddConsumer(id, raffle.DefaultConsumer, engine))

	signer := keypair.Random()
	api := NewNetworkHandlerAPI(engine, st, coordinator, signer.Address())

	router := mux.NewRouter()
	api.Routes(router, cache)

	return &testNode{
		server:      httptest.NewServer(router),
		api:         api,
		engine:      engine,
		coordinator: coordinator,
		signer:      signer,
		storage:     st,
		clock:       clock,
	}
}

func (n *testNode) request(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, n.server.URL+path, reader)
	require.NoError(t, err)

	resp, err := n.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m), string(b))

	return resp.StatusCode, m
}

// fulfill posts the words signed by the coordinator key of the node; words
// which do not parse are sent unsigned.
func (n *testNode) fulfill(t *testing.T, id raffle.RequestID, words ...string) (int, map[string]interface{}) {
	req := FulfillRequest{RequestID: id, RandomWords: words}
	if parsed, err := raffle.ParseWords(words); err == nil {
		signature, err := raffle.SignFulfillment(n.signer, id, parsed)
		require.NoError(t, err)
		req.Signature = signature
	}

	return n.request(t, "POST", "/raffle/fulfill", req)
}

func (n *testNode) stream(t *testing.T, path string) *http.Response {
	req, err := http.NewRequest("GET", n.server.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := n.server.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return resp
}

// playRound enters the callers and resolves the round with the local
// coordinator.
func (n *testNode) playRound(t *testing.T, callers ...string) {
	for _, caller := range callers {
		require.NoError(t, n.engine.Enter(caller, n.engine.EntranceFee()))
	}

	n.clock.Advance(n.engine.Interval() + time.Second)

	id, err := n.engine.PerformUpkeep(context.Background(), []byte{})
	require.NoError(t, err)
	require.NoError(t, n.coordinator.FulfillRandomWords(context.Background(), id))
}
