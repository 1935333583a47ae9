package cmd

import (
	"bytes"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	logging "github.com/inconshreveable/log15"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/common/keypair"
	"github.com/photonwings/lottery-smart-contract/lib/ledger"
	"github.com/photonwings/lottery-smart-contract/lib/network/api/resource"
	"github.com/photonwings/lottery-smart-contract/lib/network/jsonrpc"
	"github.com/photonwings/lottery-smart-contract/lib/raffle"
	"github.com/photonwings/lottery-smart-contract/lib/storage"
)

func lookupEnvFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, found := env[key]
		return v, found
	}
}

func TestLoadConfig(t *testing.T) {
	f, err := ioutil.TempFile("", "lottery-config")
	require.NoError(t, err)
	defer os.Remove(f.Name())

	_, err = f.WriteString(`
entrance-fee: 100
interval: 60s
keeper-interval: 2s
`)
	require.NoError(t, err)
	f.Close()

	fs := pflag.NewFlagSet("node", pflag.ContinueOnError)
	addConfigFlags(fs)
	require.NoError(t, fs.Parse([]string{"--interval=3m", "--http-cache-redis-addrs=server1=127.0.0.1:6379"}))

	env := map[string]string{
		"LOTTERY_INTERVAL":     "2m",
		"LOTTERY_ENTRANCE_FEE": "200",
	}

	config, _, err := loadConfig(fs, f.Name(), lookupEnvFrom(env))
	require.NoError(t, err)

	// flag over environment over file
	require.Equal(t, 3*time.Minute, config.Interval)
	// environment over file
	require.Equal(t, common.Amount(200), config.EntranceFee)
	// file over default
	require.Equal(t, 2*time.Second, config.KeeperInterval)
	// default
	require.Equal(t, common.DefaultGasLane, config.GasLane)
	require.Equal(t, map[string]string{"server1": "127.0.0.1:6379"}, config.HTTPCacheRedisAddrs)
}

func TestLoadConfigDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("node", pflag.ContinueOnError)
	addConfigFlags(fs)
	require.NoError(t, fs.Parse(nil))

	config, _, err := loadConfig(fs, "", lookupEnvFrom(nil))
	require.NoError(t, err)
	require.Equal(t, common.NewConfig(), config)

	// the flag defaults are the ones of the config
	require.Equal(t, common.DefaultInterval.String(), fs.Lookup("interval").DefValue)
	require.Equal(t, common.DefaultEntranceFee.String(), fs.Lookup("entrance-fee").DefValue)
}

func TestLoadConfigInvalid(t *testing.T) {
	fs := pflag.NewFlagSet("node", pflag.ContinueOnError)
	addConfigFlags(fs)
	require.NoError(t, fs.Parse([]string{"--request-confirmations=70000"}))

	_, name, err := loadConfig(fs, "", lookupEnvFrom(nil))
	require.Error(t, err)
	require.Equal(t, "--request-confirmations", name)

	_, name, err = loadConfig(fs, "", lookupEnvFrom(map[string]string{"LOTTERY_INTERVAL": "showme"}))
	require.Error(t, err)
	require.Equal(t, "LOTTERY_INTERVAL", name)

	_, name, err = loadConfig(fs, "/not/found/config.yml", lookupEnvFrom(nil))
	require.Error(t, err)
	require.Equal(t, "--config", name)
}

func newTestNodeOptions(t *testing.T, coordinator string) nodeOptions {
	endpoint, err := common.ParseEndpoint("http://127.0.0.1:12346")
	require.NoError(t, err)

	storageConfig, err := storage.NewConfigFromString("memory://")
	require.NoError(t, err)

	return nodeOptions{
		endpoint:        endpoint,
		storageConfig:   storageConfig,
		coordinator:     coordinator,
		coordinatorFund: common.Amount(100000000),
		jsonrpc:         true,
		config:          common.NewConfig(),
	}
}

func TestNewNodeLocalCoordinator(t *testing.T) {
	n, err := newNode(newTestNodeOptions(t, localCoordinator))
	require.NoError(t, err)
	defer n.Close()

	require.NotNil(t, n.coordinator)
	require.Nil(t, n.remote)
	require.Nil(t, n.ntpClock)
	require.Equal(t, uint64(1), n.engine.Config().SubscriptionID)

	sub, err := n.coordinator.Subscription(1)
	require.NoError(t, err)
	require.Equal(t, common.Amount(100000000), sub.Balance)

	server := httptest.NewServer(n.router)
	defer server.Close()

	resp, err := http.Get(server.URL + resource.URLRaffle)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	resp, err = http.Get(server.URL + "/coordinator/subscriptions/1")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + urlPathMetrics)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(
		server.URL+jsonrpc.DefaultPath,
		"application/json",
		bytes.NewBufferString(`{"jsonrpc":"2.0","method":"Raffle.CheckUpkeep","params":[{}],"id":1}`),
	)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewNodeRemoteCoordinator(t *testing.T) {
	opts := newTestNodeOptions(t, "http://127.0.0.1:12347")
	opts.jsonrpc = false
	opts.config.SubscriptionID = 9

	// the words of a remote coordinator must be signed
	_, err := newNode(opts)
	require.Error(t, err)

	opts.config.CoordinatorAddress = keypair.Random().Address()
	n, err := newNode(opts)
	require.NoError(t, err)
	defer n.Close()

	require.Nil(t, n.coordinator)
	require.NotNil(t, n.remote)
	require.Equal(t, uint64(9), n.engine.Config().SubscriptionID)

	server := httptest.NewServer(n.router)
	defer server.Close()

	// the coordinator routes are only served with the local coordinator
	resp, err := http.Get(server.URL + "/coordinator/subscriptions/1")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(server.URL+jsonrpc.DefaultPath, "application/json", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNewNodeLostRequest(t *testing.T) {
	dir, err := ioutil.TempDir("", "lottery-node")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	opts := newTestNodeOptions(t, localCoordinator)
	opts.storageConfig, err = storage.NewConfigFromString("file://" + dir)
	require.NoError(t, err)

	// a round left waiting by the previous run of the node
	st := &storage.LevelDBBackend{}
	require.NoError(t, st.Init(opts.storageConfig))
	id := raffle.RequestID(7)
	round := raffle.NewRound(time.Now())
	round.Entrants = []string{keypair.Random().Address()}
	round.PoolBalance = 100
	round.State = raffle.StateCalculating
	round.PendingRequestID = &id
	require.NoError(t, ledger.NewCustody(st).SaveRound(round))
	require.NoError(t, st.Close())

	records := make(chan *logging.Record, 32)
	defer log.SetHandler(log.GetHandler())
	log.SetHandler(logging.ChannelHandler(records))

	n, err := newNode(opts)
	require.NoError(t, err)
	defer n.Close()

	require.Equal(t, raffle.StateCalculating, n.engine.State())

	var warned bool
	for len(records) > 0 {
		r := <-records
		if r.Lvl == logging.LvlWarn && strings.Contains(r.Msg, "request lost") {
			warned = true
		}
	}
	require.True(t, warned)
}

func TestNewNodeInvalidConfig(t *testing.T) {
	opts := newTestNodeOptions(t, localCoordinator)
	opts.config.GasLane = "showme"

	_, err := newNode(opts)
	require.Error(t, err)

	opts = newTestNodeOptions(t, localCoordinator)
	opts.config.RateLimitAPI = "showme"

	_, err = newNode(opts)
	require.Error(t, err)

	opts = newTestNodeOptions(t, localCoordinator)
	opts.config.HTTPCacheAdapter = "showme"

	_, err = newNode(opts)
	require.Error(t, err)
}

func TestGetStatus(t *testing.T) {
	n, err := newNode(newTestNodeOptions(t, localCoordinator))
	require.NoError(t, err)
	defer n.Close()

	server := httptest.NewServer(n.router)
	defer server.Close()

	endpoint, err := common.ParseEndpoint(server.URL)
	require.NoError(t, err)

	status, err := getStatus(endpoint)
	require.NoError(t, err)
	require.NotContains(t, status, "_links")
	require.Equal(t, "open", status["state"])
	require.Equal(t, common.NewConfig().EntranceFee.String(), status["entrance_fee"])

	endpoint.Path = "/not-found"
	_, err = getStatus(endpoint)
	require.Error(t, err)
}
