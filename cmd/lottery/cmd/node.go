package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"

	cmdcommon "github.com/photonwings/lottery-smart-contract/cmd/lottery/common"
	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/common/keypair"
	"github.com/photonwings/lottery-smart-contract/lib/keeper"
	"github.com/photonwings/lottery-smart-contract/lib/ledger"
	"github.com/photonwings/lottery-smart-contract/lib/metrics"
	"github.com/photonwings/lottery-smart-contract/lib/network"
	"github.com/photonwings/lottery-smart-contract/lib/network/api"
	"github.com/photonwings/lottery-smart-contract/lib/network/httpcache"
	"github.com/photonwings/lottery-smart-contract/lib/network/jsonrpc"
	"github.com/photonwings/lottery-smart-contract/lib/oracle"
	"github.com/photonwings/lottery-smart-contract/lib/raffle"
	"github.com/photonwings/lottery-smart-contract/lib/storage"
)

const (
	defaultNetwork  string      = "http"
	defaultPort     int         = 12346
	defaultHost     string      = "0.0.0.0"
	defaultLogLevel logging.Lvl = logging.LvlInfo

	localCoordinator = "local"
	ntpSyncInterval  = time.Minute
	urlPathMetrics   = "/metrics"
)

var (
	flagConfigFile     string = common.GetENVValue("LOTTERY_CONFIG", "")
	flagLogLevel       string = common.GetENVValue("LOTTERY_LOG_LEVEL", defaultLogLevel.String())
	flagLogOutput      string = common.GetENVValue("LOTTERY_LOG_OUTPUT", "")
	flagVerbose        bool   = common.GetENVValue("LOTTERY_VERBOSE", "0") == "1"
	flagEndpointString string = common.GetENVValue(
		"LOTTERY_ENDPOINT",
		fmt.Sprintf("%s://%s:%d", defaultNetwork, defaultHost, defaultPort),
	)
	flagStorageConfigString string
	flagTLSCertFile         string = common.GetENVValue("LOTTERY_TLS_CERT", "")
	flagTLSKeyFile          string = common.GetENVValue("LOTTERY_TLS_KEY", "")
	flagHTTPLog             string = common.GetENVValue("LOTTERY_HTTP_LOG", "")
	flagCoordinator         string = common.GetENVValue("LOTTERY_COORDINATOR", localCoordinator)
	flagCoordinatorFund     string = common.GetENVValue("LOTTERY_COORDINATOR_FUND", "100000000")
	flagJSONRPC             bool   = common.GetENVValue("LOTTERY_JSONRPC", "1") == "1"
)

var (
	nodeCmd *cobra.Command

	logLevel logging.Lvl
	log      logging.Logger = logging.New("module", "main")
)

type nodeOptions struct {
	endpoint        *common.Endpoint
	storageConfig   *storage.Config
	coordinator     string
	coordinatorFund common.Amount
	jsonrpc         bool
	config          common.Config
}

func init() {
	var err error

	nodeCmd = &cobra.Command{
		Use:   "node",
		Short: "Run the raffle node",
		Run: func(c *cobra.Command, args []string) {
			opts := parseFlagsNode(c)

			runNode(opts)
		},
	}

	var currentDirectory string
	if currentDirectory, err = os.Getwd(); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--storage", err)
	}
	if currentDirectory, err = filepath.Abs(currentDirectory); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--storage", err)
	}
	flagStorageConfigString = common.GetENVValue("LOTTERY_STORAGE", fmt.Sprintf("file://%s/db", currentDirectory))

	nodeCmd.Flags().StringVar(&flagConfigFile, "config", flagConfigFile, "yaml config file")
	nodeCmd.Flags().StringVar(&flagLogLevel, "log-level", flagLogLevel, "log level, {crit, error, warn, info, debug}")
	nodeCmd.Flags().StringVar(&flagLogOutput, "log-output", flagLogOutput, "set log output file")
	nodeCmd.Flags().BoolVar(&flagVerbose, "verbose", flagVerbose, "verbose")
	nodeCmd.Flags().StringVar(&flagEndpointString, "endpoint", flagEndpointString, "endpoint uri to listen on")
	nodeCmd.Flags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri")
	nodeCmd.Flags().StringVar(&flagTLSCertFile, "tls-cert", flagTLSCertFile, "tls certificate file")
	nodeCmd.Flags().StringVar(&flagTLSKeyFile, "tls-key", flagTLSKeyFile, "tls key file")
	nodeCmd.Flags().StringVar(&flagHTTPLog, "http-log", flagHTTPLog, "http access log file; stdout when empty")
	nodeCmd.Flags().StringVar(&flagCoordinator, "coordinator", flagCoordinator, "'local' or the endpoint of a remote coordinator")
	nodeCmd.Flags().StringVar(&flagCoordinatorFund, "coordinator-fund", flagCoordinatorFund, "initial fund of the local coordinator subscription")
	nodeCmd.Flags().BoolVar(&flagJSONRPC, "jsonrpc", flagJSONRPC, "serve jsonrpc at "+jsonrpc.DefaultPath)
	addConfigFlags(nodeCmd.Flags())

	rootCmd.AddCommand(nodeCmd)
}

func parseFlagsNode(c *cobra.Command) nodeOptions {
	var err error
	var opts nodeOptions

	config, flagName, err := loadConfig(c.Flags(), flagConfigFile, nil)
	if err != nil {
		cmdcommon.PrintFlagsError(c, flagName, err)
	}
	opts.config = config

	if opts.endpoint, err = common.ParseEndpoint(flagEndpointString); err != nil {
		cmdcommon.PrintFlagsError(c, "--endpoint", err)
	}
	if err = common.CheckBindString(opts.endpoint.Host); err != nil {
		cmdcommon.PrintFlagsError(c, "--endpoint", err)
	}
	flagEndpointString = opts.endpoint.String()

	if len(flagTLSCertFile) > 0 || len(flagTLSKeyFile) > 0 {
		if _, err = os.Stat(flagTLSCertFile); os.IsNotExist(err) {
			cmdcommon.PrintFlagsError(c, "--tls-cert", err)
		}
		if _, err = os.Stat(flagTLSKeyFile); os.IsNotExist(err) {
			cmdcommon.PrintFlagsError(c, "--tls-key", err)
		}
	}

	queries := opts.endpoint.Query()
	queries.Set("TLSCertFile", flagTLSCertFile)
	queries.Set("TLSKeyFile", flagTLSKeyFile)
	if len(queries.Get("IdleTimeout")) < 1 {
		queries.Set("IdleTimeout", "3s")
	}
	if len(flagHTTPLog) > 0 {
		queries.Set("HTTP2LogOutput", flagHTTPLog)
	}
	opts.endpoint.RawQuery = queries.Encode()

	if opts.storageConfig, err = storage.NewConfigFromString(flagStorageConfigString); err != nil {
		cmdcommon.PrintFlagsError(c, "--storage", err)
	}

	opts.coordinator = flagCoordinator
	if flagCoordinator != localCoordinator {
		if _, err = common.ParseEndpoint(flagCoordinator); err != nil {
			cmdcommon.PrintFlagsError(c, "--coordinator", err)
		}
	}
	if opts.coordinatorFund, err = cmdcommon.ParseAmountFromString(flagCoordinatorFund); err != nil {
		cmdcommon.PrintFlagsError(c, "--coordinator-fund", err)
	}
	opts.jsonrpc = flagJSONRPC

	if logLevel, err = logging.LvlFromString(flagLogLevel); err != nil {
		cmdcommon.PrintFlagsError(c, "--log-level", err)
	}

	logHandler, err := cmdcommon.NewLogHandler(flagLogOutput)
	if err != nil {
		cmdcommon.PrintFlagsError(c, "--log-output", err)
	}
	if len(flagLogOutput) < 1 {
		flagLogOutput = "<stdout>"
	}

	logHandler = logging.CallerFileHandler(logHandler)

	log.SetHandler(logging.LvlFilterHandler(logLevel, logHandler))
	common.SetLogging(logLevel, logHandler)
	raffle.SetLogging(logLevel, logHandler)
	ledger.SetLogging(logLevel, logHandler)
	network.SetLogging(logLevel, logHandler)
	api.SetLogging(logLevel, logHandler)

	log.Info("Starting lottery node")

	// print flags
	parsedFlags := []interface{}{}
	parsedFlags = append(parsedFlags, "\n\tconfig", flagConfigFile)
	parsedFlags = append(parsedFlags, "\n\tendpoint", flagEndpointString)
	parsedFlags = append(parsedFlags, "\n\tstorage", flagStorageConfigString)
	parsedFlags = append(parsedFlags, "\n\ttls-cert", flagTLSCertFile)
	parsedFlags = append(parsedFlags, "\n\ttls-key", flagTLSKeyFile)
	parsedFlags = append(parsedFlags, "\n\tlog-level", flagLogLevel)
	parsedFlags = append(parsedFlags, "\n\tlog-output", flagLogOutput)
	parsedFlags = append(parsedFlags, "\n\tcoordinator", flagCoordinator)
	parsedFlags = append(parsedFlags, "\n\tjsonrpc", flagJSONRPC)
	for name, s := range settings {
		parsedFlags = append(parsedFlags, "\n\t"+name, s.value(config))
	}

	log.Debug("parsed flags:", parsedFlags...)

	if flagVerbose {
		http2.VerboseLogs = true
	}

	return opts
}

type node struct {
	server      *network.HTTP2Server
	router      *mux.Router
	storage     *storage.LevelDBBackend
	engine      *raffle.Engine
	coordinator *oracle.Coordinator
	remote      *oracle.HTTPCoordinator
	keeper      *keeper.Keeper
	ntpClock    *common.NTPClock
}

// newNode builds the components of the node without starting them.
func newNode(opts nodeOptions) (n *node, err error) {
	n = &node{}
	config := opts.config

	n.storage = &storage.LevelDBBackend{}
	if err = n.storage.Init(opts.storageConfig); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			n.Close()
			n = nil
		}
	}()

	var clock common.Clock = common.SystemClock{}
	if len(config.NTPServer) > 0 {
		n.ntpClock = common.NewNTPClock(config.NTPServer)
		if err := n.ntpClock.Sync(); err != nil {
			log.Warn("failed to sync clock", "server", config.NTPServer, "error", err)
		}
		clock = n.ntpClock
	}

	var randomness raffle.Oracle
	if opts.coordinator == localCoordinator {
		n.coordinator = oracle.NewCoordinator(oracle.WithLogger(log.New("module", "coordinator")))

		id := n.coordinator.CreateSubscription()
		if config.SubscriptionID != 0 && config.SubscriptionID != id {
			log.Warn("subscription id replaced by the local coordinator", "given", config.SubscriptionID, "id", id)
		}
		config.SubscriptionID = id

		if _, err = n.coordinator.FundSubscription(id, opts.coordinatorFund); err != nil {
			return
		}
		randomness = n.coordinator
	} else {
		if !keypair.IsValidAddress(config.CoordinatorAddress) {
			err = fmt.Errorf("a remote coordinator needs a valid coordinator-address: %q", config.CoordinatorAddress)
			return
		}

		var endpoint *common.Endpoint
		if endpoint, err = common.ParseEndpoint(opts.coordinator); err != nil {
			return
		}
		n.remote, err = oracle.NewHTTPCoordinator(endpoint, oracle.DefaultRetrySetting, log.New("module", "coordinator"))
		if err != nil {
			return
		}
		randomness = n.remote
	}

	raffleConfig, err := raffle.NewConfig(config)
	if err != nil {
		return
	}

	n.engine, err = raffle.NewEngine(raffleConfig, randomness, ledger.NewCustody(n.storage), raffle.WithClock(clock))
	if err != nil {
		return
	}

	if n.coordinator != nil {
		if err = n.coordinator.AddConsumer(config.SubscriptionID, raffle.DefaultConsumer, n.engine); err != nil {
			return
		}

		// the requests of the local coordinator do not survive a restart
		if round := n.engine.Round(); round.HasPendingRequest() {
			log.Warn(
				"restored round waits for a request lost by the local coordinator",
				"round", round.Number,
				"request", *round.PendingRequestID,
				"fulfill-with-coordinator-address", len(config.CoordinatorAddress) > 0,
			)
		}
	}

	n.keeper = keeper.NewKeeper(
		n.engine,
		keeper.WithInterval(config.KeeperInterval),
		keeper.WithLogger(log.New("module", "keeper")),
	)

	n.router = mux.NewRouter()
	rateLimit, err := network.RateLimitMiddleware(config.RateLimitAPI)
	if err != nil {
		return
	}
	n.router.Use(network.RequestIDMiddleware)
	n.router.Use(network.RecoverMiddleware(logLevel == logging.LvlDebug))
	n.router.Use(rateLimit)
	n.router.Use(network.MetricsMiddleware)

	handler := api.NewNetworkHandlerAPI(n.engine, n.storage, n.coordinator, config.CoordinatorAddress)
	cache, err := httpcache.NewCache(
		config,
		httpcache.WithKeyFunc(handler.CacheKey),
		httpcache.WithLogger(log.New("module", "httpcache")),
	)
	if err != nil {
		return
	}
	handler.Routes(n.router, cache)

	if opts.jsonrpc {
		var rpcHandler http.Handler
		if rpcHandler, err = jsonrpc.NewServer(n.engine, n.storage, config.CoordinatorAddress).Handler(); err != nil {
			return
		}
		n.router.Handle(jsonrpc.DefaultPath, rpcHandler)
	}

	n.router.Handle(urlPathMetrics, promhttp.Handler())

	serverConfig, err := network.NewHTTP2ServerConfigFromEndpoint(opts.endpoint)
	if err != nil {
		return
	}
	n.server = network.NewHTTP2Server(serverConfig, n.router)

	return n, nil
}

func (n *node) Close() {
	if n.remote != nil {
		n.remote.Close()
	}
	if n.storage != nil {
		n.storage.Close()
	}
}

func runNode(opts nodeOptions) {
	metrics.InitPrometheusMetrics()
	metrics.SetVersion()

	n, err := newNode(opts)
	if err != nil {
		log.Crit("failed to initialize node", "error", err)

		os.Exit(1)
	}
	defer n.Close()

	// Execution group.
	var g run.Group
	{
		g.Add(func() error {
			if err := n.server.Start(); err != nil {
				log.Crit("failed to start server", "error", err)
				return err
			}
			return errors.New("server stopped")
		}, func(error) {
			n.server.Stop()
		})
	}
	{
		g.Add(n.keeper.Start, func(error) {
			n.keeper.Stop()
		})
	}
	if n.coordinator != nil {
		g.Add(n.coordinator.Start, func(error) {
			n.coordinator.Stop()
		})
	}
	if n.ntpClock != nil {
		cancel := make(chan struct{})
		g.Add(func() error {
			syncClock(n.ntpClock, ntpSyncInterval, cancel)
			return nil
		}, func(error) {
			close(cancel)
		})
	}
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			return cmdcommon.Interrupt(cancel)
		}, func(error) {
			close(cancel)
		})
	}

	if err := g.Run(); err != nil {
		log.Info("node stopped", "reason", err)
	}
}

func syncClock(clock *common.NTPClock, interval time.Duration, cancel <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := clock.Sync(); err != nil {
				log.Warn("failed to sync clock", "error", err)
				continue
			}
			log.Debug("clock synced", "offset", clock.Offset())
		case <-cancel:
			return
		}
	}
}
