package cmd

import (
	"context"
	"fmt"
	"time"

	logging "github.com/inconshreveable/log15"
	"github.com/oklog/run"
	"github.com/spf13/cobra"

	cmdcommon "github.com/photonwings/lottery-smart-contract/cmd/lottery/common"
	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/keeper"
	"github.com/photonwings/lottery-smart-contract/lib/network/jsonrpc"
	"github.com/photonwings/lottery-smart-contract/lib/oracle"
)

var (
	keeperCmd *cobra.Command

	flagKeeperNode     string = common.GetENVValue("LOTTERY_KEEPER_NODE", fmt.Sprintf("http://127.0.0.1:%d", defaultPort))
	flagKeeperInterval string = common.GetENVValue("LOTTERY_KEEPER_INTERVAL", common.DefaultKeeperInterval.String())
	flagKeeperOnce     bool
)

func init() {
	keeperCmd = &cobra.Command{
		Use:   "keeper",
		Short: "Run a keeper against the jsonrpc of a remote node",
		Run: func(c *cobra.Command, args []string) {
			endpoint, err := common.ParseEndpoint(flagKeeperNode)
			if err != nil {
				cmdcommon.PrintFlagsError(c, "--node", err)
			}

			interval, err := time.ParseDuration(flagKeeperInterval)
			if err != nil || interval <= 0 {
				cmdcommon.PrintFlagsError(c, "--interval", fmt.Errorf("invalid duration: %q", flagKeeperInterval))
			}

			if logLevel, err = logging.LvlFromString(flagLogLevel); err != nil {
				cmdcommon.PrintFlagsError(c, "--log-level", err)
			}
			logHandler, err := cmdcommon.NewLogHandler("")
			if err != nil {
				cmdcommon.PrintError(c, err)
			}
			log.SetHandler(logging.LvlFilterHandler(logLevel, logHandler))

			client, err := jsonrpc.NewClient(endpoint, oracle.DefaultRetrySetting, log.New("module", "jsonrpc"))
			if err != nil {
				cmdcommon.PrintError(c, err)
			}
			defer client.Close()

			runKeeper(client, interval, flagKeeperOnce)
		},
	}

	keeperCmd.Flags().StringVar(&flagKeeperNode, "node", flagKeeperNode, "endpoint of the node")
	keeperCmd.Flags().StringVar(&flagKeeperInterval, "interval", flagKeeperInterval, "interval of the upkeep checks")
	keeperCmd.Flags().StringVar(&flagLogLevel, "log-level", flagLogLevel, "log level, {crit, error, warn, info, debug}")
	keeperCmd.Flags().BoolVar(&flagKeeperOnce, "once", false, "check once and exit")

	rootCmd.AddCommand(keeperCmd)
}

func runKeeper(upkeeper keeper.Upkeeper, interval time.Duration, once bool) {
	k := keeper.NewKeeper(
		upkeeper,
		keeper.WithInterval(interval),
		keeper.WithLogger(log.New("module", "keeper")),
	)

	if once {
		if id, ok := k.Upkeep(context.Background()); ok {
			fmt.Printf("upkeep performed; request %v\n", id)
		} else {
			fmt.Println("upkeep not performed")
		}
		return
	}

	var g run.Group
	{
		g.Add(k.Start, func(error) {
			k.Stop()
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
		log.Info("keeper stopped", "reason", err)
	}
}
