package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	cmdcommon "github.com/photonwings/lottery-smart-contract/cmd/lottery/common"
	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/network/api/resource"
)

var (
	statusCmd *cobra.Command

	flagStatusNode   string = common.GetENVValue("LOTTERY_NODE", fmt.Sprintf("http://127.0.0.1:%d", defaultPort))
	flagStatusFormat string
)

func init() {
	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the current round of a node",
		Run: func(c *cobra.Command, args []string) {
			endpoint, err := common.ParseEndpoint(flagStatusNode)
			if err != nil {
				cmdcommon.PrintFlagsError(c, "--node", err)
			}

			encode, err := cmdcommon.GetEncode(flagStatusFormat)
			if err != nil {
				cmdcommon.PrintFlagsError(c, "--format", err)
			}

			status, err := getStatus(endpoint)
			if err != nil {
				cmdcommon.PrintError(c, err)
			}

			if err = encode(status, os.Stdout); err != nil {
				cmdcommon.PrintError(c, err)
			}
		},
	}

	statusCmd.Flags().StringVar(&flagStatusNode, "node", flagStatusNode, "endpoint of the node")
	statusCmd.Flags().StringVar(&flagStatusFormat, "format", "prettyjson", "format={json, prettyjson, yaml}")

	rootCmd.AddCommand(statusCmd)
}

// getStatus returns the raffle resource of the node without the links.
func getStatus(endpoint *common.Endpoint) (map[string]interface{}, error) {
	client, err := common.NewHTTP2Client(10*time.Second, nil)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	resp, err := client.Get(context.Background(), endpoint.Join(resource.URLRaffle), http.Header{"Accept": []string{"application/json"}})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := ioutil.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(b))
	}

	var status map[string]interface{}
	if err = json.Unmarshal(b, &status); err != nil {
		return nil, err
	}
	delete(status, "_links")

	return status, nil
}
