package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cmdcommon "github.com/photonwings/lottery-smart-contract/cmd/lottery/common"
	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/common/keypair"
	"github.com/photonwings/lottery-smart-contract/lib/ledger"
	"github.com/photonwings/lottery-smart-contract/lib/storage"
)

var (
	accountCmd *cobra.Command

	flagAccountStorage string
	flagAccountFormat  string
)

// The account commands open the storage of a stopped node.
func init() {
	accountCmd = &cobra.Command{
		Use:   "account",
		Short: "Show and freeze the accounts of the participants",
		Run: func(c *cobra.Command, args []string) {
			if len(args) < 1 {
				c.Usage()
			}
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <address>",
		Short: "Show the balance of an account",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			runAccount(c, args[0], func(st *storage.LevelDBBackend, address string) (*ledger.Account, error) {
				return ledger.GetAccount(st, address)
			})
		},
	}
	freezeCmd := &cobra.Command{
		Use:   "freeze <address>",
		Short: "Freeze an account; a frozen winner can not be paid",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			runAccount(c, args[0], ledger.Freeze)
		},
	}
	unfreezeCmd := &cobra.Command{
		Use:   "unfreeze <address>",
		Short: "Unfreeze an account",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			runAccount(c, args[0], ledger.Unfreeze)
		},
	}

	currentDirectory, _ := os.Getwd()
	flagAccountStorage = common.GetENVValue("LOTTERY_STORAGE", fmt.Sprintf("file://%s/db", currentDirectory))
	for _, sub := range []*cobra.Command{showCmd, freezeCmd, unfreezeCmd} {
		sub.Flags().StringVar(&flagAccountStorage, "storage", flagAccountStorage, "storage uri of the node")
		sub.Flags().StringVar(&flagAccountFormat, "format", "prettyjson", "format={json, prettyjson, yaml}")
		accountCmd.AddCommand(sub)
	}

	rootCmd.AddCommand(accountCmd)
}

func runAccount(c *cobra.Command, address string, f func(*storage.LevelDBBackend, string) (*ledger.Account, error)) {
	if !keypair.IsValidAddress(address) {
		cmdcommon.PrintFlagsError(c, "<address>", fmt.Errorf("not a public address: %q", address))
	}

	encode, err := cmdcommon.GetEncode(flagAccountFormat)
	if err != nil {
		cmdcommon.PrintFlagsError(c, "--format", err)
	}

	storageConfig, err := storage.NewConfigFromString(flagAccountStorage)
	if err != nil {
		cmdcommon.PrintFlagsError(c, "--storage", err)
	}

	st := &storage.LevelDBBackend{}
	if err = st.Init(storageConfig); err != nil {
		cmdcommon.PrintError(c, err)
	}
	defer st.Close()

	account, err := f(st, address)
	if err != nil {
		cmdcommon.PrintError(c, err)
	}

	if err = encode(account, os.Stdout); err != nil {
		cmdcommon.PrintError(c, err)
	}
}
