package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
)

// PrintFlagsError reports the invalid flag with the usage, then exits with 1.
func PrintFlagsError(cmd *cobra.Command, flagName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid '%s'; %s\n\n", flagName, errorString(err))
	}

	cmd.Help()

	os.Exit(1)
}

func PrintError(cmd *cobra.Command, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n\n", errorString(err))
	}

	cmd.Help()

	os.Exit(1)
}

func errorString(err error) string {
	e, ok := err.(*errors.Error)
	if !ok {
		return err.Error()
	}
	if len(e.Data) < 1 {
		return e.Message
	}

	return fmt.Sprintf("%s; %v", e.Message, e.Data)
}

var amountSeparators = strings.NewReplacer(",", "", ".", "", "_", "")

// ParseAmountFromString reads an amount in units. ",", "." and "_" are digit
// separators, not decimal points: "1_000.000" is 1000000 units.
func ParseAmountFromString(input string) (common.Amount, error) {
	return common.AmountFromString(amountSeparators.Replace(input))
}

// ParseMapFlag parses "<key>=<value>[,<key>=<value>...]".
func ParseMapFlag(s string) (map[string]string, error) {
	m := map[string]string{}
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if len(f) < 1 {
			continue
		}

		kv := strings.SplitN(f, "=", 2)
		if len(kv) != 2 || len(kv[0]) < 1 || len(kv[1]) < 1 {
			return nil, fmt.Errorf("expected '<key>=<value>', got %q", f)
		}
		m[kv[0]] = kv[1]
	}

	return m, nil
}
