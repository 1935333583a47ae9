package key

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/stellar/go/keypair"

	"github.com/photonwings/lottery-smart-contract/cmd/lottery/common"
)

var (
	GenerateCmd *cobra.Command

	flagParse  bool
	flagFormat string
)

type keyPair struct {
	Seed    string `json:"seed" yaml:"seed"`
	Address string `json:"address" yaml:"address"`
}

var defaultTemplate = template.Must(template.New("").Parse(`    Secret Seed: {{ .Seed }}
 Public Address: {{ .Address }}
`))

func defaultEncode(v interface{}, w io.Writer) error {
	return defaultTemplate.Execute(w, v)
}

func onelineEncode(v interface{}, w io.Writer) error {
	kp := v.(keyPair)
	_, err := fmt.Fprintf(w, "%s %s\n", kp.Seed, kp.Address)
	return err
}

var encoders = map[string]common.Encode{
	"json":       common.DefaultEncodes["json"],
	"prettyjson": common.DefaultEncodes["prettyjson"],
	"yaml":       common.DefaultEncodes["yaml"],
	"default":    defaultEncode,
	"oneline":    onelineEncode,
}

func init() {
	GenerateCmd = &cobra.Command{
		Use:   "generate [<secret seed>]",
		Short: "Generate the keypair of a participant; the address is used to enter the raffle",
		Run: func(c *cobra.Command, args []string) {
			input := strings.TrimSpace(strings.Join(args, " "))
			if flagParse && len(input) < 1 {
				common.PrintFlagsError(c, "--parse", fmt.Errorf("--parse needs <secret seed>"))
			}

			kp, err := generateKP(input)
			if err != nil {
				common.PrintFlagsError(c, "<secret seed>", fmt.Errorf("failed to parse secret seed: %v", err))
			}

			encode, ok := encoders[flagFormat]
			if !ok {
				common.PrintFlagsError(c, "--format", fmt.Errorf("%q not recognized", flagFormat))
			}

			if err := encode(keyPair{Seed: kp.Seed(), Address: kp.Address()}, os.Stdout); err != nil {
				common.PrintError(c, err)
			}
		},
	}

	GenerateCmd.Flags().BoolVar(&flagParse, "parse", false, "parse secret seed")
	GenerateCmd.Flags().StringVar(&flagFormat, "format", "default", "format={default, json, oneline, prettyjson, yaml}")
}

// generateKP makes a random keypair, or parses the given secret seed.
func generateKP(seed string) (*keypair.Full, error) {
	if len(seed) < 1 {
		return keypair.Random()
	}

	kp, err := keypair.Parse(seed)
	if err != nil {
		return nil, err
	}

	full, ok := kp.(*keypair.Full)
	if !ok {
		return nil, fmt.Errorf("not a secret seed")
	}

	return full, nil
}
