package common

import (
	"os"

	logging "github.com/inconshreveable/log15"
	isatty "github.com/mattn/go-isatty"

	"github.com/photonwings/lottery-smart-contract/lib/common"
)

// NewLogHandler writes to `output`, or to stdout when `output` is empty. The
// terminal format is used only when stdout is a terminal.
func NewLogHandler(output string) (logging.Handler, error) {
	if len(output) > 0 {
		return logging.FileHandler(output, common.JSONFormat())
	}

	var formatter logging.Format
	if isatty.IsTerminal(os.Stdout.Fd()) {
		formatter = logging.TerminalFormat()
	} else {
		formatter = common.JSONFormat()
	}

	return logging.StreamHandler(os.Stdout, formatter), nil
}
