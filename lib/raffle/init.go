package raffle

import (
	logging "github.com/inconshreveable/log15"

	"github.com/photonwings/lottery-smart-contract/lib/common"
)

var log logging.Logger = logging.New("module", "raffle")

func init() {
	SetLogging(logging.LvlCrit, common.DefaultLogHandler)
}

func SetLogging(level logging.Lvl, handler logging.Handler) {
	common.SetLoggingWith(log, level, handler)
}
