package api

import (
	logging "github.com/inconshreveable/log15"

	"github.com/photonwings/lottery-smart-contract/lib/common"
)

var log logging.Logger = logging.New("module", "api")

func SetLogging(level logging.Lvl, handler logging.Handler) {
	common.SetLoggingWith(log, level, handler)
}

func init() {
	SetLogging(logging.LvlCrit, common.DefaultLogHandler)
}
