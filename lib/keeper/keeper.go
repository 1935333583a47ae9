package keeper

import (
	"context"
	"time"

	logging "github.com/inconshreveable/log15"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
	"github.com/photonwings/lottery-smart-contract/lib/metrics"
	"github.com/photonwings/lottery-smart-contract/lib/raffle"
)

// Upkeeper is the part of `raffle.Engine` used by the keeper.
type Upkeeper interface {
	CheckUpkeep() (bool, []byte)
	PerformUpkeep(ctx context.Context, proof []byte) (raffle.RequestID, error)
}

type Option func(*Keeper)

func WithInterval(d time.Duration) Option {
	return func(k *Keeper) {
		k.interval = d
	}
}

func WithLogger(l logging.Logger) Option {
	return func(k *Keeper) {
		k.logger = l
	}
}

// Keeper polls `CheckUpkeep` and calls `PerformUpkeep` when it is needed.
type Keeper struct {
	upkeeper Upkeeper
	interval time.Duration

	afterFunc  common.AfterFunc
	stop       chan chan struct{}
	ctx        context.Context
	cancelFunc context.CancelFunc

	logger logging.Logger
}

func NewKeeper(upkeeper Upkeeper, opts ...Option) *Keeper {
	ctx, cancelFunc := context.WithCancel(context.Background())

	k := &Keeper{
		upkeeper:   upkeeper,
		interval:   common.DefaultKeeperInterval,
		afterFunc:  time.After,
		stop:       make(chan chan struct{}),
		ctx:        ctx,
		cancelFunc: cancelFunc,
		logger:     common.NopLogger(),
	}

	for _, opt := range opts {
		opt(k)
	}

	return k
}

func (k *Keeper) Start() error {
	k.logger.Info("starting keeper", "interval", k.interval)
	k.loop()
	return nil
}

func (k *Keeper) Stop() error {
	k.cancelFunc()
	c := make(chan struct{})
	k.stop <- c
	<-c
	k.logger.Info("stopped keeper")
	return nil
}

func (k *Keeper) loop() {
	checkc := k.afterFunc(k.interval)

	for {
		select {
		case <-checkc:
			k.Upkeep(k.ctx)
			checkc = k.afterFunc(k.interval)
		case c := <-k.stop:
			close(c)
			return
		}
	}
}

// Upkeep runs one check; it returns the request id when the upkeep was
// performed.
func (k *Keeper) Upkeep(ctx context.Context) (raffle.RequestID, bool) {
	begin := time.Now()

	needed, proof := k.upkeeper.CheckUpkeep()
	if !needed {
		metrics.Keeper.AddCheck(metrics.KeeperNotNeeded)
		return 0, false
	}

	id, err := k.upkeeper.PerformUpkeep(ctx, proof)
	switch {
	case err == nil:
	case errors.Is(err, errors.UpkeepNotNeeded):
		// the round changed between the check and the upkeep
		k.logger.Debug("upkeep is not needed anymore", "error", err)
		metrics.Keeper.AddCheck(metrics.KeeperNotNeeded)
		return 0, false
	default:
		k.logger.Error("failed to perform upkeep", "error", err)
		metrics.Keeper.AddCheck(metrics.KeeperFailed)
		metrics.Keeper.ObserveDurationSeconds(begin, metrics.KeeperFailed)
		return 0, false
	}

	k.logger.Info("upkeep performed", "request", id)
	metrics.Keeper.AddCheck(metrics.KeeperPerformed)
	metrics.Keeper.ObserveDurationSeconds(begin, metrics.KeeperPerformed)

	return id, true
}
