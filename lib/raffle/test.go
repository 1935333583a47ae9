package raffle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
)

// TestOracle records the requests and returns sequential ids from 1.
type TestOracle struct {
	sync.Mutex

	Requests []RandomnessRequest
	Fail     error
}

func (o *TestOracle) RequestRandomWords(ctx context.Context, req RandomnessRequest) (RequestID, error) {
	o.Lock()
	defer o.Unlock()

	if o.Fail != nil {
		return 0, o.Fail
	}

	o.Requests = append(o.Requests, req)

	return RequestID(len(o.Requests)), nil
}

func (o *TestOracle) Count() int {
	o.Lock()
	defer o.Unlock()

	return len(o.Requests)
}

var testStartTime = time.Date(2018, 10, 1, 0, 0, 0, 0, time.UTC)

func NewTestEngine(t *testing.T) (*Engine, *TestOracle, *MemoryCustody, *common.TestClock) {
	config, err := NewConfig(common.NewTestConfig())
	require.NoError(t, err)

	oracle := &TestOracle{}
	custody := NewMemoryCustody()
	clock := common.NewTestClock(testStartTime)

	engine, err := NewEngine(config, oracle, custody, WithClock(clock))
	require.NoError(t, err)

	return engine, oracle, custody, clock
}

func requireErrorIs(t *testing.T, err error, target *errors.Error) {
	require.Error(t, err)
	require.True(t, errors.Is(err, target), "expected %q, got %v", target.Message, err)
}

func NewTestConfigWithGasLane(gasLane string) common.Config {
	c := common.NewTestConfig()
	c.GasLane = gasLane

	return c
}
