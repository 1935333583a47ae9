package keeper

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/common/keypair"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
	"github.com/photonwings/lottery-smart-contract/lib/raffle"
)

type mockUpkeeper struct {
	sync.Mutex

	needed    bool
	err       error
	performed chan []byte
}

func (m *mockUpkeeper) CheckUpkeep() (bool, []byte) {
	m.Lock()
	defer m.Unlock()

	return m.needed, []byte("proof")
}

func (m *mockUpkeeper) PerformUpkeep(ctx context.Context, proof []byte) (raffle.RequestID, error) {
	m.Lock()
	err := m.err
	m.Unlock()

	if err != nil {
		return 0, err
	}

	m.performed <- proof
	return 1, nil
}

func TestKeeperUpkeep(t *testing.T) {
	m := &mockUpkeeper{performed: make(chan []byte, 1)}
	k := NewKeeper(m)

	_, performed := k.Upkeep(context.Background())
	require.False(t, performed)

	m.needed = true
	id, performed := k.Upkeep(context.Background())
	require.True(t, performed)
	require.Equal(t, raffle.RequestID(1), id)
	require.Equal(t, []byte("proof"), <-m.performed)

	m.err = errors.UpkeepNotNeeded
	_, performed = k.Upkeep(context.Background())
	require.False(t, performed)

	m.err = errors.OracleRequestFailed
	_, performed = k.Upkeep(context.Background())
	require.False(t, performed)
}

func TestKeeperLoop(t *testing.T) {
	m := &mockUpkeeper{needed: true, performed: make(chan []byte)}

	tickc := make(chan time.Time)
	k := NewKeeper(m, WithInterval(time.Second))
	k.afterFunc = func(d time.Duration) <-chan time.Time {
		require.Equal(t, time.Second, d)
		return tickc
	}

	go k.Start()
	defer k.Stop()

	tickc <- time.Time{}
	require.Equal(t, []byte("proof"), <-m.performed)

	tickc <- time.Time{}
	require.Equal(t, []byte("proof"), <-m.performed)
}

func TestKeeperWithEngine(t *testing.T) {
	config, err := raffle.NewConfig(common.NewTestConfig())
	require.NoError(t, err)

	oracle := &raffle.TestOracle{}
	clock := common.NewTestClock(time.Date(2018, 10, 1, 0, 0, 0, 0, time.UTC))
	engine, err := raffle.NewEngine(config, oracle, raffle.NewMemoryCustody(), raffle.WithClock(clock))
	require.NoError(t, err)

	k := NewKeeper(engine)

	require.NoError(t, engine.Enter(keypair.Random().Address(), 100))
	_, performed := k.Upkeep(context.Background())
	require.False(t, performed)

	clock.Advance(60 * time.Second)
	id, performed := k.Upkeep(context.Background())
	require.True(t, performed)
	require.Equal(t, raffle.RequestID(1), id)
	require.Equal(t, raffle.StateCalculating, engine.State())

	_, performed = k.Upkeep(context.Background())
	require.False(t, performed)
	require.Equal(t, 1, oracle.Count())
}
