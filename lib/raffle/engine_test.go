package raffle

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	observable "github.com/GianlucaGuarini/go-observable"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/common/keypair"
	"github.com/photonwings/lottery-smart-contract/lib/common/observer"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
)

func words(n int64) []*big.Int {
	return []*big.Int{big.NewInt(n)}
}

func TestEnter(t *testing.T) {
	engine, _, custody, _ := NewTestEngine(t)

	addresses := keypair.RandomAddresses(5)
	for i, address := range addresses {
		require.NoError(t, engine.Enter(address, common.Amount(100+i)))
	}

	require.Equal(t, len(addresses), engine.NumberOfEntrants())
	require.Equal(t, common.Amount(100+101+102+103+104), engine.PoolBalance())
	require.Equal(t, StateOpen, engine.State())
	require.Equal(t, uint64(5), engine.Revision())

	for i, address := range addresses {
		entrant, err := engine.Entrant(i)
		require.NoError(t, err)
		require.Equal(t, address, entrant)
	}

	saved, err := custody.LoadRound()
	require.NoError(t, err)
	require.Equal(t, addresses, saved.Entrants)
	require.Equal(t, engine.PoolBalance(), saved.PoolBalance)
}

func TestEnterSameCallerTwice(t *testing.T) {
	engine, _, _, _ := NewTestEngine(t)

	address := keypair.Random().Address()
	require.NoError(t, engine.Enter(address, 100))
	require.NoError(t, engine.Enter(address, 100))

	require.Equal(t, 2, engine.NumberOfEntrants())
	require.Equal(t, common.Amount(200), engine.PoolBalance())
}

func TestEnterInsufficientEntranceFee(t *testing.T) {
	engine, _, _, _ := NewTestEngine(t)

	before := engine.Round()
	err := engine.Enter(keypair.Random().Address(), 99)
	requireErrorIs(t, err, errors.InsufficientEntranceFee)

	require.Equal(t, before, engine.Round())
	require.Equal(t, uint64(0), engine.Revision())
}

func TestEnterInvalidAddress(t *testing.T) {
	engine, _, _, _ := NewTestEngine(t)

	err := engine.Enter("showme", 100)
	requireErrorIs(t, err, errors.InvalidAddress)

	err = engine.Enter(keypair.Random().Seed(), 100)
	requireErrorIs(t, err, errors.InvalidAddress)

	require.Equal(t, 0, engine.NumberOfEntrants())
}

func TestEnterNotOpen(t *testing.T) {
	engine, _, _, clock := NewTestEngine(t)

	require.NoError(t, engine.Enter(keypair.Random().Address(), 100))
	clock.Advance(61 * time.Second)

	_, err := engine.PerformUpkeep(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, StateCalculating, engine.State())

	before := engine.Round()
	err = engine.Enter(keypair.Random().Address(), 100)
	requireErrorIs(t, err, errors.NotOpen)

	// state is checked before the fee
	err = engine.Enter(keypair.Random().Address(), 1)
	requireErrorIs(t, err, errors.NotOpen)

	require.Equal(t, before, engine.Round())
}

func TestUpkeepNeeded(t *testing.T) {
	interval := 60 * time.Second
	address := keypair.Random().Address()

	for i := 0; i < 16; i++ {
		open := i&1 != 0
		elapsed := i&2 != 0
		funded := i&4 != 0
		entered := i&8 != 0

		round := NewRound(testStartTime)
		if !open {
			id := RequestID(1)
			round.State = StateCalculating
			round.PendingRequestID = &id
		}
		if funded {
			round.PoolBalance = 100
		}
		if entered {
			round.Entrants = []string{address}
		}

		now := testStartTime.Add(interval - time.Second)
		if elapsed {
			now = testStartTime.Add(interval)
		}

		expected := open && elapsed && funded && entered
		require.Equal(
			t,
			expected,
			UpkeepNeeded(round, interval, now),
			fmt.Sprintf("open=%v elapsed=%v funded=%v entered=%v", open, elapsed, funded, entered),
		)
	}
}

func TestCheckUpkeep(t *testing.T) {
	engine, _, _, clock := NewTestEngine(t)

	needed, data := engine.CheckUpkeep()
	require.False(t, needed)
	require.Empty(t, data)

	require.NoError(t, engine.Enter(keypair.Random().Address(), 100))

	needed, _ = engine.CheckUpkeep()
	require.False(t, needed)

	clock.Advance(60 * time.Second)
	revision := engine.Revision()

	needed, data = engine.CheckUpkeep()
	require.True(t, needed)
	require.Empty(t, data)
	require.Equal(t, revision, engine.Revision())
}

func TestPerformUpkeepNotNeeded(t *testing.T) {
	engine, oracle, _, _ := NewTestEngine(t)

	require.NoError(t, engine.Enter(keypair.Random().Address(), 100))

	before := engine.Round()
	_, err := engine.PerformUpkeep(context.Background(), nil)
	requireErrorIs(t, err, errors.UpkeepNotNeeded)

	e := err.(*errors.Error)
	balance, _ := e.GetData("balance")
	require.Equal(t, common.Amount(100), balance)
	entrants, _ := e.GetData("entrants")
	require.Equal(t, 1, entrants)
	state, _ := e.GetData("state")
	require.Equal(t, "open", state)

	require.Equal(t, before, engine.Round())
	require.Equal(t, 0, oracle.Count())
}

func TestPerformUpkeep(t *testing.T) {
	engine, oracle, _, clock := NewTestEngine(t)

	require.NoError(t, engine.Enter(keypair.Random().Address(), 100))
	clock.Advance(60 * time.Second)

	id, err := engine.PerformUpkeep(context.Background(), []byte("proof"))
	require.NoError(t, err)
	require.Equal(t, RequestID(1), id)

	require.Equal(t, StateCalculating, engine.State())
	pending, found := engine.PendingRequestID()
	require.True(t, found)
	require.Equal(t, id, pending)

	require.Equal(t, 1, oracle.Count())
	req := oracle.Requests[0]
	require.Equal(t, uint32(1), req.NumWords)
	require.Equal(t, uint64(1), req.SubscriptionID)
	require.Equal(t, common.DefaultCallbackGasLimit, req.CallbackGasLimit)
	require.Equal(t, common.DefaultRequestConfirmations, req.Confirmations)
	require.Equal(t, engine.Config().GasLane, req.GasLane)
	require.Equal(t, DefaultConsumer, req.Consumer)

	// only one outstanding request
	_, err = engine.PerformUpkeep(context.Background(), nil)
	requireErrorIs(t, err, errors.UpkeepNotNeeded)
	require.Equal(t, 1, oracle.Count())
}

func TestPerformUpkeepOracleFailed(t *testing.T) {
	engine, oracle, _, clock := NewTestEngine(t)

	require.NoError(t, engine.Enter(keypair.Random().Address(), 100))
	clock.Advance(60 * time.Second)

	oracle.Fail = errors.InsufficientSubscriptionBalance
	before := engine.Round()

	_, err := engine.PerformUpkeep(context.Background(), nil)
	requireErrorIs(t, err, errors.OracleRequestFailed)
	require.Equal(t, before, engine.Round())

	oracle.Fail = nil
	_, err = engine.PerformUpkeep(context.Background(), nil)
	require.NoError(t, err)
}

func TestPerformUpkeepSaveFailed(t *testing.T) {
	engine, oracle, custody, clock := NewTestEngine(t)

	a := keypair.Random().Address()
	require.NoError(t, engine.Enter(a, 100))
	clock.Advance(60 * time.Second)

	custody.FailSaves(2, errors.StorageCoreError)

	id, err := engine.PerformUpkeep(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, RequestID(1), id)

	// the round follows the request held by the oracle
	require.Equal(t, StateCalculating, engine.State())
	pending, found := engine.PendingRequestID()
	require.True(t, found)
	require.Equal(t, id, pending)
	require.True(t, engine.Unsaved())

	saved, err := custody.LoadRound()
	require.NoError(t, err)
	require.Equal(t, StateOpen, saved.State)

	// the retry fails too, and no second request is sent
	_, err = engine.PerformUpkeep(context.Background(), nil)
	requireErrorIs(t, err, errors.UpkeepNotNeeded)
	require.Equal(t, 1, oracle.Count())
	require.True(t, engine.Unsaved())

	needed, _ := engine.CheckUpkeep()
	require.False(t, needed)
	require.False(t, engine.Unsaved())

	saved, err = custody.LoadRound()
	require.NoError(t, err)
	require.Equal(t, StateCalculating, saved.State)
	require.True(t, saved.IsPendingRequest(id))

	require.NoError(t, engine.FulfillRandomness(id, words(0)))
	require.Equal(t, common.Amount(100), custody.Balance(a))
}

func TestEnterSaveFailed(t *testing.T) {
	engine, _, custody, _ := NewTestEngine(t)

	before := engine.Round()
	revision := engine.Revision()

	custody.FailSaves(1, errors.StorageCoreError)
	err := engine.Enter(keypair.Random().Address(), 100)
	requireErrorIs(t, err, errors.StorageCoreError)

	require.Equal(t, before, engine.Round())
	require.Equal(t, revision, engine.Revision())
	require.False(t, engine.Unsaved())
}

func TestSnapshot(t *testing.T) {
	engine, _, _, clock := NewTestEngine(t)

	snapshot := engine.Snapshot()
	require.Equal(t, engine.Round(), snapshot.Round)
	require.Equal(t, engine.Revision(), snapshot.Revision)
	require.False(t, snapshot.UpkeepNeeded)

	require.NoError(t, engine.Enter(keypair.Random().Address(), 100))
	clock.Advance(60 * time.Second)

	snapshot = engine.Snapshot()
	require.Equal(t, 1, len(snapshot.Round.Entrants))
	require.Equal(t, engine.Revision(), snapshot.Revision)
	require.True(t, snapshot.UpkeepNeeded)

	// the snapshot is a copy
	snapshot.Round.Entrants[0] = "changed"
	address, err := engine.Entrant(0)
	require.NoError(t, err)
	require.NotEqual(t, "changed", address)
}

func TestFulfillRandomnessUnknownRequest(t *testing.T) {
	engine, _, _, clock := NewTestEngine(t)

	err := engine.FulfillRandomness(1, words(7))
	requireErrorIs(t, err, errors.UnknownRequest)

	require.NoError(t, engine.Enter(keypair.Random().Address(), 100))
	clock.Advance(60 * time.Second)

	id, err := engine.PerformUpkeep(context.Background(), nil)
	require.NoError(t, err)

	before := engine.Round()
	err = engine.FulfillRandomness(id+1, words(7))
	requireErrorIs(t, err, errors.UnknownRequest)
	require.Equal(t, before, engine.Round())
}

func TestFulfillRandomnessEmptyWords(t *testing.T) {
	engine, _, _, clock := NewTestEngine(t)

	require.NoError(t, engine.Enter(keypair.Random().Address(), 100))
	clock.Advance(60 * time.Second)

	id, err := engine.PerformUpkeep(context.Background(), nil)
	require.NoError(t, err)

	before := engine.Round()
	err = engine.FulfillRandomness(id, []*big.Int{})
	requireErrorIs(t, err, errors.InvalidRandomWords)
	require.Equal(t, before, engine.Round())
}

func TestRoundTrip(t *testing.T) {
	engine, _, custody, clock := NewTestEngine(t)

	o := observable.New()
	engine.observer = o

	picked := make(chan WinnerPicked, 1)
	o.On(observer.EventWinnerPicked, func(args ...interface{}) {
		picked <- args[0].(WinnerPicked)
	})

	a := keypair.Random().Address()
	require.NoError(t, engine.Enter(a, 100))

	clock.Advance(61 * time.Second)
	needed, _ := engine.CheckUpkeep()
	require.True(t, needed)

	id, err := engine.PerformUpkeep(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, RequestID(1), id)

	require.NoError(t, engine.FulfillRandomness(id, words(7)))

	require.Equal(t, a, engine.RecentWinner())
	require.Equal(t, common.Amount(100), custody.Balance(a))
	require.Equal(t, common.Amount(0), engine.PoolBalance())
	require.Equal(t, 0, engine.NumberOfEntrants())
	require.Equal(t, StateOpen, engine.State())
	require.Equal(t, clock.Now(), engine.LastTimestamp())
	_, found := engine.PendingRequestID()
	require.False(t, found)
	require.Equal(t, uint64(2), engine.Round().Number)

	event := <-picked
	require.Equal(t, a, event.Winner)
	require.Equal(t, clock.Now(), event.Timestamp)
	require.Equal(t, common.Amount(100), event.Amount)

	results := custody.Results()
	require.Equal(t, 1, len(results))
	require.Equal(t, uint64(1), results[0].Number)
	require.Equal(t, "7", results[0].RandomWord)
	require.True(t, results[0].IsWellFormed())
}

func TestFulfillRandomnessPicksByModulo(t *testing.T) {
	engine, _, custody, clock := NewTestEngine(t)

	addresses := keypair.RandomAddresses(4)
	for _, address := range addresses {
		require.NoError(t, engine.Enter(address, 100))
	}
	clock.Advance(60 * time.Second)

	id, err := engine.PerformUpkeep(context.Background(), nil)
	require.NoError(t, err)

	require.NoError(t, engine.FulfillRandomness(id, words(42)))
	require.Equal(t, addresses[2], engine.RecentWinner())
	require.Equal(t, common.Amount(400), custody.Balance(addresses[2]))

	for _, address := range []string{addresses[0], addresses[1], addresses[3]} {
		require.Equal(t, common.Amount(0), custody.Balance(address))
	}
}

func TestFulfillRandomnessLargeWord(t *testing.T) {
	engine, _, _, clock := NewTestEngine(t)

	addresses := keypair.RandomAddresses(3)
	for _, address := range addresses {
		require.NoError(t, engine.Enter(address, 100))
	}
	clock.Advance(60 * time.Second)

	id, err := engine.PerformUpkeep(context.Background(), nil)
	require.NoError(t, err)

	// 2^256 - 1 mod 3 == 0
	word := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	require.NoError(t, engine.FulfillRandomness(id, []*big.Int{word}))
	require.Equal(t, addresses[0], engine.RecentWinner())
}

func TestFulfillRandomnessTwice(t *testing.T) {
	engine, _, custody, clock := NewTestEngine(t)

	a := keypair.Random().Address()
	require.NoError(t, engine.Enter(a, 100))
	clock.Advance(60 * time.Second)

	id, err := engine.PerformUpkeep(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, engine.FulfillRandomness(id, words(7)))

	before := engine.Round()
	err = engine.FulfillRandomness(id, words(7))
	requireErrorIs(t, err, errors.UnknownRequest)

	require.Equal(t, before, engine.Round())
	require.Equal(t, common.Amount(100), custody.Balance(a))
	require.Equal(t, 1, len(custody.Results()))
}

func TestFulfillRandomnessPayoutFailed(t *testing.T) {
	engine, _, custody, clock := NewTestEngine(t)

	a := keypair.Random().Address()
	require.NoError(t, engine.Enter(a, 100))
	clock.Advance(60 * time.Second)

	id, err := engine.PerformUpkeep(context.Background(), nil)
	require.NoError(t, err)

	custody.Reject(a)
	before := engine.Round()

	err = engine.FulfillRandomness(id, words(7))
	requireErrorIs(t, err, errors.PayoutFailed)

	cause, found := err.(*errors.Error).GetData("error")
	require.True(t, found)
	require.Equal(t, errors.AccountFrozen.Clone().SetData("address", a).Error(), cause)

	require.Equal(t, before, engine.Round())
	require.Equal(t, StateCalculating, engine.State())
	pending, _ := engine.PendingRequestID()
	require.Equal(t, id, pending)
	require.Equal(t, common.Amount(0), custody.Balance(a))

	saved, err := custody.LoadRound()
	require.NoError(t, err)
	require.Equal(t, StateCalculating, saved.State)

	custody.Accept(a)
	require.NoError(t, engine.FulfillRandomness(id, words(7)))
	require.Equal(t, common.Amount(100), custody.Balance(a))
	require.Equal(t, StateOpen, engine.State())
}

func TestEnterConcurrently(t *testing.T) {
	engine, _, _, _ := NewTestEngine(t)

	addresses := keypair.RandomAddresses(50)

	var g errgroup.Group
	for _, address := range addresses {
		address := address
		g.Go(func() error {
			return engine.Enter(address, 100)
		})
	}
	require.NoError(t, g.Wait())

	require.Equal(t, len(addresses), engine.NumberOfEntrants())
	require.Equal(t, common.Amount(100*len(addresses)), engine.PoolBalance())
	require.ElementsMatch(t, addresses, engine.Round().Entrants)
}

func TestEngineRestoresRound(t *testing.T) {
	engine, oracle, custody, clock := NewTestEngine(t)

	a := keypair.Random().Address()
	require.NoError(t, engine.Enter(a, 100))
	clock.Advance(60 * time.Second)

	id, err := engine.PerformUpkeep(context.Background(), nil)
	require.NoError(t, err)

	restored, err := NewEngine(engine.Config(), oracle, custody, WithClock(clock))
	require.NoError(t, err)

	require.Equal(t, engine.Round(), restored.Round())
	require.NoError(t, restored.FulfillRandomness(id, words(0)))
	require.Equal(t, a, restored.RecentWinner())
}

func TestEntrantIndexOutOfRange(t *testing.T) {
	engine, _, _, _ := NewTestEngine(t)

	_, err := engine.Entrant(0)
	requireErrorIs(t, err, errors.EntrantIndexOutOfRange)

	require.NoError(t, engine.Enter(keypair.Random().Address(), 100))

	_, err = engine.Entrant(1)
	requireErrorIs(t, err, errors.EntrantIndexOutOfRange)
	_, err = engine.Entrant(-1)
	requireErrorIs(t, err, errors.EntrantIndexOutOfRange)
}

func TestEnterNotification(t *testing.T) {
	o := observable.New()

	config, err := NewConfig(common.NewTestConfig())
	require.NoError(t, err)

	engine, err := NewEngine(config, &TestOracle{}, NewMemoryCustody(), WithObserver(o))
	require.NoError(t, err)

	entered := make(chan Entered, 1)
	o.On(observer.EventEntered, func(args ...interface{}) {
		// reading back the engine must not block
		require.Equal(t, 1, engine.NumberOfEntrants())
		entered <- args[0].(Entered)
	})

	a := keypair.Random().Address()
	require.NoError(t, engine.Enter(a, 100))

	event := <-entered
	require.Equal(t, a, event.Caller)
	require.Equal(t, common.Amount(100), event.Value)
	require.Equal(t, uint64(1), event.Round)
}
