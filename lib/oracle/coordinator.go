package oracle

import (
	"context"
	"encoding/binary"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	logging "github.com/inconshreveable/log15"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
	"github.com/photonwings/lottery-smart-contract/lib/metrics"
	"github.com/photonwings/lottery-smart-contract/lib/raffle"
)

const (
	MaxNumWords            uint32 = 500
	DefaultBaseFee                = common.Amount(250000)
	DefaultFulfillInterval        = 1 * time.Second
)

// Consumer receives the random words of its requests.
type Consumer interface {
	FulfillRandomness(id raffle.RequestID, words []*big.Int) error
}

type Subscription struct {
	ID        uint64        `json:"id"`
	Balance   common.Amount `json:"balance"`
	Consumers []string      `json:"consumers"`
}

type Request struct {
	ID       raffle.RequestID         `json:"id"`
	Request  raffle.RandomnessRequest `json:"request"`
	Ticks    uint16                   `json:"ticks"`
	Fulfills uint64                   `json:"fulfills"`
}

type CoordinatorOption func(*Coordinator)

func WithBaseFee(fee common.Amount) CoordinatorOption {
	return func(c *Coordinator) {
		c.baseFee = fee
	}
}

func WithFulfillInterval(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.interval = d
	}
}

func WithLogger(l logging.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// Coordinator is a local randomness coordinator for development and tests.
// The random words are derived from the request id, so they are
// predictable; it must not be used where the randomness matters.
//
// The words are delivered by `FulfillRandomWords`, or by the loop of `Start`
// once a request has waited for its confirmations worth of ticks.
type Coordinator struct {
	sync.Mutex

	baseFee  common.Amount
	interval time.Duration

	lastSubscriptionID uint64
	lastRequestID      raffle.RequestID

	subscriptions map[uint64]*Subscription
	consumers     map[string]Consumer
	requests      map[raffle.RequestID]*Request

	afterFunc common.AfterFunc
	stop      chan chan struct{}
	logger    logging.Logger
}

func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		baseFee:       DefaultBaseFee,
		interval:      DefaultFulfillInterval,
		subscriptions: map[uint64]*Subscription{},
		consumers:     map[string]Consumer{},
		requests:      map[raffle.RequestID]*Request{},
		afterFunc:     time.After,
		stop:          make(chan chan struct{}),
		logger:        common.NopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CreateSubscription returns the id of a new empty subscription; the ids
// start from 1.
func (c *Coordinator) CreateSubscription() uint64 {
	c.Lock()
	defer c.Unlock()

	c.lastSubscriptionID++
	c.subscriptions[c.lastSubscriptionID] = &Subscription{
		ID:        c.lastSubscriptionID,
		Consumers: []string{},
	}

	c.logger.Debug("subscription created", "subscription", c.lastSubscriptionID)

	return c.lastSubscriptionID
}

func (c *Coordinator) FundSubscription(id uint64, amount common.Amount) (Subscription, error) {
	c.Lock()
	defer c.Unlock()

	s, found := c.subscriptions[id]
	if !found {
		return Subscription{}, errors.InvalidSubscription.Clone().SetData("subscription", id)
	}

	balance, err := s.Balance.Add(amount)
	if err != nil {
		return Subscription{}, err
	}
	s.Balance = balance

	c.logger.Debug("subscription funded", "subscription", id, "amount", amount, "balance", balance)

	return s.clone(), nil
}

// AddConsumer registers `consumer` under `name` to the subscription.
func (c *Coordinator) AddConsumer(id uint64, name string, consumer Consumer) error {
	c.Lock()
	defer c.Unlock()

	s, found := c.subscriptions[id]
	if !found {
		return errors.InvalidSubscription.Clone().SetData("subscription", id)
	}

	if !s.hasConsumer(name) {
		s.Consumers = append(s.Consumers, name)
	}
	c.consumers[name] = consumer

	return nil
}

func (c *Coordinator) Subscription(id uint64) (Subscription, error) {
	c.Lock()
	defer c.Unlock()

	s, found := c.subscriptions[id]
	if !found {
		return Subscription{}, errors.InvalidSubscription.Clone().SetData("subscription", id)
	}

	return s.clone(), nil
}

func (c *Coordinator) RequestRandomWords(ctx context.Context, req raffle.RandomnessRequest) (raffle.RequestID, error) {
	c.Lock()
	defer c.Unlock()

	s, found := c.subscriptions[req.SubscriptionID]
	if !found {
		return 0, errors.InvalidSubscription.Clone().SetData("subscription", req.SubscriptionID)
	}
	if !s.hasConsumer(req.Consumer) {
		return 0, errors.InvalidConsumer.Clone().SetData("consumer", req.Consumer)
	}
	if req.NumWords < 1 || req.NumWords > MaxNumWords {
		return 0, errors.InvalidNumWords.Clone().SetData("num_words", req.NumWords)
	}

	c.lastRequestID++
	c.requests[c.lastRequestID] = &Request{ID: c.lastRequestID, Request: req}
	metrics.Oracle.AddPending(1)

	c.logger.Debug("randomness requested", "request", c.lastRequestID, "subscription", req.SubscriptionID, "consumer", req.Consumer)

	return c.lastRequestID, nil
}

// Pending returns the requests which are not fulfilled yet, ordered by id.
func (c *Coordinator) Pending() []Request {
	c.Lock()
	defer c.Unlock()

	var requests []Request
	for _, r := range c.requests {
		requests = append(requests, *r)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].ID < requests[j].ID })

	return requests
}

// FulfillRandomWords delivers the words of the request to its consumer and
// charges the base fee to the subscription. When the consumer fails, the
// request stays pending and nothing is charged.
func (c *Coordinator) FulfillRandomWords(ctx context.Context, id raffle.RequestID) error {
	c.Lock()
	r, found := c.requests[id]
	if !found {
		c.Unlock()
		return errors.NonexistentRequest.Clone().SetData("request_id", id)
	}

	s, found := c.subscriptions[r.Request.SubscriptionID]
	if !found {
		c.Unlock()
		return errors.InvalidSubscription.Clone().SetData("subscription", r.Request.SubscriptionID)
	}
	if s.Balance < c.baseFee {
		c.Unlock()
		return errors.InsufficientSubscriptionBalance.Clone().
			SetData("subscription", s.ID).
			SetData("balance", s.Balance)
	}

	consumer, found := c.consumers[r.Request.Consumer]
	if !found {
		c.Unlock()
		return errors.InvalidConsumer.Clone().SetData("consumer", r.Request.Consumer)
	}
	r.Fulfills++
	words := RandomWords(id, r.Request.NumWords)

	// the consumer is called without the lock, it may call back the coordinator
	c.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := consumer.FulfillRandomness(id, words); err != nil {
		c.logger.Error("consumer failed to fulfill", "request", id, "error", err)
		return err
	}

	c.Lock()
	defer c.Unlock()

	if _, found := c.requests[id]; !found {
		return nil
	}
	delete(c.requests, id)
	metrics.Oracle.AddPending(-1)

	if s, found := c.subscriptions[r.Request.SubscriptionID]; found {
		if balance, err := s.Balance.Sub(c.baseFee); err == nil {
			s.Balance = balance
		} else {
			s.Balance = 0
		}
	}

	c.logger.Debug("randomness fulfilled", "request", id, "consumer", r.Request.Consumer)

	return nil
}

// RandomWords derives `n` words by hashing the request id with the index of
// the word with keccak256.
func RandomWords(id raffle.RequestID, n uint32) []*big.Int {
	words := make([]*big.Int, n)
	for i := uint32(0); i < n; i++ {
		b := make([]byte, 16)
		binary.BigEndian.PutUint64(b[:8], uint64(id))
		binary.BigEndian.PutUint64(b[8:], uint64(i))

		words[i] = new(big.Int).SetBytes(crypto.Keccak256(b))
	}

	return words
}

func (c *Coordinator) Start() error {
	c.logger.Info("starting coordinator", "interval", c.interval)
	c.loop()
	return nil
}

func (c *Coordinator) Stop() error {
	ch := make(chan struct{})
	c.stop <- ch
	<-ch
	c.logger.Info("stopped coordinator")
	return nil
}

func (c *Coordinator) loop() {
	tickc := c.afterFunc(c.interval)

	for {
		select {
		case <-tickc:
			c.tick()
			tickc = c.afterFunc(c.interval)
		case ch := <-c.stop:
			close(ch)
			return
		}
	}
}

// tick fulfills the requests which waited for their confirmations.
func (c *Coordinator) tick() {
	var ready []raffle.RequestID

	c.Lock()
	for id, r := range c.requests {
		r.Ticks++
		if r.Ticks >= r.Request.Confirmations {
			ready = append(ready, id)
		}
	}
	c.Unlock()

	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })

	for _, id := range ready {
		if err := c.FulfillRandomWords(context.Background(), id); err != nil {
			c.logger.Debug("failed to fulfill", "request", id, "error", err)
		}
	}
}

func (s *Subscription) hasConsumer(name string) bool {
	for _, c := range s.Consumers {
		if c == name {
			return true
		}
	}

	return false
}

func (s *Subscription) clone() Subscription {
	n := *s
	n.Consumers = make([]string, len(s.Consumers))
	copy(n.Consumers, s.Consumers)

	return n
}

var _ raffle.Oracle = (*Coordinator)(nil)
