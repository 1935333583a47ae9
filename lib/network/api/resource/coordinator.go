package resource

import (
	"strconv"

	"github.com/nvellon/hal"

	"github.com/photonwings/lottery-smart-contract/lib/oracle"
)

type Subscription struct {
	s oracle.Subscription
}

func NewSubscription(s oracle.Subscription) *Subscription {
	return &Subscription{s: s}
}

func (s Subscription) GetMap() hal.Entry {
	return hal.Entry{
		"id":        s.s.ID,
		"balance":   s.s.Balance,
		"consumers": s.s.Consumers,
	}
}

func (s Subscription) Resource() *hal.Resource {
	r := hal.NewResource(s, s.LinkSelf())
	r.AddNewLink("fund", replaceID(URLSubscriptionFund, "id", strconv.FormatUint(s.s.ID, 10)))
	return r
}

func (s Subscription) LinkSelf() string {
	return replaceID(URLSubscription, "id", strconv.FormatUint(s.s.ID, 10))
}

type Request struct {
	r oracle.Request
}

func NewRequest(r oracle.Request) *Request {
	return &Request{r: r}
}

func (r Request) GetMap() hal.Entry {
	return hal.Entry{
		"id":                 r.r.ID,
		"subscription_id":    r.r.Request.SubscriptionID,
		"consumer":           r.r.Request.Consumer,
		"num_words":          r.r.Request.NumWords,
		"confirmations":      r.r.Request.Confirmations,
		"callback_gas_limit": r.r.Request.CallbackGasLimit,
		"gas_lane":           r.r.Request.GasLane,
		"ticks":              r.r.Ticks,
	}
}

func (r Request) Resource() *hal.Resource {
	rr := hal.NewResource(r, r.LinkSelf())
	rr.AddNewLink("fulfill", r.LinkSelf())
	return rr
}

func (r Request) LinkSelf() string {
	return replaceID(URLRequestFulfill, "id", strconv.FormatUint(uint64(r.r.ID), 10))
}
