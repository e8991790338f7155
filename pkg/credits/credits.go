// Package credits implements the two-tier usage counter. Consumption is
// optimistic: a credit is spent before the generation outcome is known, so a
// failed turn still costs one. That ordering is load-bearing for the blocked
// check and is covered by the tests here.
package credits

import (
	"errors"
	"sync"
)

// ErrExhausted signals a blocked turn: the limit is reached and no request
// may be dispatched. It is a normal state transition, not a failure.
var ErrExhausted = errors.New("credits: usage limit reached")

type Tier int

const (
	TierBase Tier = iota
	TierPro
)

func (t Tier) Limit() int {
	if t == TierPro {
		return 20
	}
	return 5
}

func (t Tier) String() string {
	if t == TierPro {
		return "pro"
	}
	return "base"
}

// Usage is the persisted shape of the counter.
type Usage struct {
	Used       int  `json:"used"`
	Pro        bool `json:"pro"`
	ProGranted bool `json:"pro_granted"`
}

// Persister stores the counter after every mutation. A nil Persister keeps
// the counter in memory only.
type Persister interface {
	SaveUsage(u Usage) error
}

type Counter struct {
	mu    sync.Mutex
	usage Usage
	store Persister
}

func NewCounter(usage Usage, store Persister) *Counter {
	return &Counter{usage: usage, store: store}
}

// Consume spends one credit, persisting immediately. When the limit is
// already reached it returns ErrExhausted and leaves the counter untouched.
func (c *Counter) Consume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.usage.Used >= c.tier().Limit() {
		return ErrExhausted
	}
	c.usage.Used++
	return c.persist()
}

// SetPro records the subscription tier reported by the billing collaborator.
// The first transition into pro resets usage to zero; the grant is one-shot,
// so repeated "already pro" detections leave the counter alone.
func (c *Counter) SetPro(pro bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pro == c.usage.Pro && (!pro || c.usage.ProGranted) {
		return nil
	}
	c.usage.Pro = pro
	if pro && !c.usage.ProGranted {
		c.usage.Used = 0
		c.usage.ProGranted = true
	}
	return c.persist()
}

// Reset clears the counter and the one-shot grant flag. Only the explicit
// profile reset action calls this.
func (c *Counter) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usage = Usage{}
	return c.persist()
}

func (c *Counter) Used() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage.Used
}

func (c *Counter) Limit() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tier().Limit()
}

func (c *Counter) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r := c.tier().Limit() - c.usage.Used; r > 0 {
		return r
	}
	return 0
}

func (c *Counter) Tier() Tier {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tier()
}

func (c *Counter) Snapshot() Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

func (c *Counter) tier() Tier {
	if c.usage.Pro {
		return TierPro
	}
	return TierBase
}

func (c *Counter) persist() error {
	if c.store == nil {
		return nil
	}
	return c.store.SaveUsage(c.usage)
}
