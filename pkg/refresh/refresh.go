package refresh

import (
	"sync"
	"sync/atomic"

	"zerpy/pkg/logger"
	"zerpy/pkg/models"
)

// Fetcher performs the actual snapshot fetch. Satisfied by
// *controller.Controller; mocked in tests.
type Fetcher interface {
	FetchSnapshot(address string) (*models.Snapshot, error)
}

// Outcome is the single delivery of one refresh request: either a complete
// snapshot or an error, tagged with the request identity it belongs to.
type Outcome struct {
	RequestID uint64
	Address   string
	Snapshot  *models.Snapshot
	Err       error
}

// Subscriber is a channel that receives refresh outcomes.
type Subscriber chan Outcome

// Coordinator runs refreshes off the interactive goroutine and delivers
// exactly one outcome per request. It never aborts an in-flight fetch: a
// newer request simply supersedes older ones, and IsCurrent lets the
// receiver discard deliveries that no longer matter. Request identity is a
// generation counter, not an address, so two rapid refreshes of the same
// account still resolve to a single winner.
type Coordinator struct {
	fetcher Fetcher

	lastID   atomic.Uint64
	inFlight atomic.Int64

	mu          sync.RWMutex
	subscribers []Subscriber
}

func NewCoordinator(fetcher Fetcher) *Coordinator {
	return &Coordinator{fetcher: fetcher}
}

// Subscribe adds a new subscriber and returns a channel to receive outcomes.
// The buffer holds far more outstanding outcomes than a draining consumer
// can accumulate; see notify for what happens if a subscriber stops reading.
func (c *Coordinator) Subscribe() Subscriber {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(Subscriber, 64)
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber.
func (c *Coordinator) Unsubscribe(ch Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, sub := range c.subscribers {
		if sub == ch {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// notify fans an outcome out to every subscriber. A subscriber that stopped
// reading and filled its buffer gets the outcome dropped instead of wedging
// every fetch worker behind its channel; a reading subscriber always sees
// exactly one delivery per request.
func (c *Coordinator) notify(outcome Outcome) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, sub := range c.subscribers {
		select {
		case sub <- outcome:
		default:
			logger.Warn("Dropping refresh outcome %d for slow subscriber", outcome.RequestID)
		}
	}
}

// Trigger starts a refresh for address on a worker goroutine and returns the
// request id. The matching Outcome arrives on every subscriber channel once
// the fetch completes, success or failure.
func (c *Coordinator) Trigger(address string) uint64 {
	id := c.lastID.Add(1)
	c.inFlight.Add(1)
	logger.Debug("Refresh %d started for %s", id, address)

	go func() {
		snapshot, err := c.fetcher.FetchSnapshot(address)
		c.inFlight.Add(-1)
		if err != nil {
			logger.Error("Refresh %d for %s failed: %v", id, address, err)
		} else {
			logger.Debug("Refresh %d for %s completed", id, address)
		}
		c.notify(Outcome{RequestID: id, Address: address, Snapshot: snapshot, Err: err})
	}()

	return id
}

// IsCurrent reports whether the outcome belongs to the most recently
// triggered request. Outcomes failing this check are stale and must be
// discarded by the receiver.
func (c *Coordinator) IsCurrent(o Outcome) bool {
	return o.RequestID == c.lastID.Load()
}

// InFlight reports whether any refresh is still running. The UI keeps the
// refresh affordances disabled while this holds.
func (c *Coordinator) InFlight() bool {
	return c.inFlight.Load() > 0
}
