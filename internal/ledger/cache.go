// Package ledger owns the observable per-account ledger state and runs
// reconciliation cycles against it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/mtlprog/suiledger/internal/domain"
)

var (
	// ErrSuperseded is returned when a cycle tries to commit after a newer cycle started.
	ErrSuperseded = errors.New("cycle superseded")
	// ErrInvalidTransition is returned for a terminal transition outside the loading phase.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Listener is notified with every state an account enters.
type Listener func(address string, state domain.LedgerState)

type account struct {
	state      domain.LedgerState
	generation uint64
	cancel     context.CancelFunc
}

// Cache holds the current LedgerState of each account. Every transition
// replaces the whole state, so readers never see a partial one.
type Cache struct {
	mu        sync.RWMutex
	accounts  map[string]*account
	listeners []Listener

	// notifyMu is acquired before mu is released, so listeners observe
	// transitions in the order they were applied.
	notifyMu sync.Mutex
}

// NewCache creates an empty ledger cache.
func NewCache() *Cache {
	return &Cache{accounts: make(map[string]*account)}
}

// Subscribe registers a listener. Listeners run synchronously after the
// transition is applied, one transition at a time, and must not call back
// into the cache.
func (c *Cache) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Get returns the current state of address, Idle if no cycle ever ran.
func (c *Cache) Get(address string) domain.LedgerState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if a, ok := c.accounts[address]; ok {
		return a.state
	}
	return domain.IdleState()
}

// Generation returns the generation of the latest cycle started for address.
func (c *Cache) Generation(address string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if a, ok := c.accounts[address]; ok {
		return a.generation
	}
	return 0
}

// Addresses returns every address with a state, sorted.
func (c *Cache) Addresses() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.accounts))
	for addr := range c.accounts {
		out = append(out, addr)
	}
	slices.Sort(out)
	return out
}

// Begin starts a new cycle for address: the state becomes Loading, the
// previous in-flight cycle's context is cancelled and a new generation is
// returned along with a context the cycle must run under.
func (c *Cache) Begin(ctx context.Context, address string) (context.Context, uint64) {
	cycleCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	a, ok := c.accounts[address]
	if !ok {
		a = &account{}
		c.accounts[address] = a
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.generation++
	a.cancel = cancel
	a.state = domain.LoadingState()
	gen, state, listeners := a.generation, a.state, c.listeners
	c.notifyMu.Lock()
	c.mu.Unlock()

	c.notify(listeners, address, state)
	return cycleCtx, gen
}

// Commit moves address to Loaded with entries if gen is still current.
func (c *Cache) Commit(address string, gen uint64, entries []domain.LedgerEntry) error {
	return c.finish(address, gen, domain.LoadedState(entries))
}

// Fail moves address to Failed with info if gen is still current.
func (c *Cache) Fail(address string, gen uint64, info domain.ErrorInfo) error {
	return c.finish(address, gen, domain.FailedState(info))
}

func (c *Cache) finish(address string, gen uint64, next domain.LedgerState) error {
	c.mu.Lock()
	a, ok := c.accounts[address]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: no cycle started for %s", ErrInvalidTransition, address)
	}
	if gen != a.generation {
		latest := a.generation
		c.mu.Unlock()
		return fmt.Errorf("%w: generation %d, latest %d", ErrSuperseded, gen, latest)
	}
	if a.state.Phase != domain.PhaseLoading {
		phase := a.state.Phase
		c.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, phase, next.Phase)
	}
	a.state = next
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	listeners := c.listeners
	c.notifyMu.Lock()
	c.mu.Unlock()

	c.notify(listeners, address, next)
	return nil
}

// notify delivers state to listeners and releases notifyMu.
func (c *Cache) notify(listeners []Listener, address string, state domain.LedgerState) {
	defer c.notifyMu.Unlock()
	for _, l := range listeners {
		l(address, state)
	}
}
