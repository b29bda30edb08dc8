// Package access provides the authorization and pause gate consulted by the
// allocation engine before every mutating operation.
package access

import (
	"fmt"
	"sync"
)

// Gate answers the two precondition checks the engine applies to every
// mutating entry point.
//
// Implementations must be safe for concurrent use.
type Gate interface {
	// IsAuthorized reports whether caller holds administrative rights.
	IsAuthorized(caller string) bool

	// IsPaused reports whether mutating operations are suspended.
	IsPaused() bool
}

// StaticGate is an in-memory Gate with a fixed-at-construction-plus-grants
// admin set and an explicit pause flag. Pause, Resume, and Grant are
// themselves admin-gated.
type StaticGate struct {
	mu     sync.RWMutex
	admins map[string]bool
	paused bool
}

// NewStaticGate returns a StaticGate with the given administrator accounts
// and the system running (not paused).
//
// Precondition: at least one admin must be provided, otherwise the gate is
// permanently locked.
func NewStaticGate(admins ...string) (*StaticGate, error) {
	if len(admins) == 0 {
		return nil, fmt.Errorf("access: NewStaticGate requires at least one admin")
	}
	g := &StaticGate{admins: make(map[string]bool, len(admins))}
	for _, a := range admins {
		if a == "" {
			return nil, fmt.Errorf("access: NewStaticGate: admin account must not be empty")
		}
		g.admins[a] = true
	}
	return g, nil
}

// IsAuthorized reports whether caller is in the admin set.
func (g *StaticGate) IsAuthorized(caller string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.admins[caller]
}

// IsPaused reports whether the gate is paused.
func (g *StaticGate) IsPaused() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.paused
}

// Pause suspends all mutating operations.
//
// Postcondition: Returns an error and changes nothing if caller is not an
// admin.
func (g *StaticGate) Pause(caller string) error {
	return g.setPaused(caller, true)
}

// Resume lifts a pause.
//
// Postcondition: Returns an error and changes nothing if caller is not an
// admin.
func (g *StaticGate) Resume(caller string) error {
	return g.setPaused(caller, false)
}

func (g *StaticGate) setPaused(caller string, paused bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.admins[caller] {
		return fmt.Errorf("access: caller %q is not an administrator", caller)
	}
	g.paused = paused
	return nil
}

// Grant adds account to the admin set.
//
// Postcondition: Returns an error and changes nothing if caller is not an
// admin or account is empty.
func (g *StaticGate) Grant(caller, account string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.admins[caller] {
		return fmt.Errorf("access: caller %q is not an administrator", caller)
	}
	if account == "" {
		return fmt.Errorf("access: Grant: account must not be empty")
	}
	g.admins[account] = true
	return nil
}
