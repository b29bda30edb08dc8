package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/cory-johannsen/lootcrate/internal/crate"
)

// Memory is an in-memory Ledger for tests and offline simulation.
// All methods are safe for concurrent use.
type Memory struct {
	mu        sync.RWMutex
	balances  map[string]map[crate.ItemID]int64
	approvals map[string]map[string]bool
	journal   []Op
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		balances:  make(map[string]map[crate.ItemID]int64),
		approvals: make(map[string]map[string]bool),
	}
}

// Transfer moves amount units of item from holder to recipient.
//
// Postcondition: Returns ErrInsufficientBalance (wrapped) and applies
// nothing if holder's balance is below amount.
func (m *Memory) Transfer(ctx context.Context, holder, recipient string, item crate.ItemID, amount int64) error {
	return m.Apply(ctx, []Op{{
		Kind:      OpTransfer,
		Holder:    holder,
		Recipient: recipient,
		Item:      item,
		Amount:    amount,
	}})
}

// Mint creates amount new units of item directly to recipient.
func (m *Memory) Mint(ctx context.Context, recipient string, item crate.ItemID, template []byte, amount int64) error {
	return m.Apply(ctx, []Op{{
		Kind:      OpMint,
		Recipient: recipient,
		Item:      item,
		Template:  template,
		Amount:    amount,
	}})
}

// BalanceOf returns holder's balance for item.
func (m *Memory) BalanceOf(_ context.Context, holder string, item crate.ItemID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[holder][item], nil
}

// IsApprovedForAll reports whether operator may move holder's stock.
func (m *Memory) IsApprovedForAll(_ context.Context, holder, operator string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.approvals[holder][operator], nil
}

// Apply executes ops atomically under one lock: every transfer is validated
// against the running balances before anything is written.
//
// Postcondition: On error no balance changed and the journal did not grow.
func (m *Memory) Apply(_ context.Context, ops []Op) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate transfers against balances net of earlier ops in the batch.
	pending := make(map[string]map[crate.ItemID]int64)
	for i, op := range ops {
		if op.Amount <= 0 {
			return fmt.Errorf("ledger: op[%d]: amount must be positive, got %d", i, op.Amount)
		}
		if op.Kind != OpTransfer {
			continue
		}
		if pending[op.Holder] == nil {
			pending[op.Holder] = make(map[crate.ItemID]int64)
		}
		available := m.balances[op.Holder][op.Item] - pending[op.Holder][op.Item]
		if available < op.Amount {
			return fmt.Errorf("ledger: op[%d]: holder %q item %s has %d, need %d: %w",
				i, op.Holder, op.Item, available, op.Amount, ErrInsufficientBalance)
		}
		pending[op.Holder][op.Item] += op.Amount
	}

	for _, op := range ops {
		if op.Kind == OpTransfer {
			m.credit(op.Holder, op.Item, -op.Amount)
		}
		m.credit(op.Recipient, op.Item, op.Amount)
	}
	m.journal = append(m.journal, ops...)
	return nil
}

// SetApprovalForAll grants or revokes operator's right to move holder's
// stock.
func (m *Memory) SetApprovalForAll(holder, operator string, approved bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.approvals[holder] == nil {
		m.approvals[holder] = make(map[string]bool)
	}
	m.approvals[holder][operator] = approved
}

// Credit adjusts holder's balance for item without journaling, for seeding
// test and simulation fixtures.
//
// Precondition: the resulting balance must not be negative.
func (m *Memory) Credit(holder string, item crate.ItemID, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[holder][item]+amount < 0 {
		panic("ledger: Memory.Credit would produce a negative balance")
	}
	m.credit(holder, item, amount)
}

func (m *Memory) credit(account string, item crate.ItemID, amount int64) {
	if m.balances[account] == nil {
		m.balances[account] = make(map[crate.ItemID]int64)
	}
	m.balances[account][item] += amount
}

// Journal returns a copy of every applied operation, in application order.
func (m *Memory) Journal() []Op {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Op(nil), m.journal...)
}

// Holdings returns a copy of holder's nonzero balances.
func (m *Memory) Holdings(holder string) map[crate.ItemID]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[crate.ItemID]int64, len(m.balances[holder]))
	for item, amount := range m.balances[holder] {
		if amount != 0 {
			out[item] = amount
		}
	}
	return out
}
