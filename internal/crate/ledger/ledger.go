// Package ledger defines the item ledger collaborator consumed by the
// allocation engine, and an in-memory implementation of it.
//
// The ledger is the system of record for item balances and operator
// approvals. The engine never mutates it mid-batch: it plans a batch of
// operations against read-only balance views and submits them through Apply,
// which is all-or-nothing.
package ledger

import (
	"context"
	"errors"

	"github.com/cory-johannsen/lootcrate/internal/crate"
)

// ErrInsufficientBalance is returned when a transfer would overdraw the
// holder's balance for the item.
var ErrInsufficientBalance = errors.New("ledger: insufficient balance")

// OpKind discriminates planned ledger operations.
type OpKind int

const (
	// OpTransfer moves existing stock from a holder to a recipient.
	OpTransfer OpKind = iota
	// OpMint creates new stock directly to a recipient from a template.
	OpMint
)

// String returns "transfer" or "mint".
func (k OpKind) String() string {
	if k == OpMint {
		return "mint"
	}
	return "transfer"
}

// Op is a single planned ledger mutation.
type Op struct {
	Kind      OpKind
	Holder    string // transfer source; empty for mints
	Recipient string
	Item      crate.ItemID
	Template  []byte // mint template payload; nil for transfers
	Amount    int64
}

// Ledger is the external item ledger collaborator.
//
// Implementations must be safe for concurrent use.
type Ledger interface {
	// Transfer moves amount units of item from holder to recipient. The
	// caller is expected to have verified sufficient balance via BalanceOf;
	// implementations still reject overdrafts with ErrInsufficientBalance.
	Transfer(ctx context.Context, holder, recipient string, item crate.ItemID, amount int64) error

	// Mint creates amount new units of item directly to recipient,
	// consuming the given generation template payload.
	Mint(ctx context.Context, recipient string, item crate.ItemID, template []byte, amount int64) error

	// BalanceOf returns holder's balance for item.
	BalanceOf(ctx context.Context, holder string, item crate.ItemID) (int64, error)

	// IsApprovedForAll reports whether operator may move holder's stock.
	IsApprovedForAll(ctx context.Context, holder, operator string) (bool, error)

	// Apply executes ops atomically: either every operation takes effect or
	// none does.
	Apply(ctx context.Context, ops []Op) error
}
