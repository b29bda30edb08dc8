package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cory-johannsen/lootcrate/internal/crate"
	"github.com/cory-johannsen/lootcrate/internal/crate/ledger"
)

// Ledger is the PostgreSQL implementation of the item ledger: balances,
// operator approvals, and an append-only operation journal. Apply runs
// inside a single transaction, which gives the allocation engine its
// all-or-nothing batch commit.
type Ledger struct {
	pool *Pool
}

// NewLedger returns a Ledger backed by the given pool.
//
// Precondition: pool must be connected and migrated.
func NewLedger(pool *Pool) *Ledger {
	return &Ledger{pool: pool}
}

// Transfer moves amount units of item from holder to recipient.
func (l *Ledger) Transfer(ctx context.Context, holder, recipient string, item crate.ItemID, amount int64) error {
	return l.Apply(ctx, []ledger.Op{{
		Kind:      ledger.OpTransfer,
		Holder:    holder,
		Recipient: recipient,
		Item:      item,
		Amount:    amount,
	}})
}

// Mint creates amount new units of item directly to recipient.
func (l *Ledger) Mint(ctx context.Context, recipient string, item crate.ItemID, template []byte, amount int64) error {
	return l.Apply(ctx, []ledger.Op{{
		Kind:      ledger.OpMint,
		Recipient: recipient,
		Item:      item,
		Template:  template,
		Amount:    amount,
	}})
}

// BalanceOf returns holder's balance for item.
func (l *Ledger) BalanceOf(ctx context.Context, holder string, item crate.ItemID) (int64, error) {
	var amount int64
	err := l.pool.DB().QueryRow(ctx,
		`SELECT COALESCE(
			(SELECT amount FROM balances WHERE account = $1 AND item_id = $2), 0)`,
		holder, int64(item),
	).Scan(&amount)
	if err != nil {
		return 0, fmt.Errorf("postgres: reading balance of %q item %s: %w", holder, item, err)
	}
	return amount, nil
}

// IsApprovedForAll reports whether operator may move holder's stock.
func (l *Ledger) IsApprovedForAll(ctx context.Context, holder, operator string) (bool, error) {
	var approved bool
	err := l.pool.DB().QueryRow(ctx,
		`SELECT COALESCE(
			(SELECT approved FROM approvals WHERE holder = $1 AND operator = $2), FALSE)`,
		holder, operator,
	).Scan(&approved)
	if err != nil {
		return false, fmt.Errorf("postgres: reading approval %q -> %q: %w", holder, operator, err)
	}
	return approved, nil
}

// Apply executes ops inside one transaction: any failure rolls back every
// operation in the batch.
//
// Postcondition: On error no balance changed and the journal did not grow.
func (l *Ledger) Apply(ctx context.Context, ops []ledger.Op) error {
	tx, err := l.pool.DB().BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("postgres: beginning batch: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i, op := range ops {
		if op.Amount <= 0 {
			return fmt.Errorf("postgres: op[%d]: amount must be positive, got %d", i, op.Amount)
		}
		if op.Kind == ledger.OpTransfer {
			if err := debit(ctx, tx, op.Holder, op.Item, op.Amount); err != nil {
				return fmt.Errorf("postgres: op[%d]: %w", i, err)
			}
		}
		if err := credit(ctx, tx, op.Recipient, op.Item, op.Amount); err != nil {
			return fmt.Errorf("postgres: op[%d]: %w", i, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO ledger_ops (kind, holder, recipient, item_id, template, amount)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			op.Kind.String(), op.Holder, op.Recipient, int64(op.Item), op.Template, op.Amount,
		); err != nil {
			return fmt.Errorf("postgres: op[%d]: journaling: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: committing batch: %w", err)
	}
	return nil
}

// SetApprovalForAll grants or revokes operator's right to move holder's
// stock.
func (l *Ledger) SetApprovalForAll(ctx context.Context, holder, operator string, approved bool) error {
	_, err := l.pool.DB().Exec(ctx,
		`INSERT INTO approvals (holder, operator, approved) VALUES ($1, $2, $3)
		 ON CONFLICT (holder, operator) DO UPDATE SET approved = EXCLUDED.approved`,
		holder, operator, approved,
	)
	if err != nil {
		return fmt.Errorf("postgres: setting approval %q -> %q: %w", holder, operator, err)
	}
	return nil
}

// debit subtracts amount from account's balance, failing with
// ledger.ErrInsufficientBalance when the balance does not cover it.
func debit(ctx context.Context, tx pgx.Tx, account string, item crate.ItemID, amount int64) error {
	tag, err := tx.Exec(ctx,
		`UPDATE balances SET amount = amount - $3
		 WHERE account = $1 AND item_id = $2 AND amount >= $3`,
		account, int64(item), amount,
	)
	if err != nil {
		return fmt.Errorf("debiting %q item %s: %w", account, item, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %q item %s needs %d: %w", account, item, amount, ledger.ErrInsufficientBalance)
	}
	return nil
}

func credit(ctx context.Context, tx pgx.Tx, account string, item crate.ItemID, amount int64) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO balances (account, item_id, amount) VALUES ($1, $2, $3)
		 ON CONFLICT (account, item_id) DO UPDATE SET amount = balances.amount + EXCLUDED.amount`,
		account, int64(item), amount,
	)
	if err != nil {
		return fmt.Errorf("crediting %q item %s: %w", account, item, err)
	}
	return nil
}
