package engine

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/lootcrate/internal/crate"
)

// Outcome summarizes one successful batch open. It is ephemeral: emitted
// once per batch through the Events sink and never persisted.
type Outcome struct {
	// BatchID correlates the summary with per-unit log lines.
	BatchID   uuid.UUID
	Tier      crate.Tier
	Recipient string
	Requested int
	Fulfilled int
}

// Events receives engine notifications. Implementations must not block;
// they are invoked synchronously from the allocation path.
type Events interface {
	// CrateOpened is emitted exactly once per successful batch.
	CrateOpened(Outcome)

	// ApprovalMissing is the non-fatal advisory that the engine's operator
	// identity does not appear approved to move the holder's curated stock.
	ApprovalMissing(holder, operator string)
}

// LogEvents is an Events sink that writes structured log lines.
type LogEvents struct {
	Logger *zap.Logger
}

// CrateOpened logs the batch summary at info level.
func (l LogEvents) CrateOpened(o Outcome) {
	l.Logger.Info("crate batch opened",
		zap.String("batch_id", o.BatchID.String()),
		zap.Stringer("tier", o.Tier),
		zap.String("recipient", o.Recipient),
		zap.Int("requested", o.Requested),
		zap.Int("fulfilled", o.Fulfilled),
	)
}

// ApprovalMissing logs the advisory at warn level.
func (l LogEvents) ApprovalMissing(holder, operator string) {
	l.Logger.Warn("operator approval missing for curated stock",
		zap.String("holder", holder),
		zap.String("operator", operator),
	)
}

// nopEvents discards all notifications.
type nopEvents struct{}

func (nopEvents) CrateOpened(Outcome)            {}
func (nopEvents) ApprovalMissing(string, string) {}
