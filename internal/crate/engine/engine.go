// Package engine implements the crate allocation engine: guarded
// administrative mutations of the probability tables, inventory, templates,
// and seed, plus the batch Open operation that draws rarity classes,
// resolves concrete items, and commits the resulting transfers and mints to
// the item ledger all-or-nothing.
package engine

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/lootcrate/internal/crate"
	"github.com/cory-johannsen/lootcrate/internal/crate/access"
	"github.com/cory-johannsen/lootcrate/internal/crate/ledger"
	"github.com/cory-johannsen/lootcrate/internal/crate/odds"
	"github.com/cory-johannsen/lootcrate/internal/crate/rng"
	"github.com/cory-johannsen/lootcrate/internal/crate/stock"
)

// Config holds the engine's fixed identities.
type Config struct {
	// Holder is the vault account that owns all curated stock; every
	// curated allocation transfers from it.
	Holder string
	// Operator is the identity under which the engine moves the holder's
	// stock, checked against ledger approvals for the advisory warning.
	Operator string
	// LocatorBase is the fixed prefix of per-tier locator strings.
	LocatorBase string
}

// Deps are the engine's collaborators. Odds, Stock, Templates, Source,
// Ledger, and Gate are required; Events and Logger default to no-ops.
type Deps struct {
	Odds      *odds.Registry
	Stock     *stock.Registry
	Templates *stock.TemplateRegistry
	Source    rng.Source
	Ledger    ledger.Ledger
	Gate      access.Gate
	Events    Events
	Logger    *zap.Logger
}

// Engine owns all mutable allocation state exclusively: the probability
// table set, the inventory and template registries, and the randomness
// source. All methods are safe for concurrent use, but at most one Open
// batch is in flight at any instant; a second Open while one is executing
// fails fast with ErrReentrantCall rather than queueing.
type Engine struct {
	cfg       Config
	odds      *odds.Registry
	stock     *stock.Registry
	templates *stock.TemplateRegistry
	source    rng.Source
	ledger    ledger.Ledger
	gate      access.Gate
	events    Events
	logger    *zap.Logger

	// mu serializes access to the registries and the source. opening is
	// the open-in-flight flag: set on entry to Open before mu is taken,
	// cleared on every exit path.
	mu      sync.Mutex
	opening atomic.Bool
}

// New builds an Engine from the given configuration and collaborators.
//
// Postcondition: Returns a ready Engine or a non-nil error naming the
// missing dependency.
func New(cfg Config, deps Deps) (*Engine, error) {
	switch {
	case cfg.Holder == "":
		return nil, fmt.Errorf("engine: New: config.Holder must not be empty")
	case cfg.Operator == "":
		return nil, fmt.Errorf("engine: New: config.Operator must not be empty")
	case deps.Odds == nil:
		return nil, fmt.Errorf("engine: New: deps.Odds must not be nil")
	case deps.Stock == nil:
		return nil, fmt.Errorf("engine: New: deps.Stock must not be nil")
	case deps.Templates == nil:
		return nil, fmt.Errorf("engine: New: deps.Templates must not be nil")
	case deps.Source == nil:
		return nil, fmt.Errorf("engine: New: deps.Source must not be nil")
	case deps.Ledger == nil:
		return nil, fmt.Errorf("engine: New: deps.Ledger must not be nil")
	case deps.Gate == nil:
		return nil, fmt.Errorf("engine: New: deps.Gate must not be nil")
	}
	if deps.Events == nil {
		deps.Events = nopEvents{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Engine{
		cfg:       cfg,
		odds:      deps.Odds,
		stock:     deps.Stock,
		templates: deps.Templates,
		source:    deps.Source,
		ledger:    deps.Ledger,
		gate:      deps.Gate,
		events:    deps.Events,
		logger:    deps.Logger,
	}, nil
}

// guard applies the two precondition checks shared by every mutating entry
// point. A failed check means zero side effects have occurred.
func (e *Engine) guard(caller string) error {
	if !e.gate.IsAuthorized(caller) {
		return fmt.Errorf("caller %q: %w", caller, ErrUnauthorized)
	}
	if e.gate.IsPaused() {
		return ErrPaused
	}
	return nil
}

// SetTable replaces the probability table for tier unconditionally. The
// table is not validated: weights that do not sum to the full scale degrade
// at draw time toward ClassCommon.
func (e *Engine) SetTable(caller string, tier crate.Tier, table odds.Table) error {
	if err := e.guard(caller); err != nil {
		return err
	}
	if !tier.Valid() {
		return fmt.Errorf("engine: SetTable: invalid tier %d", int(tier))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.odds.Set(tier, table)
	e.logger.Debug("probability table replaced",
		zap.Stringer("tier", tier), zap.Ints("weights", table[:]))
	return nil
}

// Table returns the current probability table for tier by value.
func (e *Engine) Table(tier crate.Tier) odds.Table {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.odds.Get(tier)
}

// AddItem appends id to the class's curated list, marking the class
// curated.
func (e *Engine) AddItem(caller string, class crate.Class, id crate.ItemID) error {
	if err := e.guard(caller); err != nil {
		return err
	}
	if !class.Valid() {
		return fmt.Errorf("engine: AddItem: invalid class %d", int(class))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stock.Add(class, id)
	e.logger.Debug("curated item added",
		zap.Stringer("class", class), zap.Stringer("item", id))
	return nil
}

// ReplaceItems swaps the class's curated list wholesale. An empty list
// still marks the class curated; use ResetClass to restore generation
// fallback.
func (e *Engine) ReplaceItems(caller string, class crate.Class, ids []crate.ItemID) error {
	if err := e.guard(caller); err != nil {
		return err
	}
	if !class.Valid() {
		return fmt.Errorf("engine: ReplaceItems: invalid class %d", int(class))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stock.Replace(class, ids)
	e.logger.Debug("curated items replaced",
		zap.Stringer("class", class), zap.Int("count", len(ids)))
	return nil
}

// ResetClass clears the class's curated list and flag, returning it to
// generation fallback.
func (e *Engine) ResetClass(caller string, class crate.Class) error {
	if err := e.guard(caller); err != nil {
		return err
	}
	if !class.Valid() {
		return fmt.Errorf("engine: ResetClass: invalid class %d", int(class))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stock.Reset(class)
	e.logger.Debug("class reset to generation fallback", zap.Stringer("class", class))
	return nil
}

// RegisterTemplate associates a generation template payload with id under
// the given class, making the class mintable while uncurated.
func (e *Engine) RegisterTemplate(caller string, class crate.Class, id crate.ItemID, payload []byte) error {
	if err := e.guard(caller); err != nil {
		return err
	}
	if !class.Valid() {
		return fmt.Errorf("engine: RegisterTemplate: invalid class %d", int(class))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.templates.Register(class, id, payload); err != nil {
		return fmt.Errorf("engine: RegisterTemplate: %w", err)
	}
	e.logger.Debug("generation template registered",
		zap.Stringer("class", class), zap.Stringer("item", id))
	return nil
}

// SetSeed overrides the randomness source's internal seed, raising the cost
// of predicting future draws.
func (e *Engine) SetSeed(caller string, v *big.Int) error {
	if err := e.guard(caller); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.source.Seed(v)
	e.logger.Info("randomness seed overridden", zap.String("caller", caller))
	return nil
}

// Curated reports whether class allocates from its finite curated list.
func (e *Engine) Curated(class crate.Class) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stock.Curated(class)
}

// Items returns a copy of the class's curated item list.
func (e *Engine) Items(class crate.Class) []crate.ItemID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stock.Items(class)
}

// Locator returns the descriptive locator string for tier.
func (e *Engine) Locator(tier crate.Tier) string {
	return tier.Locator(e.cfg.LocatorBase)
}

// Open performs one batch allocation: quantity independent draws for the
// given tier, each resolved to a concrete item, all committed to the ledger
// or none. On success exactly one summary event is emitted.
//
// Postcondition: On any error the ledger is unchanged and no summary event
// was emitted.
func (e *Engine) Open(ctx context.Context, caller string, tier crate.Tier, recipient string, quantity int) (Outcome, error) {
	if err := e.guard(caller); err != nil {
		return Outcome{}, err
	}
	if !tier.Valid() {
		return Outcome{}, fmt.Errorf("engine: Open: invalid tier %d", int(tier))
	}
	if recipient == "" {
		return Outcome{}, fmt.Errorf("engine: Open: recipient must not be empty")
	}
	if quantity < 1 {
		return Outcome{}, fmt.Errorf("engine: Open: quantity must be >= 1, got %d", quantity)
	}

	if !e.opening.CompareAndSwap(false, true) {
		return Outcome{}, fmt.Errorf("open for tier %s: %w", tier, ErrReentrantCall)
	}
	defer e.opening.Store(false)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.checkApproval(ctx)

	table := e.odds.Get(tier)
	ops := make([]ledger.Op, 0, quantity)
	// planned tracks in-batch deductions from the holder so a later unit
	// cannot claim balance an earlier unit already reserved.
	planned := make(map[crate.ItemID]int64)

	for unit := 1; unit <= quantity; unit++ {
		class := odds.Draw(table, e.source.Next(caller))
		op, err := e.resolve(ctx, caller, recipient, class, 1, planned)
		if err != nil {
			return Outcome{}, fmt.Errorf("engine: open unit %d of %d: %w", unit, quantity, err)
		}
		ops = append(ops, op)
	}

	if err := e.ledger.Apply(ctx, ops); err != nil {
		return Outcome{}, fmt.Errorf("engine: committing batch: %w", err)
	}

	out := Outcome{
		BatchID:   uuid.New(),
		Tier:      tier,
		Recipient: recipient,
		Requested: quantity,
		Fulfilled: len(ops),
	}
	e.events.CrateOpened(out)
	e.logger.Info("open batch committed",
		zap.String("batch_id", out.BatchID.String()),
		zap.Stringer("tier", tier),
		zap.String("recipient", recipient),
		zap.Int("fulfilled", out.Fulfilled),
	)
	return out, nil
}

// resolve maps a drawn class to a single planned ledger operation.
//
// Uncurated classes mint from a uniformly random registered template with
// no availability check; curated classes scan the item list circularly from
// a random start and claim the first item whose holder balance, net of
// in-batch reservations, covers minAmount.
func (e *Engine) resolve(ctx context.Context, caller, recipient string, class crate.Class, minAmount int64, planned map[crate.ItemID]int64) (ledger.Op, error) {
	if !e.stock.Curated(class) {
		ids := e.templates.IDs(class)
		if len(ids) == 0 {
			return ledger.Op{}, fmt.Errorf("class %s: %w", class, ErrUnmintedNotSupported)
		}
		idx := e.index(caller, len(ids))
		id := ids[idx]
		payload, _ := e.templates.Template(id)
		return ledger.Op{
			Kind:      ledger.OpMint,
			Recipient: recipient,
			Item:      id,
			Template:  payload,
			Amount:    minAmount,
		}, nil
	}

	items := e.stock.Items(class)
	if len(items) == 0 {
		return ledger.Op{}, fmt.Errorf("class %s curated with empty list: %w", class, ErrInsufficientInventory)
	}
	start := e.index(caller, len(items))
	for k := 0; k < len(items); k++ {
		id := items[(start+k)%len(items)]
		balance, err := e.ledger.BalanceOf(ctx, e.cfg.Holder, id)
		if err != nil {
			return ledger.Op{}, fmt.Errorf("reading balance of item %s: %w", id, err)
		}
		if balance-planned[id] >= minAmount {
			planned[id] += minAmount
			return ledger.Op{
				Kind:      ledger.OpTransfer,
				Holder:    e.cfg.Holder,
				Recipient: recipient,
				Item:      id,
				Amount:    minAmount,
			}, nil
		}
	}
	return ledger.Op{}, fmt.Errorf("class %s: no item with balance >= %d: %w", class, minAmount, ErrInsufficientInventory)
}

// index draws the next random value and reduces it to [0, n).
//
// Precondition: n > 0.
func (e *Engine) index(caller string, n int) int {
	v := e.source.Next(caller)
	return int(new(big.Int).Mod(v, big.NewInt(int64(n))).Int64())
}

// checkApproval probes the ledger for the engine's operator approval on the
// holder's stock. Purely advisory: a missing approval or a failed probe
// emits a warning and never blocks the batch.
func (e *Engine) checkApproval(ctx context.Context) {
	approved, err := e.ledger.IsApprovedForAll(ctx, e.cfg.Holder, e.cfg.Operator)
	if err != nil {
		e.logger.Warn("approval probe failed", zap.Error(err))
		e.events.ApprovalMissing(e.cfg.Holder, e.cfg.Operator)
		return
	}
	if !approved {
		e.events.ApprovalMissing(e.cfg.Holder, e.cfg.Operator)
	}
}
