package engine

import "errors"

// Fatal allocation errors. Every one of them aborts the enclosing batch
// atomically; no partial mints or transfers survive a failed Open.
var (
	// ErrUnauthorized means the caller lacks administrative rights on a
	// gated operation. Zero side effects.
	ErrUnauthorized = errors.New("engine: caller not authorized")

	// ErrPaused means a mutating operation was attempted while the system
	// is paused. Zero side effects.
	ErrPaused = errors.New("engine: system paused")

	// ErrReentrantCall means an Open was invoked while another batch was in
	// flight. Zero side effects; distinct from other failures so it can be
	// alerted on separately.
	ErrReentrantCall = errors.New("engine: open already in progress")

	// ErrUnmintedNotSupported means an uncurated class has no registered
	// generation template.
	ErrUnmintedNotSupported = errors.New("engine: class has no generation template")

	// ErrInsufficientInventory means a curated class's circular scan found
	// no item with enough holder balance.
	ErrInsufficientInventory = errors.New("engine: insufficient curated inventory")
)
