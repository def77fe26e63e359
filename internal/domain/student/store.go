package student

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// STORE INTERFACE
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Store persists the whole roster as one document.
// There is no partial update: Save always replaces everything Load would return.
type Store interface {
	// Load returns every stored snapshot in roster order.
	// An absent document is an empty roster, not an error.
	Load(ctx context.Context) ([]Snapshot, error)

	// Save overwrites the stored document with snapshots.
	Save(ctx context.Context, snapshots []Snapshot) error

	// Close releases the underlying connection or file handle.
	Close() error
}
