package cart

import "context"

// LedgerStore keeps per-session ledgers for the duration of a browsing
// session. Implementations return ErrSessionNotFound for unknown or
// expired sessions; callers treat that as an empty cart.
type LedgerStore interface {
	Get(ctx context.Context, sessionID string) (Ledger, error)
	Put(ctx context.Context, sessionID string, ledger Ledger) error
	Delete(ctx context.Context, sessionID string) error
}
