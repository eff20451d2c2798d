package ledger

import "context"

// Ledger is the external reward ledger collaborator. Crediting is
// fire-and-forget from the engine's perspective: the engine logs a
// failure and moves on, it never rolls back a completion. Retry policy
// lives on the ledger side, not here.
type Ledger interface {
	CreditReward(ctx context.Context, kidID string, amountCents int64, label string) error
}

// Nop is a Ledger that drops every credit. Used when no ledger service
// is configured.
type Nop struct{}

func (Nop) CreditReward(ctx context.Context, kidID string, amountCents int64, label string) error {
	return nil
}
