package repositories

import (
	"context"
)

// UnitOfWork executes a function within one storage transaction. Every
// multi-row wallet mutation (primary reassignment, address-wide deletion,
// primary swap) runs through it so no intermediate state is observable.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
