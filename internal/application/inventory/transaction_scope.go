package inventory

import (
	"context"

	"github.com/itemtrack/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the item store.
// Selection and claim of a bulk request run inside one scope so that either
// every selected item changes or none does.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to the current transaction
type TransactionalRepositories interface {
	// ItemRepo returns the item repository scoped to the current transaction
	ItemRepo() inventory.ItemRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// This is useful for unit tests with mocked repositories.
type NoOpTransactionScope struct {
	itemRepo inventory.ItemRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(itemRepo inventory.ItemRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{itemRepo: itemRepo}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the item repository
func (s *NoOpTransactionScope) ItemRepo() inventory.ItemRepository {
	return s.itemRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
