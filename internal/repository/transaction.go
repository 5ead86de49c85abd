package repository

import (
	"context"
	"errors"

	"docsign/internal/model"
)

// ErrNotFound is returned when no transaction has the requested ID.
var ErrNotFound = errors.New("transaction not found")

// TransactionRepository persists the journal of mutating ledger requests.
// No business logic here, persistence only.
type TransactionRepository interface {
	// Create inserts a new journal entry and returns the stored record.
	Create(ctx context.Context, tx *model.PendingTransaction) (*model.PendingTransaction, error)

	// Update stores the status, result hash, error and update time of an existing entry.
	Update(ctx context.Context, tx *model.PendingTransaction) error

	// FindByID returns a journal entry by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.PendingTransaction, error)

	// List returns entries newest first. An empty identity lists every identity.
	List(ctx context.Context, identity string, pq PageQuery) (*PageResult[model.PendingTransaction], error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
