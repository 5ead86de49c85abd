package service

import (
	"context"
	"errors"

	"docsign/internal/model"
	"docsign/internal/repository"
)

// TransactionListResult is the service-level DTO for paginated journal entries.
type TransactionListResult struct {
	Items []model.PendingTransaction `json:"data"`
	Total int                        `json:"total"`
}

// TransactionJournal reads the history of mutating requests.
type TransactionJournal struct {
	repo repository.TransactionRepository
}

// NewTransactionJournal constructs a TransactionJournal.
func NewTransactionJournal(repo repository.TransactionRepository) *TransactionJournal {
	return &TransactionJournal{repo: repo}
}

// List returns journal entries of identity (all identities when empty) using limit/offset.
func (j *TransactionJournal) List(ctx context.Context, identity string, limit, offset int) (*TransactionListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := j.repo.List(ctx, identity, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &TransactionListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a journal entry by ID.
func (j *TransactionJournal) Get(ctx context.Context, id string) (*model.PendingTransaction, error) {
	if id == "" {
		return nil, ErrInputInvalid
	}
	tx, err := j.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tx, nil
}
