package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"docsign/internal/model"
	"docsign/internal/repository"
)

// TransactionPostgres is a PostgreSQL implementation of repository.TransactionRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type TransactionPostgres struct {
	db *sql.DB
}

// NewTransactionPostgres creates a new TransactionPostgres repository.
func NewTransactionPostgres(db *sql.DB) *TransactionPostgres {
	return &TransactionPostgres{db: db}
}

var _ repository.TransactionRepository = (*TransactionPostgres)(nil)

const transactionColumns = `id, identity, function, payload, status, result_hash, error, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*model.PendingTransaction, error) {
	var (
		tx      model.PendingTransaction
		payload []byte
	)
	if err := s.Scan(
		&tx.ID,
		&tx.Identity,
		&tx.Function,
		&payload,
		&tx.Status,
		&tx.ResultHash,
		&tx.Error,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &tx.Payload); err != nil {
			return nil, fmt.Errorf("decode payload of %s: %w", tx.ID, err)
		}
	}
	return &tx, nil
}

// Create inserts a new journal row and returns the stored record.
func (r *TransactionPostgres) Create(ctx context.Context, tx *model.PendingTransaction) (*model.PendingTransaction, error) {
	payload, err := json.Marshal(tx.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	const q = `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + transactionColumns
	row := r.db.QueryRowContext(ctx, q,
		tx.ID,
		tx.Identity,
		tx.Function,
		payload,
		tx.Status,
		tx.ResultHash,
		tx.Error,
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	return scanTransaction(row)
}

// Update writes the mutable columns of a journal row.
func (r *TransactionPostgres) Update(ctx context.Context, tx *model.PendingTransaction) error {
	const q = `
		UPDATE transactions
		SET status = $2, result_hash = $3, error = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q, tx.ID, tx.Status, tx.ResultHash, tx.Error, tx.UpdatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// FindByID fetches a single journal row by its ID.
func (r *TransactionPostgres) FindByID(ctx context.Context, id string) (*model.PendingTransaction, error) {
	const q = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	tx, err := scanTransaction(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return tx, nil
}

// List returns journal rows using LIMIT/OFFSET pagination and a total count.
func (r *TransactionPostgres) List(ctx context.Context, identity string, pq repository.PageQuery) (*repository.PageResult[model.PendingTransaction], error) {
	// $1 = '' disables the identity filter.
	const qCount = `SELECT COUNT(*) FROM transactions WHERE ($1 = '' OR identity = $1)`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, identity).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE ($1 = '' OR identity = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, identity, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.PendingTransaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.PendingTransaction]{
		Items: items,
		Total: total,
	}, nil
}
