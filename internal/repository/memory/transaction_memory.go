package memory

import (
	"context"
	"sort"
	"sync"

	"docsign/internal/model"
	"docsign/internal/repository"
)

// TransactionMemory keeps the journal in process memory. It is used when no
// database is configured, so the journal lives as long as the process.
type TransactionMemory struct {
	mu   sync.RWMutex
	rows map[string]model.PendingTransaction
}

// NewTransactionMemory creates an empty in-memory journal.
func NewTransactionMemory() *TransactionMemory {
	return &TransactionMemory{rows: make(map[string]model.PendingTransaction)}
}

var _ repository.TransactionRepository = (*TransactionMemory)(nil)

func (r *TransactionMemory) Create(_ context.Context, tx *model.PendingTransaction) (*model.PendingTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[tx.ID] = *tx
	out := *tx
	return &out, nil
}

func (r *TransactionMemory) Update(_ context.Context, tx *model.PendingTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[tx.ID]
	if !ok {
		return repository.ErrNotFound
	}
	row.Status = tx.Status
	row.ResultHash = tx.ResultHash
	row.Error = tx.Error
	row.UpdatedAt = tx.UpdatedAt
	r.rows[tx.ID] = row
	return nil
}

func (r *TransactionMemory) FindByID(_ context.Context, id string) (*model.PendingTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (r *TransactionMemory) List(_ context.Context, identity string, pq repository.PageQuery) (*repository.PageResult[model.PendingTransaction], error) {
	r.mu.RLock()
	items := make([]model.PendingTransaction, 0, len(r.rows))
	for _, row := range r.rows {
		if identity == "" || row.Identity == identity {
			items = append(items, row)
		}
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})

	total := len(items)
	start := min(max(pq.Offset, 0), total)
	end := total
	if pq.Limit > 0 {
		end = min(start+pq.Limit, total)
	}
	return &repository.PageResult[model.PendingTransaction]{Items: items[start:end], Total: total}, nil
}
