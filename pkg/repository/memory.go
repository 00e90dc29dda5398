package repository

import (
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"nexushub_back/models"
)

type TransactionMemory struct {
	mu      sync.Mutex
	records []models.TransactionRecord
	nextID  int64
	now     func() time.Time
}

func NewTransactionMemory() *TransactionMemory {
	return &TransactionMemory{now: time.Now}
}

func (r *TransactionMemory) Create(rec models.TransactionRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	rec.ID = r.nextID
	rec.CreatedAt = r.now()
	rec.UpdatedAt = rec.CreatedAt
	r.records = append(r.records, rec)
	return rec.ID, nil
}

func (r *TransactionMemory) UpdateStatus(id int64, status models.TxStatus, txHash, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		if r.records[i].ID != id {
			continue
		}
		rec := &r.records[i]
		rec.Status = status
		rec.TxHash = nullable(txHash)
		rec.ErrorMsg = nullable(errMsg)
		rec.UpdatedAt = r.now()
		return nil
	}
	return errors.Errorf("transaction %d not found", id)
}

// ListByAddress returns the newest records first.
func (r *TransactionMemory) ListByAddress(address string, limit int) ([]models.TransactionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.TransactionRecord{}
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		if strings.EqualFold(r.records[i].Address, address) {
			out = append(out, r.records[i])
		}
	}
	return out, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
