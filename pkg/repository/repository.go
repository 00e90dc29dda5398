package repository

import (
	"github.com/jmoiron/sqlx"

	"nexushub_back/models"
)

// Transaction stores one record per submission attempt.
type Transaction interface {
	Create(rec models.TransactionRecord) (int64, error)
	// UpdateStatus writes the derived status of an attempt. Empty txHash or
	// errMsg are stored as NULL.
	UpdateStatus(id int64, status models.TxStatus, txHash, errMsg string) error
	ListByAddress(address string, limit int) ([]models.TransactionRecord, error)
}

type Repository struct {
	Transaction
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Transaction: NewTransactionPostgres(db),
	}
}

// NewMemoryRepository keeps history in process memory, for runs without a database.
func NewMemoryRepository() *Repository {
	return &Repository{
		Transaction: NewTransactionMemory(),
	}
}
