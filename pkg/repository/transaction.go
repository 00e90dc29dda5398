package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"nexushub_back/models"
)

type TransactionPostgres struct {
	db *sqlx.DB
}

func NewTransactionPostgres(db *sqlx.DB) *TransactionPostgres {
	return &TransactionPostgres{db: db}
}

func (r *TransactionPostgres) Create(rec models.TransactionRecord) (int64, error) {
	var id int64
	query := `
        INSERT INTO transactions (flow_id, attempt, action, address, token, amount, chain_id, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	err := r.db.QueryRow(
		query,
		rec.FlowID,
		rec.Attempt,
		rec.Action,
		rec.Address,
		rec.Token,
		rec.Amount,
		rec.ChainID,
		rec.Status,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrapf(err, "insert transaction for flow %s", rec.FlowID)
	}
	return id, nil
}

func (r *TransactionPostgres) UpdateStatus(id int64, status models.TxStatus, txHash, errMsg string) error {
	query := `
        UPDATE transactions
        SET status = $1, tx_hash = NULLIF($2, ''), error_message = NULLIF($3, ''), updated_at = now()
        WHERE id = $4
    `
	res, err := r.db.Exec(query, status, txHash, errMsg, id)
	if err != nil {
		return errors.Wrapf(err, "update transaction %d", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Errorf("transaction %d not found", id)
	}
	return nil
}

func (r *TransactionPostgres) ListByAddress(address string, limit int) ([]models.TransactionRecord, error) {
	records := []models.TransactionRecord{}
	query := `
        SELECT id, flow_id, attempt, action, address, token, amount, chain_id, tx_hash, status, error_message, created_at, updated_at
        FROM transactions
        WHERE lower(address) = lower($1)
        ORDER BY created_at DESC, id DESC
        LIMIT $2
    `
	if err := r.db.Select(&records, query, address, limit); err != nil {
		return nil, errors.Wrapf(err, "list transactions of %s", address)
	}
	return records, nil
}
