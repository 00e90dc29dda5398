package models

import (
	"time"

	"nexushub_back/pkg/amount"
)

type TxStatus string

const (
	TxIdle       TxStatus = "idle"
	TxPending    TxStatus = "pending"
	TxConfirming TxStatus = "confirming"
	TxSuccess    TxStatus = "success"
	TxError      TxStatus = "error"
)

// Terminal reports whether no further transition is expected without a retry.
func (s TxStatus) Terminal() bool {
	return s == TxSuccess || s == TxError
}

// WatchResult is the shape reported by a confirmation watch.
type WatchResult struct {
	IsLoading bool   `json:"is_loading"`
	IsError   bool   `json:"is_error"`
	IsSuccess bool   `json:"is_success"`
	Error     string `json:"error,omitempty"`
}

// TxRequest describes the on-chain action a page asks for.
type TxRequest struct {
	Action       string             `json:"action" binding:"required"`
	Amount       amount.Requirement `json:"amount"`
	TokenAddress string             `json:"token_address"`
	TokenSymbol  string             `json:"token_symbol"`
	To           string             `json:"to"`
	ChainID      int64              `json:"chain_id"`
	// FailWith makes the mock submitter settle with this error. Ignored by real submitters.
	FailWith string `json:"fail_with,omitempty"`
}

type TransactionRecord struct {
	ID        int64     `db:"id" json:"id"`
	FlowID    string    `db:"flow_id" json:"flow_id"`
	Attempt   int       `db:"attempt" json:"attempt"`
	Action    string    `db:"action" json:"action"`
	Address   string    `db:"address" json:"address"`
	Token     string    `db:"token" json:"token"`
	Amount    string    `db:"amount" json:"amount"`
	ChainID   int64     `db:"chain_id" json:"chain_id"`
	TxHash    *string   `db:"tx_hash" json:"tx_hash"` // NULL until the wallet signs
	Status    TxStatus  `db:"status" json:"status"`
	ErrorMsg  *string   `db:"error_message" json:"error_message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
