package models

import (
	"math/big"
	"time"

	"nexushub_back/pkg/amount"
)

// NativeToken is the token key used for the chain's native currency.
const NativeToken = ""

// BalanceSnapshot is the last known balance of one (address, token) pair.
// Value is expressed in the token's smallest unit.
type BalanceSnapshot struct {
	Address   string    `json:"address"`
	Token     string    `json:"token"`
	Value     *big.Int  `json:"value"`
	Decimals  uint8     `json:"decimals"`
	Symbol    string    `json:"symbol"`
	FetchedAt time.Time `json:"fetched_at"`
}

type BalanceResponse struct {
	Snapshot  BalanceSnapshot `json:"snapshot"`
	Formatted string          `json:"formatted"`
	Fiat      string          `json:"fiat,omitempty"`
	FiatValue string          `json:"fiat_value,omitempty"`
}

type CheckBalanceInput struct {
	Amount       amount.Requirement `json:"amount"`
	TokenAddress string             `json:"token_address"`
	TokenSymbol  string             `json:"token_symbol"`
}
