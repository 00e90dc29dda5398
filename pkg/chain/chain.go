// Package chain talks to EVM nodes on behalf of the balance provider, the
// confirmation watch and the real transaction submitter.
package chain

import (
	"context"

	"github.com/pkg/errors"

	"nexushub_back/models"
)

const (
	KindEVM  = "evm"
	KindTron = "tron"
)

var ErrUnsupportedChain = errors.New("unsupported chain kind")

// Fetcher loads a fresh balance for address. An empty token means the
// native currency.
type Fetcher interface {
	FetchBalance(ctx context.Context, address, token string) (models.BalanceSnapshot, error)
}

// Watcher follows a submitted transaction until it settles or ctx is done,
// reporting every observation to report.
type Watcher interface {
	Watch(ctx context.Context, hash string, report func(models.WatchResult))
}
