package balance

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"nexushub_back/models"
	"nexushub_back/pkg/cache"
	"nexushub_back/pkg/chain"
	"nexushub_back/pkg/metrics"
)

// Provider serves the last loaded balance per (address, token) and refreshes
// it from the chain on demand. Snapshots older than ttl count as not loaded;
// a zero ttl keeps them until the next refresh or invalidation.
type Provider struct {
	fetcher   chain.Fetcher
	snapshots *cache.Store[models.BalanceSnapshot]
	timeout   time.Duration
}

func NewProvider(fetcher chain.Fetcher, timeout, ttl time.Duration) *Provider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Provider{
		fetcher:   fetcher,
		snapshots: cache.New[models.BalanceSnapshot](ttl),
		timeout:   timeout,
	}
}

func key(address, token string) string {
	return strings.ToLower(address) + "|" + strings.ToLower(token)
}

// Balance returns the last loaded snapshot without touching the network.
func (p *Provider) Balance(address, token string) (models.BalanceSnapshot, bool) {
	return p.snapshots.Get(key(address, token))
}

func (p *Provider) Refresh(ctx context.Context, address, token string) (models.BalanceSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	snap, err := p.fetcher.FetchBalance(ctx, address, token)
	if err != nil {
		metrics.BalanceFetchErrors.Inc()
		return models.BalanceSnapshot{}, errors.Wrapf(err, "refresh balance %s/%s", address, token)
	}
	p.snapshots.Set(key(address, token), snap)
	return snap, nil
}

// RefreshAsync loads the balance in the background. Failures are logged.
func (p *Provider) RefreshAsync(address, token string) {
	go func() {
		if _, err := p.Refresh(context.Background(), address, token); err != nil {
			logrus.WithFields(logrus.Fields{"address": address, "token": token}).Warn(err)
		}
	}()
}

// Ensure starts a background load when no fresh snapshot exists and reports
// whether one was started.
func (p *Provider) Ensure(address, token string) bool {
	if _, ok := p.Balance(address, token); ok {
		return false
	}
	p.RefreshAsync(address, token)
	return true
}

// Invalidate drops the snapshot. Until the next load the gate reports the
// balance as not loaded.
func (p *Provider) Invalidate(address, token string) {
	p.snapshots.Delete(key(address, token))
}
