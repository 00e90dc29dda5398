package balance

import (
	"context"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexushub_back/models"
)

type stubFetcher struct {
	calls int32
	err   error
}

func (f *stubFetcher) FetchBalance(ctx context.Context, address, token string) (models.BalanceSnapshot, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return models.BalanceSnapshot{}, f.err
	}
	return models.BalanceSnapshot{Address: address, Token: token, Value: big.NewInt(42), Decimals: 18, Symbol: "ETH"}, nil
}

func TestProviderRefreshThenLookup(t *testing.T) {
	p := NewProvider(&stubFetcher{}, time.Second, 0)

	_, ok := p.Balance(addr, models.NativeToken)
	assert.False(t, ok)

	_, err := p.Refresh(context.Background(), addr, models.NativeToken)
	require.NoError(t, err)

	// lookups are case insensitive on addresses
	snap, ok := p.Balance("0x00000000000000000000000000000000000000AA", models.NativeToken)
	require.True(t, ok)
	assert.Equal(t, int64(42), snap.Value.Int64())
}

func TestProviderRefreshErrorKeepsOldSnapshot(t *testing.T) {
	f := &stubFetcher{}
	p := NewProvider(f, time.Second, 0)
	_, err := p.Refresh(context.Background(), addr, models.NativeToken)
	require.NoError(t, err)

	f.err = errors.New("rpc down")
	_, err = p.Refresh(context.Background(), addr, models.NativeToken)
	assert.Error(t, err)

	_, ok := p.Balance(addr, models.NativeToken)
	assert.True(t, ok)
}

func TestProviderRefreshAsync(t *testing.T) {
	f := &stubFetcher{}
	p := NewProvider(f, time.Second, 0)
	p.RefreshAsync(addr, models.NativeToken)

	assert.Eventually(t, func() bool {
		_, ok := p.Balance(addr, models.NativeToken)
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestProviderEnsureLoadsOnce(t *testing.T) {
	f := &stubFetcher{}
	p := NewProvider(f, time.Second, 0)

	assert.True(t, p.Ensure(addr, models.NativeToken))
	assert.Eventually(t, func() bool {
		_, ok := p.Balance(addr, models.NativeToken)
		return ok
	}, time.Second, 5*time.Millisecond)

	assert.False(t, p.Ensure(addr, models.NativeToken))
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.calls))
}

func TestProviderInvalidate(t *testing.T) {
	p := NewProvider(&stubFetcher{}, time.Second, 0)
	_, err := p.Refresh(context.Background(), addr, models.NativeToken)
	require.NoError(t, err)

	p.Invalidate("0x00000000000000000000000000000000000000AA", models.NativeToken)
	_, ok := p.Balance(addr, models.NativeToken)
	assert.False(t, ok)
}

func TestProviderSnapshotExpires(t *testing.T) {
	p := NewProvider(&stubFetcher{}, time.Second, 20*time.Millisecond)
	_, err := p.Refresh(context.Background(), addr, models.NativeToken)
	require.NoError(t, err)

	_, ok := p.Balance(addr, models.NativeToken)
	assert.True(t, ok)
	assert.Eventually(t, func() bool {
		_, ok := p.Balance(addr, models.NativeToken)
		return !ok
	}, time.Second, 5*time.Millisecond)
}
