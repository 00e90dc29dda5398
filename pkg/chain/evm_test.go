package chain

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexushub_back/models"
)

const (
	owner = "0x00000000000000000000000000000000000000aa"
	token = "0x00000000000000000000000000000000000000bb"
)

type fakeReader struct {
	mu       sync.Mutex
	balance  *big.Int
	calls    map[string][]byte
	receipts []*types.Receipt
	errs     []error
}

func (f *fakeReader) BalanceAt(ctx context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	return f.balance, nil
}

func (f *fakeReader) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	method, err := ERC20.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	out, ok := f.calls[method.Name]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return out, nil
}

func (f *fakeReader) TransactionReceipt(ctx context.Context, _ common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	r := f.receipts[0]
	return r, nil
}

func packOutput(t *testing.T, method string, v interface{}) []byte {
	out, err := ERC20.Methods[method].Outputs.Pack(v)
	require.NoError(t, err)
	return out
}

func TestFetchNativeBalance(t *testing.T) {
	reader := &fakeReader{balance: big.NewInt(5)}
	c := NewEVMClient(reader, Polygon, time.Millisecond)

	snap, err := c.FetchBalance(context.Background(), owner, models.NativeToken)
	require.NoError(t, err)
	assert.Equal(t, "5", snap.Value.String())
	assert.Equal(t, "POL", snap.Symbol)
	assert.Equal(t, uint8(18), snap.Decimals)
}

func TestFetchTokenBalance(t *testing.T) {
	reader := &fakeReader{calls: map[string][]byte{
		"balanceOf": packOutput(t, "balanceOf", big.NewInt(2_500_000)),
		"decimals":  packOutput(t, "decimals", uint8(6)),
		"symbol":    packOutput(t, "symbol", "USDT"),
	}}
	c := NewEVMClient(reader, Mainnet, time.Millisecond)

	snap, err := c.FetchBalance(context.Background(), owner, token)
	require.NoError(t, err)
	assert.Equal(t, "2500000", snap.Value.String())
	assert.Equal(t, uint8(6), snap.Decimals)
	assert.Equal(t, "USDT", snap.Symbol)
	assert.Equal(t, token, snap.Token)
}

func TestFetchBalanceRejectsBadAddress(t *testing.T) {
	c := NewEVMClient(&fakeReader{}, Mainnet, time.Millisecond)
	_, err := c.FetchBalance(context.Background(), "not-an-address", models.NativeToken)
	assert.Error(t, err)
}

func TestWatchReportsLoadingThenSuccess(t *testing.T) {
	reader := &fakeReader{
		errs:     []error{ethereum.NotFound, ethereum.NotFound},
		receipts: []*types.Receipt{{Status: types.ReceiptStatusSuccessful}},
	}
	c := NewEVMClient(reader, Mainnet, time.Millisecond)

	var got []models.WatchResult
	c.Watch(context.Background(), "0xabc", func(r models.WatchResult) { got = append(got, r) })

	require.Len(t, got, 3)
	assert.True(t, got[0].IsLoading)
	assert.True(t, got[1].IsLoading)
	assert.True(t, got[2].IsSuccess)
}

func TestWatchReportsRevert(t *testing.T) {
	reader := &fakeReader{receipts: []*types.Receipt{{Status: types.ReceiptStatusFailed}}}
	c := NewEVMClient(reader, Mainnet, time.Millisecond)

	var last models.WatchResult
	c.Watch(context.Background(), "0xabc", func(r models.WatchResult) { last = r })
	assert.True(t, last.IsError)
	assert.Contains(t, last.Error, "reverted")
}

func TestWatchStopsOnCancel(t *testing.T) {
	reader := &fakeReader{errs: make([]error, 1000)}
	for i := range reader.errs {
		reader.errs[i] = ethereum.NotFound
	}
	c := NewEVMClient(reader, Mainnet, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Watch(ctx, "0xabc", func(models.WatchResult) {})
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}
