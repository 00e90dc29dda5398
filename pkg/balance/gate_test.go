package balance

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexushub_back/models"
	"nexushub_back/pkg/amount"
	"nexushub_back/pkg/notify"
)

const addr = "0x00000000000000000000000000000000000000aa"

type countingLookup struct {
	snaps map[string]models.BalanceSnapshot
	calls int
}

func (l *countingLookup) Balance(address, token string) (models.BalanceSnapshot, bool) {
	l.calls++
	s, ok := l.snaps[token]
	return s, ok
}

func ether(s string) *big.Int {
	v, err := amount.ParseUnits(s, 18)
	if err != nil {
		panic(err)
	}
	return v
}

func newGate(snaps map[string]models.BalanceSnapshot) (*Gate, *notify.Queue, *countingLookup) {
	q := notify.NewQueue()
	lookup := &countingLookup{snaps: snaps}
	return NewGate(lookup, notify.NewToaster(q, 0)), q, lookup
}

var connected = models.WalletState{Address: addr, IsConnected: true}

func fiveEth() map[string]models.BalanceSnapshot {
	return map[string]models.BalanceSnapshot{
		models.NativeToken: {Address: addr, Value: ether("5"), Decimals: 18, Symbol: "ETH"},
	}
}

func TestCheckBalanceExactAmountPasses(t *testing.T) {
	g, q, _ := newGate(fiveEth())
	defer q.ClearAll()

	assert.True(t, g.CheckBalance(connected, Options{}, amount.FromString("5")))
	assert.Empty(t, q.List())
}

func TestCheckBalanceBelowPasses(t *testing.T) {
	g, q, _ := newGate(fiveEth())
	defer q.ClearAll()

	assert.True(t, g.CheckBalance(connected, Options{}, amount.FromFloat(0.01)))
	assert.True(t, g.CheckBalance(connected, Options{}, amount.FromBaseUnits(ether("5"))))
	assert.Empty(t, q.List())
}

func TestCheckBalanceInsufficient(t *testing.T) {
	g, q, _ := newGate(fiveEth())
	defer q.ClearAll()

	assert.False(t, g.CheckBalance(connected, Options{}, amount.FromString("5.0001")))

	list := q.List()
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationError, list[0].Type)
	assert.Contains(t, list[0].Message, "5.0001")
	assert.Contains(t, list[0].Message, "available 5 ETH")
}

func TestCheckBalanceDisconnectedSkipsLookup(t *testing.T) {
	g, q, lookup := newGate(fiveEth())
	defer q.ClearAll()

	assert.False(t, g.CheckBalance(models.WalletState{}, Options{}, amount.FromString("1")))
	assert.False(t, g.CheckBalance(models.WalletState{Address: addr}, Options{}, amount.FromString("1")))

	list := q.List()
	require.Len(t, list, 2)
	assert.Equal(t, MsgConnectWallet, list[0].Message)
	assert.Equal(t, 0, lookup.calls)
}

func TestCheckBalanceNotLoaded(t *testing.T) {
	g, q, _ := newGate(nil)
	defer q.ClearAll()

	assert.False(t, g.CheckBalance(connected, Options{}, amount.FromString("1")))
	list := q.List()
	require.Len(t, list, 1)
	assert.Equal(t, MsgNotLoaded, list[0].Message)
}

func TestCheckBalanceInvalidAmount(t *testing.T) {
	g, q, _ := newGate(fiveEth())
	defer q.ClearAll()

	for _, in := range []string{"abc", "", "-1", "0.0000000000000000001"} {
		assert.False(t, g.CheckBalance(connected, Options{}, amount.FromString(in)), in)
	}
	list := q.List()
	require.Len(t, list, 4)
	for _, n := range list {
		assert.Equal(t, models.NotificationError, n.Type)
		assert.Equal(t, MsgInvalidAmount, n.Message)
	}
}

func TestCheckBalanceTokenSymbolFallbacks(t *testing.T) {
	usdt := "0x00000000000000000000000000000000000000bb"
	g, q, _ := newGate(map[string]models.BalanceSnapshot{
		usdt: {Address: addr, Token: usdt, Value: big.NewInt(1_000_000), Decimals: 6},
	})
	defer q.ClearAll()

	assert.True(t, g.CheckBalance(connected, Options{TokenAddress: usdt}, amount.FromString("1")))
	assert.False(t, g.CheckBalance(connected, Options{TokenAddress: usdt}, amount.FromString("1.5")))
	assert.False(t, g.CheckBalance(connected, Options{TokenAddress: usdt, TokenSymbol: "USDT"}, amount.FromString("2")))

	list := q.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Insufficient token balance: need 1.5 token, available 1 token", list[0].Message)
	assert.Equal(t, "Insufficient USDT balance: need 2 USDT, available 1 USDT", list[1].Message)
}
