// Package balance answers whether a connected wallet can afford an action
// before anything is sent to the chain. The chain stays the authority.
package balance

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"nexushub_back/models"
	"nexushub_back/pkg/amount"
	"nexushub_back/pkg/metrics"
	"nexushub_back/pkg/notify"
)

const (
	MsgConnectWallet = "Please connect your wallet before continuing."
	MsgNotLoaded     = "Balance is not loaded yet, please try again shortly."
	MsgInvalidAmount = "Invalid amount format, please check your input."
)

// Lookup is the synchronous read side of a balance provider.
type Lookup interface {
	Balance(address, token string) (models.BalanceSnapshot, bool)
}

// Options selects the token to check. An empty TokenAddress checks the
// native currency.
type Options struct {
	TokenAddress string
	TokenSymbol  string
}

type Gate struct {
	balances Lookup
	notifier notify.Notifier
}

func NewGate(balances Lookup, notifier notify.Notifier) *Gate {
	return &Gate{balances: balances, notifier: notifier}
}

// CheckBalance reports whether wallet holds at least required of the token.
// Every false result emits exactly one error notification.
func (g *Gate) CheckBalance(wallet models.WalletState, opts Options, required amount.Requirement) bool {
	if !wallet.Connected() {
		return g.reject(metrics.CheckDisconnected, MsgConnectWallet)
	}

	isToken := opts.TokenAddress != ""
	snap, ok := g.balances.Balance(wallet.Address, opts.TokenAddress)
	if !ok || snap.Value == nil {
		return g.reject(metrics.CheckNotLoaded, MsgNotLoaded)
	}

	symbol := opts.TokenSymbol
	if symbol == "" {
		symbol = snap.Symbol
	}
	if symbol == "" {
		symbol = "ETH"
		if isToken {
			symbol = "token"
		}
	}

	want, err := required.ToBaseUnits(snap.Decimals)
	if err != nil {
		logrus.WithField("amount", required.String()).Debug(err)
		return g.reject(metrics.CheckInvalidAmount, MsgInvalidAmount)
	}

	if want.Cmp(snap.Value) <= 0 {
		metrics.BalanceChecksTotal.WithLabelValues(metrics.CheckPassed).Inc()
		return true
	}

	return g.reject(metrics.CheckInsufficient, fmt.Sprintf(
		"Insufficient %s balance: need %s %s, available %s %s",
		symbol,
		amount.FormatUnits(want, snap.Decimals), symbol,
		amount.FormatUnits(snap.Value, snap.Decimals), symbol,
	))
}

func (g *Gate) reject(result, message string) bool {
	metrics.BalanceChecksTotal.WithLabelValues(result).Inc()
	g.notifier.Error(notify.Options{Message: message})
	return false
}
