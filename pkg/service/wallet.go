package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"nexushub_back/models"
	"nexushub_back/pkg/amount"
	"nexushub_back/pkg/balance"
	"nexushub_back/pkg/pricefeed"
	"nexushub_back/pkg/submitter"
)

type WalletService struct {
	balances *balance.Provider
	gate     *balance.Gate
	payer    submitter.Payer
	prices   pricefeed.Quoter
	currency string
}

func NewWalletService(balances *balance.Provider, gate *balance.Gate, payer submitter.Payer,
	prices pricefeed.Quoter, currency string) *WalletService {
	if currency == "" {
		currency = "usd"
	}
	return &WalletService{
		balances: balances,
		gate:     gate,
		payer:    payer,
		prices:   prices,
		currency: currency,
	}
}

// Balance refreshes the snapshot and values it in the configured fiat
// currency. A failed quote only drops the fiat value.
func (s *WalletService) Balance(ctx context.Context, address, token string) (models.BalanceResponse, error) {
	snap, err := s.balances.Refresh(ctx, address, token)
	if err != nil {
		return models.BalanceResponse{}, err
	}

	resp := models.BalanceResponse{
		Snapshot:  snap,
		Formatted: amount.FormatUnits(snap.Value, snap.Decimals),
	}
	if s.prices == nil || snap.Symbol == "" {
		return resp, nil
	}

	rate, err := s.prices.Price(ctx, snap.Symbol, s.currency)
	if err != nil {
		logrus.WithField("symbol", snap.Symbol).Warnf("fiat quote: %s", err)
		return resp, nil
	}
	value := decimal.NewFromBigInt(snap.Value, -int32(snap.Decimals)).Mul(rate)
	resp.Fiat = strings.ToUpper(s.currency)
	resp.FiatValue = value.StringFixed(2)
	return resp, nil
}

// CheckBalance runs the balance gate against the paying account. A missing
// snapshot starts a background load so a later check can pass.
func (s *WalletService) CheckBalance(wallet models.WalletState, in models.CheckBalanceInput) bool {
	payer := fundingWallet(s.payer, wallet)
	ok := s.gate.CheckBalance(payer, balance.Options{
		TokenAddress: in.TokenAddress,
		TokenSymbol:  in.TokenSymbol,
	}, in.Amount)

	if payer.Connected() {
		s.balances.Ensure(payer.Address, in.TokenAddress)
	}
	return ok
}
