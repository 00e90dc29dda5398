package service

import (
	"context"

	"nexushub_back/models"
	"nexushub_back/pkg/balance"
	"nexushub_back/pkg/mailer"
	"nexushub_back/pkg/notify"
	"nexushub_back/pkg/pricefeed"
	"nexushub_back/pkg/repository"
	"nexushub_back/pkg/submitter"
)

type Notifications interface {
	List() []models.Notification
	Remove(id string)
	ClearAll()
}

type Wallet interface {
	Balance(ctx context.Context, address, token string) (models.BalanceResponse, error)
	CheckBalance(wallet models.WalletState, in models.CheckBalanceInput) bool
}

type Transactions interface {
	Begin(wallet models.WalletState, req models.TxRequest) (models.TxView, bool)
	View(id string) (models.TxView, error)
	Close(id string) error
	Retry(id string) (models.TxView, error)
	History(address string, limit int) ([]models.TransactionRecord, error)
	CloseAll()
}

type Service struct {
	Notifications
	Wallet
	Transactions
}

// Deps are the long-lived components built in main.
type Deps struct {
	Queue     *notify.Queue
	Notifier  notify.Notifier
	Balances  *balance.Provider
	Submitter submitter.Submitter
	Prices    pricefeed.Quoter
	Mailer    mailer.Sender
	Currency  string
	ChainID   int64
}

func NewService(repos *repository.Repository, deps Deps) *Service {
	gate := balance.NewGate(deps.Balances, deps.Notifier)
	payer, _ := deps.Submitter.(submitter.Payer)
	return &Service{
		Notifications: deps.Queue,
		Wallet:        NewWalletService(deps.Balances, gate, payer, deps.Prices, deps.Currency),
		Transactions:  NewTransactionService(repos.Transaction, deps.Balances, gate, deps.Submitter, deps.Notifier, deps.Mailer, deps.ChainID),
	}
}

// fundingWallet is the account a transaction is paid from: the submitter's
// own account when it has one, otherwise the connected wallet. A
// disconnected wallet stays disconnected.
func fundingWallet(payer submitter.Payer, wallet models.WalletState) models.WalletState {
	if payer == nil || !wallet.Connected() {
		return wallet
	}
	return models.WalletState{Address: payer.Payer(), IsConnected: true}
}
