package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"nexushub_back/models"
	"nexushub_back/pkg/balance"
	"nexushub_back/pkg/chain"
	"nexushub_back/pkg/mailer"
	"nexushub_back/pkg/metrics"
	"nexushub_back/pkg/modal"
	"nexushub_back/pkg/notify"
	"nexushub_back/pkg/repository"
	"nexushub_back/pkg/submitter"
	"nexushub_back/pkg/txstatus"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

var (
	ErrFlowNotFound = errors.New("transaction flow not found")
	ErrNotRetryable = errors.New("transaction can only be retried after a failure")
)

// flow is one modal session. Each submission inside it is an attempt;
// signals carry the attempt number so a superseded attempt stays silent.
type flow struct {
	id       string
	req      models.TxRequest
	wallet   models.WalletState
	payer    string
	chainID  int64
	tracker  *txstatus.Tracker
	attempt  int
	recordID int64
	open     bool
	rejected bool
	cancel   context.CancelFunc
}

type TransactionService struct {
	mu        sync.Mutex
	flows     map[string]*flow
	repo      repository.Transaction
	balances  *balance.Provider
	gate      *balance.Gate
	submitter submitter.Submitter
	payer     submitter.Payer
	notifier  notify.Notifier
	mailer    mailer.Sender
	chainID   int64
}

func NewTransactionService(repo repository.Transaction, balances *balance.Provider, gate *balance.Gate,
	sub submitter.Submitter, notifier notify.Notifier, mail mailer.Sender, chainID int64) *TransactionService {
	if mail == nil {
		mail = mailer.Nop{}
	}
	payer, _ := sub.(submitter.Payer)
	return &TransactionService{
		flows:     make(map[string]*flow),
		repo:      repo,
		balances:  balances,
		gate:      gate,
		submitter: sub,
		payer:     payer,
		notifier:  notifier,
		mailer:    mail,
		chainID:   chainID,
	}
}

// Begin runs the balance gate against the paying account and, when it
// passes, opens a flow and starts its first attempt. A failed gate has
// already notified the user; a missing balance is loaded in the background
// so a later Begin can pass.
func (s *TransactionService) Begin(wallet models.WalletState, req models.TxRequest) (models.TxView, bool) {
	payer := fundingWallet(s.payer, wallet)
	opts := balance.Options{TokenAddress: req.TokenAddress, TokenSymbol: req.TokenSymbol}
	if !s.gate.CheckBalance(payer, opts, req.Amount) {
		if payer.Connected() {
			s.balances.Ensure(payer.Address, req.TokenAddress)
		}
		return models.TxView{}, false
	}

	if req.ChainID == 0 {
		req.ChainID = s.chainID
	}
	f := &flow{
		id:      uuid.NewString(),
		req:     req,
		wallet:  wallet,
		payer:   payer.Address,
		chainID: req.ChainID,
		tracker: txstatus.NewTracker(),
		open:    true,
	}

	s.mu.Lock()
	s.flows[f.id] = f
	ctx, attempt := s.startLocked(f)
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{"flow": f.id, "action": req.Action, "address": wallet.Address}).Info("transaction flow opened")
	s.submit(ctx, f, attempt)

	view, _ := s.View(f.id)
	return view, true
}

// View renders the modal of a flow. Settled flows stay viewable until closed.
func (s *TransactionService) View(id string) (models.TxView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[id]
	if !ok {
		return models.TxView{}, ErrFlowNotFound
	}
	return render(f), nil
}

// Close dismisses the modal and cancels anything still in flight.
func (s *TransactionService) Close(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[id]
	if !ok {
		return ErrFlowNotFound
	}
	f.cancel()
	delete(s.flows, id)
	logrus.WithField("flow", id).Info("transaction flow closed")
	return nil
}

// Retry starts a new attempt of a failed flow. The balance is not checked
// again.
func (s *TransactionService) Retry(id string) (models.TxView, error) {
	s.mu.Lock()
	f, ok := s.flows[id]
	if !ok {
		s.mu.Unlock()
		return models.TxView{}, ErrFlowNotFound
	}
	if f.tracker.Snapshot().Status != models.TxError && !f.rejected {
		s.mu.Unlock()
		return models.TxView{}, ErrNotRetryable
	}
	ctx, attempt := s.startLocked(f)
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{"flow": id, "attempt": attempt}).Info("transaction retried")
	s.submit(ctx, f, attempt)
	return s.View(id)
}

func (s *TransactionService) History(address string, limit int) ([]models.TransactionRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.repo.ListByAddress(address, limit)
}

// CloseAll cancels every flow, used on shutdown.
func (s *TransactionService) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, f := range s.flows {
		f.cancel()
		delete(s.flows, id)
	}
}

// startLocked cancels the previous attempt and resets the tracker for a new one.
func (s *TransactionService) startLocked(f *flow) (context.Context, int) {
	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.attempt++
	f.open = true
	f.rejected = false
	f.recordID = 0

	snap := f.tracker.Restart()
	id, err := s.repo.Create(models.TransactionRecord{
		FlowID:  f.id,
		Attempt: f.attempt,
		Action:  f.req.Action,
		Address: f.wallet.Address,
		Token:   f.req.TokenAddress,
		Amount:  f.req.Amount.String(),
		ChainID: f.chainID,
		Status:  snap.Status,
	})
	if err != nil {
		logrus.WithField("flow", f.id).Errorf("persist attempt: %s", err)
	} else {
		f.recordID = id
	}
	metrics.TxStatusTotal.WithLabelValues(string(snap.Status)).Inc()
	return ctx, f.attempt
}

// submit must be called without holding s.mu: submitters may signal
// synchronously.
func (s *TransactionService) submit(ctx context.Context, f *flow, attempt int) {
	sig := &attemptSignals{s: s, flowID: f.id, attempt: attempt}
	if err := s.submitter.Submit(ctx, f.req, sig); err != nil {
		sig.Rejected(err)
	}
}

// apply runs step against the tracker of a live attempt and reacts to the
// resulting status change.
func (s *TransactionService) apply(flowID string, attempt int, step func(t *txstatus.Tracker) (txstatus.Snapshot, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[flowID]
	if !ok || f.attempt != attempt || !f.open {
		logrus.WithFields(logrus.Fields{"flow": flowID, "attempt": attempt}).Debug("stale transaction signal dropped")
		return
	}

	prev := f.tracker.Snapshot()
	snap, applied := step(f.tracker)
	if !applied || snap == prev {
		return
	}
	s.changedLocked(f, snap)
}

func (s *TransactionService) changedLocked(f *flow, snap txstatus.Snapshot) {
	log := logrus.WithFields(logrus.Fields{
		"flow":    f.id,
		"attempt": f.attempt,
		"status":  snap.Status,
		"hash":    snap.TransactionID,
	})
	log.Info(snap.Message)
	metrics.TxStatusTotal.WithLabelValues(string(snap.Status)).Inc()

	if f.recordID != 0 {
		if err := s.repo.UpdateStatus(f.recordID, snap.Status, snap.TransactionID, snap.ErrorMessage); err != nil {
			log.Errorf("persist status: %s", err)
		}
	}

	if snap.Status.Terminal() {
		f.cancel()
	}

	switch snap.Status {
	case models.TxSuccess:
		s.notifier.Success(notify.Options{Title: "Transaction confirmed", Message: f.req.Action})
		f.open = false
		s.balances.Invalidate(f.payer, f.req.TokenAddress)
		s.balances.RefreshAsync(f.payer, f.req.TokenAddress)
		s.sendReceipt(f, snap)
	case models.TxError:
		s.notifier.Error(notify.Options{Title: "Transaction failed", Message: snap.ErrorMessage})
	}
}

func (s *TransactionService) rejectedLocked(f *flow, err error) {
	f.rejected = true
	s.notifier.Error(notify.Options{Title: "Transaction not sent", Message: err.Error()})
	if f.recordID != 0 {
		if uerr := s.repo.UpdateStatus(f.recordID, models.TxIdle, "", err.Error()); uerr != nil {
			logrus.WithField("flow", f.id).Errorf("persist rejection: %s", uerr)
		}
	}
	logrus.WithFields(logrus.Fields{"flow": f.id, "attempt": f.attempt}).Warnf("transaction rejected: %s", err)
}

func (s *TransactionService) sendReceipt(f *flow, snap txstatus.Snapshot) {
	r := mailer.Receipt{
		FlowID:      f.id,
		Action:      f.req.Action,
		Address:     f.wallet.Address,
		Amount:      f.req.Amount.String(),
		Symbol:      f.req.TokenSymbol,
		TxHash:      snap.TransactionID,
		ExplorerURL: chain.ExplorerTxURL(f.chainID, snap.TransactionID),
	}
	go func() {
		if err := s.mailer.SendReceipt(r); err != nil {
			logrus.WithField("flow", r.FlowID).Warn(err)
		}
	}()
}

func render(f *flow) models.TxView {
	snap := f.tracker.Snapshot()
	return models.TxView{
		FlowID:  f.id,
		Attempt: f.attempt,
		Modal: modal.Render(modal.Props{
			Open:          f.open,
			Status:        snap.Status,
			StatusMessage: snap.Message,
			ErrorMessage:  snap.ErrorMessage,
			TransactionID: snap.TransactionID,
			ChainID:       f.chainID,
			Closable:      true,
		}),
	}
}

// attemptSignals routes submitter signals to one attempt of one flow.
type attemptSignals struct {
	s       *TransactionService
	flowID  string
	attempt int
}

func (a *attemptSignals) AwaitingSignature() {
	a.s.apply(a.flowID, a.attempt, func(t *txstatus.Tracker) (txstatus.Snapshot, bool) {
		return t.SetAwaitingSignature(true), true
	})
}

func (a *attemptSignals) Submitted(hash string) {
	a.s.apply(a.flowID, a.attempt, func(t *txstatus.Tracker) (txstatus.Snapshot, bool) {
		t.SetTransactionID(hash)
		return t.SetAwaitingSignature(false), true
	})
}

func (a *attemptSignals) Watched(hash string, res models.WatchResult) {
	a.s.apply(a.flowID, a.attempt, func(t *txstatus.Tracker) (txstatus.Snapshot, bool) {
		return t.ObserveWatch(hash, res)
	})
}

func (a *attemptSignals) Rejected(err error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[a.flowID]
	if !ok || f.attempt != a.attempt || !f.open {
		return
	}
	f.tracker.SetAwaitingSignature(false)
	metrics.TxStatusTotal.WithLabelValues(string(models.TxIdle)).Inc()
	s.rejectedLocked(f, err)
}
