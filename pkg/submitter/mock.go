package submitter

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"nexushub_back/models"
)

const (
	DefaultSignDelay    = 900 * time.Millisecond
	DefaultConfirmDelay = 2200 * time.Millisecond
)

// Mock stands in for a wallet and a chain: after SignDelay it assigns a
// random hash, after ConfirmDelay it settles the transaction.
type Mock struct {
	SignDelay    time.Duration
	ConfirmDelay time.Duration
}

func NewMock(signDelay, confirmDelay time.Duration) *Mock {
	if signDelay <= 0 {
		signDelay = DefaultSignDelay
	}
	if confirmDelay <= signDelay {
		confirmDelay = signDelay + (DefaultConfirmDelay - DefaultSignDelay)
	}
	return &Mock{SignDelay: signDelay, ConfirmDelay: confirmDelay}
}

func (m *Mock) Submit(ctx context.Context, req models.TxRequest, sig Signals) error {
	hash := randomHash()
	sig.AwaitingSignature()

	guard := func(f func()) func() {
		return func() {
			if ctx.Err() != nil {
				return
			}
			f()
		}
	}

	var mu sync.Mutex
	var timers []*time.Timer
	stop := context.AfterFunc(ctx, func() {
		mu.Lock()
		defer mu.Unlock()
		for _, t := range timers {
			t.Stop()
		}
		logrus.WithField("hash", hash).Debug("mock submission cancelled")
	})

	mu.Lock()
	defer mu.Unlock()
	timers = append(timers,
		time.AfterFunc(m.SignDelay, guard(func() {
			sig.Submitted(hash)
			sig.Watched(hash, models.WatchResult{IsLoading: true})
		})),
		time.AfterFunc(m.ConfirmDelay, guard(func() {
			if req.FailWith != "" {
				sig.Watched(hash, models.WatchResult{IsError: true, Error: req.FailWith})
			} else {
				sig.Watched(hash, models.WatchResult{IsSuccess: true})
			}
			stop()
		})),
	)

	return nil
}

func randomHash() string {
	var b [32]byte
	_, _ = rand.Read(b[:])
	return common.BytesToHash(b[:]).Hex()
}
