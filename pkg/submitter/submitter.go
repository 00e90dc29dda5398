// Package submitter issues transactions and reports their progress as the
// raw signals the status tracker consumes.
package submitter

import (
	"context"

	"nexushub_back/models"
)

const (
	ModeMock = "mock"
	ModeEVM  = "evm"
)

// Signals receives the lifecycle inputs of one submission attempt.
type Signals interface {
	// AwaitingSignature reports that the wallet was asked to sign.
	AwaitingSignature()
	// Submitted reports the signed transaction id. It ends the signature wait.
	Submitted(hash string)
	Watched(hash string, res models.WatchResult)
	// Rejected reports a failure before any transaction id exists, for
	// example a refused signature or a failed broadcast. It ends the
	// signature wait.
	Rejected(err error)
}

// Payer is implemented by submitters that spend from their own account
// instead of the connected wallet.
type Payer interface {
	Payer() string
}

// Submitter starts a submission and returns without waiting for it.
// Cancelling ctx stops all further signals.
type Submitter interface {
	Submit(ctx context.Context, req models.TxRequest, sig Signals) error
}
