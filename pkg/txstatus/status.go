// Package txstatus derives the lifecycle status of a transaction from the
// signals reported by the wallet and the confirmation watch.
package txstatus

import "nexushub_back/models"

const FallbackError = "transaction execution failed"

var statusText = map[models.TxStatus]string{
	models.TxIdle:       "Waiting to start transaction",
	models.TxPending:    "Waiting for wallet signature",
	models.TxConfirming: "Confirming transaction",
	models.TxSuccess:    "Transaction confirmed",
	models.TxError:      "Transaction failed",
}

// Inputs are the three raw signals the status is derived from.
type Inputs struct {
	AwaitingSignature bool
	TransactionID     string
	Watch             models.WatchResult
}

// Derive applies, in order: signature request, missing id, watch error,
// watch success, otherwise confirming. The returned error message is only
// set for TxError.
func Derive(in Inputs) (models.TxStatus, string) {
	switch {
	case in.AwaitingSignature:
		return models.TxPending, ""
	case in.TransactionID == "":
		return models.TxIdle, ""
	case in.Watch.IsError:
		if in.Watch.Error == "" {
			return models.TxError, FallbackError
		}
		return models.TxError, in.Watch.Error
	case in.Watch.IsSuccess:
		return models.TxSuccess, ""
	default:
		return models.TxConfirming, ""
	}
}

func Message(status models.TxStatus, errorMessage string) string {
	text, ok := statusText[status]
	if !ok {
		text = statusText[models.TxIdle]
	}
	if status == models.TxError && errorMessage != "" {
		return text + ": " + errorMessage
	}
	return text
}
