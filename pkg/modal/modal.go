// Package modal renders the transaction progress modal as a view model.
// Rendering is a pure function of Props; closing is left to the caller.
package modal

import (
	"nexushub_back/models"
	"nexushub_back/pkg/chain"
)

const ErrorFallback = "Transaction failed, please retry"

type Props struct {
	Open          bool
	Status        models.TxStatus
	StatusMessage string
	ErrorMessage  string
	TransactionID string
	ChainID       int64
	// Closable is true when the caller handles close requests.
	Closable bool
}

type style struct {
	title string
	icon  string
}

var styles = map[models.TxStatus]style{
	models.TxIdle:       {title: "Waiting to start", icon: "hourglass_empty"},
	models.TxPending:    {title: "Awaiting signature", icon: "fingerprint"},
	models.TxConfirming: {title: "Confirming", icon: "hourglass_top"},
	models.TxSuccess:    {title: "Transaction successful", icon: "check_circle"},
	models.TxError:      {title: "Transaction failed", icon: "error"},
}

var steps = []struct {
	status models.TxStatus
	label  string
}{
	{models.TxPending, "Awaiting signature"},
	{models.TxConfirming, "Confirming"},
	{models.TxSuccess, "Success"},
}

func Render(p Props) models.ModalView {
	st, ok := styles[p.Status]
	if !ok {
		st = styles[models.TxIdle]
	}

	view := models.ModalView{
		Open:           p.Open,
		Status:         p.Status,
		Title:          st.title,
		Icon:           st.icon,
		Subtitle:       p.StatusMessage,
		ShowClose:      p.Closable,
		ShowCompletion: p.Status == models.TxSuccess && p.Closable,
	}
	if view.Subtitle == "" {
		view.Subtitle = st.title
	}

	current := -1
	for i, s := range steps {
		if s.status == p.Status {
			current = i
		}
	}
	for i, s := range steps {
		state := models.StepWaiting
		switch {
		case current > i:
			state = models.StepDone
		case current == i:
			state = models.StepActive
		}
		view.Steps = append(view.Steps, models.ModalStep{Status: s.status, Label: s.label, State: state})
	}

	if p.Status == models.TxError {
		view.ShowError = true
		view.ErrorBlock = p.ErrorMessage
		if view.ErrorBlock == "" {
			view.ErrorBlock = ErrorFallback
		}
	}

	if p.TransactionID != "" {
		view.Transaction = &models.ModalTransaction{
			ID:          p.TransactionID,
			Short:       chain.ShortHash(p.TransactionID),
			ExplorerURL: chain.ExplorerTxURL(p.ChainID, p.TransactionID),
		}
	}

	return view
}
