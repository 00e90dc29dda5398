package models

type StepState string

const (
	StepDone    StepState = "done"
	StepActive  StepState = "active"
	StepWaiting StepState = "waiting"
)

type ModalStep struct {
	Status TxStatus  `json:"status"`
	Label  string    `json:"label"`
	State  StepState `json:"state"`
}

type ModalTransaction struct {
	ID          string `json:"id"`
	Short       string `json:"short"`
	ExplorerURL string `json:"explorer_url,omitempty"`
}

// ModalView is the render output of the transaction progress modal.
type ModalView struct {
	Open           bool              `json:"open"`
	Status         TxStatus          `json:"status"`
	Title          string            `json:"title"`
	Icon           string            `json:"icon"`
	Subtitle       string            `json:"subtitle"`
	Steps          []ModalStep       `json:"steps"`
	ErrorBlock     string            `json:"error_block,omitempty"`
	ShowError      bool              `json:"show_error"`
	Transaction    *ModalTransaction `json:"transaction,omitempty"`
	ShowClose      bool              `json:"show_close"`
	ShowCompletion bool              `json:"show_completion"`
}

// TxView is a flow's modal plus the identifiers callers need to drive it.
type TxView struct {
	FlowID  string    `json:"flow_id"`
	Attempt int       `json:"attempt"`
	Modal   ModalView `json:"modal"`
}
