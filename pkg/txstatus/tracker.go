package txstatus

import "nexushub_back/models"

type Snapshot struct {
	Status        models.TxStatus
	Message       string
	ErrorMessage  string
	TransactionID string
}

// Tracker keeps the inputs of one transaction flow and re-derives the
// status on every change. Watch results are keyed by transaction id so a
// late result for a previous id cannot leak into the current one.
// Tracker is not safe for concurrent use.
type Tracker struct {
	in     Inputs
	status models.TxStatus
	errMsg string
}

func NewTracker() *Tracker {
	return &Tracker{status: models.TxIdle}
}

func (t *Tracker) SetAwaitingSignature(v bool) Snapshot {
	t.in.AwaitingSignature = v
	return t.derive()
}

// SetTransactionID switches the tracked id. A different id drops the watch
// result collected for the old one.
func (t *Tracker) SetTransactionID(id string) Snapshot {
	if id != t.in.TransactionID {
		t.in.Watch = models.WatchResult{}
	}
	t.in.TransactionID = id
	return t.derive()
}

// ObserveWatch records a confirmation result for id. Results for any other
// id are ignored and reported as not applied.
func (t *Tracker) ObserveWatch(id string, res models.WatchResult) (Snapshot, bool) {
	if id == "" || id != t.in.TransactionID {
		return t.Snapshot(), false
	}
	t.in.Watch = res
	return t.derive(), true
}

// Restart begins a new attempt: awaiting signature, no id, no watch result.
func (t *Tracker) Restart() Snapshot {
	t.in = Inputs{AwaitingSignature: true}
	return t.derive()
}

func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Status:        t.status,
		Message:       Message(t.status, t.errMsg),
		ErrorMessage:  t.errMsg,
		TransactionID: t.in.TransactionID,
	}
}

func (t *Tracker) derive() Snapshot {
	t.status, t.errMsg = Derive(t.in)
	return t.Snapshot()
}
