package txstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nexushub_back/models"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name    string
		in      Inputs
		want    models.TxStatus
		wantErr string
	}{
		{
			name: "signature wins over confirmed id",
			in:   Inputs{AwaitingSignature: true, TransactionID: "0xabc", Watch: models.WatchResult{IsSuccess: true}},
			want: models.TxPending,
		},
		{
			name: "signature wins over error",
			in:   Inputs{AwaitingSignature: true, TransactionID: "0xabc", Watch: models.WatchResult{IsError: true, Error: "x"}},
			want: models.TxPending,
		},
		{
			name: "no id is idle regardless of watch",
			in:   Inputs{Watch: models.WatchResult{IsSuccess: true, IsError: true, Error: "x"}},
			want: models.TxIdle,
		},
		{
			name:    "watch error",
			in:      Inputs{TransactionID: "0xabc", Watch: models.WatchResult{IsError: true, Error: "reverted"}},
			want:    models.TxError,
			wantErr: "reverted",
		},
		{
			name:    "watch error without detail",
			in:      Inputs{TransactionID: "0xabc", Watch: models.WatchResult{IsError: true}},
			want:    models.TxError,
			wantErr: FallbackError,
		},
		{
			name: "watch success",
			in:   Inputs{TransactionID: "0xabc", Watch: models.WatchResult{IsSuccess: true}},
			want: models.TxSuccess,
		},
		{
			name: "still loading",
			in:   Inputs{TransactionID: "0xabc", Watch: models.WatchResult{IsLoading: true}},
			want: models.TxConfirming,
		},
		{
			name: "no watch result yet",
			in:   Inputs{TransactionID: "0xabc"},
			want: models.TxConfirming,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := Derive(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, errMsg)
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Confirming transaction", Message(models.TxConfirming, ""))
	assert.Equal(t, "Transaction failed", Message(models.TxError, ""))
	assert.Equal(t, "Transaction failed: reverted", Message(models.TxError, "reverted"))
	assert.Equal(t, "Transaction confirmed", Message(models.TxSuccess, "ignored"))
}
