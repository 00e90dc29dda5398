package tronclient

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexushub_back/models"
)

func testAddress(last byte) string {
	raw := make([]byte, 21)
	raw[0] = addressPrefix
	raw[20] = last
	return HexToAddress(raw)
}

func newServer(t *testing.T, handler func(path string, body map[string]interface{}) interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(handler(r.URL.Path, body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAddressRoundTrip(t *testing.T) {
	addr := testAddress(0x7f)
	h, err := AddressToHex(addr)
	require.NoError(t, err)
	assert.Len(t, h, 42)
	assert.Equal(t, "41", h[:2])
	assert.True(t, IsAddress(addr))

	assert.False(t, IsAddress("0x00000000000000000000000000000000000000aa"))
	mutated := addr[:len(addr)-1] + "1"
	if addr[len(addr)-1] == '1' {
		mutated = addr[:len(addr)-1] + "2"
	}
	assert.False(t, IsAddress(mutated))
}

func TestFetchNativeBalance(t *testing.T) {
	owner := testAddress(1)
	srv := newServer(t, func(path string, body map[string]interface{}) interface{} {
		assert.Equal(t, "/wallet/getaccount", path)
		return map[string]interface{}{"address": body["address"], "balance": 12_500_000}
	})
	c := NewClient(srv.URL, "key", time.Millisecond)

	snap, err := c.FetchBalance(context.Background(), owner, models.NativeToken)
	require.NoError(t, err)
	assert.Equal(t, "12500000", snap.Value.String())
	assert.Equal(t, uint8(6), snap.Decimals)
	assert.Equal(t, "TRX", snap.Symbol)
}

func TestFetchTokenBalance(t *testing.T) {
	owner, token := testAddress(1), testAddress(2)
	srv := newServer(t, func(path string, body map[string]interface{}) interface{} {
		assert.Equal(t, "/wallet/triggerconstantcontract", path)
		switch body["function_selector"] {
		case "balanceOf(address)":
			assert.Len(t, body["parameter"], 64)
			return map[string]interface{}{"constant_result": []string{"00000000000000000000000000000000000000000000000000000000000f4240"}}
		default:
			return map[string]interface{}{"constant_result": []string{"0000000000000000000000000000000000000000000000000000000000000006"}}
		}
	})
	c := NewClient(srv.URL, "", time.Millisecond)

	snap, err := c.FetchBalance(context.Background(), owner, token)
	require.NoError(t, err)
	assert.Equal(t, "1000000", snap.Value.String())
	assert.Equal(t, uint8(6), snap.Decimals)
}

func TestFetchBalanceInvalidAddress(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "", time.Millisecond)
	_, err := c.FetchBalance(context.Background(), "bogus", models.NativeToken)
	assert.Error(t, err)
}

func TestWatchLoadingThenSuccess(t *testing.T) {
	var calls int32
	srv := newServer(t, func(path string, body map[string]interface{}) interface{} {
		if atomic.AddInt32(&calls, 1) < 3 {
			return map[string]interface{}{}
		}
		return map[string]interface{}{"id": body["value"], "receipt": map[string]interface{}{"result": "SUCCESS"}}
	})
	c := NewClient(srv.URL, "", time.Millisecond)

	var got []models.WatchResult
	c.Watch(context.Background(), "0xabc", func(r models.WatchResult) { got = append(got, r) })

	require.Len(t, got, 3)
	assert.True(t, got[0].IsLoading)
	assert.True(t, got[2].IsSuccess)
}

func TestWatchFailure(t *testing.T) {
	srv := newServer(t, func(path string, body map[string]interface{}) interface{} {
		return map[string]interface{}{
			"id":         "abc",
			"result":     "FAILED",
			"resMessage": hex.EncodeToString([]byte("REVERT opcode executed")),
			"receipt":    map[string]interface{}{"result": "REVERT"},
		}
	})
	c := NewClient(srv.URL, "", time.Millisecond)

	var last models.WatchResult
	c.Watch(context.Background(), "abc", func(r models.WatchResult) { last = r })
	assert.True(t, last.IsError)
	assert.Equal(t, "REVERT opcode executed", last.Error)
}
