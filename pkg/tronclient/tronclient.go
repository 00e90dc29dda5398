// Package tronclient reads balances and transaction outcomes from a TronGrid
// compatible HTTP API.
package tronclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"nexushub_back/models"
)

const (
	DefaultAPI = "https://api.shasta.trongrid.io"

	addressPrefix = 0x41
	trxDecimals   = 6
)

type Client struct {
	http         *resty.Client
	pollInterval time.Duration
	now          func() time.Time
}

func NewClient(apiURL, apiKey string, pollInterval time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultAPI
	}
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	http := resty.New().
		SetBaseURL(apiURL).
		SetTimeout(30*time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(time.Second).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		http.SetHeader("TRON-PRO-API-KEY", apiKey)
	}
	return &Client{http: http, pollInterval: pollInterval, now: time.Now}
}

type accountResponse struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

type constantResponse struct {
	ConstantResult []string `json:"constant_result"`
	Result         struct {
		Result  bool   `json:"result"`
		Message string `json:"message"`
	} `json:"result"`
}

type txInfoResponse struct {
	ID         string `json:"id"`
	Result     string `json:"result"`
	ResMessage string `json:"resMessage"`
	Receipt    struct {
		Result string `json:"result"`
	} `json:"receipt"`
}

// FetchBalance returns the TRX balance for an empty token, otherwise the
// TRC-20 balance held at the token contract.
func (c *Client) FetchBalance(ctx context.Context, address, token string) (models.BalanceSnapshot, error) {
	ownerHex, err := AddressToHex(address)
	if err != nil {
		return models.BalanceSnapshot{}, err
	}

	if token == models.NativeToken {
		var acc accountResponse
		if err := c.post(ctx, "/wallet/getaccount", map[string]interface{}{
			"address": ownerHex,
			"visible": false,
		}, &acc); err != nil {
			return models.BalanceSnapshot{}, errors.Wrap(err, "get account")
		}
		// unactivated accounts come back as {}
		return models.BalanceSnapshot{
			Address:   address,
			Token:     token,
			Value:     big.NewInt(acc.Balance),
			Decimals:  trxDecimals,
			Symbol:    "TRX",
			FetchedAt: c.now(),
		}, nil
	}

	contractHex, err := AddressToHex(token)
	if err != nil {
		return models.BalanceSnapshot{}, errors.Wrap(err, "token")
	}

	value, err := c.constant(ctx, ownerHex, contractHex, "balanceOf(address)", leftPad64(ownerHex[2:]))
	if err != nil {
		return models.BalanceSnapshot{}, errors.Wrap(err, "balanceOf")
	}
	decimals, err := c.constant(ctx, ownerHex, contractHex, "decimals()", "")
	if err != nil {
		return models.BalanceSnapshot{}, errors.Wrap(err, "decimals")
	}

	return models.BalanceSnapshot{
		Address:   address,
		Token:     token,
		Value:     value,
		Decimals:  uint8(decimals.Uint64()),
		FetchedAt: c.now(),
	}, nil
}

func (c *Client) constant(ctx context.Context, ownerHex, contractHex, selector, parameter string) (*big.Int, error) {
	var out constantResponse
	if err := c.post(ctx, "/wallet/triggerconstantcontract", map[string]interface{}{
		"owner_address":     ownerHex,
		"contract_address":  contractHex,
		"function_selector": selector,
		"parameter":         parameter,
		"visible":           false,
	}, &out); err != nil {
		return nil, err
	}
	if len(out.ConstantResult) == 0 {
		return nil, errors.Errorf("empty constant_result: %s", out.Result.Message)
	}
	v, ok := new(big.Int).SetString(out.ConstantResult[0], 16)
	if !ok {
		return nil, errors.Errorf("malformed constant_result %q", out.ConstantResult[0])
	}
	return v, nil
}

// Watch polls gettransactioninfobyid until the transaction is in a block.
func (c *Client) Watch(ctx context.Context, txID string, report func(models.WatchResult)) {
	txID = strings.TrimPrefix(txID, "0x")
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var info txInfoResponse
		err := c.post(ctx, "/wallet/gettransactioninfobyid", map[string]interface{}{"value": txID}, &info)
		switch {
		case err != nil && ctx.Err() != nil:
			return
		case err != nil:
			logrus.WithField("tx", txID).Warnf("tron tx info: %v", err)
			report(models.WatchResult{IsLoading: true})
		case info.ID == "":
			report(models.WatchResult{IsLoading: true})
		case info.Result == "FAILED" || (info.Receipt.Result != "" && info.Receipt.Result != "SUCCESS"):
			report(models.WatchResult{IsError: true, Error: failureMessage(info)})
			return
		default:
			report(models.WatchResult{IsSuccess: true})
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func failureMessage(info txInfoResponse) string {
	if info.ResMessage != "" {
		if b, err := hex.DecodeString(info.ResMessage); err == nil {
			return string(b)
		}
		return info.ResMessage
	}
	if info.Receipt.Result != "" {
		return strings.ToLower(info.Receipt.Result)
	}
	return "transaction failed"
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(out).
		Post(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return errors.Errorf("%s: http %d: %s", path, resp.StatusCode(), resp.String())
	}
	return nil
}

// AddressToHex converts a base58check TRON address into its 21 byte hex
// form (41 prefix included).
func AddressToHex(address string) (string, error) {
	decoded, err := base58.Decode(address)
	if err != nil {
		return "", errors.Wrapf(err, "invalid base58 address %q", address)
	}
	if len(decoded) != 25 {
		return "", errors.Errorf("invalid address length %q: got %d bytes", address, len(decoded))
	}
	raw, sum := decoded[:21], decoded[21:]
	if raw[0] != addressPrefix {
		return "", errors.Errorf("invalid address prefix %q", address)
	}
	first := sha256.Sum256(raw)
	second := sha256.Sum256(first[:])
	if !strings.EqualFold(hex.EncodeToString(second[:4]), hex.EncodeToString(sum)) {
		return "", errors.Errorf("bad checksum %q", address)
	}
	return hex.EncodeToString(raw), nil
}

// HexToAddress is the inverse of AddressToHex.
func HexToAddress(raw []byte) string {
	first := sha256.Sum256(raw)
	second := sha256.Sum256(first[:])
	full := append(append([]byte{}, raw...), second[:4]...)
	return base58.Encode(full)
}

func leftPad64(s string) string {
	if len(s) >= 64 {
		return s
	}
	return strings.Repeat("0", 64-len(s)) + s
}

func IsAddress(address string) bool {
	_, err := AddressToHex(address)
	return err == nil
}
