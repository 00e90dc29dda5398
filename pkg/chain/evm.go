package chain

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"nexushub_back/models"
)

const erc20ABI = `[
{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"},
{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"}
]`

// ERC20 is the parsed token ABI shared with the submitter.
var ERC20 = mustParseABI(erc20ABI)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// EVMReader is the subset of ethclient.Client used for reads.
type EVMReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type EVMClient struct {
	reader       EVMReader
	chainID      int64
	pollInterval time.Duration
	now          func() time.Time
}

func NewEVMClient(reader EVMReader, chainID int64, pollInterval time.Duration) *EVMClient {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &EVMClient{
		reader:       reader,
		chainID:      chainID,
		pollInterval: pollInterval,
		now:          time.Now,
	}
}

func (c *EVMClient) FetchBalance(ctx context.Context, address, token string) (models.BalanceSnapshot, error) {
	if !common.IsHexAddress(address) {
		return models.BalanceSnapshot{}, errors.Errorf("invalid address %q", address)
	}
	owner := common.HexToAddress(address)

	if token == models.NativeToken {
		value, err := c.reader.BalanceAt(ctx, owner, nil)
		if err != nil {
			return models.BalanceSnapshot{}, errors.Wrap(err, "native balance")
		}
		symbol, decimals := "ETH", uint8(18)
		if info, ok := Lookup(c.chainID); ok {
			symbol, decimals = info.Symbol, info.Decimals
		}
		return models.BalanceSnapshot{
			Address:   address,
			Token:     token,
			Value:     value,
			Decimals:  decimals,
			Symbol:    symbol,
			FetchedAt: c.now(),
		}, nil
	}

	if !common.IsHexAddress(token) {
		return models.BalanceSnapshot{}, errors.Errorf("invalid token address %q", token)
	}
	contract := common.HexToAddress(token)

	var value *big.Int
	if err := c.call(ctx, contract, "balanceOf", &value, owner); err != nil {
		return models.BalanceSnapshot{}, err
	}
	var decimals uint8
	if err := c.call(ctx, contract, "decimals", &decimals); err != nil {
		return models.BalanceSnapshot{}, err
	}
	var symbol string
	if err := c.call(ctx, contract, "symbol", &symbol); err != nil {
		// some tokens return bytes32 symbols, the gate has its own fallback
		logrus.WithField("token", token).Warnf("erc20 symbol: %v", err)
	}

	return models.BalanceSnapshot{
		Address:   address,
		Token:     token,
		Value:     value,
		Decimals:  decimals,
		Symbol:    symbol,
		FetchedAt: c.now(),
	}, nil
}

func (c *EVMClient) call(ctx context.Context, contract common.Address, method string, out interface{}, args ...interface{}) error {
	data, err := ERC20.Pack(method, args...)
	if err != nil {
		return errors.Wrapf(err, "pack %s", method)
	}
	raw, err := c.reader.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return errors.Wrapf(err, "call %s", method)
	}
	if err := ERC20.UnpackIntoInterface(out, method, raw); err != nil {
		return errors.Wrapf(err, "unpack %s", method)
	}
	return nil
}

// Watch polls for the receipt of hash. A missing receipt is reported as
// loading, a receipt with failed status as an error.
func (c *EVMClient) Watch(ctx context.Context, hash string, report func(models.WatchResult)) {
	txHash := common.HexToHash(hash)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.reader.TransactionReceipt(ctx, txHash)
		switch {
		case err == nil && receipt.Status == types.ReceiptStatusSuccessful:
			report(models.WatchResult{IsSuccess: true})
			return
		case err == nil:
			report(models.WatchResult{IsError: true, Error: "transaction reverted"})
			return
		case errors.Is(err, ethereum.NotFound):
			report(models.WatchResult{IsLoading: true})
		case ctx.Err() != nil:
			return
		default:
			// transient RPC failures keep the watch alive
			logrus.WithField("hash", hash).Warnf("receipt poll: %v", err)
			report(models.WatchResult{IsLoading: true})
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
