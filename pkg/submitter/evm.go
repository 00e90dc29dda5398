package submitter

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"nexushub_back/internal/wallet"
	"nexushub_back/models"
	"nexushub_back/pkg/chain"
)

// EVMSender is the subset of ethclient.Client needed to build and send a
// transaction.
type EVMSender interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// EVM signs with a local key and broadcasts to an EVM node. Native amounts
// become the transaction value, token amounts an ERC-20 transfer call.
type EVM struct {
	client  EVMSender
	wallet  *wallet.Wallet
	chainID *big.Int
	watcher chain.Watcher
}

func NewEVM(client EVMSender, w *wallet.Wallet, chainID int64, watcher chain.Watcher) *EVM {
	return &EVM{
		client:  client,
		wallet:  w,
		chainID: big.NewInt(chainID),
		watcher: watcher,
	}
}

// Payer is the signer account every transaction is paid from.
func (e *EVM) Payer() string {
	return e.wallet.Address.Hex()
}

func (e *EVM) Submit(ctx context.Context, req models.TxRequest, sig Signals) error {
	if !common.IsHexAddress(req.To) {
		return errors.Errorf("invalid recipient %q", req.To)
	}
	sig.AwaitingSignature()

	go func() {
		signed, err := e.build(ctx, req)
		if err == nil {
			err = e.client.SendTransaction(ctx, signed)
		}
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			sig.Rejected(err)
			return
		}

		hash := signed.Hash().Hex()
		logrus.WithFields(logrus.Fields{"hash": hash, "action": req.Action}).Info("transaction broadcast")
		sig.Submitted(hash)
		e.watcher.Watch(ctx, hash, func(res models.WatchResult) {
			if ctx.Err() == nil {
				sig.Watched(hash, res)
			}
		})
	}()
	return nil
}

func (e *EVM) build(ctx context.Context, req models.TxRequest) (*types.Transaction, error) {
	to := common.HexToAddress(req.To)
	value := new(big.Int)
	var data []byte

	if req.TokenAddress == "" {
		decimals := uint8(18)
		if info, ok := chain.Lookup(e.chainID.Int64()); ok {
			decimals = info.Decimals
		}
		v, err := req.Amount.ToBaseUnits(decimals)
		if err != nil {
			return nil, err
		}
		value = v
	} else {
		if !common.IsHexAddress(req.TokenAddress) {
			return nil, errors.Errorf("invalid token %q", req.TokenAddress)
		}
		token := common.HexToAddress(req.TokenAddress)
		decimals, err := e.tokenDecimals(ctx, token)
		if err != nil {
			return nil, err
		}
		v, err := req.Amount.ToBaseUnits(decimals)
		if err != nil {
			return nil, err
		}
		data, err = chain.ERC20.Pack("transfer", to, v)
		if err != nil {
			return nil, errors.Wrap(err, "pack transfer")
		}
		to = token
	}

	nonce, err := e.client.PendingNonceAt(ctx, e.wallet.Address)
	if err != nil {
		return nil, errors.Wrap(err, "nonce")
	}
	gasPrice, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "gas price")
	}
	gas, err := e.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  e.wallet.Address,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, errors.Wrap(err, "estimate gas")
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     data,
	})
	return e.wallet.SignTx(tx, e.chainID)
}

func (e *EVM) tokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	input, err := chain.ERC20.Pack("decimals")
	if err != nil {
		return 0, errors.Wrap(err, "pack decimals")
	}
	raw, err := e.client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: input}, nil)
	if err != nil {
		return 0, errors.Wrap(err, "call decimals")
	}
	var decimals uint8
	if err := chain.ERC20.UnpackIntoInterface(&decimals, "decimals", raw); err != nil {
		return 0, errors.Wrap(err, "unpack decimals")
	}
	return decimals, nil
}
