package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"nexushub_back/pkg/tronclient"
)

// Wallet is the signing key the real submitter uses, with the addresses it
// controls on EVM chains and on TRON.
type Wallet struct {
	key         *ecdsa.PrivateKey
	Address     common.Address
	TronAddress string
}

// Generate creates a throwaway wallet.
func Generate() (*Wallet, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return fromKey(key), nil
}

// FromPrivateKey loads a hex encoded secp256k1 key, with or without 0x.
func FromPrivateKey(privHex string) (*Wallet, error) {
	privBytes, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(privHex), "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "decode private key hex")
	}
	key, err := crypto.ToECDSA(privBytes)
	if err != nil {
		return nil, errors.Wrap(err, "convert to ECDSA")
	}
	return fromKey(key), nil
}

func fromKey(key *ecdsa.PrivateKey) *Wallet {
	addr := crypto.PubkeyToAddress(key.PublicKey)
	return &Wallet{
		key:         key,
		Address:     addr,
		TronAddress: tronclient.HexToAddress(append([]byte{0x41}, addr.Bytes()...)),
	}
}

// SignTx signs tx for chainID with the latest signer the chain supports.
func (w *Wallet) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), w.key)
	if err != nil {
		return nil, errors.Wrap(err, "sign transaction")
	}
	return signed, nil
}
