package wallet

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexushub_back/pkg/tronclient"
)

// well known hardhat account #0
const hardhatKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestFromPrivateKey(t *testing.T) {
	w, err := FromPrivateKey(hardhatKey)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), w.Address)
	assert.True(t, tronclient.IsAddress(w.TronAddress))
	assert.Equal(t, byte('T'), w.TronAddress[0])
}

func TestFromPrivateKeyRejectsGarbage(t *testing.T) {
	_, err := FromPrivateKey("zz")
	assert.Error(t, err)
	_, err = FromPrivateKey("00")
	assert.Error(t, err)
}

func TestSignTxRecoversSender(t *testing.T) {
	w, err := Generate()
	require.NoError(t, err)

	to := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	tx := types.NewTx(&types.LegacyTx{Nonce: 1, To: &to, Value: big.NewInt(1), Gas: 21000, GasPrice: big.NewInt(1)})
	chainID := big.NewInt(11155111)

	signed, err := w.SignTx(tx, chainID)
	require.NoError(t, err)

	from, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	assert.Equal(t, w.Address, from)
}
