package middleware

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"nexushub_back/models"
	"nexushub_back/pkg/tronclient"
)

const (
	WalletHeader = "X-Wallet-Address"
	walletKey    = "wallet"
)

// WalletMiddleware reads the connected wallet from the request header. A
// missing or malformed address leaves the wallet disconnected; the request
// is never aborted here.
func WalletMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		address := strings.TrimSpace(c.GetHeader(WalletHeader))
		state := models.WalletState{Address: address}

		switch {
		case address == "":
		case common.IsHexAddress(address), tronclient.IsAddress(address):
			state.IsConnected = true
		default:
			logrus.Debugf("WalletMiddleware: ignoring malformed address %q", address)
			state.Address = ""
		}

		c.Set(walletKey, state)
		c.Next()
	}
}

// Wallet returns the state stored by WalletMiddleware.
func Wallet(c *gin.Context) models.WalletState {
	if v, ok := c.Get(walletKey); ok {
		if state, ok := v.(models.WalletState); ok {
			return state
		}
	}
	return models.WalletState{}
}
