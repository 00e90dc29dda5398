package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"nexushub_back/models"
)

func run(header string) models.WalletState {
	gin.SetMode(gin.TestMode)
	var got models.WalletState
	r := gin.New()
	r.GET("/", WalletMiddleware(), func(c *gin.Context) {
		got = Wallet(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(WalletHeader, header)
	}
	r.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestWalletMiddleware(t *testing.T) {
	evm := run("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	assert.True(t, evm.Connected())

	tron := run("TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t")
	assert.True(t, tron.Connected())

	assert.False(t, run("").Connected())

	bad := run("not-an-address")
	assert.False(t, bad.Connected())
	assert.Empty(t, bad.Address)
}

func TestWalletWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, Wallet(c).Connected())
}
