package models

// WalletState is the connection state reported by the wallet layer.
type WalletState struct {
	Address     string `json:"address"`
	IsConnected bool   `json:"is_connected"`
}

func (w WalletState) Connected() bool {
	return w.IsConnected && w.Address != ""
}
