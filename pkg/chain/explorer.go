package chain

import "strings"

const (
	Mainnet      int64 = 1
	Optimism     int64 = 10
	Polygon      int64 = 137
	Arbitrum     int64 = 42161
	Sepolia      int64 = 11155111
	TronMainnet  int64 = 728126428
	TronShasta   int64 = 2494104990
	defaultTxURL       = "https://etherscan.io/tx/"
)

type Info struct {
	Name        string
	Kind        string
	ExplorerURL string
	Symbol      string
	Decimals    uint8
}

var known = map[int64]Info{
	Mainnet:     {Name: "Ethereum", Kind: KindEVM, ExplorerURL: "https://etherscan.io", Symbol: "ETH", Decimals: 18},
	Sepolia:     {Name: "Sepolia", Kind: KindEVM, ExplorerURL: "https://sepolia.etherscan.io", Symbol: "ETH", Decimals: 18},
	Polygon:     {Name: "Polygon", Kind: KindEVM, ExplorerURL: "https://polygonscan.com", Symbol: "POL", Decimals: 18},
	Arbitrum:    {Name: "Arbitrum One", Kind: KindEVM, ExplorerURL: "https://arbiscan.io", Symbol: "ETH", Decimals: 18},
	Optimism:    {Name: "OP Mainnet", Kind: KindEVM, ExplorerURL: "https://optimistic.etherscan.io", Symbol: "ETH", Decimals: 18},
	TronMainnet: {Name: "TRON", Kind: KindTron, ExplorerURL: "https://tronscan.org/#", Symbol: "TRX", Decimals: 6},
	TronShasta:  {Name: "TRON Shasta", Kind: KindTron, ExplorerURL: "https://shasta.tronscan.org/#", Symbol: "TRX", Decimals: 6},
}

func Lookup(chainID int64) (Info, bool) {
	info, ok := known[chainID]
	return info, ok
}

// ExplorerTxURL resolves the page for hash on chainID. Unknown chains use
// the etherscan mainnet explorer.
func ExplorerTxURL(chainID int64, hash string) string {
	if hash == "" {
		return ""
	}
	info, ok := known[chainID]
	if !ok {
		return defaultTxURL + hash
	}
	if info.Kind == KindTron {
		return info.ExplorerURL + "/transaction/" + strings.TrimPrefix(hash, "0x")
	}
	return info.ExplorerURL + "/tx/" + hash
}

// ShortHash renders 0x1234...abcd.
func ShortHash(hash string) string {
	if len(hash) <= 10 {
		return hash
	}
	return hash[:6] + "..." + hash[len(hash)-4:]
}
