package marketdata

import "strings"

// forexPairs are quoted against their Yahoo "=X" tickers.
var forexPairs = map[string]struct{}{
	"EURUSD": {},
	"USDJPY": {},
	"GBPUSD": {},
	"AUDUSD": {},
	"USDCHF": {},
	"USDCAD": {},
	"NZDUSD": {},
}

// cryptoAssets are quoted against their Yahoo "-USD" tickers.
var cryptoAssets = map[string]struct{}{
	"BTC":  {},
	"ETH":  {},
	"SOL":  {},
	"XRP":  {},
	"DOGE": {},
	"ADA":  {},
	"AVAX": {},
	"LINK": {},
}

// FormatSymbol maps a plain asset name to the provider ticker. Equities
// and ETFs pass through unchanged.
func FormatSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if _, ok := forexPairs[s]; ok {
		return s + "=X"
	}
	if _, ok := cryptoAssets[s]; ok {
		return s + "-USD"
	}
	return s
}
