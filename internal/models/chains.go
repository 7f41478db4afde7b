package models

// DefaultChain is used when a ramp transaction does not name a chain.
const DefaultChain = "arbitrum"

// ChainFallbackOrder is the search order used to locate a chain that
// supports a requested token when the default chain lacks it.
var ChainFallbackOrder = []string{
	"arbitrum",
	"polygon",
	"base",
	"optimism",
	"celo",
	"avalanche",
	"bnb",
}

// ChainTokens lists the stablecoin symbols supported per chain.
var ChainTokens = map[string][]string{
	"arbitrum":  {"USDC", "USDT", "DAI"},
	"polygon":   {"USDC", "USDT", "DAI"},
	"base":      {"USDC", "DAI"},
	"optimism":  {"USDC", "USDT", "DAI"},
	"celo":      {"USDC", "CUSD"},
	"avalanche": {"USDC", "USDT"},
	"bnb":       {"USDT", "USDC"},
}

// ChainSupportsToken reports whether the token is configured on the chain.
func ChainSupportsToken(chain, token string) bool {
	for _, t := range ChainTokens[chain] {
		if t == token {
			return true
		}
	}
	return false
}

// FindChainForToken walks the fallback order and returns the first chain
// that supports the token.
func FindChainForToken(token string) (string, bool) {
	for _, chain := range ChainFallbackOrder {
		if ChainSupportsToken(chain, token) {
			return chain, true
		}
	}
	return "", false
}
