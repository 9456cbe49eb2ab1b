package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Validate runs the cross-field invariant checks over an already
// constructed configuration and returns every violation found. Both checks
// always run to completion, so one bad entry never hides another:
//
//  1. every entry of token_addresses must be an EIP-55 checksum address;
//  2. every token symbol configured under RequestManager.tokens must have
//     a corresponding entry in token_addresses.
//
// An empty result means the configuration satisfies both invariants.
func (c *Configuration) Validate() []Finding {
	var findings []Finding
	findings = append(findings, c.checkTokenAddresses()...)
	findings = append(findings, c.checkTokenCoverage()...)
	return findings
}

func (c *Configuration) checkTokenAddresses() []Finding {
	var findings []Finding
	for _, symbol := range sortedTokenSymbols(c.TokenAddresses) {
		address := c.TokenAddresses[symbol]
		if !IsChecksumAddress(address) {
			findings = append(findings, Finding{
				Path:    "token_addresses." + symbol,
				Message: fmt.Sprintf("expected a checksum address: %s", address),
			})
		}
	}
	return findings
}

func (c *Configuration) checkTokenCoverage() []Finding {
	var findings []Finding
	for _, symbol := range sortedTokenSymbols(c.RequestManager.Tokens) {
		if _, ok := c.TokenAddresses[symbol]; !ok {
			findings = append(findings, Finding{
				Path:    "token_addresses",
				Message: fmt.Sprintf("missing address for token %s", symbol),
			})
		}
	}
	return findings
}

// IsChecksumAddress reports whether s is a well-formed mixed-case EIP-55
// checksum address, 0x prefix included.
func IsChecksumAddress(s string) bool {
	if !common.IsHexAddress(s) {
		return false
	}
	return common.HexToAddress(s).Hex() == s
}
