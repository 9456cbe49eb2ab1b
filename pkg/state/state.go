// Package state implements the checksum-verified configuration snapshot of
// a bridge deployment. A Configuration captures the protocol parameters
// (fee rates, per-chain finality assumptions, token limits, fill
// whitelists) at a given block height. It serializes to a canonical JSON
// form carrying an embedded SHA-256 checksum, so any edit to a persisted
// state file is detected when the file is loaded.
package state

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// MaxPPM is the largest valid parts-per-million value (1_000_000 == 100%).
const MaxPPM = 999_999

// ChainID identifies a chain. State files key chain configurations by the
// decimal string form of this value.
type ChainID uint64

func (c ChainID) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// TokenConfig holds the per-token transfer parameters.
type TokenConfig struct {
	// TransferLimit is the maximum amount transferable in one request.
	TransferLimit int64 `json:"transfer_limit"`
	// EthInToken is the gas-compensation exchange rate.
	EthInToken int64 `json:"eth_in_token"`
}

// ChainConfig holds the per-chain protocol parameters.
type ChainConfig struct {
	// FinalityPeriod is the number of blocks to wait before a block on
	// this chain is considered irreversible.
	FinalityPeriod int64 `json:"finality_period"`
	// TargetWeightPPM is the target allocation weight, in ppm.
	TargetWeightPPM int64 `json:"target_weight_ppm"`
	// TransferCost is the gas cost estimate of a transfer.
	TransferCost int64 `json:"transfer_cost"`
}

// FillManagerConfig holds the FillManager contract parameters.
type FillManagerConfig struct {
	Whitelist Whitelist `json:"whitelist"`
}

// RequestManagerConfig holds the RequestManager contract parameters.
type RequestManagerConfig struct {
	MinFeePPM      int64                   `json:"min_fee_ppm"`
	LPFeePPM       int64                   `json:"lp_fee_ppm"`
	ProtocolFeePPM int64                   `json:"protocol_fee_ppm"`
	Chains         map[ChainID]ChainConfig `json:"chains"`
	Tokens         map[string]TokenConfig  `json:"tokens"`
	Whitelist      Whitelist               `json:"whitelist"`
}

// Configuration is the aggregate root: one snapshot of the bridge
// deployment's protocol parameters. Instances are treated as immutable
// once validated; edits produce a new value which is validated and saved
// again. The json tags are the single source of truth for the external
// field names used by both serialization and deserialization.
type Configuration struct {
	Block          int64                `json:"block"`
	ChainID        ChainID              `json:"chain_id"`
	TokenAddresses map[string]string    `json:"token_addresses"`
	RequestManager RequestManagerConfig `json:"RequestManager"`
	FillManager    FillManagerConfig    `json:"FillManager"`
}

// NewTokenConfig builds a TokenConfig, rejecting negative values.
func NewTokenConfig(transferLimit, ethInToken int64) (TokenConfig, error) {
	c := TokenConfig{TransferLimit: transferLimit, EthInToken: ethInToken}
	if findings := c.schemaCheck(""); len(findings) > 0 {
		return TokenConfig{}, &SchemaError{Findings: findings}
	}
	return c, nil
}

// NewChainConfig builds a ChainConfig, checking every field against its
// declared range.
func NewChainConfig(finalityPeriod, targetWeightPPM, transferCost int64) (ChainConfig, error) {
	c := ChainConfig{
		FinalityPeriod:  finalityPeriod,
		TargetWeightPPM: targetWeightPPM,
		TransferCost:    transferCost,
	}
	if findings := c.schemaCheck(""); len(findings) > 0 {
		return ChainConfig{}, &SchemaError{Findings: findings}
	}
	return c, nil
}

// NewRequestManagerConfig builds a RequestManagerConfig. Nil maps and
// whitelists are normalized to empty ones. All range violations are
// reported together.
func NewRequestManagerConfig(
	minFeePPM, lpFeePPM, protocolFeePPM int64,
	chains map[ChainID]ChainConfig,
	tokens map[string]TokenConfig,
	whitelist Whitelist,
) (RequestManagerConfig, error) {
	if chains == nil {
		chains = map[ChainID]ChainConfig{}
	}
	if tokens == nil {
		tokens = map[string]TokenConfig{}
	}
	c := RequestManagerConfig{
		MinFeePPM:      minFeePPM,
		LPFeePPM:       lpFeePPM,
		ProtocolFeePPM: protocolFeePPM,
		Chains:         chains,
		Tokens:         tokens,
		Whitelist:      NewWhitelist(whitelist...),
	}
	if findings := c.schemaCheck(""); len(findings) > 0 {
		return RequestManagerConfig{}, &SchemaError{Findings: findings}
	}
	return c, nil
}

// NewConfiguration builds a Configuration and checks every static field
// constraint. Cross-field invariants are checked separately by Validate.
func NewConfiguration(
	block int64,
	chainID ChainID,
	tokenAddresses map[string]string,
	requestManager RequestManagerConfig,
	fillManager FillManagerConfig,
) (*Configuration, error) {
	if tokenAddresses == nil {
		tokenAddresses = map[string]string{}
	}
	c := &Configuration{
		Block:          block,
		ChainID:        chainID,
		TokenAddresses: tokenAddresses,
		RequestManager: requestManager,
		FillManager:    fillManager,
	}
	if findings := c.schemaCheck(); len(findings) > 0 {
		return nil, &SchemaError{Findings: findings}
	}
	return c, nil
}

// Initial returns the configuration of a fresh deployment on the given
// chain at the given block: empty token registry, empty whitelists, all
// fees zero.
func Initial(chainID ChainID, block int64) *Configuration {
	return &Configuration{
		Block:          block,
		ChainID:        chainID,
		TokenAddresses: map[string]string{},
		RequestManager: RequestManagerConfig{
			Chains:    map[ChainID]ChainConfig{},
			Tokens:    map[string]TokenConfig{},
			Whitelist: Whitelist{},
		},
		FillManager: FillManagerConfig{Whitelist: Whitelist{}},
	}
}

// Check runs the static field constraints and the cross-field invariants
// and returns all violations as a single error. The schema pass and the
// validation pass both run to completion so callers see every finding.
func (c *Configuration) Check() error {
	var errs []error
	if findings := c.schemaCheck(); len(findings) > 0 {
		errs = append(errs, &SchemaError{Findings: findings})
	}
	if findings := c.Validate(); len(findings) > 0 {
		errs = append(errs, &ValidationError{Findings: findings})
	}
	return errors.Join(errs...)
}

func (c *TokenConfig) schemaCheck(prefix string) []Finding {
	var findings []Finding
	findings = appendMin(findings, prefix, "transfer_limit", c.TransferLimit, 0)
	findings = appendMin(findings, prefix, "eth_in_token", c.EthInToken, 0)
	return findings
}

func (c *ChainConfig) schemaCheck(prefix string) []Finding {
	var findings []Finding
	findings = appendMin(findings, prefix, "finality_period", c.FinalityPeriod, 1)
	findings = appendRange(findings, prefix, "target_weight_ppm", c.TargetWeightPPM)
	findings = appendMin(findings, prefix, "transfer_cost", c.TransferCost, 0)
	return findings
}

func (c *RequestManagerConfig) schemaCheck(prefix string) []Finding {
	var findings []Finding
	findings = appendMin(findings, prefix, "min_fee_ppm", c.MinFeePPM, 0)
	findings = appendRange(findings, prefix, "lp_fee_ppm", c.LPFeePPM)
	findings = appendRange(findings, prefix, "protocol_fee_ppm", c.ProtocolFeePPM)
	if c.Chains == nil {
		findings = append(findings, missingField(prefix, "chains"))
	}
	for _, id := range sortedChainIDs(c.Chains) {
		chain := c.Chains[id]
		findings = append(findings, chain.schemaCheck(joinPath(prefix, "chains."+id.String()))...)
	}
	if c.Tokens == nil {
		findings = append(findings, missingField(prefix, "tokens"))
	}
	for _, symbol := range sortedTokenSymbols(c.Tokens) {
		token := c.Tokens[symbol]
		findings = append(findings, token.schemaCheck(joinPath(prefix, "tokens."+symbol))...)
	}
	if c.Whitelist == nil {
		findings = append(findings, missingField(prefix, "whitelist"))
	}
	return findings
}

func (c *FillManagerConfig) schemaCheck(prefix string) []Finding {
	if c.Whitelist == nil {
		return []Finding{missingField(prefix, "whitelist")}
	}
	return nil
}

func (c *Configuration) schemaCheck() []Finding {
	var findings []Finding
	findings = appendMin(findings, "", "block", c.Block, 1)
	findings = appendMin(findings, "", "chain_id", int64(c.ChainID), 1)
	if c.TokenAddresses == nil {
		findings = append(findings, missingField("", "token_addresses"))
	}
	findings = append(findings, c.RequestManager.schemaCheck("RequestManager")...)
	findings = append(findings, c.FillManager.schemaCheck("FillManager")...)
	return findings
}

func sortedChainIDs(chains map[ChainID]ChainConfig) []ChainID {
	ids := make([]ChainID, 0, len(chains))
	for id := range chains {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedTokenSymbols[V any](tokens map[string]V) []string {
	symbols := make([]string, 0, len(tokens))
	for symbol := range tokens {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

func joinPath(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}

func missingField(prefix, field string) Finding {
	return Finding{Path: joinPath(prefix, field), Message: "missing required field"}
}

func appendMin(findings []Finding, prefix, field string, value, min int64) []Finding {
	if value < min {
		findings = append(findings, Finding{
			Path:    joinPath(prefix, field),
			Message: fmt.Sprintf("must be >= %d, got %d", min, value),
		})
	}
	return findings
}

func appendRange(findings []Finding, prefix, field string, value int64) []Finding {
	if value < 0 || value > MaxPPM {
		findings = append(findings, Finding{
			Path:    joinPath(prefix, field),
			Message: fmt.Sprintf("must be between 0 and %d, got %d", MaxPPM, value),
		})
	}
	return findings
}
