package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panpilkarz/beamer/pkg/state"
)

const (
	tstAddress  = "0x2dBA3865A4858b2C4b01D1c7E7C4B0f7170dc1e5"
	usdcAddress = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	lpAddress   = "0x45A5164A8189c9c1f7A88Ba1E58EdCD9cf4f0fe7"
	fillAddress = "0x5fd84259d66Cd46123540766Be93DFE6D43130D7"
)

// sampleConfiguration builds a populated, valid configuration used across
// the tests in this package.
func sampleConfiguration(t *testing.T) *state.Configuration {
	t.Helper()

	goerli, err := state.NewChainConfig(64, 700_000, 120_000)
	require.NoError(t, err)
	optimism, err := state.NewChainConfig(7, 300_000, 90_000)
	require.NoError(t, err)

	tst, err := state.NewTokenConfig(100_000_000_000, 1_000_000)
	require.NoError(t, err)
	usdc, err := state.NewTokenConfig(50_000_000_000, 420_000_000)
	require.NoError(t, err)

	rm, err := state.NewRequestManagerConfig(
		300_000, 150_000, 140_000,
		map[state.ChainID]state.ChainConfig{5: goerli, 10: optimism},
		map[string]state.TokenConfig{"TST": tst, "USDC": usdc},
		state.NewWhitelist(lpAddress),
	)
	require.NoError(t, err)

	cfg, err := state.NewConfiguration(
		4242, 5,
		map[string]string{"TST": tstAddress, "USDC": usdcAddress},
		rm,
		state.FillManagerConfig{Whitelist: state.NewWhitelist(lpAddress, fillAddress)},
	)
	require.NoError(t, err)
	require.NoError(t, cfg.Check())
	return cfg
}

func TestInitial(t *testing.T) {
	cfg := state.Initial(1, 100)
	require.NoError(t, cfg.Check())
	assert.Empty(t, cfg.Validate())
	assert.Empty(t, cfg.TokenAddresses)
	assert.Empty(t, cfg.RequestManager.Chains)
	assert.Empty(t, cfg.RequestManager.Tokens)
	assert.Empty(t, cfg.RequestManager.Whitelist)
	assert.Empty(t, cfg.FillManager.Whitelist)
}

func TestRangeEnforcement(t *testing.T) {
	// 999_999 ppm is the largest valid fee.
	_, err := state.NewRequestManagerConfig(0, 999_999, 0, nil, nil, nil)
	require.NoError(t, err)

	_, err = state.NewRequestManagerConfig(0, 1_000_000, 0, nil, nil, nil)
	require.Error(t, err)
	var schemaErr *state.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Len(t, schemaErr.Findings, 1)
	assert.Equal(t, "lp_fee_ppm", schemaErr.Findings[0].Path)
}

func TestSchemaReportsAllViolations(t *testing.T) {
	_, err := state.NewChainConfig(0, 1_000_000, -1)
	require.Error(t, err)

	var schemaErr *state.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Len(t, schemaErr.Findings, 3)
	assert.Equal(t, "finality_period", schemaErr.Findings[0].Path)
	assert.Equal(t, "target_weight_ppm", schemaErr.Findings[1].Path)
	assert.Equal(t, "transfer_cost", schemaErr.Findings[2].Path)
}

func TestConfigurationSchema(t *testing.T) {
	rm, err := state.NewRequestManagerConfig(0, 0, 0, nil, nil, nil)
	require.NoError(t, err)

	_, err = state.NewConfiguration(0, 0, nil, rm, state.FillManagerConfig{Whitelist: state.Whitelist{}})
	require.Error(t, err)

	var schemaErr *state.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	paths := make([]string, len(schemaErr.Findings))
	for i, f := range schemaErr.Findings {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{"block", "chain_id"}, paths)
}

func TestNestedSchemaPaths(t *testing.T) {
	chains := map[state.ChainID]state.ChainConfig{
		10: {FinalityPeriod: 0, TargetWeightPPM: 0, TransferCost: 0},
	}
	_, err := state.NewRequestManagerConfig(0, 0, 0, chains, nil, nil)
	require.Error(t, err)

	var schemaErr *state.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Len(t, schemaErr.Findings, 1)
	assert.Equal(t, "chains.10.finality_period", schemaErr.Findings[0].Path)
}

func TestWhitelistSetSemantics(t *testing.T) {
	w := state.NewWhitelist(fillAddress, lpAddress, fillAddress)
	require.Len(t, w, 2)
	// Sorted and deduplicated.
	assert.Equal(t, state.Whitelist{lpAddress, fillAddress}, w)
	assert.True(t, w.Contains(lpAddress))
	assert.False(t, w.Contains(tstAddress))

	grown := w.Add(tstAddress)
	assert.Len(t, grown, 3)
	assert.Len(t, w, 2, "Add must not mutate the receiver")
	assert.True(t, grown.Contains(tstAddress))

	shrunk := grown.Remove(lpAddress)
	assert.Len(t, shrunk, 2)
	assert.Len(t, grown, 3, "Remove must not mutate the receiver")
	assert.False(t, shrunk.Contains(lpAddress))
}
