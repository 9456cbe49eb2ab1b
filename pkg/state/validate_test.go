package state_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panpilkarz/beamer/pkg/state"
)

func TestValidateAcceptsSample(t *testing.T) {
	cfg := sampleConfiguration(t)
	assert.Empty(t, cfg.Validate())
}

func TestAddressFormatCheck(t *testing.T) {
	cfg := sampleConfiguration(t)
	lowercase := strings.ToLower(tstAddress)
	cfg.TokenAddresses["TST"] = lowercase

	findings := cfg.Validate()
	require.Len(t, findings, 1)
	assert.Equal(t, "token_addresses.TST", findings[0].Path)
	assert.Contains(t, findings[0].Message, "expected a checksum address")
	assert.Contains(t, findings[0].Message, lowercase)
}

func TestTokenCoverageCheck(t *testing.T) {
	cfg := sampleConfiguration(t)
	token, err := state.NewTokenConfig(1, 1)
	require.NoError(t, err)
	cfg.RequestManager.Tokens["X"] = token

	findings := cfg.Validate()
	require.Len(t, findings, 1)
	assert.Equal(t, "token_addresses", findings[0].Path)
	assert.Contains(t, findings[0].Message, "missing address for token X")
}

func TestValidateDoesNotShortCircuit(t *testing.T) {
	cfg := sampleConfiguration(t)
	cfg.TokenAddresses["TST"] = strings.ToLower(tstAddress)
	token, err := state.NewTokenConfig(1, 1)
	require.NoError(t, err)
	cfg.RequestManager.Tokens["X"] = token

	// Both checks must report even though the first one already failed.
	findings := cfg.Validate()
	require.Len(t, findings, 2)
	assert.Equal(t, "token_addresses.TST", findings[0].Path)
	assert.Equal(t, "token_addresses", findings[1].Path)
}

func TestIsChecksumAddress(t *testing.T) {
	assert.True(t, state.IsChecksumAddress(tstAddress))
	assert.True(t, state.IsChecksumAddress(usdcAddress))
	assert.False(t, state.IsChecksumAddress(strings.ToLower(tstAddress)))
	assert.False(t, state.IsChecksumAddress(strings.ToUpper(tstAddress)))
	assert.False(t, state.IsChecksumAddress(strings.TrimPrefix(tstAddress, "0x")))
	assert.False(t, state.IsChecksumAddress("0x1234"))
	assert.False(t, state.IsChecksumAddress(""))
}
