// Package deployment reads a bridge deployment manifest: a directory
// holding deployment.json, which maps chain IDs to deployed contract
// addresses and deployment blocks, plus one ABI file per contract name.
// It is a read-only lookup; no network access happens here except through
// the chain client a caller passes to ContractsFor.
package deployment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/panpilkarz/beamer/pkg/state"
)

// ContractInfo describes one deployed contract on one chain.
type ContractInfo struct {
	Address         common.Address
	DeploymentBlock uint64
	ABI             abi.ABI
}

// Info maps chain IDs to the contracts deployed on that chain.
type Info map[state.ChainID]map[string]ContractInfo

// ChainClient is the subset of an Ethereum client needed to bind deployed
// contracts. *ethclient.Client satisfies it.
type ChainClient interface {
	bind.ContractBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

type manifest struct {
	Chains map[string]map[string]struct {
		Address         string `json:"address"`
		DeploymentBlock uint64 `json:"deployment_block"`
	} `json:"chains"`
}

// LoadInfo reads <dir>/deployment.json and the referenced ABI files. ABIs
// are parsed once per contract name and shared between chains.
func LoadInfo(dir string) (Info, error) {
	data, err := os.ReadFile(filepath.Join(dir, "deployment.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("malformed deployment manifest: %w", err)
	}

	abis := make(map[string]abi.ABI)
	info := make(Info, len(m.Chains))
	for chainKey, contracts := range m.Chains {
		chainID, err := strconv.ParseUint(chainKey, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain ID in deployment manifest: %s", chainKey)
		}
		infos := make(map[string]ContractInfo, len(contracts))
		for name, entry := range contracts {
			contractABI, ok := abis[name]
			if !ok {
				contractABI, err = LoadContractABI(dir, name)
				if err != nil {
					return nil, err
				}
				abis[name] = contractABI
			}
			if !common.IsHexAddress(entry.Address) {
				return nil, fmt.Errorf("invalid address for contract %s on chain %s: %s",
					name, chainKey, entry.Address)
			}
			infos[name] = ContractInfo{
				Address:         common.HexToAddress(entry.Address),
				DeploymentBlock: entry.DeploymentBlock,
				ABI:             contractABI,
			}
		}
		info[state.ChainID(chainID)] = infos
	}
	return info, nil
}

// LoadContractABI reads the ABI of the named contract from <dir>/<name>.json.
func LoadContractABI(dir, name string) (abi.ABI, error) {
	data, err := os.ReadFile(filepath.Join(dir, name+".json"))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to read ABI for contract %s: %w", name, err)
	}
	var artifact struct {
		ABI json.RawMessage `json:"abi"`
	}
	if err := json.Unmarshal(data, &artifact); err != nil {
		return abi.ABI{}, fmt.Errorf("malformed ABI artifact for contract %s: %w", name, err)
	}
	parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI for contract %s: %w", name, err)
	}
	return parsed, nil
}

// ContractsFor resolves the manifest entry for the client's current chain
// and binds executable contract handles over it.
func ContractsFor(ctx context.Context, client ChainClient, dir string) (map[string]*bind.BoundContract, error) {
	info, err := LoadInfo(dir)
	if err != nil {
		return nil, err
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	contracts, ok := info[state.ChainID(chainID.Uint64())]
	if !ok {
		return nil, fmt.Errorf("no deployment found for chain ID %s", chainID)
	}
	bound := make(map[string]*bind.BoundContract, len(contracts))
	for name, contract := range contracts {
		bound[name] = bind.NewBoundContract(contract.Address, contract.ABI, client, client, client)
	}
	return bound, nil
}
