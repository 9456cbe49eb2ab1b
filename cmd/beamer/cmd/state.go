package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/panpilkarz/beamer/pkg/state"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect and edit the checksum-verified state file",
}

var (
	initChainID uint64
	initBlock   int64
	initOutput  string
)

var stateInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the initial state file of a fresh deployment",
	RunE:  runStateInit,
}

var stateVerifyCmd = &cobra.Command{
	Use:   "verify [state-file]",
	Short: "Verify a state file's schema, invariants and checksum",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStateVerify,
}

var stateShowCmd = &cobra.Command{
	Use:   "show [state-file]",
	Short: "Verify a state file and print its canonical form",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStateShow,
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.AddCommand(stateInitCmd)
	stateCmd.AddCommand(stateVerifyCmd)
	stateCmd.AddCommand(stateShowCmd)

	stateInitCmd.Flags().Uint64Var(&initChainID, "chain-id", 0, "home chain ID (required)")
	stateInitCmd.Flags().Int64Var(&initBlock, "block", 0, "block height of the snapshot (required)")
	stateInitCmd.Flags().StringVarP(&initOutput, "output", "o", "", "output path (default from config)")
	_ = stateInitCmd.MarkFlagRequired("chain-id")
	_ = stateInitCmd.MarkFlagRequired("block")
}

// statePath resolves the state file path from the positional argument,
// falling back to the configured default.
func statePath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.StateFile, nil
}

func runStateInit(cmd *cobra.Command, args []string) error {
	output := initOutput
	if output == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		output = cfg.StateFile
	}
	if _, err := os.Stat(output); err == nil {
		return fmt.Errorf("refusing to overwrite existing state file: %s", output)
	}

	cfg := state.Initial(state.ChainID(initChainID), initBlock)
	if err := cfg.Check(); err != nil {
		return err
	}
	if err := cfg.ToFile(output); err != nil {
		return err
	}
	checksum, err := cfg.ComputeChecksum()
	if err != nil {
		return err
	}
	log.Info().
		Str("path", output).
		Uint64("chain_id", initChainID).
		Int64("block", initBlock).
		Str("checksum", checksum).
		Msg("wrote initial state file")
	return nil
}

func runStateVerify(cmd *cobra.Command, args []string) error {
	path, err := statePath(args)
	if err != nil {
		return err
	}
	cfg, err := state.FromFile(path)
	if err != nil {
		return err
	}
	checksum, err := cfg.ComputeChecksum()
	if err != nil {
		return err
	}
	fmt.Printf("%s: OK (block %d, chain %s, checksum %s)\n",
		path, cfg.Block, cfg.ChainID, checksum)
	return nil
}

func runStateShow(cmd *cobra.Command, args []string) error {
	path, err := statePath(args)
	if err != nil {
		return err
	}
	cfg, err := state.FromFile(path)
	if err != nil {
		return err
	}
	data, err := cfg.Serialize()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
