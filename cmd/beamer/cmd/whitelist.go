package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/panpilkarz/beamer/pkg/state"
)

var whitelistManager string

var whitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Edit the fill or request manager whitelist of a state file",
}

var whitelistAddCmd = &cobra.Command{
	Use:   "add <state-file> <address>",
	Short: "Add an address to a manager whitelist",
	Args:  cobra.ExactArgs(2),
	RunE:  runWhitelistAdd,
}

var whitelistRemoveCmd = &cobra.Command{
	Use:   "remove <state-file> <address>",
	Short: "Remove an address from a manager whitelist",
	Args:  cobra.ExactArgs(2),
	RunE:  runWhitelistRemove,
}

func init() {
	stateCmd.AddCommand(whitelistCmd)
	whitelistCmd.AddCommand(whitelistAddCmd)
	whitelistCmd.AddCommand(whitelistRemoveCmd)
	whitelistCmd.PersistentFlags().StringVar(&whitelistManager, "manager", "fill",
		"which whitelist to edit: fill or request")
}

func runWhitelistAdd(cmd *cobra.Command, args []string) error {
	return editWhitelist(args[0], args[1], state.Whitelist.Add)
}

func runWhitelistRemove(cmd *cobra.Command, args []string) error {
	return editWhitelist(args[0], args[1], state.Whitelist.Remove)
}

// editWhitelist loads the state file, applies the edit to a copy of the
// configuration, re-validates and saves. The loaded value itself is never
// mutated.
func editWhitelist(path, address string, edit func(state.Whitelist, string) state.Whitelist) error {
	if !state.IsChecksumAddress(address) {
		return fmt.Errorf("expected a checksum address: %s", address)
	}

	loaded, err := state.FromFile(path)
	if err != nil {
		return err
	}

	cfg := *loaded
	switch whitelistManager {
	case "fill":
		cfg.FillManager.Whitelist = edit(cfg.FillManager.Whitelist, address)
	case "request":
		cfg.RequestManager.Whitelist = edit(cfg.RequestManager.Whitelist, address)
	default:
		return fmt.Errorf("unknown manager: %s (expected fill or request)", whitelistManager)
	}

	if err := cfg.Check(); err != nil {
		return err
	}
	if err := cfg.ToFile(path); err != nil {
		return err
	}
	checksum, err := cfg.ComputeChecksum()
	if err != nil {
		return err
	}
	log.Info().
		Str("path", path).
		Str("manager", whitelistManager).
		Str("address", address).
		Str("checksum", checksum).
		Msg("updated whitelist")
	return nil
}
