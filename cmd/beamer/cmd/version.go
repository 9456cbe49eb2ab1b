package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/panpilkarz/beamer/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run:   runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Println("Beamer State Tooling")
	fmt.Println(version.Info())
}
