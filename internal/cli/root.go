package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the rumormill command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rumormill",
		Short: "Rumormill - rumor lifecycle for turn-driven social simulations",
		Long: `Rumormill runs a small village simulation in which rumors are born from
narrative text, spread between characters with growing distortion, fade once
most important characters know them, and are reclaimed so memory stays bounded.

Configuration comes from the environment (and an optional .env file).`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newServeCmd(), newSimulateCmd(), newVersionCmd())
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
