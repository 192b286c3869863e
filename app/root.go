// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gomediavault",
	Short: "GoMediaVault is a web-based management console for media assets",
	Long: `GoMediaVault is a web-based management console for media assets
that provides a role-gated library, AI-assisted metadata and a review
workflow for restricted content.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
