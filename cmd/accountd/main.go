package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moritani/accountd/internal/cli"
)

var version = "1.0.0"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "accountd",
	Short: "User Account Service",
	Long: `accountd provides a REST API for user account management: signup,
profile lookup and update, and account closure, guarded by HTTP Basic
Authentication.`,
	Version: version,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(cli.ServerCmd)

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Version}}
`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
