package commands

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagURL     string
	flagToken   string
	flagJSON    bool
	flagVerbose bool
	flagTimeout time.Duration
	flagYes     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "accountctl",
	Short: "Account Service CLI Client",
	Long: `accountctl is a command-line client for the user account service.

It provides account signup, profile lookup and update, and account
closure via the REST API, authenticating with HTTP Basic Auth.`,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "Server URL (or use ACCOUNTD_URL env var)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Credentials in 'user_id:password' format (or use ACCOUNTD_SESSION_TOKEN env var)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "HTTP request timeout")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Skip confirmation prompts")
}
