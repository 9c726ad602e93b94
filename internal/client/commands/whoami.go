package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/moritani/accountd/internal/client/config"
	"github.com/moritani/accountd/internal/client/errors"
	"github.com/moritani/accountd/internal/client/output"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show authentication status and server information",
	Long: `Check authentication status by fetching the user's own profile.

Resolves server URL and credentials using normal precedence:
- URL: --url flag > ACCOUNTD_URL env var > stored URL
- Token: --token flag > ACCOUNTD_SESSION_TOKEN env var > stored token`,
	Args: cobra.NoArgs,
	Run:  runWhoami,
}

func runWhoami(cmd *cobra.Command, args []string) {
	serverURL, err := config.ResolveURL(flagURL)
	if err != nil {
		errors.ExitWithCode(errors.ExitInvalidArguments, err.Error())
	}

	userID := resolveOwnUserID()
	c := getAuthenticatedClient()

	resp, err := c.Get("/users/" + userID)
	if err != nil {
		errors.ExitWithError(err, "failed to connect to server")
	}
	defer resp.Body.Close()

	authenticated := resp.StatusCode == http.StatusOK

	if flagJSON {
		output.OutputJSON(map[string]interface{}{
			"server":        serverURL,
			"authenticated": authenticated,
			"user_id":       userID,
		}, nil)
	} else {
		if authenticated {
			output.PrintSuccess(fmt.Sprintf("Authenticated to %s as %s", serverURL, userID))
		} else if resp.StatusCode == http.StatusUnauthorized {
			output.PrintError(fmt.Sprintf("Not authenticated to %s", serverURL))
			fmt.Println("Run 'accountctl login' to authenticate")
		} else {
			output.PrintError(fmt.Sprintf("Server returned status %d", resp.StatusCode))
		}
	}

	if !authenticated {
		errors.ExitWithCode(errors.ExitAuthError, "")
	}
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
