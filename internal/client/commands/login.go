package commands

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/moritani/accountd/internal/client"
	"github.com/moritani/accountd/internal/client/auth"
	"github.com/moritani/accountd/internal/client/config"
	"github.com/moritani/accountd/internal/client/errors"
	"github.com/moritani/accountd/internal/client/output"
	"github.com/moritani/accountd/internal/client/prompts"
)

var loginCmd = &cobra.Command{
	Use:   "login [server-url]",
	Short: "Authenticate with an account server",
	Long: `Authenticate with an account server and store credentials.

Server URL can be provided as an argument or via ACCOUNTD_URL environment variable.
If both are provided, the argument takes precedence.

Credentials are stored in a config file with 0600 permissions. Only one
server's credentials are stored at a time. Logging into a new server
replaces existing credentials.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) {
	var serverURL string

	// Resolve server URL: argument takes precedence over environment variable
	if len(args) > 0 {
		serverURL = args[0]
	} else {
		var err error
		serverURL, err = config.ResolveURL("")
		if err != nil {
			errors.ExitWithCode(errors.ExitInvalidArguments, "no server URL specified. Provide server URL as argument or set ACCOUNTD_URL environment variable")
		}
	}

	// Normalize URL (remove trailing slash)
	serverURL = config.NormalizeURL(serverURL)

	// Prompt for credentials
	userID, err := prompts.PromptUserID()
	if err != nil {
		errors.ExitWithError(err, "failed to read user ID")
	}

	password, err := prompts.PromptPassword()
	if err != nil {
		errors.ExitWithError(err, "failed to read password")
	}

	// Format token as "user_id:password"
	token := fmt.Sprintf("%s:%s", userID, password)

	// Test authentication by fetching the user's own profile
	c := client.NewClient(serverURL, base64.StdEncoding.EncodeToString([]byte(token)), flagTimeout, flagVerbose)
	resp, err := c.Get("/users/" + userID)
	if err != nil {
		errors.ExitWithError(err, "failed to connect to server")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		errors.ExitWithCode(errors.ExitAuthError, "authentication failed: invalid credentials")
	}

	if resp.StatusCode != http.StatusOK {
		errors.HandleHTTPError(resp.StatusCode, readAPIError(resp, fmt.Sprintf("server returned status %d", resp.StatusCode)))
	}

	// Authentication successful - store credentials
	if err := auth.SaveCredentials(serverURL, token); err != nil {
		errors.ExitWithError(err, "failed to save credentials")
	}

	if flagJSON {
		output.OutputJSON(map[string]string{
			"server":  serverURL,
			"user_id": userID,
		}, nil)
	} else {
		output.PrintSuccess(fmt.Sprintf("Logged in to %s as %s", serverURL, userID))
	}
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
