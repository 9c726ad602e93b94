package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/moritani/accountd/internal/client"
	"github.com/moritani/accountd/internal/client/config"
	"github.com/moritani/accountd/internal/client/errors"
	"github.com/moritani/accountd/internal/client/output"
	"github.com/moritani/accountd/internal/client/prompts"
)

var signupPassword string

var signupCmd = &cobra.Command{
	Use:   "signup <user_id>",
	Short: "Create a new account",
	Long: `Create a new account on the server.

The password can be supplied with --password or entered interactively.
user_id must be 6-20 alphanumeric characters, the password 8-20
printable ASCII characters without spaces.`,
	Args: cobra.ExactArgs(1),
	Run:  runSignup,
}

func runSignup(cmd *cobra.Command, args []string) {
	userID := args[0]

	serverURL, err := config.ResolveURL(flagURL)
	if err != nil {
		errors.ExitWithCode(errors.ExitInvalidArguments, err.Error())
	}

	password := signupPassword
	if password == "" {
		password, err = prompts.PromptPassword()
		if err != nil {
			errors.ExitWithError(err, "failed to read password")
		}
	}

	// Signup is the one unauthenticated operation
	c := client.NewClient(serverURL, "", flagTimeout, flagVerbose)
	resp, err := c.Post("/signup", map[string]string{
		"user_id":  userID,
		"password": password,
	})
	if err != nil {
		errors.ExitWithError(err, "failed to connect to server")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errors.HandleHTTPError(resp.StatusCode, readAPIError(resp, fmt.Sprintf("signup failed with status %d", resp.StatusCode)))
	}

	if flagJSON {
		output.OutputJSON(map[string]string{"user_id": userID}, nil)
	} else {
		output.PrintSuccess(fmt.Sprintf("Created account '%s'", userID))
	}
}

func init() {
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "Password for the new account (prompted if omitted)")
	rootCmd.AddCommand(signupCmd)
}
