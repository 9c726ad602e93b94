package commands

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moritani/accountd/internal/client/auth"
	"github.com/moritani/accountd/internal/client/errors"
	"github.com/moritani/accountd/internal/client/output"
	"github.com/moritani/accountd/internal/client/prompts"
)

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Close the authenticated user's account",
	Long: `Permanently close the authenticated user's account and remove it
from the server. This cannot be undone.`,
	Args: cobra.NoArgs,
	Run:  runClose,
}

func runClose(cmd *cobra.Command, args []string) {
	userID := resolveOwnUserID()

	// Prompt for confirmation unless --yes flag is set
	if !flagYes {
		if !prompts.ConfirmClose(userID) {
			fmt.Println("Close cancelled")
			return
		}
	}

	c := getAuthenticatedClient()
	resp, err := c.Post("/close", nil)
	if err != nil {
		errors.ExitWithError(err, "failed to connect to server")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errors.HandleHTTPError(resp.StatusCode, readAPIError(resp, fmt.Sprintf("close failed with status %d", resp.StatusCode)))
	}

	// Drop stored credentials if they belonged to the closed account
	if creds, err := auth.LoadCredentials(); err == nil {
		storedID, _, _ := strings.Cut(creds.Token, ":")
		if storedID == userID {
			if err := auth.DeleteCredentials(); err != nil {
				output.PrintError(fmt.Sprintf("failed to remove stored credentials: %v", err))
			}
		}
	}

	if flagJSON {
		output.OutputJSON(map[string]interface{}{
			"user_id": userID,
			"closed":  true,
		}, nil)
	} else {
		output.PrintSuccess(fmt.Sprintf("Closed account '%s'", userID))
	}
}

func init() {
	rootCmd.AddCommand(closeCmd)
}
