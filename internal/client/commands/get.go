package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/moritani/accountd/internal/client/errors"
	"github.com/moritani/accountd/internal/client/output"
)

// profileResponse mirrors the GET /users/{user_id} response body
type profileResponse struct {
	Message string `json:"message"`
	User    struct {
		UserID   string  `json:"user_id"`
		Nickname string  `json:"nickname"`
		Comment  *string `json:"comment"`
	} `json:"user"`
}

var getCmd = &cobra.Command{
	Use:   "get [user_id]",
	Short: "Get user profile details",
	Long: `Fetch the profile of a user. Defaults to the authenticated user
when no user_id argument is given. Any authenticated user may look up
any existing profile.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runGet,
}

func runGet(cmd *cobra.Command, args []string) {
	var userID string
	if len(args) > 0 {
		userID = args[0]
	} else {
		userID = resolveOwnUserID()
	}

	c := getAuthenticatedClient()
	resp, err := c.Get("/users/" + userID)
	if err != nil {
		errors.ExitWithError(err, "failed to connect to server")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errors.HandleHTTPError(resp.StatusCode, readAPIError(resp, fmt.Sprintf("failed to get user with status %d", resp.StatusCode)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		errors.ExitWithError(err, "failed to read response")
	}

	var profile profileResponse
	if err := json.Unmarshal(body, &profile); err != nil {
		errors.ExitWithError(err, "failed to parse response")
	}

	if flagJSON {
		output.OutputJSON(profile.User, nil)
	} else {
		table := output.NewTableWriter()
		table.WriteRow("User ID:", profile.User.UserID)
		table.WriteRow("Nickname:", profile.User.Nickname)
		if profile.User.Comment != nil {
			table.WriteRow("Comment:", *profile.User.Comment)
		}
		table.Flush()
	}
}

func init() {
	rootCmd.AddCommand(getCmd)
}
