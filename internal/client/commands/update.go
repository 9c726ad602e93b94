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

var (
	updateNickname      string
	updateComment       string
	updateClearNickname bool
	updateClearComment  bool
)

// updateResponse mirrors the PATCH /users/{user_id} response body
type updateResponse struct {
	Message string `json:"message"`
	User    struct {
		UserID   string `json:"user_id"`
		Nickname string `json:"nickname"`
		Comment  string `json:"comment"`
	} `json:"user"`
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the authenticated user's profile",
	Long: `Update the nickname and/or comment of the authenticated user.

Only fields given on the command line are sent to the server.
--clear-nickname resets the nickname to the user_id, --clear-comment
removes the comment.`,
	Args: cobra.NoArgs,
	Run:  runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) {
	userID := resolveOwnUserID()

	// Send only fields the caller asked to change; an empty string value
	// tells the server to reset the field to its default
	body := map[string]string{}
	if cmd.Flags().Changed("nickname") {
		body["nickname"] = updateNickname
	}
	if updateClearNickname {
		body["nickname"] = ""
	}
	if cmd.Flags().Changed("comment") {
		body["comment"] = updateComment
	}
	if updateClearComment {
		body["comment"] = ""
	}

	if len(body) == 0 {
		errors.ExitWithCode(errors.ExitInvalidArguments, "nothing to update. Use --nickname, --comment, --clear-nickname, or --clear-comment")
	}

	c := getAuthenticatedClient()
	resp, err := c.Patch("/users/"+userID, body)
	if err != nil {
		errors.ExitWithError(err, "failed to connect to server")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errors.HandleHTTPError(resp.StatusCode, readAPIError(resp, fmt.Sprintf("update failed with status %d", resp.StatusCode)))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		errors.ExitWithError(err, "failed to read response")
	}

	var updated updateResponse
	if err := json.Unmarshal(respBody, &updated); err != nil {
		errors.ExitWithError(err, "failed to parse response")
	}

	if flagJSON {
		output.OutputJSON(updated.User, nil)
	} else {
		output.PrintSuccess(fmt.Sprintf("Updated profile for '%s'", userID))
		table := output.NewTableWriter()
		table.WriteRow("Nickname:", updated.User.Nickname)
		table.WriteRow("Comment:", updated.User.Comment)
		table.Flush()
	}
}

func init() {
	updateCmd.Flags().StringVar(&updateNickname, "nickname", "", "New nickname (max 30 characters)")
	updateCmd.Flags().StringVar(&updateComment, "comment", "", "New comment (max 100 characters)")
	updateCmd.Flags().BoolVar(&updateClearNickname, "clear-nickname", false, "Reset nickname to the user_id")
	updateCmd.Flags().BoolVar(&updateClearComment, "clear-comment", false, "Remove the comment")
	rootCmd.AddCommand(updateCmd)
}
