package prompts

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ConfirmClose prompts user to confirm closing an account
// Returns true if user confirms, false otherwise
func ConfirmClose(userID string) bool {
	fmt.Printf("⚠ This will permanently close account '%s' and remove all its data\n", userID)
	fmt.Print("Are you sure? [y/N]: ")

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
