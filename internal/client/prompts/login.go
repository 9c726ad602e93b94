package prompts

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// PromptUserID prompts for user_id (visible input)
func PromptUserID() (string, error) {
	fmt.Print("User ID: ")
	reader := bufio.NewReader(os.Stdin)
	userID, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read user ID: %w", err)
	}
	return strings.TrimSpace(userID), nil
}

// PromptPassword prompts for password (hidden input)
func PromptPassword() (string, error) {
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println() // Print newline after hidden input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
