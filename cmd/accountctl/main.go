package main

import (
	"os"

	"github.com/moritani/accountd/internal/client/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
