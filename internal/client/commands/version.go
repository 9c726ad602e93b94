package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moritani/accountd/internal/client/output"
)

// ClientVersion is the accountctl release version
const ClientVersion = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show client version",
	Args:  cobra.NoArgs,
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	if flagJSON {
		output.OutputJSON(map[string]string{"version": ClientVersion}, nil)
	} else {
		fmt.Printf("accountctl version %s\n", ClientVersion)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
