package cli_cmds

import (
	"fmt"

	"github.com/DieracDelta/toy-txs/internal"
	"github.com/DieracDelta/toy-txs/internal/cli"

	"github.com/spf13/cobra"
)

// NewVersion creates a version command
func NewVersion(params *cli.CmdParams) *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of " + params.Use,
		Long:  `Print the version information including build details.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), internal.VersionInfo())
		},
	}

	return versionCmd
}
