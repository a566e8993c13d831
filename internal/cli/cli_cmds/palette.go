package cli_cmds

import (
	"github.com/DieracDelta/toy-txs/internal/cli"

	"github.com/spf13/cobra"
)

func GeneratePalette(params *cli.CmdParams) []*cobra.Command {
	// Global commands
	versionCmd := NewVersion(params)

	// Utility commands
	configCmd := NewConfig(params)

	return []*cobra.Command{
		versionCmd,
		configCmd,
	}
}
