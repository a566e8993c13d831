package cli

import (
	"github.com/DieracDelta/toy-txs/internal"
	"github.com/spf13/cobra"
)

// CmdParams holds all dependencies needed by command handlers. Config and
// Logger are filled in once a command has loaded its configuration.
type CmdParams struct {
	Config  *internal.Config
	Logger  *internal.Logger
	Palette []*cobra.Command
	Use     string
	Alias   string
	Short   string
	Long    string
}
