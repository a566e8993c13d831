package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DieracDelta/toy-txs/internal"
)

// LoadConfig resolves the configuration for cmd from its --config file,
// the environment and its flags, then installs the process logger.
func LoadConfig(cmd *cobra.Command, params *CmdParams) (*internal.Config, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to read --config: %w", err)
	}

	cfg, err := internal.LoadConfig(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := internal.Init(cfg)
	if err != nil {
		return nil, err
	}

	params.Config = cfg
	params.Logger = logger
	logger.Debug(internal.ComponentConfig, "Configuration loaded")
	return cfg, nil
}
