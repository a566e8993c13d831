package cli_cmds

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/DieracDelta/toy-txs/internal"
	"github.com/DieracDelta/toy-txs/internal/cli"
	"github.com/spf13/cobra"
)

// NewConfig creates a command to inspect the configuration
func NewConfig(params *cli.CmdParams) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
		Long:  `Inspect the configuration resolved from defaults, config file, TOYTXS_* environment variables and flags.`,
	}

	configCmd.AddCommand(newConfigShow(params))

	return configCmd
}

// newConfigShow prints the effective configuration with secrets masked
func newConfigShow(params *cli.CmdParams) *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd, params)
			if err != nil {
				return err
			}
			redacted := cfg.Redacted()

			switch strings.ToLower(format) {
			case "json":
				data, err := json.MarshalIndent(settings(&redacted), "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode config: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			case "text":
				for _, s := range settings(&redacted) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", s.Key, s.Value)
				}
			default:
				return fmt.Errorf("unknown format %q (text or json)", format)
			}
			return nil
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text or json)")

	return showCmd
}

type setting struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func settings(cfg *internal.Config) []setting {
	return []setting{
		{"log.level", cfg.Log.Level},
		{"log.dir", cfg.Log.Dir},
		{"engine.shards", cfg.Engine.Shards},
		{"engine.request_timeout", cfg.Engine.RequestTimeout.String()},
		{"ledger.duplicate_tx", cfg.Ledger.DuplicateTx},
		{"ledger.guard_redispute", cfg.Ledger.GuardRedispute},
		{"output.sorted", cfg.Output.Sorted},
		{"export.sqlite_path", cfg.Export.SQLitePath},
		{"nats.url", cfg.NATS.URL},
		{"nats.subject", cfg.NATS.Subject},
		{"nats.username", cfg.NATS.Username},
		{"nats.password", cfg.NATS.Password},
		{"nats.token", cfg.NATS.Token},
	}
}
