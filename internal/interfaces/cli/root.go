// Package cli implements the molgraph command-line interface: one-shot
// molecule operations for pipelines plus the serve command that hosts the
// HTTP API.
package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds the global flags.
type rootOptions struct {
	configPath string
	logLevel   string
	jsonOutput bool
}

// NewRootCommand creates the root command with global flags and all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "molgraph",
		Short: "molgraph — SMILES ⇄ molecular-graph toolkit",
		Long: "molgraph parses SMILES strings into fully perceived molecular graphs\n" +
			"(rings, kekulization, implicit hydrogens) and writes them back out,\n" +
			"either one-shot on the command line or as an HTTP service.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path")
	pf.StringVar(&opts.logLevel, "log-level", "error", "log level (debug, info, warn, error)")
	pf.BoolVar(&opts.jsonOutput, "json", false, "emit JSON instead of plain text")

	cmd.AddCommand(
		newParseCmd(opts),
		newCanonicalizeCmd(opts),
		newKekulizeCmd(opts),
		newDelocalizeCmd(opts),
		newSimilarityCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// loadConfig resolves the effective configuration: the --config file when
// given, environment variables otherwise.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.Load(o.configPath)
	}
	return config.LoadFromEnv()
}

// newService builds a standalone application service for the one-shot
// commands: logger at the requested level, no external infrastructure.
func (o *rootOptions) newService(cfg *config.Config) (*appmol.Service, error) {
	logger, err := logging.NewLogger(logging.Config{
		Level:  o.logLevel,
		Format: "console",
	})
	if err != nil {
		return nil, err
	}
	return appmol.NewService(appmol.Options{
		Logger:      logger,
		RingTimeout: cfg.Perception.RingTimeout,
		CacheTTL:    time.Hour,
	}), nil
}

// printResult renders v as JSON when --json is set, or via plain when not.
func (o *rootOptions) printResult(cmd *cobra.Command, v interface{}, plain string) error {
	if o.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), plain)
	return err
}

// Execute runs the CLI and returns the terminal error, if any.
func Execute() error {
	return NewRootCommand().Execute()
}
