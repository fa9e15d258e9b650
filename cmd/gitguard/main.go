// Package main implements the gitguard CLI: a safety layer that turns
// natural-language intent into reviewed, checkpointed git operations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gitguard/internal/config"
	"github.com/fyrsmithlabs/gitguard/internal/gitrepo"
	"github.com/fyrsmithlabs/gitguard/internal/logging"
	"github.com/fyrsmithlabs/gitguard/internal/prompt"
)

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger

	version = "dev"
)

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gitguard",
	Short: "A safety layer for git operations",
	Long: `gitguard turns natural-language intent into git commands, shows you
the plan and its risk level, creates a recoverable checkpoint before
running anything, and offers a rollback when things go wrong.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithFile(cfgFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		logger, err = logging.New(&cfg.Logging)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/gitguard/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(cleanCmd)
}

// openRepo opens the repository in the current directory. Every command
// requires one.
func openRepo() (*gitrepo.Repository, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	if !gitrepo.IsRepo(dir) {
		return nil, fmt.Errorf("not a git repository: %s", dir)
	}
	return gitrepo.Open(dir, logger)
}

// terminalPrompter builds the interactive prompter used by all commands.
func terminalPrompter() prompt.Prompter {
	return prompt.NewTerminal(os.Stdin, os.Stdout)
}
