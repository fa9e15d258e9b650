package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/gitguard/internal/checkpoint"
	"github.com/fyrsmithlabs/gitguard/internal/executor"
	"github.com/fyrsmithlabs/gitguard/internal/ledger"
	"github.com/fyrsmithlabs/gitguard/internal/oracle"
	"github.com/fyrsmithlabs/gitguard/internal/orchestrator"
)

var runCmd = &cobra.Command{
	Use:   "run <intent>",
	Short: "Plan and execute git commands from a natural-language request",
	Long: `Describe what you want in plain English. gitguard asks its oracle for
a command plan, shows it with a risk level, and only executes after you
confirm. A checkpoint is created first so the run can be undone.

Examples:
  gitguard run "squash my last three commits"
  gitguard run undo the last commit but keep the changes`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		intent := strings.Join(args, " ")

		repo, err := openRepo()
		if err != nil {
			return err
		}

		client, err := oracle.NewGoogleAI(cmd.Context(), &cfg.Oracle, logger)
		if err != nil {
			return err
		}

		prompter := terminalPrompter()
		store := ledger.NewStore(repo.GitDir(), logger)
		manager := checkpoint.NewManager(repo, store, prompter, cfg.Checkpoint.RefPrefix, logger)
		exec := executor.New(executor.Config{
			Dir:    repo.Dir(),
			Shell:  cfg.Run.Shell,
			Stdout: os.Stdout,
		}, logger)

		runner := orchestrator.NewRunner(client, exec, manager, prompter, cfg.Run.MaxAttempts, logger)
		_, err = runner.Run(cmd.Context(), intent)
		return err
	},
}
