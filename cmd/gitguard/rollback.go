package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/gitguard/internal/checkpoint"
	"github.com/fyrsmithlabs/gitguard/internal/ledger"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore the most recent checkpoint",
	Long: `Hard-reset the repository to the most recent checkpoint and reapply
any uncommitted changes that were snapshotted with it. The checkpoint is
consumed; running rollback again restores the one before it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepo()
		if err != nil {
			return err
		}

		store := ledger.NewStore(repo.GitDir(), logger)
		manager := checkpoint.NewManager(repo, store, terminalPrompter(), cfg.Checkpoint.RefPrefix, logger)
		return manager.RollbackLast(cmd.Context())
	},
}
