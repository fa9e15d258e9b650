package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/gitguard/internal/ledger"
	"github.com/fyrsmithlabs/gitguard/internal/render"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete all gitguard backup branches",
	Long: `List the backup branches gitguard has accumulated and, after
confirmation, delete them all and clear the checkpoint ledger. Rollback
is no longer possible afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepo()
		if err != nil {
			return err
		}

		refs, err := repo.ListRefs(cfg.Checkpoint.RefPrefix)
		if err != nil {
			return err
		}
		if len(refs) == 0 {
			fmt.Println("No backup branches found.")
			return nil
		}

		fmt.Print(render.RefList("Backup branches:", refs))
		ok, err := terminalPrompter().Confirm(
			fmt.Sprintf("Delete all %d backup branches? Rollback will no longer be possible.", len(refs)), false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Nothing deleted.")
			return nil
		}

		for _, ref := range refs {
			if err := repo.DeleteRef(ref); err != nil {
				return err
			}
		}

		store := ledger.NewStore(repo.GitDir(), logger)
		if err := store.Save([]ledger.Checkpoint{}); err != nil {
			fmt.Printf("Warning: could not clear checkpoint ledger: %v\n", err)
		}

		fmt.Printf("Deleted %d backup branches.\n", len(refs))
		return nil
	},
}
