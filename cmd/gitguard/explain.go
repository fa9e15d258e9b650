package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/gitguard/internal/oracle"
	"github.com/fyrsmithlabs/gitguard/internal/render"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Describe pending changes in plain English",
	Long: `Summarize what the working tree changes (staged and unstaged) actually
do, in plain English.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		repo, err := openRepo()
		if err != nil {
			return err
		}

		diff, err := repo.Diff(ctx)
		if err != nil {
			return err
		}
		if diff == "" {
			fmt.Println("Working tree is clean. Nothing to explain.")
			return nil
		}

		client, err := oracle.NewGoogleAI(ctx, &cfg.Oracle, logger)
		if err != nil {
			return err
		}
		expl, err := client.Explain(ctx, diff)
		if err != nil {
			return err
		}

		fmt.Print(render.Explanation(expl))
		return nil
	},
}
