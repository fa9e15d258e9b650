package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/gitguard/internal/audit"
	"github.com/fyrsmithlabs/gitguard/internal/oracle"
	"github.com/fyrsmithlabs/gitguard/internal/render"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Generate a commit message for staged changes and commit them",
	Long: `Read the staged diff, scan it for leaked secrets, ask the oracle for
a conventional commit message, and commit after you approve it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		repo, err := openRepo()
		if err != nil {
			return err
		}

		diff, err := repo.StagedDiff(ctx)
		if err != nil {
			return err
		}
		if diff == "" {
			fmt.Println("No staged changes. Stage files with git add first.")
			return nil
		}

		prompter := terminalPrompter()

		scanner, err := audit.NewScanner(logger)
		if err != nil {
			return err
		}
		if findings := scanner.Scan(diff); len(findings) > 0 {
			fmt.Println("Possible secrets in staged changes:")
			for _, f := range findings {
				fmt.Printf("  - %s (%s) at line %d\n", f.Description, f.RuleID, f.Line)
			}
			ok, err := prompter.Confirm("Commit anyway?", false)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Commit aborted.")
				return nil
			}
		}

		client, err := oracle.NewGoogleAI(ctx, &cfg.Oracle, logger)
		if err != nil {
			return err
		}
		msg, err := client.CommitMessage(ctx, diff)
		if err != nil {
			return err
		}

		fmt.Print(render.CommitMessage(msg))
		ok, err := prompter.Confirm("Commit with this message?", true)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Commit aborted.")
			return nil
		}

		if err := repo.Commit(ctx, msg.Subject, msg.Body); err != nil {
			return err
		}
		fmt.Println("Committed.")
		return nil
	},
}
