package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/gitguard/internal/audit"
	"github.com/fyrsmithlabs/gitguard/internal/oracle"
	"github.com/fyrsmithlabs/gitguard/internal/render"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Review staged changes for problems before committing",
	Long: `Scan the staged diff for leaked secrets with the Gitleaks ruleset,
then ask the oracle to review it for bugs, debug leftovers and other
issues worth fixing before the commit.`,
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
			fmt.Println("No staged changes to audit. Stage files with git add first.")
			return nil
		}

		scanner, err := audit.NewScanner(logger)
		if err != nil {
			return err
		}
		if findings := scanner.Scan(diff); len(findings) > 0 {
			fmt.Println("Possible secrets in staged changes:")
			for _, f := range findings {
				fmt.Printf("  - %s (%s) at line %d\n", f.Description, f.RuleID, f.Line)
			}
		} else {
			fmt.Println("No secrets detected.")
		}

		client, err := oracle.NewGoogleAI(ctx, &cfg.Oracle, logger)
		if err != nil {
			return err
		}
		report, err := client.Audit(ctx, diff)
		if err != nil {
			return err
		}

		fmt.Print(render.AuditReport(report))
		return nil
	},
}
