package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fyrsmithlabs/gitguard/internal/ledger"
	"github.com/fyrsmithlabs/gitguard/internal/oracle"
)

func TestPlan(t *testing.T) {
	p := &oracle.Plan{
		Risk:     oracle.RiskHigh,
		Summary:  "Rewrite history on main",
		Commands: []string{"git rebase -i HEAD~3", "git push --force"},
	}

	out := Plan("Proposed Plan", p)

	assert.Contains(t, out, "Proposed Plan")
	assert.Contains(t, out, "Rewrite history on main")
	assert.Contains(t, out, "HIGH")
	assert.Contains(t, out, "$ git rebase -i HEAD~3")
	assert.Contains(t, out, "$ git push --force")
}

func TestPlanUnknownRisk(t *testing.T) {
	p := &oracle.Plan{Risk: oracle.RiskUnknown, Summary: "could not interpret request"}

	out := Plan("Proposed Plan", p)

	assert.Contains(t, out, "UNKNOWN")
	assert.Contains(t, out, "could not interpret request")
}

func TestCheckpoint(t *testing.T) {
	stash := "abc123"
	withStash := ledger.Checkpoint{Ref: "gitguard-backup-20260101_120000", CreatedAt: "20260101_120000", Stash: &stash}
	plain := ledger.Checkpoint{Ref: "gitguard-backup-20260102_120000", CreatedAt: "20260102_120000"}

	assert.Contains(t, Checkpoint(withStash), "gitguard-backup-20260101_120000")
	assert.Contains(t, Checkpoint(withStash), "uncommitted changes")
	assert.NotContains(t, Checkpoint(plain), "uncommitted changes")
}

func TestRefList(t *testing.T) {
	out := RefList("Backup branches:", []string{"gitguard-backup-a", "gitguard-backup-b"})

	assert.Contains(t, out, "Backup branches:")
	assert.Contains(t, out, "gitguard-backup-a")
	assert.Contains(t, out, "gitguard-backup-b")
}

func TestAuditReport(t *testing.T) {
	passed := &oracle.AuditReport{Passed: true, Severity: "low"}
	failed := &oracle.AuditReport{
		Passed:   false,
		Severity: "high",
		Issues:   []string{"hardcoded credential in config.go"},
	}

	assert.Contains(t, AuditReport(passed), "PASSED")
	assert.Contains(t, AuditReport(failed), "ISSUES FOUND")
	assert.Contains(t, AuditReport(failed), "hardcoded credential in config.go")
}

func TestExplanation(t *testing.T) {
	out := Explanation(&oracle.Explanation{
		Summary:    "Refactors the config loader.",
		KeyChanges: []string{"extracted validation", "added env overrides"},
	})

	assert.Contains(t, out, "Refactors the config loader.")
	assert.Contains(t, out, "extracted validation")
	assert.Contains(t, out, "added env overrides")
}

func TestCommitMessage(t *testing.T) {
	withBody := CommitMessage(&oracle.CommitMessage{
		Subject: "fix: handle empty ledger on rollback",
		Body:    "Rollback now reports a friendly message instead of failing.",
	})
	subjectOnly := CommitMessage(&oracle.CommitMessage{Subject: "chore: bump deps"})

	assert.Contains(t, withBody, "fix: handle empty ledger on rollback")
	assert.Contains(t, withBody, "friendly message")
	assert.Contains(t, subjectOnly, "chore: bump deps")
	assert.NotContains(t, subjectOnly, "Body:")
}
