// Package render formats plans, checkpoints and reports for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/gitguard/internal/ledger"
	"github.com/fyrsmithlabs/gitguard/internal/oracle"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	dimStyle = lipgloss.NewStyle().Faint(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)

	riskColors = map[oracle.Risk]lipgloss.Color{
		oracle.RiskLow:     lipgloss.Color("10"),
		oracle.RiskMedium:  lipgloss.Color("11"),
		oracle.RiskHigh:    lipgloss.Color("9"),
		oracle.RiskUnknown: lipgloss.Color("7"),
	}
)

// riskStyle returns a bold style in the risk's color.
func riskStyle(risk oracle.Risk) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(riskColors[risk])
}

// Plan renders an execution plan as a risk-colored panel.
func Plan(title string, p *oracle.Plan) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Interpreted Action:"))
	b.WriteString("\n• " + p.Summary + "\n\n")

	b.WriteString(titleStyle.Render("Risk Level: "))
	b.WriteString(riskStyle(p.Risk).Render(strings.ToUpper(string(p.Risk))))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Planned Commands:"))
	for _, cmd := range p.Commands {
		b.WriteString("\n  " + commandStyle.Render("$ "+cmd))
	}

	panel := panelStyle.BorderForeground(riskColors[p.Risk]).Render(b.String())
	return titleStyle.Render(title) + "\n" + panel + "\n"
}

// Checkpoint renders one ledger entry as a single line.
func Checkpoint(cp ledger.Checkpoint) string {
	line := fmt.Sprintf("%s (created %s)", cp.Ref, cp.CreatedAt)
	if cp.Stash != nil {
		line += dimStyle.Render(" +uncommitted changes")
	}
	return line
}

// RefList renders a titled list of backup reference names.
func RefList(title string, refs []string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	for _, ref := range refs {
		b.WriteString("\n  " + commandStyle.Render(ref))
	}
	b.WriteString("\n")
	return b.String()
}

// AuditReport renders the oracle's review of a staged diff.
func AuditReport(report *oracle.AuditReport) string {
	verdict := riskStyle(oracle.RiskLow).Render("PASSED")
	if !report.Passed {
		verdict = riskStyle(oracle.RiskHigh).Render("ISSUES FOUND")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (severity: %s)\n",
		titleStyle.Render("Audit Result:"), verdict, report.Severity)
	for _, issue := range report.Issues {
		b.WriteString("  - " + issue + "\n")
	}
	return b.String()
}

// Explanation renders a plain-English change summary.
func Explanation(expl *oracle.Explanation) string {
	var b strings.Builder
	b.WriteString(expl.Summary + "\n\n")
	b.WriteString(titleStyle.Render("Key Changes:"))
	for _, change := range expl.KeyChanges {
		b.WriteString("\n  - " + change)
	}
	b.WriteString("\n")
	return b.String()
}

// CommitMessage renders a generated commit message for review.
func CommitMessage(msg *oracle.CommitMessage) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Subject: "))
	b.WriteString(msg.Subject + "\n")
	if msg.Body != "" {
		b.WriteString(titleStyle.Render("Body:"))
		b.WriteString("\n" + msg.Body + "\n")
	}
	return b.String()
}
