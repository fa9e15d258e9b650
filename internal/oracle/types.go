package oracle

import (
	"context"
	"strings"
)

// Risk classifies how destructive a plan is.
type Risk string

// The closed set of risk levels.
const (
	RiskLow     Risk = "low"
	RiskMedium  Risk = "medium"
	RiskHigh    Risk = "high"
	RiskUnknown Risk = "unknown"
)

// ParseRisk normalizes an oracle-reported risk string. Anything outside
// the closed set maps to RiskUnknown.
func ParseRisk(s string) Risk {
	switch Risk(strings.ToLower(strings.TrimSpace(s))) {
	case RiskLow:
		return RiskLow
	case RiskMedium:
		return RiskMedium
	case RiskHigh:
		return RiskHigh
	default:
		return RiskUnknown
	}
}

// InputPlaceholder is the token the oracle embeds in fix commands when a
// value must come from the user (a remote URL, a branch name).
const InputPlaceholder = "{INPUT}"

// Plan is one oracle response: a risk classification, a human-readable
// summary, and the ordered commands to run. Produced fresh per call,
// never cached or persisted.
type Plan struct {
	Risk               Risk     `json:"risk"`
	Summary            string   `json:"summary"`
	Commands           []string `json:"commands"`
	MissingInputPrompt string   `json:"missing_input_prompt,omitempty"`
}

// HasCommands reports whether the plan proposes anything to execute.
func (p *Plan) HasCommands() bool {
	return p != nil && len(p.Commands) > 0
}

// SubstituteInput returns a copy of the plan with every InputPlaceholder
// occurrence replaced verbatim by value.
func (p *Plan) SubstituteInput(value string) *Plan {
	out := *p
	out.Commands = make([]string, len(p.Commands))
	for i, cmd := range p.Commands {
		out.Commands[i] = strings.ReplaceAll(cmd, InputPlaceholder, value)
	}
	out.MissingInputPrompt = ""
	return &out
}

// FixRequest carries the failure context for a fix-plan request.
type FixRequest struct {
	// Intent is the user's original natural-language request.
	Intent string

	// FailedCommands is the command list whose execution just failed.
	FailedCommands []string

	// ErrorText is the captured stderr (or error message) of the failing
	// command.
	ErrorText string

	// History is every command attempted so far across all retries, in
	// execution order, including the failed list.
	History []string
}

// CommitMessage is a generated conventional commit message.
type CommitMessage struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// AuditReport is the oracle's review of a staged diff.
type AuditReport struct {
	Passed   bool     `json:"passed"`
	Severity string   `json:"severity"`
	Issues   []string `json:"issues"`
}

// Explanation is a plain-English description of pending changes.
type Explanation struct {
	Summary    string   `json:"summary"`
	KeyChanges []string `json:"key_changes"`
}

// Client is the oracle interface gitguard consumes.
type Client interface {
	// Plan turns an intent into an execution plan. Oracle failure yields
	// a sentinel plan (unknown risk, no commands), not an error.
	Plan(ctx context.Context, intent string) (*Plan, error)

	// Fix proposes a corrected plan after an execution failure. Same
	// sentinel contract as Plan.
	Fix(ctx context.Context, req *FixRequest) (*Plan, error)

	// CommitMessage generates a conventional commit message for a staged
	// diff.
	CommitMessage(ctx context.Context, diff string) (*CommitMessage, error)

	// Audit reviews a staged diff for bugs, secrets and leftover TODOs.
	Audit(ctx context.Context, diff string) (*AuditReport, error)

	// Explain describes pending changes in plain English.
	Explain(ctx context.Context, diff string) (*Explanation, error)
}
