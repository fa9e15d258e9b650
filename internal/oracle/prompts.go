package oracle

import (
	"fmt"
	"strings"
)

const planPromptTemplate = `You are GitGuard, an AI git safety copilot.
The user's intent is: %q

Create a safe execution plan for this git operation.

Guidelines:
- risk "low": non-destructive (status, log, branch listing).
- risk "medium": modifies history or working directory but recoverable
  (commit, checkout, reset --soft).
- risk "high": destructive or hard to undo (reset --hard, force push,
  branch deletion).
- Ensure commands are valid git and follow best practices.
- For "delete this branch", determine the current branch first, then
  delete it safely.

Respond with only a JSON object, no prose and no code fences:
{"risk": "low|medium|high", "summary": "<short explanation>", "commands": ["<git command>", ...]}`

const fixPromptTemplate = `You are GitGuard, an AI git safety copilot.
The user's intent was: %q

This command sequence failed:
%s

The error was:
%s

All commands attempted so far, in order:
%s

Propose a corrected command sequence that achieves the intent. If a value
only the user knows is required (a remote URL, a branch name), put the
literal token {INPUT} where it belongs in the commands and describe what
to ask for in "missing_input_prompt". Otherwise omit that field.

Respond with only a JSON object, no prose and no code fences:
{"risk": "low|medium|high", "summary": "<what the fix does>", "commands": ["<git command>", ...], "missing_input_prompt": "<question for the user>"}`

const commitPromptTemplate = `Generate a conventional commit message for the
following staged diff. Subject line under 72 characters, imperative mood;
body explains what and why.

Diff:
%s

Respond with only a JSON object, no prose and no code fences:
{"subject": "<type(scope): summary>", "body": "<wrapped body text>"}`

const auditPromptTemplate = `Audit the following staged diff for hardcoded
secrets, likely bugs, and leftover TODO/FIXME markers. Be specific: name
the file and the problem.

Diff:
%s

Respond with only a JSON object, no prose and no code fences:
{"passed": true|false, "severity": "none|low|medium|high", "issues": ["<finding>", ...]}`

const explainPromptTemplate = `Explain the following diff in plain English
for a reviewer who has not seen the code.

Diff:
%s

Respond with only a JSON object, no prose and no code fences:
{"summary": "<one paragraph>", "key_changes": ["<notable change>", ...]}`

func planPrompt(intent string) string {
	return fmt.Sprintf(planPromptTemplate, intent)
}

func fixPrompt(req *FixRequest) string {
	return fmt.Sprintf(fixPromptTemplate,
		req.Intent,
		bulleted(req.FailedCommands),
		req.ErrorText,
		bulleted(req.History),
	)
}

func bulleted(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
