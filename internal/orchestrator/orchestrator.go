// Package orchestrator drives a guarded run: a natural-language intent is
// planned by the oracle, confirmed by the user, checkpointed, executed,
// and on failure repaired through a bounded fix loop with a rollback
// offer at the end.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gitguard/internal/executor"
	"github.com/fyrsmithlabs/gitguard/internal/ledger"
	"github.com/fyrsmithlabs/gitguard/internal/oracle"
	"github.com/fyrsmithlabs/gitguard/internal/prompt"
	"github.com/fyrsmithlabs/gitguard/internal/render"
)

// Outcome is the terminal state of a run.
type Outcome string

// Terminal states.
const (
	// OutcomeSuccess means every command in some attempt succeeded.
	OutcomeSuccess Outcome = "success"

	// OutcomeNothingToDo means the oracle produced no commands.
	OutcomeNothingToDo Outcome = "nothing-to-do"

	// OutcomeCancelled means the user declined the initial plan.
	OutcomeCancelled Outcome = "cancelled"

	// OutcomeFixDeclined means the user declined a proposed fix.
	OutcomeFixDeclined Outcome = "fix-declined"

	// OutcomeExhausted means the attempt limit was reached, or the oracle
	// had no fix to offer.
	OutcomeExhausted Outcome = "exhausted"
)

// Planner is the oracle surface a run needs.
type Planner interface {
	Plan(ctx context.Context, intent string) (*oracle.Plan, error)
	Fix(ctx context.Context, req *oracle.FixRequest) (*oracle.Plan, error)
}

// CommandRunner executes a command list, stopping at the first failure.
type CommandRunner interface {
	Run(ctx context.Context, commands []string) error
}

// Checkpointer creates recovery points and restores them.
type Checkpointer interface {
	Create(ctx context.Context) *ledger.Checkpoint
	Restore(ctx context.Context, cp ledger.Checkpoint) error
}

// Runner executes guarded runs.
type Runner struct {
	oracle      Planner
	exec        CommandRunner
	checkpoints Checkpointer
	prompter    prompt.Prompter
	out         io.Writer
	logger      *zap.Logger
	maxAttempts int
}

// Option customizes a Runner.
type Option func(*Runner)

// WithOutput overrides where user-facing messages are written.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// NewRunner creates a run orchestrator. maxAttempts bounds the total
// number of execution attempts, the first included.
func NewRunner(planner Planner, exec CommandRunner, checkpoints Checkpointer, prompter prompt.Prompter, maxAttempts int, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	r := &Runner{
		oracle:      planner,
		exec:        exec,
		checkpoints: checkpoints,
		prompter:    prompter,
		out:         os.Stdout,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run carries one intent from planning to a terminal state.
func (r *Runner) Run(ctx context.Context, intent string) (Outcome, error) {
	logger := r.logger.With(zap.String("run_id", uuid.NewString()))
	logger.Info("run started", zap.String("intent", intent))

	plan, err := r.oracle.Plan(ctx, intent)
	if err != nil {
		return OutcomeNothingToDo, fmt.Errorf("planning: %w", err)
	}

	fmt.Fprint(r.out, render.Plan("Proposed Plan", plan))
	if !plan.HasCommands() {
		fmt.Fprintln(r.out, "Nothing to execute.")
		logger.Info("run finished", zap.String("outcome", string(OutcomeNothingToDo)))
		return OutcomeNothingToDo, nil
	}

	ok, err := r.prompter.Confirm("Proceed with this plan?", false)
	if err != nil {
		return OutcomeCancelled, fmt.Errorf("reading confirmation: %w", err)
	}
	if !ok {
		fmt.Fprintln(r.out, "Aborted. Nothing was executed.")
		logger.Info("run finished", zap.String("outcome", string(OutcomeCancelled)))
		return OutcomeCancelled, nil
	}

	cp := r.checkpoints.Create(ctx)

	outcome := r.attemptLoop(ctx, logger, intent, plan.Commands)
	logger.Info("run finished", zap.String("outcome", string(outcome)))

	if outcome != OutcomeSuccess && cp != nil {
		r.offerRollback(ctx, logger, *cp)
	}
	return outcome, nil
}

// attemptLoop runs the command list, asking the oracle for a fix after
// each failure, until success, the attempt limit, a missing fix, or a
// declined fix.
func (r *Runner) attemptLoop(ctx context.Context, logger *zap.Logger, intent string, commands []string) Outcome {
	var history []string

	for attempt := 1; ; attempt++ {
		logger.Info("executing",
			zap.Int("attempt", attempt),
			zap.Int("commands", len(commands)))

		runErr := r.exec.Run(ctx, commands)
		history = append(history, commands...)
		if runErr == nil {
			fmt.Fprintln(r.out, "All commands completed successfully.")
			fmt.Fprintln(r.out, "Undo with: gitguard rollback")
			return OutcomeSuccess
		}

		errText := errorText(runErr)
		fmt.Fprintf(r.out, "Command failed: %s\n", errText)
		logger.Warn("attempt failed", zap.Int("attempt", attempt), zap.String("error", errText))

		if attempt >= r.maxAttempts {
			fmt.Fprintf(r.out, "Giving up after %d attempts.\n", attempt)
			return OutcomeExhausted
		}

		fix, err := r.oracle.Fix(ctx, &oracle.FixRequest{
			Intent:         intent,
			FailedCommands: commands,
			ErrorText:      errText,
			History:        history,
		})
		if err != nil || !fix.HasCommands() {
			fmt.Fprintln(r.out, "No fix available.")
			return OutcomeExhausted
		}

		if fix.MissingInputPrompt != "" {
			value, err := r.prompter.Input(fix.MissingInputPrompt)
			if err != nil {
				fmt.Fprintln(r.out, "No fix applied.")
				return OutcomeExhausted
			}
			fix = fix.SubstituteInput(value)
		}

		fmt.Fprint(r.out, render.Plan("Proposed Fix", fix))
		ok, err := r.prompter.Confirm("Apply this fix?", true)
		if err != nil || !ok {
			fmt.Fprintln(r.out, "Fix declined.")
			return OutcomeFixDeclined
		}

		commands = fix.Commands
	}
}

// offerRollback asks whether to restore the checkpoint taken at the start
// of the run. Accepting is the default: the run just failed.
func (r *Runner) offerRollback(ctx context.Context, logger *zap.Logger, cp ledger.Checkpoint) {
	fmt.Fprintf(r.out, "A checkpoint from before this run exists: %s\n", render.Checkpoint(cp))
	ok, err := r.prompter.Confirm("Roll back to it?", true)
	if err != nil || !ok {
		fmt.Fprintf(r.out, "Checkpoint kept. Restore later with: gitguard rollback\n")
		return
	}
	if err := r.checkpoints.Restore(ctx, cp); err != nil {
		fmt.Fprintf(r.out, "Rollback failed: %v\n", err)
		logger.Error("rollback failed", zap.Error(err))
	}
}

// errorText prefers the failing command's captured stderr over the
// wrapper error string.
func errorText(err error) string {
	var cmdErr *executor.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Stderr != "" {
		return cmdErr.Stderr
	}
	return err.Error()
}
