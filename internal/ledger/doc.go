// Package ledger persists the ordered list of safety checkpoints.
//
// The ledger is a JSON file under the repository's .git directory
// (.git/gitguard/checkpoints.json), most-recent entry first. Entries are
// prepended on checkpoint creation and removed only when a rollback
// consumes them. Writes go through a temp-file-then-rename so a concurrent
// reader never observes a partially written ledger.
package ledger
