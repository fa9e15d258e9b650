package ledger

// TimestampLayout is the creation-time format embedded in checkpoint names
// and stored in the ledger (second resolution).
const TimestampLayout = "20060102_150405"

// Checkpoint is one recoverable snapshot: a backup reference pinned at the
// commit that was HEAD at creation time, plus an optional stash commit
// capturing the working tree's uncommitted modifications.
type Checkpoint struct {
	// Ref is the name of the backup branch reference.
	Ref string `json:"ref"`

	// CreatedAt is the creation time in TimestampLayout format. Used for
	// display and as a tie-breaker; ledger order is authoritative.
	CreatedAt string `json:"created"`

	// Stash is the SHA of an unreferenced stash commit holding uncommitted
	// changes, or nil when the tree was clean or snapshotting failed.
	Stash *string `json:"stash"`
}
