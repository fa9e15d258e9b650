// Package gitrepo is the boundary to the local git repository.
//
// Reference manipulation (backup branches, hard resets) goes through
// go-git. The few operations go-git has no support for (stash snapshots
// and diff capture) shell out to the git binary instead.
package gitrepo
