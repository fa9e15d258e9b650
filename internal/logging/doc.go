// Package logging builds the zap logger used across gitguard.
//
// Logs go to stderr so stdout stays free for plan and diff output. The
// encoder is wrapped with a redaction layer because executed command
// strings and oracle prompts can embed user-supplied values (tokens,
// remote URLs with credentials).
package logging
