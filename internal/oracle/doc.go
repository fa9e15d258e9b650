// Package oracle is the boundary to the LLM that turns natural-language
// intents into git command plans.
//
// The oracle is treated as a black box with one failure mode: unavailable
// or malformed output. For planning and fix requests that failure mode is
// absorbed here and surfaced as a sentinel Plan with unknown risk and no
// commands, so callers never see an oracle error mid-flow.
package oracle
