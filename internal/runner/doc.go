// Package runner drives one agent step against the Anthropic Messages API
// with the tour tools attached, and dispatches tool calls through a tools.Toolset.
//
// Invariant:
//   - tool_use and the corresponding tool_result are kept adjacent within a turn
//     to preserve execution context and simplify follow-up reasoning.
//
// Flow:
//
//	user(text) -> assistant(tool_use) -> user(tool_result) -> assistant(text)
package runner
