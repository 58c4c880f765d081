// Package memory persists the tour-agent chat transcript between sessions.
//
// Persistence model:
//   - Only text messages are stored (role + text). Tool blocks are transient;
//     their effect lives in the tour files themselves.
//   - The file is rewritten whole after every turn.
package memory
