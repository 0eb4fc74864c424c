// Package cli provides the interactive Coinvault command-line client.
//
// It wires configuration, local storage, the backend HTTP client and an
// interactive REPL over the coin collection. Typical flow: restore any
// persisted session, then execute user commands against the session manager
// and the coin service.
//
// Key features:
//   - Register / Login / Logout, password reset and confirmation resend
//   - Dashboard with search, category filter, sort and view mode
//   - Add / Show / Edit / Delete coins
//   - Profile display and editing
//   - Persistent per-user settings
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
