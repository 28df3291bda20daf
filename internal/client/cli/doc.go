// Package cli provides the interactive Mindeducation command-line client.
//
// It wires configuration, the credential store, the API client, the session
// manager and the account service, then runs a REPL. On start the saved
// session is restored; until that finishes the client only shows a loading
// message. Afterwards the user lands on the home view when a session was
// restored and on the login/register menu otherwise.
//
// Key features:
//   - Login / Register / Forgot password
//   - Home, profile view and profile editing
//   - Logout
//   - Notification history and session statistics
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
