// Package session owns the client's authentication state.
//
// # Overview
//
// A single Manager is built at startup and handed to everything that needs
// to know whether the user is signed in. It keeps three things in step:
//
//  1. the in-memory State (Loading, Token, User);
//  2. the SessionContext, whose token every API request reads at dispatch;
//  3. the credential store, which keeps the token and a cached profile
//     across restarts.
//
// # Lifecycle
//
// NewManager starts the restore in the background: the saved token, if any,
// is loaded and bound, then Loading turns false. This happens exactly once.
// Callers wait on Ready (or WaitReady) before deciding which view to show.
//
//	Initializing ──restore──▶ Authenticated | Unauthenticated
//	Unauthenticated ──SignIn──▶ Authenticated
//	Authenticated ──SignOut──▶ Unauthenticated
//
// RefreshUser is only valid while authenticated and never changes the
// authentication state.
//
// # Failure policy
//
// Store writes are best effort: a failure becomes an error notification and
// the in-memory state is kept. Remote failures are returned to the caller.
//
// # Concurrency
//
// All methods are safe for concurrent use. No I/O happens under the state
// lock. Every sign-in and sign-out bumps a generation counter; a RefreshUser
// whose generation is outdated when its response arrives is discarded with
// ErrSessionChanged.
package session
