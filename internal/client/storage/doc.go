// Package storage is the client's credential store: a namespaced key/value
// table in a local SQLite database that survives restarts.
//
// Two logical keys are used by the session manager, KeyToken and KeyUser,
// both holding JSON text. Load never fails for a missing key; it reports
// (“”, false, nil). Save upserts. Remove deletes any number of keys in one
// transaction and ignores keys that are already gone.
//
// The database is opened with InitDatabase, which applies the embedded goose
// migrations from package migrations.
package storage
