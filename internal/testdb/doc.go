// Package testdb provides utilities for database integration tests.
//
// Tests obtain a migrated connection with GetTestDBWithT, which skips the
// test when no database URL is configured, and isolate their writes with
// WithTx, which rolls back when the test function returns.
package testdb
