//go:build integration

// Package testdb provides helpers for database integration tests.
//
// Tests run inside a transaction that is rolled back when the test finishes,
// so they can share one database and run in parallel:
//
//	func TestStore(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDB(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        s := postgres.NewPostgresNotificationStore(tx, nil)
//	        // ...
//	    })
//	}
//
// The schema is migrated once per test binary with the embedded goose
// migrations of the postgres package. Tests are skipped when DATABASE_URL
// is not set.
package testdb
