//go:build integration

// Package testdb provides helpers for integration tests that need a real
// Postgres database.
//
// Tests are skipped unless HARTEX_TEST_DB_URL or DATABASE_URL is set.
// GetTestDBWithT opens a connection and migrates the schema once per
// connection; WithTx runs a test inside a transaction that is always rolled
// back, so tests can run in parallel without cleaning up after themselves.
//
//	func TestAddGuild(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        store := whitelist.NewStore(tx)
//	        require.NoError(t, store.Add(context.Background(), guild))
//	    })
//	}
package testdb
