//go:build integration

// Package testdb provides a migrated PostgreSQL database for integration
// tests together with a transaction-per-test isolation helper.
//
// The database comes from TASKBOARD_TEST_DB_URL or DATABASE_URL when one is
// set (see ciutil.TestDatabaseURL); otherwise a
// disposable container is started with testcontainers-go and shared by
// every test in the binary.
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.Open(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, bcrypt.MinCost, nil)
//	        ...
//	    })
//	}
package testdb
