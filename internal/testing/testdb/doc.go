// Package testdb provides test slot store utilities for TaskFlow.
//
// Each constructor registers its own cleanup with t.Cleanup:
//
//	func TestSomething(t *testing.T) {
//	    store := testdb.NewSQLite(t)       // temp-dir file
//	    rstore, srv := testdb.NewRedis(t)  // miniredis
//	    sstore := testdb.NewSurreal(t)     // skipped unless TEST_DB_HOST is set
//	}
//
// # Isolation
//
// SurrealDB stores get a unique namespace per call, removed on cleanup:
//
//	func TestA(t *testing.T) {
//	    store := testdb.NewSurreal(t) // namespace: test_<nanos>_1
//	}
//
// # Timeout Context
//
//	ctx := testdb.Ctx(t) // 10 second timeout, cancelled on cleanup
package testdb
