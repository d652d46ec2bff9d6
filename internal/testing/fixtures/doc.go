// Package fixtures provides test data factories for TaskFlow.
//
// # Factory Pattern
//
// Create a factory over any slot store:
//
//	f := fixtures.New(store)
//
// # Creating Test Data
//
//	profile := f.CreateProfile(t)                          // Ada, born 1990-05-01
//	profile := f.CreateProfile(t, fixtures.WithName("Bo"))
//	f.CreateCollection(t, "tasks_Ada",
//	    fixtures.WithTodo("Buy milk"),
//	    fixtures.WithCompleted("Walk dog"))
//	f.CreateRaw(t, "tasks_Ada", "{not json")
//
// # Timestamps
//
// Fixtures are stamped from BaseTime so assertions on formatted times are
// stable.
package fixtures
