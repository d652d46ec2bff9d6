// Package repository implements the data access layer for TaskFlow.
//
// Repositories sit on a database.Store and translate between slot values
// (JSON text) and model structs.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a slot store and a logger
//   - Methods implement specific data operations (Load, Save, Clear)
//   - Unreadable data is logged and reported as absent, never as an error
//   - Backend failures are wrapped and returned
//
// # Slot Layout
//
//	user          -> {"id","name","dob","createdAt","lastLogin"}
//	tasks_<name>  -> {"todo":[...],"completed":[...],"archived":[...]}
//
// TaskKey derives the task slot from a profile. KeyScopeID switches to
// "tasks_id_<id>" so two profiles with the same name do not collide.
//
// # Example Usage
//
//	tasks := NewTaskRepository(store, logger)
//	collection, err := tasks.Load(ctx, TaskKey(profile, KeyScopeName))
//	if err != nil {
//	    return err
//	}
//	if collection == nil {
//	    // first run: seed
//	}
package repository
