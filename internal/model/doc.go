// Package model defines domain entities and data structures for TaskFlow.
//
// The model package contains struct definitions for domain objects,
// request types and error definitions. Models are used across all layers
// of the application.
//
// # Domain Entities
//
//   - Task: one tracked item with text and created/updated timestamps
//   - TaskCollection: the todo, completed and archived sequences, most
//     recent first
//   - UserProfile: the single local user
//   - RenderModel: the display-ready projection of a collection
//   - Action: a typed add or move command from a UI adapter
//
// # JSON Serialization
//
// Slot values keep the field names earlier clients wrote:
//
//	type Task struct {
//	    ID        string    `json:"id"`
//	    Text      string    `json:"text"`
//	    CreatedAt time.Time `json:"created"`
//	    UpdatedAt time.Time `json:"updated"`
//	}
//
// # Validation Constants
//
//	const (
//	    MaxTaskTextLength    = 200
//	    MinProfileNameLength = 2
//	    MaxProfileNameLength = 50
//	    MinProfileAge        = 10 // must be strictly older
//	    MaxProfileAge        = 120
//	)
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go.
package model
