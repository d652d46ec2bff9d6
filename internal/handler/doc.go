// Package handler provides HTTP request handlers for the TaskFlow server.
//
// Each handler struct encapsulates the dependencies needed to serve one
// feature area (health, profile, board, page). NewMux wires them onto a
// ServeMux.
//
// # Handler Pattern
//
//   - Constructor function (NewXxxHandler) accepts its dependencies
//   - Dependencies are small interfaces satisfied by the service layer
//   - Response helpers from response.go standardize output format
//   - Errors are mapped to RFC 9457 Problem Details by MapServiceError
//
// # Routes
//
//	GET    /health               liveness and storage reachability
//	GET    /v1/profile           stored profile
//	POST   /v1/profile           sign up
//	DELETE /v1/profile           sign out (tasks are kept)
//	POST   /v1/session           load or seed the profile's tasks
//	GET    /v1/tasks             current board
//	POST   /v1/tasks             add a task
//	POST   /v1/tasks/{id}/move   move a task between stages
//	POST   /v1/actions           dispatch a typed add/move action
//	GET    /                     server-rendered board
//	GET    /metrics              Prometheus metrics
package handler
