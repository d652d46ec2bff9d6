// Package jobs implements background job processing for TaskFlow.
//
// Jobs run independently of HTTP request handling and follow the same
// lifecycle: construct, Start, Stop. Start and Stop are idempotent, and
// RunOnce executes a single pass synchronously for tests or manual triggers.
//
// # Available Jobs
//
//   - SessionRefresher: keeps the profile's last-login stamp current while
//     the server is running
//
// # Error Handling
//
// Jobs log errors but don't crash the application. The next tick retries.
package jobs
