// Package services implements the client side of the todo HTTP API.
//
// [TodoService] is shared by the command line commands, the terminal client in
// internal/ui and the bulk importer in internal/tasks.
//
// # Error Handling
//
// Two kinds of failure are kept apart, mirroring what the browser client does:
//   - [*APIError] : the server answered with {"result": false, "error": ...}.
//     The payload is kept as-is so callers can show it to the user.
//   - wrapped transport errors ("request failed: ...") : the server could not be reached
//     or the response could not be read. Callers log these and keep their state.
//
// Responses that are not an envelope at all wrap [shared.ErrAPIRequest].
package services
