// Package ui implements an interactive terminal client for the todo service using bubbletea's Elm architecture.
//
// The [Model] follows the same refresh cycle as the browser client:
//  1. Init issues a list request
//  2. A successful list clears the list model and rebuilds one row per todo
//  3. Add (a), toggle (space/enter) and delete (d) each send one request, then always list again
//
// There is no local optimistic update. A toggle inverts the rendered done value and submits
// the full id, item and done triple.
//
// A failure envelope from list replaces the rows with the server's error payload, while
// transport errors are logged and the previous rows are kept. Logs go to the logger passed
// to [NewModel], which the CLI points at a file so the terminal is not corrupted.
//
// Results arrive through the Msg union type.
package ui
