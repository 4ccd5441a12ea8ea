// Package models defines the todo entity, the request and response payloads
// exchanged with the HTTP service, and the persistence interface.
//
//   - [Todo] : the single persisted entity (id, item, done)
//   - [TodoRepository] : the four procedure-backed operations
//   - [AddRequest], [UpdateRequest], [RemoveRequest] : request bodies
//   - [Envelope] : the {result, error} response shape shared by every route
//
// Request payloads decode leniently. Browser clients read ids and flags back
// out of form fields, so [ID] accepts numeric strings and [Flag] accepts
// 0/1 and "true"/"false" alongside JSON booleans. [Text] takes any scalar
// item and leaves rejecting it to the store.
package models
