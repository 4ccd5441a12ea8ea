// Package repositories implements todo persistence through the store's named procedures.
//
// [TodoRepository] never issues ad-hoc SQL against the todos table. Every
// operation acquires one connection from the [pool.Pool], runs the statement
// the [shared.Dialect] binds to a procedure name, and releases the
// connection whether the call succeeded or not.
package repositories
