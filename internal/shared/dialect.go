package shared

import (
	"fmt"
	"strconv"
	"strings"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
)

// Names of the procedures the todo table is manipulated through.
const (
	ProcAdd    = "todo_add"
	ProcList   = "todo_list"
	ProcRemove = "todo_remove"
	ProcUpdate = "todo_update"
)

// Dialect describes how a driver reaches the todo procedures.
//
// MySQL and PostgreSQL expose real stored routines created by the migrations.
// SQLite has none, so its dialect binds each procedure name to the single
// statement the routine would run.
type Dialect struct {
	Driver     string
	Migrations string // directory under sql/ holding this driver's migrations
	numbered   bool   // $1, $2 placeholders instead of ?
	calls      map[string]string
}

var dialects = map[string]Dialect{
	DriverMySQL: {
		Driver:     DriverMySQL,
		Migrations: "mysql",
		calls: map[string]string{
			ProcAdd:    "CALL todo_add(?)",
			ProcList:   "CALL todo_list()",
			ProcRemove: "CALL todo_remove(?)",
			ProcUpdate: "CALL todo_update(?, ?, ?)",
		},
	},
	DriverPostgres: {
		Driver:     DriverPostgres,
		Migrations: "postgres",
		numbered:   true,
		calls: map[string]string{
			ProcAdd:    "CALL todo_add($1)",
			ProcList:   "SELECT id, item, done FROM todo_list()",
			ProcRemove: "CALL todo_remove($1)",
			ProcUpdate: "CALL todo_update($1, $2, $3)",
		},
	},
	DriverSQLite: {
		Driver:     DriverSQLite,
		Migrations: "sqlite",
		calls: map[string]string{
			ProcAdd:    "INSERT INTO todos (item, done) VALUES (?, 0)",
			ProcList:   "SELECT id, item, done FROM todos ORDER BY id",
			ProcRemove: "DELETE FROM todos WHERE id = ?",
			ProcUpdate: "UPDATE todos SET item = ?2, done = ?3 WHERE id = ?1",
		},
	},
}

// DialectFor returns the [Dialect] registered for a driver name.
func DialectFor(driver string) (Dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return Dialect{}, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	return d, nil
}

// Call returns the statement that invokes the named procedure.
func (d Dialect) Call(proc string) (string, error) {
	stmt, ok := d.calls[proc]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProcedure, proc)
	}
	return stmt, nil
}

// Rebind rewrites ? placeholders into the driver's native style.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
