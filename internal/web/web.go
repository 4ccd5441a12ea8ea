// Package web serves the browser client.
//
// The client is three static files embedded at build time: index.html,
// index.css and index.js. index.js owns all rendering. It fetches /list,
// clears the #todos container and rebuilds one <li> per item from scratch,
// and re-fetches the whole list after every add, toggle or delete. Nothing is
// patched incrementally and there are no optimistic updates.
//
// Each rendered item carries hidden id/item/done inputs, a ✓/✗ indicator, the
// text, and Done/Delete buttons. Toggling reads the rendered done value,
// inverts it, and posts the full {id, item, done} triple to /update.
//
// A /list response with a falsy result writes its error into #error; a
// network failure is logged to the console and the list is left as it was.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var assets embed.FS

// Assets returns the embedded client files rooted at the static directory.
func Assets() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Handler serves the client. A non-empty dir serves files from disk instead of the embedded copy.
func Handler(dir string) http.Handler {
	if dir != "" {
		return http.FileServer(http.Dir(dir))
	}
	return http.FileServerFS(Assets())
}
