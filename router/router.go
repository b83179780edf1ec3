package router

import (
	"net/http"
)

// Router is the minimal surface the application needs from an HTTP mux.
// Implementations adapt a concrete router library to it.
type Router interface {
	http.Handler

	// Register binds a handler to an HTTP method and path pattern.
	Register(method, path string, handler http.Handler)
}
