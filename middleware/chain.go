// ABOUTME: Middleware chaining utility for composing HTTP middleware
// ABOUTME: Applies middleware in declaration order (first is outermost)

package middleware

import "net/http"

// Middleware wraps a handler with extra behavior.
type Middleware = func(http.HandlerFunc) http.HandlerFunc

// Chain wraps h so that the first middleware runs first:
// Chain(h, logging, cors) is logging(cors(h)).
func Chain(h http.HandlerFunc, middlewares ...Middleware) http.HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			h = middlewares[i](h)
		}
	}
	return h
}
