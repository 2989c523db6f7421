package middleware

import "net/http"

type Middleware func(http.Handler) http.Handler

// Wrap applies mws to h innermost first, so the last middleware
// in the list sees the request before the others.
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	for _, mw := range mws {
		h = mw(h)
	}
	return h
}
