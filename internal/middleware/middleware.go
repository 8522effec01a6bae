package middleware

import "net/http"

// Middleware is the common chaining signature: a function that wraps an
// http.Handler with extra behavior before or after delegating to it.
type Middleware func(http.Handler) http.Handler

// CreateStack composes several middleware into one. The first middleware in
// xs becomes the outermost layer of the chain (it runs first), the last one
// wraps the final handler directly.
func CreateStack(xs ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(xs) - 1; i >= 0; i-- {
			next = xs[i](next)
		}
		return next
	}
}
