package log

import (
	"context"
	"net/http"
)

func httpHandlerFunc(fn func(ctx context.Context)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fn(r.Context())
	})
}
