package middlewares

import (
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/unrolled/render"
)

type Middleware func(http.Handler) http.Handler

// Chain wraps h so that mws run in the order given. A middleware that writes
// a response without calling next stops the chain.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// Recoverer turns a panic in a handler into a JSON 500 response.
func Recoverer(rnd *render.Render) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Printf("Recoverer: panic on %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
					_ = rnd.JSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
