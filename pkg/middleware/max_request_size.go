package middleware

import (
	"net/http"
	"strings"
)

// MaxRequestSize caps request bodies. Handlers reading past the limit
// get an error from http.MaxBytesReader instead of an unbounded body.
// Multipart uploads are capped at uploadLimit instead; the material
// store enforces its own per-file limit on top of this.
func MaxRequestSize(limit, uploadLimit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				max := limit
				if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
					max = uploadLimit
				}
				r.Body = http.MaxBytesReader(w, r.Body, max)
			}
			next.ServeHTTP(w, r)
		})
	}
}
