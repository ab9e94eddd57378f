package server

import (
	"log"
	"net/http"
)

// loggingMiddleware logs every API request. The appliance UI polls the
// downloads & services routes, so this stays to one line per request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Println("[API]", r.Method, r.RequestURI, r.ContentLength)
		next.ServeHTTP(w, r)
	})
}
