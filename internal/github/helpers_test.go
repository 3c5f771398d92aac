package github

import (
	"net/http"
	"strconv"
)

func wrapQuery(next http.Handler, out *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			*out = r.URL.RawQuery
		}
		next.ServeHTTP(w, r)
	})
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
