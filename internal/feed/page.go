package feed

import (
	_ "embed"
	"net/http"
)

//go:embed page.html
var page []byte

// PageHandler serves a minimal overlay page that shows the latest feed text.
func PageHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})
}
