package handlers

import (
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// NotFoundBody is written when neither a route nor a static file matches.
const NotFoundBody = "404 🤷‍♂️"

// NewStaticHandler serves files from dir and answers everything else with a plain 404.
func NewStaticHandler(dir string) http.Handler {
	return NewStaticHandlerFS(os.DirFS(dir))
}

// NewStaticHandlerFS serves files from fsys and answers everything else with a plain 404.
func NewStaticHandlerFS(fsys fs.FS) http.Handler {
	files := http.FileServerFS(fsys)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			NotFound(w, r)

			return
		}

		if !servable(fsys, r.URL.Path) {
			NotFound(w, r)

			return
		}

		files.ServeHTTP(w, r)
	})
}

// NotFound writes the plain 404 response.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(NotFoundBody))
}

// servable reports whether urlPath names a regular file, or a directory with an index.html.
func servable(fsys fs.FS, urlPath string) bool {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "."
	}

	info, err := fs.Stat(fsys, name)
	if err != nil {
		return false
	}

	if !info.IsDir() {
		return true
	}

	_, err = fs.Stat(fsys, path.Join(name, "index.html"))

	return err == nil
}
