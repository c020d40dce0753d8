package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"mission-control/internal/shared/errors"
	"mission-control/internal/shared/response"
)

const indexFile = "index.html"

// StaticHandler serves the front-end bundle. Paths that do not name a file
// fall back to index.html so client side routes resolve.
type StaticHandler struct {
	dir   string
	files http.Handler
}

func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir, files: http.FileServer(http.Dir(dir))}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)

	if name != "/" {
		info, err := os.Stat(filepath.Join(h.dir, filepath.FromSlash(name)))
		if err == nil && !info.IsDir() {
			h.files.ServeHTTP(w, r)
			return
		}
	}

	index := filepath.Join(h.dir, indexFile)
	if _, err := os.Stat(index); err != nil {
		logger := slog.With("handler", "static")
		response.Error(w, r, logger, errors.NotFound("Not found"))
		return
	}

	http.ServeFile(w, r, index)
}
