package server

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileServer serves audio bytes for GET /songs/<id>.mp3 from the configured
// songs folder. It is a plain byte-range file transfer; catalog metadata is
// not consulted, so a request for a dangling reference is just a 404.
type FileServer struct {
	dir    string
	router *BasicRouter
	logger *log.Logger
}

// NewFileServer creates a FileServer over dir with the given middleware.
func NewFileServer(dir string, logger *log.Logger, middleware ...Middleware) *FileServer {
	fs := &FileServer{
		dir:    dir,
		router: NewBasicRouter(),
		logger: logger,
	}

	fs.router.Use(middleware...)
	fs.router.Handle(http.MethodGet, "/songs/", http.HandlerFunc(fs.serveSong))

	return fs
}

// ServeHTTP implements [http.Handler].
func (fs *FileServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fs.router.ServeHTTP(w, r)
}

func (fs *FileServer) serveSong(w http.ResponseWriter, r *http.Request) {
	filename := strings.TrimPrefix(r.URL.Path, "/songs/")
	if filename == "" {
		http.Error(w, "missing file name", http.StatusBadRequest)
		return
	}

	// filepath.Base defeats traversal; only bare file names are served
	if filename != filepath.Base(filename) || !strings.HasSuffix(filename, ".mp3") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, filepath.Join(fs.dir, filename))
}
