package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/angeloszaimis/uwsgicfg/config"
)

type server struct {
	log *slog.Logger
	cfg *config.Config
}

// NewHandler builds the preview router: one file route per static-map mount
// and an index describing the mount table. The harakiri setting becomes the
// per-request timeout.
func NewHandler(log *slog.Logger, cfg *config.Config) http.Handler {
	p := &server{log: log, cfg: cfg}

	r := chi.NewRouter()

	if timeout := cfg.HarakiriTimeout(); timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	r.Get("/", p.index)

	for _, sm := range cfg.StaticMaps {
		mount := strings.TrimSuffix(sm.Mount, "/")
		r.Handle(mount+"/*", p.fileHandler(mount, sm.Path))
	}

	return r
}

type mountInfo struct {
	Mount string `json:"mount"`
	Path  string `json:"path"`
}

func (p *server) index(w http.ResponseWriter, r *http.Request) {
	mounts := make([]mountInfo, 0, len(p.cfg.StaticMaps))
	for _, sm := range p.cfg.StaticMaps {
		mounts = append(mounts, mountInfo{Mount: sm.Mount, Path: sm.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"mounts": mounts}); err != nil {
		p.log.Error("failed to write index", slog.Any("err", err))
	}
}

func (p *server) fileHandler(mount, root string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		rel := strings.TrimPrefix(r.URL.Path, mount+"/")

		if isPathTraversal(rel) {
			p.log.Warn("rejected traversal attempt",
				slog.String("mount", mount),
				slog.String("path", r.URL.Path))
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if rel == "" || strings.HasSuffix(rel, "/") {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		full := filepath.Join(root, filepath.FromSlash(rel))

		// Join cleans the path; a result outside the mount root means the
		// request escaped.
		if !strings.HasPrefix(full, filepath.Clean(root)+string(filepath.Separator)) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		info, err := os.Stat(full)
		if err != nil {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		if info.IsDir() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		p.log.Debug("serving file",
			slog.String("mount", mount),
			slog.String("file", full))

		http.ServeFile(w, r, full)
	})
}

func isPathTraversal(rel string) bool {
	if strings.ContainsRune(rel, 0) {
		return true
	}

	for _, segment := range strings.Split(rel, "/") {
		if segment == ".." {
			return true
		}
	}

	return false
}
