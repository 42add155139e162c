package server

import (
	"io/fs"
	"net/http"
	"path"

	"go.trai.ch/loom/internal/core/domain"
)

// distFS hides directories without an index document, so they answer 404
// and reach the fallback instead of producing a listing.
type distFS struct {
	http.FileSystem
}

func (d distFS) Open(name string) (http.File, error) {
	f, err := d.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !info.IsDir() {
		return f, nil
	}

	index, err := d.FileSystem.Open(path.Join(name, domain.IndexFileName))
	if err != nil {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	_ = index.Close()
	return f, nil
}

// static serves files from dist. Index documents requested by name are
// served directly, where http.FileServer would redirect to the directory.
func (s *Server) static() http.Handler {
	root := distFS{FileSystem: http.Dir(s.cfg.Dist)}
	files := http.FileServer(root)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if path.Base(name) != domain.IndexFileName {
			files.ServeHTTP(w, r)
			return
		}

		f, err := root.Open(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer func() {
			_ = f.Close()
		}()

		info, err := f.Stat()
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, name, info.ModTime(), f)
	})
}
