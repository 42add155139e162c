package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/zerr"
)

// fallbackWriter swallows a 404 response so the SPA document can replace it.
// Every other status passes through untouched.
type fallbackWriter struct {
	http.ResponseWriter
	wroteHeader bool
	notFound    bool
}

func (w *fallbackWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	if code == http.StatusNotFound {
		w.notFound = true
		return
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *fallbackWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.notFound {
		return len(p), nil
	}
	return w.ResponseWriter.Write(p)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *fallbackWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// fallback serves dist/index.html with status 200 whenever next answers 404.
func (s *Server) fallback(next http.Handler) http.Handler {
	index := filepath.Join(s.cfg.Dist, domain.IndexFileName)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fw := &fallbackWriter{ResponseWriter: w}
		next.ServeHTTP(fw, r)
		if !fw.notFound {
			return
		}

		// Headers of the replaced response describe a different body.
		h := w.Header()
		clear(h)

		//nolint:gosec // Path is the configured dist index
		data, err := os.ReadFile(index)
		if err != nil {
			s.logger.Error(zerr.With(zerr.Wrap(err, domain.ErrFallbackUnavailable.Error()), "path", index))
			h.Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, domain.ErrFallbackUnavailable.Error()+"\n")
			return
		}

		h.Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			_, _ = w.Write(data)
		}
	})
}

// statusWriter records the response status for request logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(p)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		s.logger.Debug(fmt.Sprintf("%s %s %d (%s)", r.Method, r.URL.Path, sw.status, time.Since(start).Round(time.Microsecond)))
	})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			err := zerr.With(zerr.With(zerr.New(fmt.Sprint(rec)), "method", r.Method), "path", r.URL.Path)
			s.logger.Error(zerr.Wrap(err, "panic serving request"))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}
