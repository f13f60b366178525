package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inferd/internal/catalog"
	"inferd/internal/sampling"
	"inferd/internal/stream"
	"inferd/pkg/types"
)

// Service defines the backend surface required by the HTTP API layer: the
// read-only state the normalizer consults plus the inference capability.
type Service interface {
	Infer(ctx context.Context, req types.CanonicalRequest, stream bool) (<-chan types.Snapshot, error)
	ModelName() string
	ModelDict() map[string]any
	ChatAvailable() bool
	LastError() string
	Ready() bool
}

// NewMux builds the HTTP handler: three generation endpoints, the
// capability listing, and the usual health/metrics plumbing.
func NewMux(svc Service, records []catalog.Record) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	r.Post("/v1/completions", func(w http.ResponseWriter, r *http.Request) {
		if !checkAuth(w, r) {
			return
		}
		var post types.TextSamplingParams
		if !decodeBody(w, r, &post) {
			return
		}
		req, err := sampling.Text(svc, post)
		if err != nil {
			writeMappedError(w, err)
			return
		}
		serveGeneration(w, r, svc, req, post.Stream, false)
	})

	r.Post("/v1/contrast", func(w http.ResponseWriter, r *http.Request) {
		if !checkAuth(w, r) {
			return
		}
		var post types.DiffSamplingParams
		if !decodeBody(w, r, &post) {
			return
		}
		req, err := sampling.Diff(svc, post)
		if err != nil {
			writeMappedError(w, err)
			return
		}
		serveGeneration(w, r, svc, req, post.Stream, false)
	})

	r.Post("/v1/chat", func(w http.ResponseWriter, r *http.Request) {
		if !checkAuth(w, r) {
			return
		}
		var post types.ChatSamplingParams
		if !decodeBody(w, r, &post) {
			return
		}
		req, err := sampling.Chat(svc, post)
		if err != nil {
			writeMappedError(w, err)
			return
		}
		// Chat responses are always streamed.
		serveGeneration(w, r, svc, req, true, true)
	})

	r.Get("/v1/login", func(w http.ResponseWriter, r *http.Request) {
		if !checkAuth(w, r) {
			return
		}
		loaded := svc.ModelName()
		if loaded == "" {
			detail := svc.LastError()
			if detail == "" {
				detail = "model is loading"
			}
			writeJSONError(w, http.StatusUnauthorized, detail)
			return
		}
		dict := svc.ModelDict()
		if len(dict) == 0 {
			writeJSONError(w, http.StatusUnauthorized, "unknown model '"+loaded+"'")
			return
		}
		doc := catalog.Login(records, catalog.FilterCaps(dict), loaded)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeBody enforces content type and size, then decodes the JSON payload.
// Returns false after writing the rejection.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// serveGeneration runs one normalized request against the backend and
// adapts its snapshot sequence onto the response. Client disconnects are a
// normal termination; the adapters log them and return nil.
func serveGeneration(w http.ResponseWriter, r *http.Request, svc Service, req types.CanonicalRequest, streaming, chat bool) {
	lvl := requestLogLevel(r)
	start := time.Now()
	if lvl >= LevelInfo {
		logRequest(r, "infer start", map[string]any{
			"id":     req["id"],
			"object": req.Object(),
			"model":  req["model"],
		})
	}

	// Join server base context with request context so shutdown cancels work too.
	joined, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()

	snaps, err := svc.Infer(joined, req, streaming)
	if err != nil {
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		status := writeMappedError(w, err)
		if lvl >= LevelInfo {
			logRequest(r, "infer end", map[string]any{
				"status": status,
				"dur":    time.Since(start).String(),
				"err":    err.Error(),
			})
		}
		return
	}

	var flush func()
	if f, ok := w.(http.Flusher); ok {
		flush = f.Flush
	}
	if streaming {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}

	if chat {
		err = stream.ChatDelta(joined, snaps, w, flush)
	} else {
		err = stream.Plain(joined, snaps, streaming, w, flush)
	}
	if err != nil {
		// Serialization failure mid-stream; headers are already out.
		logRequest(r, "infer write failed", map[string]any{"err": err.Error()})
		return
	}
	if lvl >= LevelInfo {
		logRequest(r, "infer end", map[string]any{
			"status": http.StatusOK,
			"dur":    time.Since(start).String(),
		})
	}
}
