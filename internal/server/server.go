// Package server exposes the HTTP API consumed by the RedFlix front end:
// the content library, catalog rows, profile lists, football section, chat
// widget, and the admin surface.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/rmachado/redflix/api"
	"github.com/rmachado/redflix/internal/cache"
	"github.com/rmachado/redflix/internal/chat"
	"github.com/rmachado/redflix/internal/config"
	"github.com/rmachado/redflix/internal/football"
	"github.com/rmachado/redflix/internal/library"
	"github.com/rmachado/redflix/internal/metadata"
	"github.com/rmachado/redflix/internal/models"
	"github.com/rmachado/redflix/internal/playlist"
	"github.com/rmachado/redflix/internal/profile"
	"github.com/rmachado/redflix/internal/store"
)

// Server holds dependencies for the HTTP API.
type Server struct {
	store    store.Store
	cfg      *config.Config
	library  *library.Service
	profile  *profile.Service
	football *football.Cache
	catalog  *metadata.Client // nil when TMDB_API_KEY is not set
	chat     *chat.Manager    // nil when GEMINI_API_KEY is not set
	redis    *cache.Redis     // nil when Redis is not configured
	mux      *http.ServeMux
}

// New creates a Server and registers routes. catalog, chatMgr, and rds may
// be nil when the corresponding integration is not configured.
func New(s store.Store, cfg *config.Config, lib *library.Service, prof *profile.Service,
	fb *football.Cache, catalog *metadata.Client, chatMgr *chat.Manager, rds *cache.Redis) *Server {
	srv := &Server{
		store:    s,
		cfg:      cfg,
		library:  lib,
		profile:  prof,
		football: fb,
		catalog:  catalog,
		chat:     chatMgr,
		redis:    rds,
		mux:      http.NewServeMux(),
	}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// Content library
	s.mux.HandleFunc("GET /api/content", s.handleListContent)
	s.mux.HandleFunc("GET /api/content/{id}", s.handleGetContent)
	s.mux.HandleFunc("GET /api/catalog/{category}", s.handleCatalog)

	// Profile lists
	s.mux.HandleFunc("GET /api/lists/{list}", s.handleGetList)
	s.mux.HandleFunc("POST /api/lists/{list}", s.handleAddToList)
	s.mux.HandleFunc("DELETE /api/lists/{list}/{id}", s.handleRemoveFromList)
	s.mux.HandleFunc("GET /api/liked", s.handleGetLiked)
	s.mux.HandleFunc("POST /api/liked/{id}/toggle", s.handleToggleLiked)

	// Football
	s.mux.HandleFunc("GET /api/football/teams", s.handleTeams)
	s.mux.HandleFunc("GET /api/football/matches", s.handleUpcomingMatches)
	s.mux.HandleFunc("GET /api/football/matches/featured", s.handleFeaturedMatch)
	s.mux.HandleFunc("GET /api/football/matches/{id}", s.handleGetMatch)
	s.mux.HandleFunc("GET /api/football/standings", s.handleStandings)

	// Chat
	s.mux.HandleFunc("POST /api/chat/sessions", s.handleNewChatSession)
	s.mux.HandleFunc("POST /api/chat/sessions/{id}/messages", s.handleChatMessage)

	// Admin
	s.mux.HandleFunc("GET /api/admin/playlist", s.handleGetPlaylist)
	s.mux.HandleFunc("PUT /api/admin/playlist", s.handleSetPlaylist)
	s.mux.HandleFunc("POST /api/admin/playlist/sync", s.handleSyncPlaylist)
	s.mux.HandleFunc("GET /api/admin/curated", s.handleGetCurated)
	s.mux.HandleFunc("PUT /api/admin/curated", s.handleSaveCurated)
	s.mux.HandleFunc("PATCH /api/admin/football/matches/{id}", s.handlePatchMatch)

	// Docs
	s.mux.HandleFunc("GET /api/docs", handleSwaggerUI)
	s.mux.HandleFunc("GET /api/docs/openapi.yaml", handleOpenAPISpec)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the configured port.
// It blocks until the server is shut down or ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := ":" + s.cfg.ServerPort
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      withCORS(withLogging(s)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("ListenAndServe: %w", err)
	}
	return nil
}

// --- handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- content handlers ---

func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.ContentFilter{
		Group:  q.Get("group"),
		Search: q.Get("search"),
	}
	if v := q.Get("media_type"); v != "" {
		switch v {
		case string(models.MediaTypeMovie), string(models.MediaTypeTV):
			mt := models.MediaType(v)
			filter.MediaType = &mt
		default:
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid media_type: %s (use movie or tv)", v))
			return
		}
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid limit: %s", v))
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid offset: %s", v))
			return
		}
		filter.Offset = n
	}

	// Apply defaults so the response reflects actual values used.
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}

	items, total, err := s.library.All(r.Context(), filter)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if items == nil {
		items = []models.ContentItem{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":  items,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	item, err := s.library.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, http.StatusNotFound, fmt.Errorf("content %d not found", id))
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleCatalog serves one TMDB browse row. Upstream failures degrade to an
// empty row so the home page always renders.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeJSON(w, http.StatusOK, []models.ContentItem{})
		return
	}
	category := r.PathValue("category")
	items, err := s.catalog.Catalog(r.Context(), category)
	if err != nil {
		log.Printf("catalog %s: %v", category, err)
		writeJSON(w, http.StatusOK, []models.ContentItem{})
		return
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// --- profile list handlers ---

func parseListName(r *http.Request) (models.ListName, error) {
	switch v := r.PathValue("list"); v {
	case "my-list":
		return models.ListMyList, nil
	case "watch-later":
		return models.ListWatchLater, nil
	default:
		return "", fmt.Errorf("unknown list %q (use my-list or watch-later)", v)
	}
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	name, err := parseListName(r)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	items := s.profile.List(name)
	if items == nil {
		items = []models.ContentItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddToList(w http.ResponseWriter, r *http.Request) {
	name, err := parseListName(r)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	var item models.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if item.ID == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("item id is required"))
		return
	}
	if err := s.profile.Add(r.Context(), name, item); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, s.profile.List(name))
}

func (s *Server) handleRemoveFromList(w http.ResponseWriter, r *http.Request) {
	name, err := parseListName(r)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	if err := s.profile.Remove(r.Context(), name, id); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeNoContent(w)
}

func (s *Server) handleGetLiked(w http.ResponseWriter, _ *http.Request) {
	liked := s.profile.Liked()
	if liked == nil {
		liked = []int64{}
	}
	writeJSON(w, http.StatusOK, liked)
}

func (s *Server) handleToggleLiked(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	liked, err := s.profile.ToggleLiked(r.Context(), id)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "liked": liked})
}

// --- football handlers ---
//
// These never return an error status: the cache degrades to the built-in
// dataset so the section is always populated.

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.football.AllTeams(r.Context()))
}

func (s *Server) handleUpcomingMatches(w http.ResponseWriter, r *http.Request) {
	matches := s.football.UpcomingMatches(r.Context())
	if matches == nil {
		matches = []models.Match{}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleFeaturedMatch(w http.ResponseWriter, r *http.Request) {
	match := s.football.FeaturedMatch(r.Context())
	if match == nil {
		writeErr(w, http.StatusNotFound, fmt.Errorf("no matches available"))
		return
	}
	writeJSON(w, http.StatusOK, match)
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	match := s.football.MatchByID(r.Context(), id)
	if match == nil {
		writeErr(w, http.StatusNotFound, fmt.Errorf("match %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, match)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.football.Standings(r.Context()))
}

// --- chat handlers ---

type newChatSessionRequest struct {
	Instruction string `json:"instruction"`
}

func (s *Server) handleNewChatSession(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		writeErr(w, http.StatusServiceUnavailable, fmt.Errorf("chat is not configured (GEMINI_API_KEY not set)"))
		return
	}
	var req newChatSessionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // body is optional
	}
	id := s.chat.NewSession(req.Instruction)
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

type chatMessageRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		writeErr(w, http.StatusServiceUnavailable, fmt.Errorf("chat is not configured (GEMINI_API_KEY not set)"))
		return
	}
	var req chatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if req.Message == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("message is required"))
		return
	}

	reply, err := s.chat.SendMessage(r.Context(), r.PathValue("id"), req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusBadGateway, fmt.Errorf("chat: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// --- admin handlers ---

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	url, err := s.library.SourceURL(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

type setPlaylistRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleSetPlaylist(w http.ResponseWriter, r *http.Request) {
	var req setPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if req.URL == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("url is required"))
		return
	}
	if err := s.library.SetSourceURL(r.Context(), req.URL); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": req.URL})
}

// handleSyncPlaylist runs a sync and reports the summary for the admin
// banner. With ?async=true and Redis configured, the sync is queued for the
// background worker instead.
func (s *Server) handleSyncPlaylist(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("async") == "true" {
		if s.redis == nil {
			writeErr(w, http.StatusServiceUnavailable, fmt.Errorf("async sync requires Redis (REDIS_URL not set)"))
			return
		}
		job := cache.SyncJob{RequestedBy: "admin", RequestedAt: time.Now()}
		if err := cache.Enqueue(r.Context(), s.redis, cache.SyncQueue, job); err != nil {
			writeErr(w, http.StatusInternalServerError, fmt.Errorf("enqueue sync: %w", err))
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"queued": true})
		return
	}

	summary, err := s.library.Sync(r.Context())
	if err != nil {
		var fetchErr *playlist.FetchError
		switch {
		case errors.Is(err, library.ErrNoSourceURL):
			writeErr(w, http.StatusBadRequest, err)
		case errors.As(err, &fetchErr):
			writeErr(w, http.StatusBadGateway, fetchErr)
		default:
			writeErr(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleGetCurated(w http.ResponseWriter, r *http.Request) {
	lists, err := s.store.GetCuratedLists(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if lists == nil {
		lists = []models.CuratedList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

// handleSaveCurated validates the whole payload before any write, so a
// malformed paste in the admin form never mutates state.
func (s *Server) handleSaveCurated(w http.ResponseWriter, r *http.Request) {
	var lists []models.CuratedList
	if err := json.NewDecoder(r.Body).Decode(&lists); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	for _, cl := range lists {
		if cl.ID == "" {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("curated list id is required"))
			return
		}
	}
	if err := s.store.SaveCuratedLists(r.Context(), lists); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// handlePatchMatch edits the in-memory copy of a match. Changes are not
// persisted to any backend; see football.Updater.
func (s *Server) handlePatchMatch(w http.ResponseWriter, r *http.Request) {
	var patch football.MatchPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if patch.Status != nil && patch.Status.Rank() == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid status %q", *patch.Status))
		return
	}

	id := r.PathValue("id")
	match, err := s.football.ApplyMatchUpdate(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, football.ErrStatusReversal) {
			writeErr(w, http.StatusConflict, err)
			return
		}
		writeErr(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// --- middleware ---

// withCORS adds CORS headers to every response and handles preflight OPTIONS requests.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// withLogging wraps a handler and logs each request with method, path, status, and duration.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		statusCode := sw.status

		// Color the status code for terminal readability.
		statusColor := colorForStatus(statusCode)
		methodColor := colorForMethod(r.Method)

		log.Printf("%s %-7s %s\x1b[0m  %s %3d %s\x1b[0m  %s  %s",
			methodColor, r.Method, "\x1b[0m",
			statusColor, statusCode, "\x1b[0m",
			formatDuration(duration), r.URL.Path)
	})
}

func colorForStatus(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "\x1b[32m" // green
	case code >= 300 && code < 400:
		return "\x1b[36m" // cyan
	case code >= 400 && code < 500:
		return "\x1b[33m" // yellow
	default:
		return "\x1b[31m" // red
	}
}

func colorForMethod(method string) string {
	switch method {
	case http.MethodGet:
		return "\x1b[36m" // cyan
	case http.MethodPost:
		return "\x1b[32m" // green
	case http.MethodPatch, http.MethodPut:
		return "\x1b[33m" // yellow
	case http.MethodDelete:
		return "\x1b[31m" // red
	default:
		return "\x1b[37m" // white
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dus", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// --- helpers ---

// APIError is the standard error envelope for all error responses.
type APIError struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// parseID extracts a path parameter by name and parses it as int64.
func parseID(r *http.Request, param string) (int64, error) {
	v := r.PathValue(param)
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", param, v)
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON: %v", err)
	}
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func writeErr(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		log.Printf("ERROR %d: %v", status, err)
	}
	writeJSON(w, status, APIError{
		Status: status,
		Error:  http.StatusText(status),
		Detail: err.Error(),
	})
}

// --- docs handlers ---

func handleOpenAPISpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(api.OpenAPISpec)
}

func handleSwaggerUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, swaggerUIHTML)
}

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>RedFlix API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
  <style>html{box-sizing:border-box;overflow-y:scroll}*,*:before,*:after{box-sizing:inherit}body{margin:0;background:#fafafa}</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "/api/docs/openapi.yaml",
      dom_id: "#swagger-ui",
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: "BaseLayout",
    });
  </script>
</body>
</html>`
