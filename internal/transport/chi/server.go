package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/keepmark/keepmark/internal/domain"
	dombm "github.com/keepmark/keepmark/internal/domain/bookmark"
	"github.com/keepmark/keepmark/internal/domain/search/filter"
	"github.com/keepmark/keepmark/internal/domain/search/request"
	ingestuc "github.com/keepmark/keepmark/internal/usecase/ingest"
	provideruc "github.com/keepmark/keepmark/internal/usecase/provider"
	searchuc "github.com/keepmark/keepmark/internal/usecase/search"
)

// userIDHeader carries the authenticated end-user id, set by the upstream
// auth layer. The Bearer key authenticates the calling service, not the user.
const userIDHeader = "X-User-ID"

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest             = "bad_request"
	codeUnauthorized           = "unauthorized"
	codeValidationFailed       = "validation_failed"
	codeBookmarkNotFound       = "bookmark_not_found"
	codeFolderNotFound         = "folder_not_found"
	codeProviderNotConfigured  = "provider_not_configured"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeInternalError          = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Pinger is the storage liveness surface used by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP API server.
type Server struct {
	search        *searchuc.Service
	ingest        *ingestuc.Service
	providers     *provideruc.Service
	db            Pinger
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	ingest *ingestuc.Service,
	providers *provideruc.Service,
	db Pinger,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:    search,
		ingest:    ingest,
		providers: providers,
		db:        db,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrBookmarkNotFound, http.StatusNotFound, codeBookmarkNotFound),
		sentinelHandler(domain.ErrFolderNotFound, http.StatusNotFound, codeFolderNotFound),
		sentinelHandler(domain.ErrProviderNotConfigured, http.StatusConflict, codeProviderNotConfigured),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
	}
	return s
}

// Mount attaches all routes to the router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.SearchBookmarks)
		r.Get("/relevant-content", s.RelevantContent)

		r.Route("/bookmarks/{id}", func(r chi.Router) {
			r.Put("/", s.UpsertBookmark)
			r.Delete("/", s.DeleteBookmark)
			r.Post("/reindex", s.ReindexBookmark)
		})

		r.Route("/users/{userId}/embedding-provider", func(r chi.Router) {
			r.Get("/", s.GetEmbeddingProvider)
			r.Put("/", s.PutEmbeddingProvider)
			r.Delete("/", s.DeleteEmbeddingProvider)
		})
	})
}

// SearchBookmarks handles GET /api/search.
func (s *Server) SearchBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()

	var limit, offset int
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid limit: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", q, &offset); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid offset: "+err.Error())
		return
	}

	filters := filter.New(q.Get("folderId"), q.Get("type"), q.Get("platform"))
	req, err := request.New(userID, q.Get("q"), q.Get("mode"), limit, offset, filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	page, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// relevantContentResponse wraps the chunk list for GET /api/relevant-content.
type relevantContentResponse struct {
	Items []relevantContentItem `json:"items"`
}

type relevantContentItem struct {
	Content    string  `json:"content"`
	BookmarkID string  `json:"bookmarkId"`
	Similarity float64 `json:"similarity"`
}

// RelevantContent handles GET /api/relevant-content. It returns the chunks
// most similar to the query for LLM context assembly.
func (s *Server) RelevantContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query parameter q is required")
		return
	}

	chunks, err := s.search.RelevantContent(r.Context(), userID, query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := relevantContentResponse{Items: make([]relevantContentItem, len(chunks))}
	for i, c := range chunks {
		resp.Items[i] = relevantContentItem{
			Content:    c.Content,
			BookmarkID: c.BookmarkID,
			Similarity: c.Similarity,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// upsertBookmarkRequest is the PUT /api/bookmarks/{id} body.
type upsertBookmarkRequest struct {
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	URL         string     `json:"url"`
	Platform    string     `json:"platform"`
	FolderID    string     `json:"folderId"`
	Tags        []string   `json:"tags"`
	IsFavorite  bool       `json:"isFavorite"`
	IsArchived  bool       `json:"isArchived"`
	CreatedAt   *time.Time `json:"createdAt"`
}

// UpsertBookmark handles PUT /api/bookmarks/{id}. The row write always wins;
// embedding refresh is best-effort inside the ingest service.
func (s *Server) UpsertBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req upsertBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	var createdAt time.Time
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}

	b, err := dombm.New(
		id, userID, req.Type, req.Title, req.Description, req.Content,
		req.URL, req.Platform, req.FolderID, req.Tags,
		req.IsFavorite, req.IsArchived, createdAt,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if err := s.ingest.SaveBookmark(r.Context(), &b); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "saved"})
}

// DeleteBookmark handles DELETE /api/bookmarks/{id}.
func (s *Server) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := s.ingest.DeleteBookmark(r.Context(), userID, id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReindexBookmark handles POST /api/bookmarks/{id}/reindex. Unlike the save
// path this fails loudly when no provider is configured or embedding breaks.
func (s *Server) ReindexBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := s.ingest.Reindex(r.Context(), userID, id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "reindexed"})
}

// embeddingProviderBody is the embedding provider selection payload.
type embeddingProviderBody struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions,omitempty"`
}

// GetEmbeddingProvider handles GET /api/users/{userId}/embedding-provider.
func (s *Server) GetEmbeddingProvider(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	sel, ok, err := s.providers.Selection(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, codeProviderNotConfigured, "no embedding provider configured")
		return
	}

	writeJSON(w, http.StatusOK, embeddingProviderBody{
		Provider:   sel.Provider,
		Model:      sel.Model,
		Dimensions: sel.Dimensions,
	})
}

// PutEmbeddingProvider handles PUT /api/users/{userId}/embedding-provider.
func (s *Server) PutEmbeddingProvider(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req embeddingProviderBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	sel := domain.ProviderSelection{
		Provider:   req.Provider,
		Model:      req.Model,
		Dimensions: req.Dimensions,
	}
	if err := s.providers.Select(r.Context(), userID, sel); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteEmbeddingProvider handles DELETE /api/users/{userId}/embedding-provider.
// Clearing the selection turns semantic search off for the user.
func (s *Server) DeleteEmbeddingProvider(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	if err := s.providers.Clear(r.Context(), userID); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// userID extracts the authenticated end-user id, writing a 400 when absent.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(userIDHeader)
	if id == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "missing "+userIDHeader+" header")
		return "", false
	}
	return id, true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// safeDomainMessage returns a client-safe message: sentinel text for known
// domain errors, a generic message otherwise (no internals leak to clients).
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrBookmarkNotFound,
		domain.ErrFolderNotFound,
		domain.ErrProviderNotConfigured,
		domain.ErrInvalidRequest,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
