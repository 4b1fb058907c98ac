package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"toolsapp/internal/domain"
	"toolsapp/internal/infra/search"
	"toolsapp/internal/infra/seo"
	"toolsapp/internal/infra/suggest"
	"toolsapp/internal/infra/telemetry"
)

const maxBodyBytes = 1 << 20

type suggestionsRequest struct {
	Content     string `json:"content"`
	ExcludePath string `json:"excludePath"`
}

type suggestionsResponse struct {
	Suggestions []domain.SuggestedTool `json:"suggestions"`
	AutoShow    []domain.SuggestedTool `json:"autoShow"`
}

type favoriteRequest struct {
	Path string `json:"path"`
}

type favoritesRequest struct {
	Paths []string `json:"paths"`
}

type favoritesResponse struct {
	Profile string        `json:"profile"`
	Entries []string      `json:"entries"`
	Tools   []domain.Tool `json:"tools"`
}

type toolResponse struct {
	domain.Tool
	Favorite bool `json:"favorite"`
}

type errorResponse struct {
	Error string           `json:"error"`
	Code  domain.ErrorCode `json:"code"`
}

type storeHandler func(w http.ResponseWriter, r *http.Request, store ToolStore)

// withStore resolves the profile and locale of r before calling h.
func (s *Server) withStore(h storeHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locale := negotiateLocale(r, s.stores.Locales())
		store, err := s.stores.ToolStore(r.Context(), r.Header.Get(ProfileHeader), locale)
		if err != nil {
			s.writeError(w, r, domain.Wrap(codeFor(err), "resolve profile", err))
			return
		}
		h(w, r, store)
	}
}

func codeFor(err error) domain.ErrorCode {
	if code, ok := domain.CodeFrom(err); ok {
		return code
	}
	return domain.CodeInternal
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request, store ToolStore) {
	if isTrue(r.URL.Query().Get("new")) {
		writeJSON(w, http.StatusOK, store.NewTools())
		return
	}
	writeJSON(w, http.StatusOK, store.Tools())
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request, store ToolStore) {
	key := r.PathValue("key")
	tool, ok := store.ToolByPath("/" + key)
	if !ok {
		s.writeError(w, r, domain.E(domain.CodeNotFound, "get tool", fmt.Sprintf("no tool at /%s", key), domain.ErrToolNotFound))
		return
	}
	writeJSON(w, http.StatusOK, toolResponse{Tool: tool, Favorite: store.IsToolFavorite(tool)})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request, store ToolStore) {
	writeJSON(w, http.StatusOK, store.ToolsByCategory())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, store ToolStore) {
	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeError(w, r, domain.E(domain.CodeInvalidArgument, "search", "limit must be a non-negative integer", domain.ErrInvalidRequest))
			return
		}
		limit = parsed
	}
	results := store.Search(search.Query{
		Text:        query.Get("q"),
		FilterEmpty: !isTrue(query.Get("all")),
		Limit:       limit,
	})
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request, store ToolStore) {
	var req suggestionsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	suggestions := s.suggester.Analyze(req.Content, req.ExcludePath, store)
	writeJSON(w, http.StatusOK, suggestionsResponse{
		Suggestions: suggestions,
		AutoShow:    suggest.HighConfidence(suggestions),
	})
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request, store ToolStore) {
	route := r.URL.Query().Get("path")
	if route == "" {
		route = "/"
	}
	meta := seo.Resolve(s.builder, store, route)
	s.metrics.ObserveMetaSync(meta.ToolPath != "")
	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request, store ToolStore) {
	writeJSON(w, http.StatusOK, favoritesOf(store))
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request, store ToolStore) {
	var req favoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tool, err := lookupTool(store, req.Path, "add favorite")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	store.AddToolToFavorites(tool)
	writeJSON(w, http.StatusOK, favoritesOf(store))
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request, store ToolStore) {
	tool, err := lookupTool(store, r.URL.Query().Get("path"), "remove favorite")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	store.RemoveToolFromFavorites(tool)
	writeJSON(w, http.StatusOK, favoritesOf(store))
}

func (s *Server) handleReplaceFavorites(w http.ResponseWriter, r *http.Request, store ToolStore) {
	var req favoritesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tools := make([]domain.Tool, 0, len(req.Paths))
	for _, p := range req.Paths {
		tool, err := lookupTool(store, p, "reorder favorites")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		tools = append(tools, tool)
	}
	store.UpdateFavoriteTools(tools)
	writeJSON(w, http.StatusOK, favoritesOf(store))
}

func (s *Server) handleUnknownAPI(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, domain.E(domain.CodeNotFound, "api", "unknown endpoint "+r.URL.Path, nil))
}

// handleApp serves a static asset when one exists and the app shell otherwise.
func (s *Server) handleApp(w http.ResponseWriter, r *http.Request, store ToolStore) {
	route := path.Clean("/" + r.URL.Path)
	if s.staticDir != "" && route != "/" {
		file := filepath.Join(s.staticDir, filepath.FromSlash(route))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			http.ServeFile(w, r, file)
			return
		}
	}
	if s.renderer == nil {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if _, err := s.renderer.RenderWith(&buf, route, store); err != nil {
		s.writeError(w, r, domain.Wrap(domain.CodeInternal, "render app", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func lookupTool(store ToolStore, toolPath, op string) (domain.Tool, error) {
	if strings.TrimSpace(toolPath) == "" {
		return domain.Tool{}, domain.E(domain.CodeInvalidArgument, op, "path is required", domain.ErrInvalidRequest)
	}
	tool, ok := store.ToolByPath(toolPath)
	if !ok {
		return domain.Tool{}, domain.E(domain.CodeNotFound, op, fmt.Sprintf("no tool at %s", toolPath), domain.ErrToolNotFound)
	}
	return tool, nil
}

func favoritesOf(store ToolStore) favoritesResponse {
	return favoritesResponse{
		Profile: store.Profile(),
		Entries: store.FavoriteEntries(),
		Tools:   store.FavoriteTools(),
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.E(domain.CodeInvalidArgument, "decode body", "request body is empty", domain.ErrInvalidRequest)
		}
		return domain.E(domain.CodeInvalidArgument, "decode body", err.Error(), domain.ErrInvalidRequest)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, ok := domain.CodeFrom(err)
	if !ok {
		code = domain.CodeInternal
	}
	status := statusFor(code)
	logger := telemetry.LoggerWithRequest(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeInvalidArgument:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeFailedPrecond:
		return http.StatusConflict
	case domain.CodeUnavailable:
		return http.StatusServiceUnavailable
	case domain.CodeCanceled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func isTrue(v string) bool {
	ok, err := strconv.ParseBool(v)
	return err == nil && ok
}
