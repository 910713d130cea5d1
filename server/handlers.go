package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"OnAirFM/config"
	"OnAirFM/core/live"
	"OnAirFM/logger"
	"OnAirFM/repository"

	"github.com/gorilla/mux"
)

// APIHandler handles all API requests.
type APIHandler struct {
	karaokeRepo  repository.KaraokeRepository
	userRepo     repository.UserRepository
	songRepo     repository.SongRepository
	playlistRepo repository.PlaylistRepository
	showRepo     repository.ShowRepository
	hub          *live.Hub
	sqlDB        *sql.DB // admin hard-delete works on the table directly
	cfg          *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	karaokeRepo repository.KaraokeRepository,
	userRepo repository.UserRepository,
	songRepo repository.SongRepository,
	playlistRepo repository.PlaylistRepository,
	showRepo repository.ShowRepository,
	hub *live.Hub,
	sqlDB *sql.DB,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		karaokeRepo:  karaokeRepo,
		userRepo:     userRepo,
		songRepo:     songRepo,
		playlistRepo: playlistRepo,
		showRepo:     showRepo,
		hub:          hub,
		sqlDB:        sqlDB,
		cfg:          cfg,
	}
}

// writeJSON serializes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

// writeError sends a JSON error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps domain errors onto HTTP statuses: validation
// failures are the caller's fault (400), missing records are 404, everything
// else is an opaque 500 with the detail kept in the log.
func writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *repository.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Message)
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	logger.Error("internal error", logger.ErrorField(err))
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// pathID extracts the numeric {id} route variable.
func pathID(r *http.Request) (int64, error) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", vars["id"])
	}
	return id, nil
}

// Query-parameter helpers. Absent or malformed values yield nil / zero.

func queryInt(r *http.Request, key string) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil {
		return v
	}
	return 0
}

func queryIntPtr(r *http.Request, key string) *int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil {
		return &v
	}
	return nil
}

func queryFloatPtr(r *http.Request, key string) *float64 {
	if v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64); err == nil {
		return &v
	}
	return nil
}

func queryBoolPtr(r *http.Request, key string) *bool {
	if v, err := strconv.ParseBool(r.URL.Query().Get(key)); err == nil {
		return &v
	}
	return nil
}
