package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"OnAirFM/core/live"
	"OnAirFM/logger"
	"OnAirFM/model"
	"OnAirFM/storage"
)

// SearchKaraokeHandler runs the public catalog search.
// GET /api/karaoke/search?query=...&language=..&genre=..&rating_min=..&
// rating_max=..&difficulty_min=..&difficulty_max=..&is_explicit=..&
// sort_by=..&sort_order=..&page=..&per_page=..
func (h *APIHandler) SearchKaraokeHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := model.KaraokeSearchParams{
		Query:         q.Get("query"),
		Language:      q.Get("language"),
		Genre:         q.Get("genre"),
		RatingMin:     queryFloatPtr(r, "rating_min"),
		RatingMax:     queryFloatPtr(r, "rating_max"),
		DifficultyMin: queryIntPtr(r, "difficulty_min"),
		DifficultyMax: queryIntPtr(r, "difficulty_max"),
		IsExplicit:    queryBoolPtr(r, "is_explicit"),
		SortBy:        q.Get("sort_by"),
		SortOrder:     q.Get("sort_order"),
		Page:          queryInt(r, "page"),
		PerPage:       queryInt(r, "per_page"),
	}

	result, err := h.karaokeRepo.Search(r.Context(), params)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListKaraokeHandler is the admin listing with categorical filters.
// GET /api/admin/karaoke?page=..&limit=..&search=..&sort=..&order=..&filter=..
func (h *APIHandler) ListKaraokeHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := model.KaraokeListParams{
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
		Filter: q.Get("filter"),
	}

	result, err := h.karaokeRepo.List(r.Context(), params)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetKaraokeHandler returns one catalog entry.
func (h *APIHandler) GetKaraokeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid karaoke file ID")
		return
	}

	file, err := h.karaokeRepo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if file == nil {
		writeError(w, http.StatusNotFound, "Karaoke file not found")
		return
	}
	writeJSON(w, http.StatusOK, file)
}

// CreateKaraokeHandler creates a catalog entry (admin).
func (h *APIHandler) CreateKaraokeHandler(w http.ResponseWriter, r *http.Request) {
	// is_active defaults to true unless the body says otherwise.
	file := model.KaraokeFile{IsActive: true}
	if err := json.NewDecoder(r.Body).Decode(&file); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.karaokeRepo.Create(r.Context(), &file)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// UpdateKaraokeHandler applies a partial update to a catalog entry (admin).
func (h *APIHandler) UpdateKaraokeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid karaoke file ID")
		return
	}

	var patch model.KaraokePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.karaokeRepo.Update(r.Context(), id, patch); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// PlayKaraokeHandler records one play and notifies live listeners.
func (h *APIHandler) PlayKaraokeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid karaoke file ID")
		return
	}

	if err := h.karaokeRepo.IncrementPlayCount(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	h.hub.Broadcast(live.EventKaraokePlay, map[string]int64{"id": id})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RateKaraokeHandler folds a new rating into the stored one.
func (h *APIHandler) RateKaraokeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid karaoke file ID")
		return
	}

	var req struct {
		Rating float64 `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.karaokeRepo.UpdateRating(r.Context(), id, req.Rating); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// KaraokeDuplicatesHandler returns the duplicates report (admin).
func (h *APIHandler) KaraokeDuplicatesHandler(w http.ResponseWriter, r *http.Request) {
	duplicates, err := h.karaokeRepo.GetDuplicates(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, duplicates)
}

// KaraokeStatsHandler returns the catalog stats (admin).
func (h *APIHandler) KaraokeStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.karaokeRepo.GetStats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// DeleteKaraokeHandler physically removes a catalog entry and its stored
// object (admin). The catalog repository itself never hard-deletes; removal
// works on the table and the bucket directly.
func (h *APIHandler) DeleteKaraokeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid karaoke file ID")
		return
	}

	file, err := h.karaokeRepo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if file == nil {
		writeError(w, http.StatusNotFound, "Karaoke file not found")
		return
	}

	if key := objectKeyFromURL(file.FileURL); key != "" {
		if err := storage.Remove(r.Context(), key); err != nil {
			logger.Warn("failed to remove karaoke object, deleting row anyway",
				logger.String("key", key), logger.ErrorField(err))
		}
	}

	if _, err := h.sqlDB.ExecContext(r.Context(), "DELETE FROM karaoke_files WHERE id = ?", id); err != nil {
		logger.Error("failed to delete karaoke row", logger.Int64("id", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// objectKeyFromURL maps a stored file URL back to its bucket key. Only URLs
// served by this application ("/files/<key>") are recognized.
func objectKeyFromURL(fileURL string) string {
	if idx := strings.Index(fileURL, "/files/"); idx >= 0 {
		return fileURL[idx+len("/files/"):]
	}
	return ""
}
