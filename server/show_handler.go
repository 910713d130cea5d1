package server

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"OnAirFM/model"
)

var clockTimeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ShowRequest carries show create/update fields.
type ShowRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	DaysOfWeek  string  `json:"daysOfWeek"`
}

func validateShowRequest(req *ShowRequest) string {
	if strings.TrimSpace(req.Title) == "" || len(req.Title) > 100 {
		return "Title is required (max 100 chars)"
	}
	if !clockTimeRe.MatchString(req.StartTime) || !clockTimeRe.MatchString(req.EndTime) {
		return "Start and end time must be in HH:MM format"
	}
	if strings.TrimSpace(req.DaysOfWeek) == "" {
		return "Days of week are required"
	}
	return ""
}

// GetShowsHandler returns the public show schedule.
func (h *APIHandler) GetShowsHandler(w http.ResponseWriter, r *http.Request) {
	shows, err := h.showRepo.GetAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shows)
}

// GetShowHandler returns one show.
func (h *APIHandler) GetShowHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid show ID")
		return
	}

	show, err := h.showRepo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if show == nil {
		writeError(w, http.StatusNotFound, "Show not found")
		return
	}
	writeJSON(w, http.StatusOK, show)
}

// CreateShowHandler schedules a show hosted by the caller.
func (h *APIHandler) CreateShowHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ShowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateShowRequest(&req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	show := &model.Show{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		DaysOfWeek:  req.DaysOfWeek,
		HostID:      userID,
	}
	if err := h.showRepo.Create(r.Context(), show); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, show)
}

// UpdateShowHandler edits a show. Host or admin only.
func (h *APIHandler) UpdateShowHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid show ID")
		return
	}

	show, err := h.showRepo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if show == nil {
		writeError(w, http.StatusNotFound, "Show not found")
		return
	}
	if !h.canModify(r, show.HostID) {
		writeError(w, http.StatusForbidden, "Not the host of this show")
		return
	}

	var req ShowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateShowRequest(&req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	show.Title = req.Title
	show.Description = req.Description
	show.StartTime = req.StartTime
	show.EndTime = req.EndTime
	show.DaysOfWeek = req.DaysOfWeek
	if err := h.showRepo.Update(r.Context(), show); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, show)
}

// DeleteShowHandler removes a show. Host or admin only.
func (h *APIHandler) DeleteShowHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid show ID")
		return
	}

	show, err := h.showRepo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if show == nil {
		writeError(w, http.StatusNotFound, "Show not found")
		return
	}
	if !h.canModify(r, show.HostID) {
		writeError(w, http.StatusForbidden, "Not the host of this show")
		return
	}

	if err := h.showRepo.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
