package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"OnAirFM/model"

	"github.com/gorilla/mux"
)

// PlaylistRequest carries playlist create/update fields.
type PlaylistRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	IsPublic    bool    `json:"isPublic"`
}

// GetPlaylistsHandler lists public playlists plus the caller's own.
func (h *APIHandler) GetPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlists, err := h.playlistRepo.GetVisible(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

// CreatePlaylistHandler creates a playlist owned by the caller.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" || len(req.Title) > 100 {
		writeError(w, http.StatusBadRequest, "Title is required (max 100 chars)")
		return
	}

	playlist := &model.Playlist{
		Title:       req.Title,
		Description: req.Description,
		UserID:      userID,
		IsPublic:    req.IsPublic,
	}
	if err := h.playlistRepo.Create(r.Context(), playlist); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, playlist)
}

// loadVisiblePlaylist fetches a playlist and enforces visibility: private
// playlists are only visible to their owner.
func (h *APIHandler) loadVisiblePlaylist(w http.ResponseWriter, r *http.Request) *model.Playlist {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid playlist ID")
		return nil
	}

	playlist, err := h.playlistRepo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return nil
	}
	if playlist == nil {
		writeError(w, http.StatusNotFound, "Playlist not found")
		return nil
	}

	userID, _ := GetUserIDFromContext(r.Context())
	if !playlist.IsPublic && playlist.UserID != userID {
		writeError(w, http.StatusNotFound, "Playlist not found")
		return nil
	}
	return playlist
}

// GetPlaylistHandler returns one playlist.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlist := h.loadVisiblePlaylist(w, r)
	if playlist == nil {
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

// UpdatePlaylistHandler edits a playlist. Owner only.
func (h *APIHandler) UpdatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlist := h.loadVisiblePlaylist(w, r)
	if playlist == nil {
		return
	}
	if !h.canModify(r, playlist.UserID) {
		writeError(w, http.StatusForbidden, "Not the owner of this playlist")
		return
	}

	var req PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" || len(req.Title) > 100 {
		writeError(w, http.StatusBadRequest, "Title is required (max 100 chars)")
		return
	}

	playlist.Title = req.Title
	playlist.Description = req.Description
	playlist.IsPublic = req.IsPublic
	if err := h.playlistRepo.Update(r.Context(), playlist); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

// DeletePlaylistHandler removes a playlist and its song links. Owner only.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlist := h.loadVisiblePlaylist(w, r)
	if playlist == nil {
		return
	}
	if !h.canModify(r, playlist.UserID) {
		writeError(w, http.StatusForbidden, "Not the owner of this playlist")
		return
	}

	if err := h.playlistRepo.Delete(r.Context(), playlist.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetPlaylistSongsHandler lists the songs of a playlist in position order.
func (h *APIHandler) GetPlaylistSongsHandler(w http.ResponseWriter, r *http.Request) {
	playlist := h.loadVisiblePlaylist(w, r)
	if playlist == nil {
		return
	}

	songs, err := h.playlistRepo.GetSongs(r.Context(), playlist.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

// AddPlaylistSongHandler appends a song to a playlist. Owner only.
func (h *APIHandler) AddPlaylistSongHandler(w http.ResponseWriter, r *http.Request) {
	playlist := h.loadVisiblePlaylist(w, r)
	if playlist == nil {
		return
	}
	if !h.canModify(r, playlist.UserID) {
		writeError(w, http.StatusForbidden, "Not the owner of this playlist")
		return
	}

	var req struct {
		SongID int64 `json:"songId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SongID == 0 {
		writeError(w, http.StatusBadRequest, "songId is required")
		return
	}

	song, err := h.songRepo.GetByID(r.Context(), req.SongID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if song == nil {
		writeError(w, http.StatusNotFound, "Song not found")
		return
	}

	if err := h.playlistRepo.AddSong(r.Context(), playlist.ID, req.SongID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

// RemovePlaylistSongHandler removes a song from a playlist. Owner only.
func (h *APIHandler) RemovePlaylistSongHandler(w http.ResponseWriter, r *http.Request) {
	playlist := h.loadVisiblePlaylist(w, r)
	if playlist == nil {
		return
	}
	if !h.canModify(r, playlist.UserID) {
		writeError(w, http.StatusForbidden, "Not the owner of this playlist")
		return
	}

	songID, err := strconv.ParseInt(mux.Vars(r)["song_id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	if err := h.playlistRepo.RemoveSong(r.Context(), playlist.ID, songID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
