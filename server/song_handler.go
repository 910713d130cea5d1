package server

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"OnAirFM/logger"
	"OnAirFM/model"
	"OnAirFM/storage"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxUploadSize = 64 << 20 // 64 MB

var allowedUploadMimeTypes = map[string]bool{
	"audio/mpeg": true,
	"audio/mp4":  true,
	"audio/wav":  true,
	"audio/ogg":  true,
}

// UploadSongHandler accepts a multipart upload (file, title, artist, genre),
// stores the blob and creates the song record.
func (h *APIHandler) UploadSongHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Audio file is required")
		return
	}
	defer file.Close()

	title := strings.TrimSpace(r.FormValue("title"))
	artist := strings.TrimSpace(r.FormValue("artist"))
	if title == "" || artist == "" {
		writeError(w, http.StatusBadRequest, "Title and artist are required")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedUploadMimeTypes[contentType] {
		writeError(w, http.StatusBadRequest, "Unsupported audio type")
		return
	}

	key := "songs/" + uuid.NewString() + filepath.Ext(header.Filename)
	if err := storage.Upload(r.Context(), key, file, header.Size, contentType); err != nil {
		logger.Error("failed to upload song", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	song := &model.Song{
		Title:      title,
		Artist:     artist,
		FileKey:    key,
		FileURL:    "/files/" + key,
		FileSize:   header.Size,
		MimeType:   contentType,
		UploadedBy: userID,
	}
	if genre := strings.TrimSpace(r.FormValue("genre")); genre != "" {
		song.Genre = &genre
	}

	if err := h.songRepo.Create(r.Context(), song); err != nil {
		// Keep storage consistent with the library.
		if rmErr := storage.Remove(r.Context(), key); rmErr != nil {
			logger.Error("failed to remove orphaned object", logger.String("key", key), logger.ErrorField(rmErr))
		}
		writeDomainError(w, err)
		return
	}

	logger.Info("song uploaded", logger.Int64("id", song.ID), logger.String("title", title))
	writeJSON(w, http.StatusCreated, song)
}

// GetSongsHandler lists the song library.
func (h *APIHandler) GetSongsHandler(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songRepo.GetAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

// GetSongHandler returns one song.
func (h *APIHandler) GetSongHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	song, err := h.songRepo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if song == nil {
		writeError(w, http.StatusNotFound, "Song not found")
		return
	}
	writeJSON(w, http.StatusOK, song)
}

// UpdateSongHandler edits song metadata. Only the uploader or an admin may
// edit.
func (h *APIHandler) UpdateSongHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	var req model.SongUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Artist) == "" {
		writeError(w, http.StatusBadRequest, "Title and artist are required")
		return
	}

	song, err := h.songRepo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if song == nil {
		writeError(w, http.StatusNotFound, "Song not found")
		return
	}
	if !h.canModify(r, song.UploadedBy) {
		writeError(w, http.StatusForbidden, "Not the uploader of this song")
		return
	}

	song.Title = req.Title
	song.Artist = req.Artist
	song.Genre = req.Genre
	if err := h.songRepo.Update(r.Context(), song); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

// DeleteSongHandler removes a song and its stored object.
func (h *APIHandler) DeleteSongHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	song, err := h.songRepo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if song == nil {
		writeError(w, http.StatusNotFound, "Song not found")
		return
	}
	if !h.canModify(r, song.UploadedBy) {
		writeError(w, http.StatusForbidden, "Not the uploader of this song")
		return
	}

	if err := storage.Remove(r.Context(), song.FileKey); err != nil {
		logger.Warn("failed to remove song object, deleting row anyway",
			logger.String("key", song.FileKey), logger.ErrorField(err))
	}
	if err := h.songRepo.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// canModify reports whether the caller owns the resource or is an admin.
func (h *APIHandler) canModify(r *http.Request, ownerID int64) bool {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		return false
	}
	return userID == ownerID || GetRoleFromContext(r.Context()) == model.RoleAdmin
}

// ServeFileHandler streams an object from storage. Used for both song and
// karaoke files.
func (h *APIHandler) ServeFileHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		writeError(w, http.StatusBadRequest, "File key is required")
		return
	}

	info, err := storage.Stat(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	object, err := storage.Get(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	defer object.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000") // cache for a year

	if _, err := io.Copy(w, object); err != nil {
		logger.Error("error serving file from storage", logger.String("key", key), logger.ErrorField(err))
	}
}
