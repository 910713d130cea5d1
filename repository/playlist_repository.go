package repository

import (
	"context"
	"errors"
	"fmt"

	"OnAirFM/model"

	"gorm.io/gorm"
)

// PlaylistRepository defines playlist data operations.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	GetByID(ctx context.Context, id int64) (*model.Playlist, error)
	// GetVisible returns public playlists plus the given user's private ones,
	// each annotated with creator name and song count.
	GetVisible(ctx context.Context, userID int64) ([]*model.Playlist, error)
	Update(ctx context.Context, playlist *model.Playlist) error
	Delete(ctx context.Context, id int64) error

	AddSong(ctx context.Context, playlistID, songID int64) error
	RemoveSong(ctx context.Context, playlistID, songID int64) error
	GetSongs(ctx context.Context, playlistID int64) ([]*model.Song, error)
}

// gormPlaylistRepository implements PlaylistRepository with GORM.
type gormPlaylistRepository struct {
	db *gorm.DB
}

// NewGormPlaylistRepository creates a GORM playlist repository.
func NewGormPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &gormPlaylistRepository{db: db}
}

func (r *gormPlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	if err := r.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

func (r *gormPlaylistRepository) GetByID(ctx context.Context, id int64) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.WithContext(ctx).First(&playlist, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get playlist %d: %w", id, err)
	}
	return &playlist, nil
}

func (r *gormPlaylistRepository) GetVisible(ctx context.Context, userID int64) ([]*model.Playlist, error) {
	var playlists []*model.Playlist
	err := r.db.WithContext(ctx).
		Model(&model.Playlist{}).
		Select(`playlists.*, users.username AS creator_name,
			(SELECT COUNT(*) FROM playlist_songs WHERE playlist_songs.playlist_id = playlists.id) AS song_count`).
		Joins("JOIN users ON users.id = playlists.user_id").
		Where("playlists.is_public = ? OR playlists.user_id = ?", true, userID).
		Order("playlists.created_at DESC").
		Scan(&playlists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	return playlists, nil
}

func (r *gormPlaylistRepository) Update(ctx context.Context, playlist *model.Playlist) error {
	if err := r.db.WithContext(ctx).Save(playlist).Error; err != nil {
		return fmt.Errorf("failed to update playlist %d: %w", playlist.ID, err)
	}
	return nil
}

func (r *gormPlaylistRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistSong{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Playlist{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("playlist %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete playlist %d: %w", id, err)
	}
	return nil
}

func (r *gormPlaylistRepository) AddSong(ctx context.Context, playlistID, songID int64) error {
	// Position is appended at the current tail.
	var maxPos int
	err := r.db.WithContext(ctx).
		Model(&model.PlaylistSong{}).
		Where("playlist_id = ?", playlistID).
		Select("COALESCE(MAX(position), -1)").
		Scan(&maxPos).Error
	if err != nil {
		return fmt.Errorf("failed to find playlist tail position: %w", err)
	}

	entry := &model.PlaylistSong{
		PlaylistID: playlistID,
		SongID:     songID,
		Position:   maxPos + 1,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to add song %d to playlist %d: %w", songID, playlistID, err)
	}
	return nil
}

func (r *gormPlaylistRepository) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	res := r.db.WithContext(ctx).
		Where("playlist_id = ? AND song_id = ?", playlistID, songID).
		Delete(&model.PlaylistSong{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove song %d from playlist %d: %w", songID, playlistID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("song %d in playlist %d: %w", songID, playlistID, ErrNotFound)
	}
	return nil
}

func (r *gormPlaylistRepository) GetSongs(ctx context.Context, playlistID int64) ([]*model.Song, error) {
	var songs []*model.Song
	err := r.db.WithContext(ctx).
		Model(&model.Song{}).
		Joins("JOIN playlist_songs ON playlist_songs.song_id = songs.id").
		Where("playlist_songs.playlist_id = ?", playlistID).
		Order("playlist_songs.position ASC").
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list songs of playlist %d: %w", playlistID, err)
	}
	return songs, nil
}
