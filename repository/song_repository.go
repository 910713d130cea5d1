package repository

import (
	"context"
	"errors"
	"fmt"

	"OnAirFM/model"

	"gorm.io/gorm"
)

// SongRepository defines song library data operations.
type SongRepository interface {
	Create(ctx context.Context, song *model.Song) error
	GetByID(ctx context.Context, id int64) (*model.Song, error)
	GetAll(ctx context.Context) ([]*model.Song, error)
	Update(ctx context.Context, song *model.Song) error
	Delete(ctx context.Context, id int64) error
}

// gormSongRepository implements SongRepository with GORM.
type gormSongRepository struct {
	db *gorm.DB
}

// NewGormSongRepository creates a GORM song repository.
func NewGormSongRepository(db *gorm.DB) SongRepository {
	return &gormSongRepository{db: db}
}

func (r *gormSongRepository) Create(ctx context.Context, song *model.Song) error {
	if err := r.db.WithContext(ctx).Create(song).Error; err != nil {
		return fmt.Errorf("failed to create song: %w", err)
	}
	return nil
}

func (r *gormSongRepository) GetByID(ctx context.Context, id int64) (*model.Song, error) {
	var song model.Song
	err := r.db.WithContext(ctx).First(&song, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get song %d: %w", id, err)
	}
	return &song, nil
}

func (r *gormSongRepository) GetAll(ctx context.Context) ([]*model.Song, error) {
	var songs []*model.Song
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	return songs, nil
}

func (r *gormSongRepository) Update(ctx context.Context, song *model.Song) error {
	if err := r.db.WithContext(ctx).Save(song).Error; err != nil {
		return fmt.Errorf("failed to update song %d: %w", song.ID, err)
	}
	return nil
}

func (r *gormSongRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Song{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete song %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("song %d: %w", id, ErrNotFound)
	}
	return nil
}
