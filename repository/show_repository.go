package repository

import (
	"context"
	"errors"
	"fmt"

	"OnAirFM/model"

	"gorm.io/gorm"
)

// ShowRepository defines radio show schedule data operations.
type ShowRepository interface {
	Create(ctx context.Context, show *model.Show) error
	GetByID(ctx context.Context, id int64) (*model.Show, error)
	GetAll(ctx context.Context) ([]*model.Show, error)
	Update(ctx context.Context, show *model.Show) error
	Delete(ctx context.Context, id int64) error
}

// gormShowRepository implements ShowRepository with GORM.
type gormShowRepository struct {
	db *gorm.DB
}

// NewGormShowRepository creates a GORM show repository.
func NewGormShowRepository(db *gorm.DB) ShowRepository {
	return &gormShowRepository{db: db}
}

func (r *gormShowRepository) Create(ctx context.Context, show *model.Show) error {
	if err := r.db.WithContext(ctx).Create(show).Error; err != nil {
		return fmt.Errorf("failed to create show: %w", err)
	}
	return nil
}

func (r *gormShowRepository) GetByID(ctx context.Context, id int64) (*model.Show, error) {
	var show model.Show
	err := r.db.WithContext(ctx).First(&show, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get show %d: %w", id, err)
	}
	return &show, nil
}

func (r *gormShowRepository) GetAll(ctx context.Context) ([]*model.Show, error) {
	var shows []*model.Show
	err := r.db.WithContext(ctx).
		Model(&model.Show{}).
		Select("shows.*, users.username AS host_name").
		Joins("JOIN users ON users.id = shows.host_id").
		Order("shows.start_time ASC").
		Scan(&shows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}
	return shows, nil
}

func (r *gormShowRepository) Update(ctx context.Context, show *model.Show) error {
	if err := r.db.WithContext(ctx).Save(show).Error; err != nil {
		return fmt.Errorf("failed to update show %d: %w", show.ID, err)
	}
	return nil
}

func (r *gormShowRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Show{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete show %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("show %d: %w", id, ErrNotFound)
	}
	return nil
}
