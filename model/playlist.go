package model

import "time"

// Playlist is a user-curated list of songs.
type Playlist struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:100;not null"`
	Description *string   `json:"description,omitempty" gorm:"size:500"`
	UserID      int64     `json:"userId" gorm:"index;not null"`
	IsPublic    bool      `json:"isPublic" gorm:"default:false"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Populated by queries, not stored.
	CreatorName string `json:"creatorName,omitempty" gorm:"->;-:migration"`
	SongCount   int64  `json:"songCount" gorm:"->;-:migration"`
}

// PlaylistSong links a song into a playlist at a position.
type PlaylistSong struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	PlaylistID int64     `json:"playlistId" gorm:"index:idx_playlist_song,unique;not null"`
	SongID     int64     `json:"songId" gorm:"index:idx_playlist_song,unique;not null"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"createdAt"`
}
