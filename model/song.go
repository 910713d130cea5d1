package model

import "time"

// Song represents an uploaded song in the station library.
type Song struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"size:255;not null"`
	Artist     string    `json:"artist" gorm:"size:255;not null"`
	Genre      *string   `json:"genre,omitempty" gorm:"size:100"`
	FileKey    string    `json:"-" gorm:"size:767;not null"` // object key in storage, not exposed directly
	FileURL    string    `json:"fileUrl" gorm:"size:767;not null"`
	Duration   float64   `json:"duration"`
	FileSize   int64     `json:"fileSize"`
	MimeType   string    `json:"mimeType" gorm:"size:50"`
	UploadedBy int64     `json:"uploadedBy" gorm:"index"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SongUpdate carries the editable song metadata.
type SongUpdate struct {
	Title  string  `json:"title"`
	Artist string  `json:"artist"`
	Genre  *string `json:"genre,omitempty"`
}
