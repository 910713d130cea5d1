package model

import "time"

// Show is a scheduled radio show.
type Show struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:100;not null"`
	Description *string   `json:"description,omitempty" gorm:"size:500"`
	StartTime   string    `json:"startTime" gorm:"size:5;not null"` // "HH:MM"
	EndTime     string    `json:"endTime" gorm:"size:5;not null"`   // "HH:MM"
	DaysOfWeek  string    `json:"daysOfWeek" gorm:"size:30;not null"`
	HostID      int64     `json:"hostId" gorm:"index;not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Populated by queries, not stored.
	HostName string `json:"hostName,omitempty" gorm:"->;-:migration"`
}
