package model

import "time"

// Event is a free-text record with no owner.
type Event struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Description string    `json:"description" gorm:"size:100;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null"`
}
