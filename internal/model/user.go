package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultLocale is the ISO 639-1 code assigned to new users.
const DefaultLocale = "EN"

// User represents a registered account. Accounts start inactive and are
// switched on by an activation code sent to Email.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" gorm:"size:100;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	Active       bool      `json:"active" gorm:"not null;default:false;index"`
	Locale       string    `json:"locale" gorm:"size:2;not null;default:'EN'"`

	SpecialityMain      *string `json:"speciality_main,omitempty" gorm:"size:128"`
	SpecialitySecondary *string `json:"speciality_secondary,omitempty" gorm:"size:128"`
	AboutShort          *string `json:"about_short,omitempty" gorm:"size:280"`
	AboutFull           *string `json:"about_full,omitempty" gorm:"size:500"`
	TechStack           *string `json:"tech_stack,omitempty" gorm:"size:500"`
	SharesTotal         int     `json:"shares_total" gorm:"not null;default:0"`
	AvgTeamMark         *int    `json:"avg_team_mark,omitempty"`

	CreatedAt time.Time `json:"date_joined"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID and locale before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Locale == "" {
		u.Locale = DefaultLocale
	}
	return nil
}
