package models

import (
	"strings"
	"time"
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"size:255;not null;default:''" json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"-"`
	IsStaff      bool      `gorm:"not null;default:false" json:"-"`
	IsSuperuser  bool      `gorm:"not null;default:false" json:"-"`
}

func (u User) String() string {
	return u.Email
}

// NormalizeEmail lower-cases the domain part of an address. The local part is
// left untouched since mailbox names may be case sensitive.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// Token is the persistent half of a bearer credential. There is at most one
// per user.
type Token struct {
	Key       string    `gorm:"size:40;primarykey" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"-"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created"`
}
