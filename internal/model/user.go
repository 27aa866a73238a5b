package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username       string    `gorm:"not null;uniqueIndex;size:150" json:"username"`
	Email          string    `gorm:"not null;uniqueIndex;size:255" json:"email"`
	PasswordHash   string    `gorm:"not null;size:255" json:"-"`
	Role           string    `gorm:"not null;default:'student';size:20" json:"role"`
	Bio            string    `gorm:"type:text" json:"bio"`
	ProfilePicture string    `gorm:"size:255" json:"profile_picture"`
	IsBanned       bool      `gorm:"default:false" json:"is_banned"`
	CreatedAt      time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Role constants
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
