package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleCoach  UserRole = "coach"
	RoleClient UserRole = "client"
)

type User struct {
	gorm.Model
	Email    string   `gorm:"uniqueIndex;not null"`
	Password string   `gorm:"not null"`
	Username string   `gorm:"uniqueIndex;not null"`
	Role     UserRole `json:"role" gorm:"type:varchar(20);default:'client';not null"`

	// Optional profile fields, editable from settings
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Title       string `json:"title"`
	Bio         string `json:"bio" gorm:"type:text"`
	PhoneNumber string `json:"phone_number"`
	Website     string `json:"website"`
	Avatar      string `json:"avatar"`

	IsVerified bool `json:"is_verified" gorm:"default:false"`

	// Password reset
	ResetToken          string     `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	// Relations
	Courses      []Course           `json:"-" gorm:"foreignKey:CoachID"`
	Enrollments  []Enrollment       `json:"-" gorm:"foreignKey:ClientID"`
	Subscription *CoachSubscription `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":          u.ID,
		"username":    u.Username,
		"role":        u.Role,
		"full_name":   u.GetFullName(),
		"title":       u.Title,
		"bio":         u.Bio,
		"website":     u.Website,
		"avatar":      u.Avatar,
		"is_verified": u.IsVerified,
	}
}
