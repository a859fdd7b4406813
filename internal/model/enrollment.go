package model

import (
	"time"

	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

type Enrollment struct {
	gorm.Model
	CourseID uint             `json:"course_id" gorm:"index;uniqueIndex:idx_course_client;not null"`
	ClientID uint             `json:"client_id" gorm:"index;uniqueIndex:idx_course_client;not null"`
	Status   EnrollmentStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	// Progress is the completed share of the course, 0-100.
	Progress    int        `json:"progress" gorm:"default:0"`
	CompletedAt *time.Time `json:"completed_at"`

	// Relations
	Course Course `json:"course" gorm:"foreignKey:CourseID"`
	Client User   `json:"-" gorm:"foreignKey:ClientID"`
}

// GetStudentCount counts distinct active students across the coach's courses.
func GetStudentCount(db *gorm.DB, coachID uint) (int64, error) {
	var count int64
	err := db.Model(&Enrollment{}).
		Joins("JOIN courses ON enrollments.course_id = courses.id").
		Where("courses.coach_id = ? AND enrollments.status = ?", coachID, EnrollmentStatusActive).
		Distinct("enrollments.client_id").
		Count(&count).Error
	return count, err
}
