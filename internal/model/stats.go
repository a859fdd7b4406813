package model

import (
	"time"

	"gorm.io/gorm"
)

// CourseView is a single view record for a public course page.
type CourseView struct {
	gorm.Model
	CourseID  uint      `json:"course_id" gorm:"index"`
	UserID    *uint     `json:"user_id" gorm:"index"` // set when a signed-in user views
	IP        string    `json:"ip" gorm:"index"`
	SessionID string    `json:"session_id" gorm:"index"`
	UserAgent string    `json:"user_agent"`
	ViewedAt  time.Time `json:"viewed_at" gorm:"index"`
	IsUnique  bool      `json:"is_unique" gorm:"default:true"`

	// Relations
	Course Course `json:"-" gorm:"foreignKey:CourseID"`
	User   *User  `json:"-" gorm:"foreignKey:UserID"`
}

// CourseStats holds rolling view counters per course.
type CourseStats struct {
	gorm.Model
	CourseID     uint      `json:"course_id" gorm:"uniqueIndex"`
	TotalViews   int64     `json:"total_views"`
	UniqueViews  int64     `json:"unique_views"`
	DailyViews   int64     `json:"daily_views"`
	WeeklyViews  int64     `json:"weekly_views"`
	MonthlyViews int64     `json:"monthly_views"`
	LastUpdated  time.Time `json:"last_updated"`

	// Relations
	Course Course `json:"-" gorm:"foreignKey:CourseID"`
}

// BeforeCreate marks repeat views from the same IP within 24h as non-unique.
func (cv *CourseView) BeforeCreate(tx *gorm.DB) error {
	var count int64
	tx.Model(&CourseView{}).
		Where("course_id = ? AND ip = ? AND viewed_at > ?",
			cv.CourseID,
			cv.IP,
			time.Now().Add(-24*time.Hour)).
		Count(&count)

	if count > 0 {
		cv.IsUnique = false
	}

	return nil
}

// AfterCreate rolls the new view into the course's counters.
func (cv *CourseView) AfterCreate(tx *gorm.DB) error {
	var stats CourseStats
	tx.FirstOrCreate(&stats, CourseStats{CourseID: cv.CourseID})

	updates := map[string]interface{}{
		"total_views":   gorm.Expr("total_views + ?", 1),
		"daily_views":   gorm.Expr("daily_views + ?", 1),
		"weekly_views":  gorm.Expr("weekly_views + ?", 1),
		"monthly_views": gorm.Expr("monthly_views + ?", 1),
		"last_updated":  time.Now(),
	}

	if cv.IsUnique {
		updates["unique_views"] = gorm.Expr("unique_views + ?", 1)
	}

	return tx.Model(&stats).Updates(updates).Error
}
