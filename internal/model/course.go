package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course Categories
type CourseCategory string

const (
	CategoryBusiness     CourseCategory = "Business"
	CategoryCareer       CourseCategory = "Career"
	CategoryFitness      CourseCategory = "Fitness"
	CategoryLeadership   CourseCategory = "Leadership"
	CategoryMindset      CourseCategory = "Mindset"
	CategoryNutrition    CourseCategory = "Nutrition"
	CategoryProductivity CourseCategory = "Productivity"
	CategoryWellness     CourseCategory = "Wellness"
)

// Course Status
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
	CourseStatusArchived  CourseStatus = "archived"
)

type Course struct {
	gorm.Model
	CoachID     uint           `json:"coach_id" gorm:"uniqueIndex:idx_coach_course_slug;not null"`
	Title       string         `json:"title" gorm:"not null"`
	Slug        string         `json:"slug" gorm:"uniqueIndex:idx_coach_course_slug;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Category    CourseCategory `json:"category" gorm:"type:varchar(50)"`
	Status      CourseStatus   `json:"status" gorm:"type:varchar(20);default:'draft'"`
	Price       float64        `json:"price"`
	Currency    string         `json:"currency" gorm:"type:varchar(3);default:'USD'"`
	CoverImage  string         `json:"cover_image"`
	Tags        datatypes.JSON `json:"tags"`

	// Relations
	Coach       User             `json:"-" gorm:"foreignKey:CoachID"`
	Lessons     []Lesson         `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`
	Materials   []CourseMaterial `json:"-" gorm:"foreignKey:CourseID"`
	Enrollments []Enrollment     `json:"-" gorm:"foreignKey:CourseID"`
}

type Lesson struct {
	gorm.Model
	CourseID uint   `json:"course_id" gorm:"index;not null"`
	Title    string `json:"title" gorm:"not null"`
	Position int    `json:"position" gorm:"not null"`
	VideoURL string `json:"video_url"`
	Content  string `json:"content" gorm:"type:text"`

	Course Course `json:"-" gorm:"foreignKey:CourseID"`
}

// CourseMaterial is an uploaded file attached to a course. SizeBytes feeds
// the coach's storage usage.
type CourseMaterial struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	FileName    string `json:"file_name" gorm:"not null"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes" gorm:"not null"`
	URL         string `json:"url" gorm:"not null"`

	Course Course `json:"-" gorm:"foreignKey:CourseID"`
}
