package controller

import (
	"time"

	"coachly_backend/internal/model"
	"coachly_backend/pkg/database"
	"coachly_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
)

// DashboardStats is the coach dashboard summary.
type DashboardStats struct {
	TotalCourses     int64          `json:"total_courses"`
	PublishedCourses int64          `json:"published_courses"`
	TotalStudents    int64          `json:"total_students"`
	TotalViews       int64          `json:"total_views"`
	TopCourses       []TopCourse    `json:"top_courses"`
	DailyStats       []DailyStat    `json:"daily_stats"`
	CategoryStats    []CategoryStat `json:"category_stats"`
}

type TopCourse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Views       int64   `json:"views"`
	Enrollments int64   `json:"enrollments"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	CoverImage  string  `json:"cover_image"`
}

type DailyStat struct {
	Date           string `json:"date"`
	Views          int64  `json:"views"`
	NewEnrollments int64  `json:"new_enrollments"`
}

type CategoryStat struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
	Views    int64  `json:"views"`
}

// GetDashboardStats aggregates the coach's course and enrollment numbers.
func GetDashboardStats(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	db := database.GetDB()

	var stats DashboardStats

	db.Model(&model.Course{}).
		Where("coach_id = ?", claims.UserID).
		Count(&stats.TotalCourses)

	db.Model(&model.Course{}).
		Where("coach_id = ? AND status = ?", claims.UserID, model.CourseStatusPublished).
		Count(&stats.PublishedCourses)

	if count, err := model.GetStudentCount(db, claims.UserID); err == nil {
		stats.TotalStudents = count
	}

	db.Model(&model.CourseView{}).
		Joins("JOIN courses ON course_views.course_id = courses.id").
		Where("courses.coach_id = ?", claims.UserID).
		Count(&stats.TotalViews)

	// Top 5 courses by views
	var topCourses []TopCourse
	db.Table("courses").
		Select(`courses.id, courses.title, courses.price, courses.category, courses.cover_image,
			COUNT(DISTINCT course_views.id) as views,
			COUNT(DISTINCT enrollments.id) as enrollments`).
		Joins("LEFT JOIN course_views ON courses.id = course_views.course_id").
		Joins("LEFT JOIN enrollments ON courses.id = enrollments.course_id").
		Where("courses.coach_id = ? AND courses.deleted_at IS NULL", claims.UserID).
		Group("courses.id").
		Order("views DESC").
		Limit(5).
		Scan(&topCourses)
	stats.TopCourses = topCourses

	// Last 7 days
	for i := 6; i >= 0; i-- {
		day := time.Now().AddDate(0, 0, -i)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		dayEnd := dayStart.AddDate(0, 0, 1)

		var daily DailyStat
		daily.Date = dayStart.Format("2006-01-02")

		db.Model(&model.CourseView{}).
			Joins("JOIN courses ON course_views.course_id = courses.id").
			Where("courses.coach_id = ? AND course_views.viewed_at >= ? AND course_views.viewed_at < ?",
				claims.UserID, dayStart, dayEnd).
			Count(&daily.Views)

		db.Model(&model.Enrollment{}).
			Joins("JOIN courses ON enrollments.course_id = courses.id").
			Where("courses.coach_id = ? AND enrollments.created_at >= ? AND enrollments.created_at < ?",
				claims.UserID, dayStart, dayEnd).
			Count(&daily.NewEnrollments)

		stats.DailyStats = append(stats.DailyStats, daily)
	}

	var categoryStats []CategoryStat
	db.Table("courses").
		Select("courses.category, COUNT(DISTINCT courses.id) as count, COUNT(course_views.id) as views").
		Joins("LEFT JOIN course_views ON courses.id = course_views.course_id").
		Where("courses.coach_id = ? AND courses.deleted_at IS NULL", claims.UserID).
		Group("courses.category").
		Scan(&categoryStats)
	stats.CategoryStats = categoryStats

	return c.JSON(stats)
}

// RecordCourseView stores a view for a public course page. Uniqueness per
// IP within 24h is handled by the CourseView hooks.
func RecordCourseView(c *fiber.Ctx) error {
	var course model.Course
	if err := database.DB.First(&course, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	view := model.CourseView{
		CourseID:  course.ID,
		IP:        c.IP(),
		SessionID: c.Get("X-Session-ID"),
		UserAgent: c.Get("User-Agent"),
		ViewedAt:  time.Now(),
	}

	if claims, ok := c.Locals("user").(*jwt.Claims); ok {
		view.UserID = &claims.UserID
	}

	if err := database.DB.Create(&view).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not record view",
		})
	}

	return c.SendStatus(fiber.StatusCreated)
}
