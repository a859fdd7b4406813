// pkg/cron/course_stats.go
package cron

import (
	"log"
	"time"

	"coachly_backend/pkg/database"
	"coachly_backend/pkg/email"

	"github.com/robfig/cron/v3"
)

type CoachStats struct {
	UserID         uint
	UserEmail      string
	FullName       string
	TotalCourses   int64
	TotalViews     int64
	UniqueViews    int64
	TopCourse      string
	TopCourseViews int64
	NewEnrollments int64
}

func InitCourseStatsCron(emailService *email.EmailService) {
	c := cron.New()

	// Sundays at 20:00
	if _, err := c.AddFunc("0 20 * * 0", func() {
		sendWeeklyCourseStats(emailService)
	}); err != nil {
		log.Printf("Could not schedule weekly course stats: %v", err)
		return
	}

	// First of the month at 20:00
	if _, err := c.AddFunc("0 20 1 * *", func() {
		sendMonthlyCourseStats(emailService)
	}); err != nil {
		log.Printf("Could not schedule monthly course stats: %v", err)
		return
	}

	c.Start()
}

func sendWeeklyCourseStats(emailService *email.EmailService) {
	startDate := time.Now().AddDate(0, 0, -7)
	sendCourseStats(emailService, startDate, "weekly")
}

func sendMonthlyCourseStats(emailService *email.EmailService) {
	startDate := time.Now().AddDate(0, -1, 0)
	sendCourseStats(emailService, startDate, "monthly")
}

func sendCourseStats(emailService *email.EmailService, startDate time.Time, period string) {
	var stats []CoachStats

	err := database.GetDB().Raw(`
        SELECT
            u.id as user_id,
            u.email as user_email,
            TRIM(CONCAT(u.first_name, ' ', u.last_name)) as full_name,
            COUNT(DISTINCT c.id) as total_courses,
            COUNT(cv.id) as total_views,
            COUNT(DISTINCT cv.ip) as unique_views,
            (
                SELECT c2.title
                FROM courses c2
                LEFT JOIN course_views cv2 ON c2.id = cv2.course_id
                WHERE c2.coach_id = u.id AND cv2.created_at >= ?
                GROUP BY c2.id
                ORDER BY COUNT(cv2.id) DESC
                LIMIT 1
            ) as top_course,
            (
                SELECT COUNT(cv3.id)
                FROM courses c3
                LEFT JOIN course_views cv3 ON c3.id = cv3.course_id
                WHERE c3.coach_id = u.id AND cv3.created_at >= ?
                GROUP BY c3.id
                ORDER BY COUNT(cv3.id) DESC
                LIMIT 1
            ) as top_course_views,
            COUNT(e.id) as new_enrollments
        FROM users u
        LEFT JOIN courses c ON u.id = c.coach_id
        LEFT JOIN course_views cv ON c.id = cv.course_id AND cv.created_at >= ?
        LEFT JOIN enrollments e ON c.id = e.course_id AND e.created_at >= ?
        WHERE u.role = 'coach'
        GROUP BY u.id
        HAVING COUNT(cv.id) > 0
    `, startDate, startDate, startDate, startDate).Scan(&stats).Error

	if err != nil {
		log.Printf("Error fetching course stats: %v", err)
		return
	}

	for _, stat := range stats {
		err := emailService.SendCoachStats(
			stat.UserEmail,
			stat.FullName,
			period,
			stat.TotalCourses,
			stat.TotalViews,
			stat.UniqueViews,
			stat.TopCourse,
			stat.TopCourseViews,
			stat.NewEnrollments,
			startDate,
		)
		if err != nil {
			log.Printf("Error sending course stats to %s: %v", stat.UserEmail, err)
		}
	}
}
