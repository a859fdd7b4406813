package controller

import (
	"errors"
	"log"
	"time"

	"coachly_backend/internal/model"
	"coachly_backend/pkg/database"
	"coachly_backend/pkg/email"
	"coachly_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProgressInput struct {
	Progress int `json:"progress" validate:"min=0,max=100"`
}

func InitEnrollmentController() {}

// Enroll signs the authenticated client up for a published course. The
// unique index on (course_id, client_id) rejects duplicates.
func Enroll(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var course model.Course
	if err := database.DB.Preload("Coach").First(&course, c.Params("course_id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	if course.Status != model.CourseStatusPublished {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Course is not open for enrollment",
		})
	}

	enrollment := model.Enrollment{
		CourseID: course.ID,
		ClientID: claims.UserID,
		Status:   model.EnrollmentStatusActive,
	}

	if err := database.DB.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "You are already enrolled in this course",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create enrollment",
		})
	}

	if email.GlobalEmailService != nil {
		if err := email.GlobalEmailService.SendEnrollmentNotification(
			course.Coach.Email,
			course.Coach.GetFullName(),
			course.Title,
			claims.Email,
		); err != nil {
			log.Printf("Could not send enrollment notification: %v", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(enrollment)
}

// ListMyEnrollments returns the client's enrollments with course details.
func ListMyEnrollments(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var enrollments []model.Enrollment
	if err := database.DB.Where("client_id = ?", claims.UserID).
		Preload("Course").
		Order("created_at DESC").
		Find(&enrollments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch enrollments",
		})
	}

	return c.JSON(enrollments)
}

// ListCourseStudents returns enrollments for one of the coach's courses.
func ListCourseStudents(c *fiber.Ctx) error {
	var enrollments []model.Enrollment
	if err := database.DB.Where("course_id = ?", c.Params("id")).
		Preload("Client").
		Order("created_at DESC").
		Find(&enrollments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch students",
		})
	}

	students := make([]fiber.Map, 0, len(enrollments))
	for _, e := range enrollments {
		students = append(students, fiber.Map{
			"enrollment_id": e.ID,
			"student":       e.Client.GetPublicProfile(),
			"status":        e.Status,
			"progress":      e.Progress,
			"enrolled_at":   e.CreatedAt,
		})
	}

	return c.JSON(students)
}

// UpdateProgress records the client's progress; 100 marks completion.
func UpdateProgress(c *fiber.Ctx) error {
	input := new(ProgressInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Progress < 0 || input.Progress > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Progress must be between 0 and 100",
		})
	}

	claims := c.Locals("user").(*jwt.Claims)

	var enrollment model.Enrollment
	if err := database.DB.Where("id = ? AND client_id = ?", c.Params("id"), claims.UserID).
		First(&enrollment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}

	enrollment.Progress = input.Progress
	if input.Progress == 100 {
		now := time.Now()
		enrollment.Status = model.EnrollmentStatusCompleted
		enrollment.CompletedAt = &now
	}

	if err := database.DB.Save(&enrollment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update progress",
		})
	}

	return c.JSON(enrollment)
}

// CancelEnrollment lets a client drop a course.
func CancelEnrollment(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var enrollment model.Enrollment
	if err := database.DB.Where("id = ? AND client_id = ?", c.Params("id"), claims.UserID).
		First(&enrollment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}

	enrollment.Status = model.EnrollmentStatusCancelled
	if err := database.DB.Save(&enrollment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not cancel enrollment",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Enrollment cancelled successfully",
	})
}
