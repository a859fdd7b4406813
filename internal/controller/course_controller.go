package controller

import (
	"fmt"

	"coachly_backend/internal/model"
	"coachly_backend/pkg/database"
	"coachly_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseInput struct {
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Status      string         `json:"status"`
	Price       float64        `json:"price"`
	Currency    string         `json:"currency"`
	Tags        datatypes.JSON `json:"tags"`
}

type LessonInput struct {
	Title    string `json:"title" validate:"required"`
	Position int    `json:"position"`
	VideoURL string `json:"video_url"`
	Content  string `json:"content"`
}

// generateCourseSlug makes the slug unique within the coach's courses.
func generateCourseSlug(coachID uint, title string) string {
	base := slug.Make(title)

	courseSlug := base
	for i := 2; ; i++ {
		var count int64
		database.DB.Model(&model.Course{}).
			Where("coach_id = ? AND slug = ?", coachID, courseSlug).
			Count(&count)
		if count == 0 {
			return courseSlug
		}
		courseSlug = fmt.Sprintf("%s-%d", base, i)
	}
}

func CreateCourse(c *fiber.Ctx) error {
	input := new(CourseInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	claims := c.Locals("user").(*jwt.Claims)

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	course := model.Course{
		CoachID:     claims.UserID,
		Title:       input.Title,
		Slug:        generateCourseSlug(claims.UserID, input.Title),
		Description: input.Description,
		Category:    model.CourseCategory(input.Category),
		Status:      model.CourseStatusDraft,
		Price:       input.Price,
		Currency:    currency,
		Tags:        input.Tags,
	}

	if err := database.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create course",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(course)
}

func ListMyCourses(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var courses []model.Course
	if err := database.DB.Where("coach_id = ?", claims.UserID).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch courses",
		})
	}

	return c.JSON(courses)
}

func UpdateCourse(c *fiber.Ctx) error {
	input := new(CourseInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var course model.Course
	if err := database.DB.First(&course, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	if input.Title != "" && input.Title != course.Title {
		course.Title = input.Title
		course.Slug = generateCourseSlug(course.CoachID, input.Title)
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Category != "" {
		course.Category = model.CourseCategory(input.Category)
	}
	if input.Status != "" {
		switch model.CourseStatus(input.Status) {
		case model.CourseStatusDraft, model.CourseStatusPublished, model.CourseStatusArchived:
			course.Status = model.CourseStatus(input.Status)
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid course status",
			})
		}
	}
	if input.Price > 0 {
		course.Price = input.Price
	}
	if input.Tags != nil {
		course.Tags = input.Tags
	}

	if err := database.DB.Save(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update course",
		})
	}

	return c.JSON(course)
}

func DeleteCourse(c *fiber.Ctx) error {
	var course model.Course
	if err := database.DB.First(&course, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	if err := database.DB.Delete(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course deleted successfully",
	})
}

// ListCoachCourses is the public course listing on a coach's page.
func ListCoachCourses(c *fiber.Ctx) error {
	username := c.Params("username")

	var coach model.User
	if err := database.DB.Where("username = ? AND role = ?", username, model.RoleCoach).
		First(&coach).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Coach not found",
		})
	}

	var courses []model.Course
	if err := database.DB.Where("coach_id = ? AND status = ?", coach.ID, model.CourseStatusPublished).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch courses",
		})
	}

	return c.JSON(fiber.Map{
		"coach":   coach.GetPublicProfile(),
		"courses": courses,
	})
}

// GetCourseBySlug is the public course detail page.
func GetCourseBySlug(c *fiber.Ctx) error {
	username := c.Params("username")
	courseSlug := c.Params("course_slug")

	var coach model.User
	if err := database.DB.Where("username = ? AND role = ?", username, model.RoleCoach).
		First(&coach).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Coach not found",
		})
	}

	var course model.Course
	if err := database.DB.Where("coach_id = ? AND status = ? AND slug = ?",
		coach.ID, model.CourseStatusPublished, courseSlug).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.position ASC")
		}).
		First(&course).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	return c.JSON(fiber.Map{
		"coach":  coach.GetPublicProfile(),
		"course": course,
	})
}

func AddLesson(c *fiber.Ctx) error {
	input := new(LessonInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var course model.Course
	if err := database.DB.First(&course, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	position := input.Position
	if position == 0 {
		var count int64
		database.DB.Model(&model.Lesson{}).Where("course_id = ?", course.ID).Count(&count)
		position = int(count) + 1
	}

	lesson := model.Lesson{
		CourseID: course.ID,
		Title:    input.Title,
		Position: position,
		VideoURL: input.VideoURL,
		Content:  input.Content,
	}

	if err := database.DB.Create(&lesson).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create lesson",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(lesson)
}

func DeleteLesson(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var lesson model.Lesson
	if err := database.DB.Preload("Course").First(&lesson, c.Params("lesson_id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lesson not found",
		})
	}

	if lesson.Course.CoachID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to access this lesson",
		})
	}

	if err := database.DB.Delete(&lesson).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete lesson",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lesson deleted successfully",
	})
}
