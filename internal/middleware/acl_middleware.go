package middleware

import (
	"coachly_backend/internal/model"
	"coachly_backend/pkg/database"
	"coachly_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireRole restricts a route to the given roles.
func RequireRole(roles ...model.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		for _, role := range roles {
			if claims.Role == string(role) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to access this resource",
		})
	}
}

// CheckCourseOwnership verifies the authenticated coach owns the course in
// the :id route param.
func CheckCourseOwnership() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)
		courseID := c.Params("id")

		var course model.Course
		if err := database.DB.First(&course, courseID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}

		if course.CoachID != claims.UserID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have permission to access this course",
			})
		}

		return c.Next()
	}
}
