package middleware

import (
	"time"

	"coachly_backend/internal/model"
	"coachly_backend/pkg/database"
	"coachly_backend/pkg/subscription"
	"coachly_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
)

// activeTier resolves the coach's current tier from their subscription
// record. The second return value is false when the coach has no usable
// subscription.
func activeTier(userID uint) (subscription.Tier, bool) {
	var sub model.CoachSubscription
	if err := database.DB.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return subscription.Tier{}, false
	}

	if !sub.IsUsable(time.Now()) {
		return subscription.Tier{}, false
	}

	return subscription.GetTierByID(subscription.TierID(sub.TierID))
}

// CheckFeatureAccess rejects the request unless the coach's tier includes
// the feature.
func CheckFeatureAccess(feature subscription.Feature) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		tier, ok := activeTier(claims.UserID)
		if !ok || !subscription.CanUseFeature(tier.ID, feature) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "This feature requires a higher subscription plan",
			})
		}

		return c.Next()
	}
}

// CheckCourseLimit gates course creation on the tier's maxCourses limit.
func CheckCourseLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		tier, ok := activeTier(claims.UserID)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "No active subscription found",
			})
		}

		var courseCount int64
		database.DB.Model(&model.Course{}).Where("coach_id = ?", claims.UserID).Count(&courseCount)

		if !tier.Features.MaxCourses.Allows(int(courseCount)) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         "You have reached your course limit. Please upgrade your plan.",
				"current_count": courseCount,
				"max_limit":     tier.Features.MaxCourses.Value(),
			})
		}

		return c.Next()
	}
}

// CheckStudentLimit gates new enrollments on the course owner's maxStudents
// limit. Runs on the enrollment route, so the coach is resolved from the
// course, not from the caller.
func CheckStudentLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID := c.Params("course_id")

		var course model.Course
		if err := database.DB.First(&course, courseID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}

		tier, ok := activeTier(course.CoachID)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "This course is not accepting enrollments",
			})
		}

		studentCount, err := model.GetStudentCount(database.DB, course.CoachID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not check enrollment capacity",
			})
		}

		if !tier.Features.MaxStudents.Allows(int(studentCount)) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "This course has reached its enrollment capacity",
			})
		}

		return c.Next()
	}
}

// CheckStorageLimit gates uploads on the tier's storage allowance. The
// incoming file size is not known here, so the check is against current
// usage only.
func CheckStorageLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		tier, ok := activeTier(claims.UserID)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "No active subscription found",
			})
		}

		var usedBytes int64
		database.DB.Model(&model.CourseMaterial{}).
			Joins("JOIN courses ON course_materials.course_id = courses.id").
			Where("courses.coach_id = ?", claims.UserID).
			Select("COALESCE(SUM(course_materials.size_bytes), 0)").
			Scan(&usedBytes)

		maxBytes := int64(tier.Features.StorageGB) * 1024 * 1024 * 1024
		if usedBytes >= maxBytes {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":        "You have reached your storage limit. Please upgrade your plan.",
				"used_mb":      usedBytes / (1024 * 1024),
				"max_limit_gb": tier.Features.StorageGB,
			})
		}

		return c.Next()
	}
}
