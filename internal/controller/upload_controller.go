package controller

import (
	"log"
	"strconv"

	"coachly_backend/internal/model"
	"coachly_backend/pkg/database"
	"coachly_backend/pkg/utils/image"
	"coachly_backend/pkg/utils/jwt"
	"coachly_backend/pkg/utils/storage"
	"coachly_backend/pkg/utils/validation"

	"github.com/gofiber/fiber/v2"
)

// UploadCourseCover re-encodes and stores the course cover image.
func UploadCourseCover(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	courseID, err := strconv.ParseUint(c.Params("course_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course model.Course
	if err := database.GetDB().First(&course, courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	if course.CoachID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to upload images for this course",
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if err := validation.ValidateImage(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	buf, contentType, err := image.ProcessImage(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	url, err := storage.UploadCourseCover(buf, contentType, claims.UserID, course.ID, file.Filename)
	if err != nil {
		log.Printf("Could not upload course cover: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload image",
		})
	}

	if err := database.GetDB().Model(&course).Update("cover_image", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save cover image",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Cover image uploaded successfully",
		"url":     url,
	})
}

// UploadCourseMaterial stores a downloadable file on a course and records
// its size for storage usage.
func UploadCourseMaterial(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	courseID, err := strconv.ParseUint(c.Params("course_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course model.Course
	if err := database.GetDB().First(&course, courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	if course.CoachID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to upload materials for this course",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if err := validation.ValidateMaterial(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	url, err := storage.UploadMaterial(file, claims.UserID, course.ID)
	if err != nil {
		log.Printf("Could not upload course material: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload file",
		})
	}

	material := model.CourseMaterial{
		CourseID:    course.ID,
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		SizeBytes:   file.Size,
		URL:         url,
	}

	if err := database.GetDB().Create(&material).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save material",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(material)
}

// DeleteCourseMaterial removes a material record; the stored object is kept
// for any enrolled clients who already downloaded links.
func DeleteCourseMaterial(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var material model.CourseMaterial
	if err := database.GetDB().Preload("Course").First(&material, c.Params("material_id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Material not found",
		})
	}

	if material.Course.CoachID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to delete this material",
		})
	}

	if err := database.GetDB().Delete(&material).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete material",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Material deleted successfully",
	})
}
