package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"coachly_backend/internal/middleware"
	"coachly_backend/internal/model"
	"coachly_backend/pkg/utils/jwt"
	"coachly_backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func setupEnrollmentApp() *fiber.App {
	app := fiber.New()
	app.Post("/courses/:course_id/enroll", middleware.AuthMiddleware(), middleware.RequireRole(model.RoleClient), Enroll)
	return app
}

func clientToken(t *testing.T) string {
	token, err := jwt.GenerateToken(2, "client@example.com", "client")
	assert.NoError(t, err)
	return token
}

func expectPublishedCourse(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT \* FROM "courses" WHERE "courses"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "coach_id", "title", "status"}).
			AddRow(10, 3, "Atomic Habits for Founders", "published"))

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_name"}).
			AddRow(3, "coach@example.com", "Jane", "Doe"))
}

func TestEnroll_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectPublishedCourse(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "enrollments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectCommit()

	app := setupEnrollmentApp()

	req := httptest.NewRequest(http.MethodPost, "/courses/10/enroll", nil)
	req.Header.Set("Authorization", "Bearer "+clientToken(t))
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var enrollment model.Enrollment
	body, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(body, &enrollment))
	assert.Equal(t, uint(10), enrollment.CourseID)
	assert.Equal(t, uint(2), enrollment.ClientID)
	assert.Equal(t, model.EnrollmentStatusActive, enrollment.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnroll_ConcurrentDuplicateMapsToConflict(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectPublishedCourse(mock)

	// A concurrent enrollment for the same (course, client) pair got in
	// first; the composite unique index rejects ours.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "enrollments"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_course_client"})
	mock.ExpectRollback()

	app := setupEnrollmentApp()

	req := httptest.NewRequest(http.MethodPost, "/courses/10/enroll", nil)
	req.Header.Set("Authorization", "Bearer "+clientToken(t))
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var result map[string]interface{}
	body, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, "You are already enrolled in this course", result["error"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnroll_DraftCourseRejected(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "courses" WHERE "courses"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "coach_id", "title", "status"}).
			AddRow(10, 3, "Atomic Habits for Founders", "draft"))

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	app := setupEnrollmentApp()

	req := httptest.NewRequest(http.MethodPost, "/courses/10/enroll", nil)
	req.Header.Set("Authorization", "Bearer "+clientToken(t))
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// No insert was attempted
	assert.NoError(t, mock.ExpectationsWereMet())
}
