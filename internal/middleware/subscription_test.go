package middleware

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"coachly_backend/pkg/subscription"
	"coachly_backend/pkg/utils/jwt"
	"coachly_backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

// setupGatedApp fakes an authenticated coach and mounts the handler chain.
func setupGatedApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Claims{UserID: 1, Email: "coach@example.com", Role: "coach"})
		return c.Next()
	})
	app.Post("/gated", handler, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func expectSubscriptionRow(mock sqlmock.Sqlmock, tierID, status string) {
	mock.ExpectQuery(`SELECT \* FROM "coach_subscriptions" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "tier_id", "status"}).
			AddRow(1, 1, tierID, status))
}

func TestCheckCourseLimit_UnderLimit(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectSubscriptionRow(mock, "basic", "trial")
	mock.ExpectQuery(`SELECT count\(\*\) FROM "courses"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	app := setupGatedApp(CheckCourseLimit())

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/gated", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCheckCourseLimit_AtLimit(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	// basic allows 5 courses
	expectSubscriptionRow(mock, "basic", "active")
	mock.ExpectQuery(`SELECT count\(\*\) FROM "courses"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	app := setupGatedApp(CheckCourseLimit())

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/gated", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCheckCourseLimit_UnlimitedTier(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectSubscriptionRow(mock, "enterprise", "active")
	mock.ExpectQuery(`SELECT count\(\*\) FROM "courses"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(100000))

	app := setupGatedApp(CheckCourseLimit())

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/gated", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCheckCourseLimit_NoSubscription(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "coach_subscriptions" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	app := setupGatedApp(CheckCourseLimit())

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/gated", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCheckCourseLimit_ExpiredSubscription(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectSubscriptionRow(mock, "premium", "expired")

	app := setupGatedApp(CheckCourseLimit())

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/gated", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCheckFeatureAccess(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	// basic has no analytics
	expectSubscriptionRow(mock, "basic", "active")

	app := setupGatedApp(CheckFeatureAccess(subscription.Analytics))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/gated", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCheckFeatureAccess_Allowed(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectSubscriptionRow(mock, "premium", "active")

	app := setupGatedApp(CheckFeatureAccess(subscription.Analytics))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/gated", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
