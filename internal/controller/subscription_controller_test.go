package controller

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
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

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func setupSubscriptionApp() *fiber.App {
	app := fiber.New()
	app.Get("/tiers", ListTiers)
	app.Post("/start-trial", middleware.AuthMiddleware(), middleware.RequireRole(model.RoleCoach), StartTrial)
	app.Get("/my", middleware.AuthMiddleware(), GetMySubscription)
	return app
}

func coachToken(t *testing.T) string {
	token, err := jwt.GenerateToken(1, "coach@example.com", "coach")
	assert.NoError(t, err)
	return token
}

func TestListTiers(t *testing.T) {
	app := setupSubscriptionApp()

	req := httptest.NewRequest(http.MethodGet, "/tiers", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var tiers []struct {
		ID          string `json:"id"`
		Price       int    `json:"price"`
		YearlyPrice int    `json:"yearly_price"`
		Features    struct {
			MaxCourses  int `json:"maxCourses"`
			MaxStudents int `json:"maxStudents"`
		} `json:"features"`
	}
	body, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(body, &tiers))

	assert.Len(t, tiers, 3)
	assert.Equal(t, "basic", tiers[0].ID)
	assert.Equal(t, "premium", tiers[1].ID)
	assert.Equal(t, "enterprise", tiers[2].ID)

	assert.Equal(t, 278, tiers[0].YearlyPrice)
	assert.Equal(t, 758, tiers[1].YearlyPrice)
	assert.Equal(t, 1910, tiers[2].YearlyPrice)

	// Unlimited marshals as the -1 sentinel on the wire
	assert.Equal(t, -1, tiers[2].Features.MaxCourses)
	assert.Equal(t, -1, tiers[2].Features.MaxStudents)
}

func TestStartTrial_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "coach_subscriptions" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "coach_subscriptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectCommit()

	app := setupSubscriptionApp()

	req := httptest.NewRequest(http.MethodPost, "/start-trial", nil)
	req.Header.Set("Authorization", "Bearer "+coachToken(t))
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Success        bool   `json:"success"`
		SubscriptionID uint   `json:"subscription_id"`
		Message        string `json:"message"`
		TrialDays      int    `json:"trial_days"`
	}
	body, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(body, &result))

	assert.True(t, result.Success)
	assert.NotZero(t, result.SubscriptionID)
	assert.NotEmpty(t, result.Message)
	assert.Equal(t, 14, result.TrialDays)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartTrial_ExistingSubscriptionConflict(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "coach_subscriptions" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "tier_id", "status"}).
			AddRow(7, 1, "basic", "trial"))

	app := setupSubscriptionApp()

	req := httptest.NewRequest(http.MethodPost, "/start-trial", nil)
	req.Header.Set("Authorization", "Bearer "+coachToken(t))
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var result map[string]interface{}
	body, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(body, &result))
	assert.Contains(t, result["error"], "already have a subscription")

	// No insert was attempted
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartTrial_ConcurrentDuplicateMapsToConflict(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	// The existence check sees nothing because a concurrent request wins
	// the insert; the unique index on user_id rejects ours.
	mock.ExpectQuery(`SELECT \* FROM "coach_subscriptions" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "coach_subscriptions"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_coach_subscriptions_user_id"})
	mock.ExpectRollback()

	app := setupSubscriptionApp()

	req := httptest.NewRequest(http.MethodPost, "/start-trial", nil)
	req.Header.Set("Authorization", "Bearer "+coachToken(t))
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var result map[string]interface{}
	body, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, "You already have a subscription", result["error"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartTrial_RejectsMissingCredentialBeforeAnyDataAccess(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	app := setupSubscriptionApp()

	req := httptest.NewRequest(http.MethodPost, "/start-trial", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Zero expectations registered: the existence check never ran
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartTrial_RejectsInvalidToken(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	app := setupSubscriptionApp()

	req := httptest.NewRequest(http.MethodPost, "/start-trial", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartTrial_ClientRoleForbidden(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	token, err := jwt.GenerateToken(2, "client@example.com", "client")
	assert.NoError(t, err)

	app := setupSubscriptionApp()

	req := httptest.NewRequest(http.MethodPost, "/start-trial", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMySubscription_NotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "coach_subscriptions" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	app := setupSubscriptionApp()

	req := httptest.NewRequest(http.MethodGet, "/my", nil)
	req.Header.Set("Authorization", "Bearer "+coachToken(t))
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
