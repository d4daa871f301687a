package user

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	usersvc "yardloop-backend/internal/application/user"
	"yardloop-backend/internal/domain"
	"yardloop-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*fiber.App, *gorm.DB, *domain.User) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	me := &domain.User{Username: "current_user", Email: "me@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(me).Error)

	h := &Handlers{Service: &usersvc.Service{DB: db}}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &middleware.SessionUser{UserID: me.UserID.String(), Username: me.Username, Email: me.Email})
		return c.Next()
	})
	app.Get("/users/:user_id", h.ViewProfile)
	app.Put("/users/me", h.UpdateProfile)
	return app, db, me
}

func TestViewProfile_PublicShape(t *testing.T) {
	app, db, _ := setupUserTest(t)
	bio := "I collect vinyl"
	other := &domain.User{Username: "other_user", Email: "other@example.com", PasswordHash: "secret", Bio: &bio}
	require.NoError(t, db.Create(other).Error)

	req := httptest.NewRequest("GET", "/users/"+other.UserID.String(), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "other_user", data["username"])
	assert.Equal(t, "I collect vinyl", data["bio"])
	_, hasEmail := data["email"]
	assert.False(t, hasEmail)
}

func TestViewProfile_NotFound(t *testing.T) {
	app, _, _ := setupUserTest(t)
	req := httptest.NewRequest("GET", "/users/"+uuid.New().String(), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func putProfile(t *testing.T, app *fiber.App, body interface{}) (int, map[string]interface{}) {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest("PUT", "/users/me", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

func TestUpdateProfile(t *testing.T) {
	app, db, me := setupUserTest(t)
	code, result := putProfile(t, app, map[string]string{"username": "renamed_user", "bio": "new bio"})
	require.Equal(t, 200, code)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "renamed_user", data["username"])

	var reloaded domain.User
	require.NoError(t, db.First(&reloaded, "user_id = ?", me.UserID).Error)
	assert.Equal(t, "renamed_user", reloaded.Username)
	require.NotNil(t, reloaded.Bio)
	assert.Equal(t, "new bio", *reloaded.Bio)
}

func TestUpdateProfile_UsernameTaken(t *testing.T) {
	app, db, _ := setupUserTest(t)
	require.NoError(t, db.Create(&domain.User{Username: "taken_name", Email: "taken@example.com", PasswordHash: "x"}).Error)

	code, result := putProfile(t, app, map[string]string{"username": "taken_name"})
	assert.Equal(t, 409, code)
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "Username already taken", errObj["message"])
}

func TestUpdateProfile_InvalidUsername(t *testing.T) {
	app, _, _ := setupUserTest(t)
	code, _ := putProfile(t, app, map[string]string{"username": "x"})
	assert.Equal(t, 400, code)
}

func TestUpdateProfile_NoChanges(t *testing.T) {
	app, _, _ := setupUserTest(t)
	code, _ := putProfile(t, app, map[string]string{})
	assert.Equal(t, 400, code)
}
