package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dineqr/table-order/controllers"
	"github.com/dineqr/table-order/utils"
)

func setupUserRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	userCtrl := controllers.NewUserController(db)
	router.POST("/register", userCtrl.Register)
	router.POST("/login", userCtrl.Login)
	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	b, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	db := openTestDB(t)
	router := setupUserRouter(db)

	w := postJSON(router, "/register", map[string]interface{}{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "supersecret1",
		"role":     "staff",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, "/login", map[string]interface{}{
		"email":    "asha@example.com",
		"password": "supersecret1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token    string `json:"token"`
			UserRole string `json:"user_role"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "staff", resp.Data.UserRole)
	require.NotEmpty(t, resp.Data.Token)

	// The token round-trips through our own parser.
	claims, err := utils.ParseToken(resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, "staff", claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	db := openTestDB(t)
	router := setupUserRouter(db)

	// Unknown role.
	w := postJSON(router, "/register", map[string]interface{}{
		"name":     "Ravi",
		"email":    "ravi@example.com",
		"password": "supersecret1",
		"role":     "customer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Password below the minimum length.
	w = postJSON(router, "/register", map[string]interface{}{
		"name":     "Ravi",
		"email":    "ravi@example.com",
		"password": "short",
		"role":     "staff",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := openTestDB(t)
	router := setupUserRouter(db)

	w := postJSON(router, "/register", map[string]interface{}{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "supersecret1",
		"role":     "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, "/login", map[string]interface{}{
		"email":    "asha@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(router, "/login", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "supersecret1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
