package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dineqr/table-order/controllers"
	"github.com/dineqr/table-order/models"
)

func setupTableRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	tableCtrl := controllers.NewTableController(db)
	router.GET("/tables", tableCtrl.GetAllTables)
	router.POST("/tables", tableCtrl.CreateTable)
	router.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
	router.GET("/tables/:table_id/qr", tableCtrl.GetTableQR)
	return router
}

func TestTableCreateNormalizesNumber(t *testing.T) {
	db := openTestDB(t)
	router := setupTableRouter(db)

	w := postJSON(router, "/tables", map[string]interface{}{"table_number": "07"})
	require.Equal(t, http.StatusCreated, w.Code)

	var table models.Table
	require.NoError(t, db.First(&table).Error)
	assert.Equal(t, "7", table.TableNumber)
}

func TestTableCreateRejectsInvalidNumber(t *testing.T) {
	db := openTestDB(t)
	router := setupTableRouter(db)

	for _, input := range []string{"0", "-1", "abc"} {
		w := postJSON(router, "/tables", map[string]interface{}{"table_number": input})
		assert.Equal(t, http.StatusBadRequest, w.Code, "input %q", input)
	}
}

func TestTableQRServesPNG(t *testing.T) {
	db := openTestDB(t)
	router := setupTableRouter(db)

	require.NoError(t, db.Create(&models.Table{TableNumber: "4"}).Error)

	req, _ := http.NewRequest("GET", "/tables/1/qr", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	// PNG magic bytes.
	require.Greater(t, w.Body.Len(), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, w.Body.Bytes()[:4])
}

func TestTableQRUnknownTable(t *testing.T) {
	db := openTestDB(t)
	router := setupTableRouter(db)

	req, _ := http.NewRequest("GET", "/tables/99/qr", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
