package controllers

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/dineqr/table-order/models"
	"github.com/dineqr/table-order/services"
	"github.com/dineqr/table-order/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// GetAllTables
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("table_number").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// CreateTable -> staff registers a table number
func (tc *TableController) CreateTable(c *gin.Context) {
	type reqBody struct {
		TableNumber string `json:"table_number" binding:"required"`
	}

	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	normalized, err := services.ValidateTableNumber(req.TableNumber)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{TableNumber: normalized}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %s registered", table.TableNumber)
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// DeleteTable
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("table_id"))

	if err := tc.DB.Delete(&models.Table{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"table_id": id})
}

// GetTableQR -> PNG QR code encoding the menu URL with the table number
// pre-filled; printed and stuck on the physical table.
func (tc *TableController) GetTableQR(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("table_id"))

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	png, err := qrcode.Encode(fmt.Sprintf("%s/menu?table=%s", baseURL, table.TableNumber), qrcode.Medium, 256)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
