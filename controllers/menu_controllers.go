package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dineqr/table-order/models"
	"github.com/dineqr/table-order/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// menuView is the catalog shape served to clients: portions come from
// PortionOptions so the synthetic Full choice is always present.
type menuView struct {
	models.Menu
	Portions []models.MenuOption `json:"portions,omitempty"`
	AddOns   []models.MenuOption `json:"add_ons,omitempty"`
}

func toMenuView(m models.Menu) menuView {
	return menuView{
		Menu:     m,
		Portions: m.PortionOptions(),
		AddOns:   m.AddOnOptions(),
	}
}

// GetAllMenus -> full catalog with portions and add-ons resolved
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	var menus []models.Menu
	if err := mc.DB.Preload("Options").Order("category, subcategory, name").Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	views := make([]menuView, 0, len(menus))
	for _, m := range menus {
		views = append(views, toMenuView(m))
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", views)
}

// GetMenusByCategory -> catalog filtered by ?category=
func (mc *MenuController) GetMenusByCategory(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("category query parameter required"))
		return
	}

	var menus []models.Menu
	if err := mc.DB.Preload("Options").
		Where("category = ?", category).
		Order("subcategory, name").
		Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	views := make([]menuView, 0, len(menus))
	for _, m := range menus {
		views = append(views, toMenuView(m))
	}
	utils.RespondJSON(c, http.StatusOK, "Menus by category", views)
}

// GetMenuByID -> detail for one dish
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	var menu models.Menu
	if err := mc.DB.Preload("Options").First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu detail", toMenuView(menu))
}

// CreateMenu -> staff adds a dish with its options
func (mc *MenuController) CreateMenu(c *gin.Context) {
	type optionReq struct {
		Name  string  `json:"name" binding:"required"`
		Price float64 `json:"price"`
		Kind  string  `json:"kind"`
	}
	type reqBody struct {
		Name        string      `json:"name" binding:"required"`
		Price       float64     `json:"price" binding:"required"`
		Category    string      `json:"category" binding:"required"`
		Subcategory string      `json:"subcategory"`
		Description string      `json:"description"`
		ImageUrl    *string     `json:"image_url"`
		Options     []optionReq `json:"options"`
	}

	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu := models.Menu{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Description: req.Description,
		ImageUrl:    req.ImageUrl,
	}
	for _, o := range req.Options {
		kind := o.Kind
		if kind == "" {
			// Staff tooling usually omits the kind; classify by name.
			kind = models.OptionKindAddOn
			if models.IsPortionName(o.Name) {
				kind = models.OptionKindPortion
			}
		}
		menu.Options = append(menu.Options, models.MenuOption{
			Name:  o.Name,
			Price: o.Price,
			Kind:  kind,
		})
	}

	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Menu created: %s (%s)", menu.Name, menu.Category)
	utils.RespondJSON(c, http.StatusCreated, "Menu created", toMenuView(menu))
}

// UpdateMenu -> staff edits dish fields
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	var menu models.Menu
	if err := mc.DB.Preload("Options").First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type reqBody struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category"`
		Subcategory *string  `json:"subcategory"`
		Description *string  `json:"description"`
		ImageUrl    *string  `json:"image_url"`
	}

	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		menu.Name = *req.Name
	}
	if req.Price != nil {
		menu.Price = *req.Price
	}
	if req.Category != nil {
		menu.Category = *req.Category
	}
	if req.Subcategory != nil {
		menu.Subcategory = *req.Subcategory
	}
	if req.Description != nil {
		menu.Description = *req.Description
	}
	if req.ImageUrl != nil {
		menu.ImageUrl = req.ImageUrl
	}

	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu updated", toMenuView(menu))
}

// DeleteMenu
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	if err := mc.DB.Where("menu_id = ?", id).Delete(&models.MenuOption{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := mc.DB.Delete(&models.Menu{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"menu_id": id})
}

// GetCategories -> distinct category names for the browse tabs
func (mc *MenuController) GetCategories(c *gin.Context) {
	var categories []string
	if err := mc.DB.Model(&models.Menu{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}
