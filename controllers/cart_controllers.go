package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dineqr/table-order/middlewares"
	"github.com/dineqr/table-order/services"
	"github.com/dineqr/table-order/utils"
)

type CartController struct {
	Carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{Carts: carts}
}

// GetCart -> the viewer's cart lines plus the running total
func (cc *CartController) GetCart(c *gin.Context) {
	viewer := middlewares.ViewerFromContext(c)

	lines, err := cc.Carts.Lines(c.Request.Context(), viewer)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart", gin.H{
		"lines": lines,
		"total": services.Total(lines),
	})
}

// AddCartLine -> add to cart; merges with an existing line on the same
// (menu, portion) key
func (cc *CartController) AddCartLine(c *gin.Context) {
	viewer := middlewares.ViewerFromContext(c)

	type reqBody struct {
		MenuID          uint   `json:"menu_id" binding:"required"`
		Quantity        int    `json:"quantity" binding:"required"`
		PortionOptionID *uint  `json:"portion_option_id"`
		AddOnOptionIDs  []uint `json:"add_on_option_ids"`
		Notes           string `json:"notes"`
	}

	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	line, err := cc.Carts.AddLine(c.Request.Context(), viewer, services.AddLineInput{
		MenuID:          req.MenuID,
		Quantity:        req.Quantity,
		PortionOptionID: req.PortionOptionID,
		AddOnOptionIDs:  req.AddOnOptionIDs,
		Notes:           req.Notes,
	})
	if err != nil {
		utils.RespondError(c, cartErrorStatus(err), err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Line added to cart", line)
}

// UpdateCartLine -> quantity controls; values below 1 clamp to 1
func (cc *CartController) UpdateCartLine(c *gin.Context) {
	viewer := middlewares.ViewerFromContext(c)
	lineID, _ := strconv.Atoi(c.Param("line_id"))

	type reqBody struct {
		Quantity int `json:"quantity" binding:"required"`
	}

	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	line, err := cc.Carts.SetQuantity(c.Request.Context(), viewer, uint(lineID), req.Quantity)
	if err != nil {
		utils.RespondError(c, cartErrorStatus(err), err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart line updated", line)
}

// RemoveCartLine
func (cc *CartController) RemoveCartLine(c *gin.Context) {
	viewer := middlewares.ViewerFromContext(c)
	lineID, _ := strconv.Atoi(c.Param("line_id"))

	if err := cc.Carts.RemoveLine(c.Request.Context(), viewer, uint(lineID)); err != nil {
		utils.RespondError(c, cartErrorStatus(err), err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart line removed", gin.H{"line_id": lineID})
}

// ClearCart
func (cc *CartController) ClearCart(c *gin.Context) {
	viewer := middlewares.ViewerFromContext(c)

	if err := cc.Carts.Clear(c.Request.Context(), viewer); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart cleared", nil)
}

func cartErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrMenuNotFound), errors.Is(err, services.ErrCartLineNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrQuantityTooLow), errors.Is(err, services.ErrInvalidOption):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
