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

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// SubmitOrder -> customer turns the cart into an order. The cart is only
// cleared when the write succeeds; a failure leaves it intact for
// resubmission.
func (oc *OrderController) SubmitOrder(c *gin.Context) {
	viewer := middlewares.ViewerFromContext(c)

	type reqBody struct {
		TableNumber    string `json:"table_number"`
		IdempotencyKey string `json:"idempotency_key"`
	}

	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Submit(c.Request.Context(), viewer, req.TableNumber, req.IdempotencyKey)
	if err != nil {
		utils.RespondError(c, orderErrorStatus(err), err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

// GetMyOrders -> the customer-visible subset: submitted from this device,
// or matching the viewer's table number when no device ID is available
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	viewer := middlewares.ViewerFromContext(c)

	all, err := oc.Orders.AllOrders(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Your orders", services.VisibleToCustomer(all, viewer))
}

// GetOrderByID -> detail for one order. Customers only get orders that
// pass the viewer filter; a foreign order reads as not found so IDs
// cannot be enumerated across tables. Staff see everything.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	order, err := oc.Orders.GetOrder(c.Request.Context(), uint(id))
	if err != nil {
		utils.RespondError(c, orderErrorStatus(err), err)
		return
	}

	if _, isStaff := c.Get("role"); !isStaff {
		viewer := middlewares.ViewerFromContext(c)
		if !services.VisibleToViewer(*order, viewer) {
			utils.RespondError(c, http.StatusNotFound, services.ErrOrderNotFound)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetAllOrders -> staff view, partitioned into active / completed+paid /
// completed-but-unpaid tabs
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	all, err := oc.Orders.AllOrders(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", services.PartitionForStaff(all))
}

// MarkPreparing -> staff starts working on an order
func (oc *OrderController) MarkPreparing(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	order, err := oc.Orders.MarkPreparing(c.Request.Context(), uint(id))
	if err != nil {
		utils.RespondError(c, orderErrorStatus(err), err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order is preparing", order)
}

// MarkCompleted -> staff marks an order done
func (oc *OrderController) MarkCompleted(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	order, err := oc.Orders.MarkCompleted(c.Request.Context(), uint(id))
	if err != nil {
		utils.RespondError(c, orderErrorStatus(err), err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order completed", order)
}

// MarkPaid -> staff records payment; the same write completes the order
func (oc *OrderController) MarkPaid(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	type reqBody struct {
		PaymentMethod string `json:"payment_method"`
	}
	var req reqBody
	// Body is optional; the method defaults to the stored one.
	_ = c.ShouldBindJSON(&req)

	order, err := oc.Orders.MarkPaid(c.Request.Context(), uint(id), req.PaymentMethod)
	if err != nil {
		utils.RespondError(c, orderErrorStatus(err), err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order paid", order)
}

// GetOrderStats -> counts per staff partition for the dashboard header
func (oc *OrderController) GetOrderStats(c *gin.Context) {
	all, err := oc.Orders.AllOrders(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	parts := services.PartitionForStaff(all)
	utils.RespondJSON(c, http.StatusOK, "Order stats", gin.H{
		"total":            len(all),
		"active":           len(parts.Active),
		"completed_paid":   len(parts.CompletedPaid),
		"completed_unpaid": len(parts.CompletedUnpaid),
	})
}

func orderErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTableNumber),
		errors.Is(err, services.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrOrderPaid),
		errors.Is(err, services.ErrStatusFinal):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
