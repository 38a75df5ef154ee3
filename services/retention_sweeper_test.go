package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineqr/table-order/models"
)

func sweeperOrder(t *testing.T, orders *OrderService, carts *CartService, device string, completedAgo time.Duration, now time.Time) *models.Order {
	t.Helper()

	viewer := models.ViewerIdentity{DeviceID: device, ClientIP: "10.0.0.9"}
	menu := seededMenu(t, orders.db, "Butter Naan")
	_, err := carts.AddLine(context.Background(), viewer, AddLineInput{MenuID: menu.ID, Quantity: 1})
	require.NoError(t, err)
	order, err := orders.Submit(context.Background(), viewer, "2", "")
	require.NoError(t, err)

	if completedAgo > 0 {
		completedAt := now.Add(-completedAgo)
		require.NoError(t, orders.db.Model(order).Updates(map[string]interface{}{
			"status":       models.OrderStatusCompleted,
			"completed_at": completedAt,
		}).Error)
	}
	return order
}

func TestSweepDeletesOnlyStaleCompletedOrders(t *testing.T) {
	db := setupTestDB(t)
	carts := NewCartService(db)
	orders := NewOrderService(db, carts)
	now := time.Now()

	stale := sweeperOrder(t, orders, carts, "d_stale", 6*time.Hour, now)
	fresh := sweeperOrder(t, orders, carts, "d_fresh", 4*time.Hour, now)
	active := sweeperOrder(t, orders, carts, "d_active", 0, now)

	sweeper := NewRetentionSweeper(db)
	sweeper.now = func() time.Time { return now }

	assert.Equal(t, 1, sweeper.Sweep())

	_, err := orders.GetOrder(context.Background(), stale.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// Inside the window or still active: untouched.
	_, err = orders.GetOrder(context.Background(), fresh.ID)
	assert.NoError(t, err)
	_, err = orders.GetOrder(context.Background(), active.ID)
	assert.NoError(t, err)
}

func TestSweepRemovesLinesWithTheOrder(t *testing.T) {
	db := setupTestDB(t)
	carts := NewCartService(db)
	orders := NewOrderService(db, carts)
	viewer := testViewer()
	ctx := context.Background()
	now := time.Now()

	menu := seededMenu(t, db, "Mix Veg")
	butterID := optionID(t, menu, "Extra Butter")
	_, err := carts.AddLine(ctx, viewer, AddLineInput{MenuID: menu.ID, Quantity: 1, AddOnOptionIDs: []uint{butterID}})
	require.NoError(t, err)
	order, err := orders.Submit(ctx, viewer, "2", "")
	require.NoError(t, err)

	require.NoError(t, db.Model(order).Updates(map[string]interface{}{
		"status":       models.OrderStatusCompleted,
		"completed_at": now.Add(-6 * time.Hour),
	}).Error)

	sweeper := NewRetentionSweeper(db)
	sweeper.now = func() time.Time { return now }
	require.Equal(t, 1, sweeper.Sweep())

	var lineCount, addOnCount int64
	require.NoError(t, db.Model(&models.OrderLine{}).Count(&lineCount).Error)
	require.NoError(t, db.Model(&models.OrderAddOn{}).Count(&addOnCount).Error)
	assert.Zero(t, lineCount)
	assert.Zero(t, addOnCount)
}

func TestSweepNoStaleOrdersIsQuiet(t *testing.T) {
	db := setupTestDB(t)
	sweeper := NewRetentionSweeper(db)
	assert.Zero(t, sweeper.Sweep())
}

func TestSweeperStartStop(t *testing.T) {
	db := setupTestDB(t)
	sweeper := NewRetentionSweeper(db)
	sweeper.Interval = time.Hour

	sweeper.Start()
	// Stop must return promptly and not panic with the goroutine live.
	sweeper.Stop()
}
