package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/dineqr/table-order/models"
	"github.com/dineqr/table-order/realtime"
	"github.com/dineqr/table-order/utils"
)

// Retention policy for finished orders: completed orders are hard
// deleted once their completion is older than the window. No archival,
// no soft delete.
const (
	DefaultSweepInterval   = 15 * time.Minute
	DefaultRetentionWindow = 5 * time.Hour
)

// RetentionSweeper periodically deletes stale completed orders.
type RetentionSweeper struct {
	DB        *gorm.DB
	Interval  time.Duration
	Retention time.Duration
	StopChan  chan struct{}

	// now is swappable for tests.
	now func() time.Time
}

func NewRetentionSweeper(db *gorm.DB) *RetentionSweeper {
	return &RetentionSweeper{
		DB:        db,
		Interval:  DefaultSweepInterval,
		Retention: DefaultRetentionWindow,
		StopChan:  make(chan struct{}),
		now:       time.Now,
	}
}

func (rs *RetentionSweeper) Start() {
	go func() {
		ticker := time.NewTicker(rs.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rs.Sweep()
			case <-rs.StopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Printf("Retention sweeper started (interval %s, window %s)", rs.Interval, rs.Retention)
}

func (rs *RetentionSweeper) Stop() {
	close(rs.StopChan)
}

// Sweep deletes every completed order whose completion timestamp is
// older than the retention window. Returns the number of orders removed.
func (rs *RetentionSweeper) Sweep() int {
	cutoff := rs.now().Add(-rs.Retention)

	var stale []models.Order
	if err := rs.DB.
		Where("status = ? AND completed_at IS NOT NULL AND completed_at < ?", models.OrderStatusCompleted, cutoff).
		Find(&stale).Error; err != nil {
		utils.ErrorLogger.Printf("Retention sweep query failed: %v", err)
		return 0
	}
	if len(stale) == 0 {
		return 0
	}

	deleted := 0
	for _, order := range stale {
		err := rs.DB.Transaction(func(tx *gorm.DB) error {
			lineIDs := tx.Session(&gorm.Session{NewDB: true}).
				Model(&models.OrderLine{}).Select("id").Where("order_id = ?", order.ID)
			if err := tx.Where("order_line_id IN (?)", lineIDs).Delete(&models.OrderAddOn{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderLine{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Order{}, order.ID).Error
		})
		if err != nil {
			utils.ErrorLogger.Printf("Failed to delete order #%d: %v", order.ID, err)
			continue
		}
		utils.InfoLogger.Printf("Retention sweep removed order #%d (completed %s)", order.ID, order.CompletedAt)
		deleted++
	}

	if deleted > 0 {
		realtime.BroadcastSnapshots()
	}
	return deleted
}
