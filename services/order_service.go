package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/dineqr/table-order/models"
	"github.com/dineqr/table-order/realtime"
	"github.com/dineqr/table-order/utils"
)

// WriteTimeout bounds every store write so a stalled connection surfaces
// as a failure instead of an indefinite "in progress" state.
const WriteTimeout = 10 * time.Second

// OrderService covers order submission and the status/payment lifecycle.
// Every committed mutation is followed by a snapshot broadcast; nothing
// is pushed on failure, so clients never see optimistic state.
type OrderService struct {
	db    *gorm.DB
	carts *CartService
}

func NewOrderService(db *gorm.DB, carts *CartService) *OrderService {
	return &OrderService{db: db, carts: carts}
}

// ValidateTableNumber parses the table number input. Empty input or a
// value below 1 fails; the normalized string is returned otherwise.
func ValidateTableNumber(input string) (string, error) {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 {
		return "", ErrInvalidTableNumber
	}
	return strconv.Itoa(n), nil
}

// Submit turns the viewer's cart into a persisted order. The order is
// created and the cart cleared in one transaction: a failed write leaves
// the cart intact for resubmission. An idempotency key, when supplied,
// makes a retried submission return the already-created order instead of
// writing a duplicate.
func (s *OrderService) Submit(ctx context.Context, viewer models.ViewerIdentity, tableNumberInput, idempotencyKey string) (*models.Order, error) {
	tableNumber, err := ValidateTableNumber(tableNumberInput)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, WriteTimeout)
	defer cancel()

	if idempotencyKey != "" {
		var existing models.Order
		err := s.db.WithContext(ctx).
			Preload("Lines").Preload("Lines.AddOns").
			Where("idempotency_key = ?", idempotencyKey).
			First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
	}

	lines, err := s.carts.Lines(ctx, viewer)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	device, ip := viewer.CartScope()
	order := models.Order{
		TableNumber:   tableNumber,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
		PaymentMethod: "Cash",
		TotalAmount:   Total(lines),
		DeviceID:      device,
		ClientIP:      ip,
	}
	if idempotencyKey != "" {
		order.IdempotencyKey = &idempotencyKey
	}
	for _, l := range lines {
		snapshot := models.OrderLine{
			Name:      lineDisplayName(l),
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Notes:     l.Notes,
		}
		for _, a := range l.AddOns {
			snapshot.AddOns = append(snapshot.AddOns, models.OrderAddOn{Name: a.Name, Price: a.Price})
		}
		order.Lines = append(order.Lines, snapshot)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := tx.Where("device_id = ? AND client_ip = ?", device, ip).
			Delete(&models.CartLine{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order #%d submitted for table %s (total %s)",
		order.ID, order.TableNumber, utils.FormatCurrency(order.TotalAmount))

	realtime.BroadcastSnapshots()
	return &order, nil
}

// MarkPreparing moves a pending order to preparing. A paid order never
// changes status, and a completed order never moves backward. Calling it
// on an order already preparing is a no-op.
func (s *OrderService) MarkPreparing(ctx context.Context, orderID uint) (*models.Order, error) {
	return s.transition(ctx, orderID, func(order *models.Order, updates map[string]interface{}) error {
		if order.PaymentStatus == models.PaymentStatusPaid {
			return ErrOrderPaid
		}
		if order.Status == models.OrderStatusCompleted {
			return ErrStatusFinal
		}
		if order.Status == models.OrderStatusPreparing {
			return nil
		}
		updates["status"] = models.OrderStatusPreparing
		return nil
	})
}

// MarkCompleted moves any unpaid order to completed, stamping the
// completion time used by the retention sweep. Idempotent on an already
// completed, unpaid order.
func (s *OrderService) MarkCompleted(ctx context.Context, orderID uint) (*models.Order, error) {
	return s.transition(ctx, orderID, func(order *models.Order, updates map[string]interface{}) error {
		if order.PaymentStatus == models.PaymentStatusPaid {
			return ErrOrderPaid
		}
		if order.Status == models.OrderStatusCompleted {
			return nil
		}
		updates["status"] = models.OrderStatusCompleted
		updates["completed_at"] = time.Now()
		return nil
	})
}

// MarkPaid records payment from any state. Payment implies fulfillment:
// the same atomic update also forces the order to completed, so no
// intermediate paid-but-preparing state is ever observable. There is no
// reverse operation; once paid, always paid.
func (s *OrderService) MarkPaid(ctx context.Context, orderID uint, paymentMethod string) (*models.Order, error) {
	return s.transition(ctx, orderID, func(order *models.Order, updates map[string]interface{}) error {
		if order.PaymentStatus == models.PaymentStatusPaid {
			return nil
		}
		now := time.Now()
		updates["payment_status"] = models.PaymentStatusPaid
		updates["paid_at"] = now
		if order.Status != models.OrderStatusCompleted {
			updates["status"] = models.OrderStatusCompleted
			updates["completed_at"] = now
		}
		if paymentMethod != "" {
			updates["payment_method"] = paymentMethod
		}
		return nil
	})
}

// transition re-reads the order inside a transaction, applies the guard,
// and persists whatever fields the guard staged. Re-reading under the
// transaction keeps the paid guard safe against stale reads even when
// two staff clients race.
func (s *OrderService) transition(ctx context.Context, orderID uint, guard func(*models.Order, map[string]interface{}) error) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, WriteTimeout)
	defer cancel()

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Lines").Preload("Lines.AddOns").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to read order: %w", err)
		}

		updates := make(map[string]interface{})
		if err := guard(&order, updates); err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		// Re-read so callers and the feed see exactly what was committed.
		if err := tx.Preload("Lines").Preload("Lines.AddOns").First(&order, orderID).Error; err != nil {
			return fmt.Errorf("failed to re-read order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order #%d is now %s/%s", order.ID, order.Status, order.PaymentStatus)

	realtime.BroadcastSnapshots()
	return &order, nil
}

// AllOrders returns every order, newest first, the ordering the live
// feed and the staff views share.
func (s *OrderService) AllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).
		Preload("Lines").Preload("Lines.AddOns").
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns one order with its lines.
func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).
		Preload("Lines").Preload("Lines.AddOns").
		First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to read order: %w", err)
	}
	return &order, nil
}

func lineDisplayName(l models.CartLine) string {
	if l.PortionName != "" {
		return fmt.Sprintf("%s (%s)", l.Name, l.PortionName)
	}
	return l.Name
}
