package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dineqr/table-order/models"
)

// CartService is the cart accumulator. Lines live in the store under the
// viewer's (device, ip) scope; a scope change simply selects a different
// set of rows, carts are never merged across scopes.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// AddLineInput describes one "add to cart" action.
type AddLineInput struct {
	MenuID          uint
	Quantity        int
	PortionOptionID *uint
	AddOnOptionIDs  []uint
	Notes           string
}

// AddLine resolves the unit price (portion option replaces the base
// price, add-ons are additive) and either merges into the line with the
// same (menu, portion) key by bumping its quantity, or appends a new one.
func (s *CartService) AddLine(ctx context.Context, viewer models.ViewerIdentity, in AddLineInput) (*models.CartLine, error) {
	if in.Quantity < 1 {
		return nil, ErrQuantityTooLow
	}

	var menu models.Menu
	if err := s.db.WithContext(ctx).Preload("Options").First(&menu, in.MenuID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, fmt.Errorf("failed to load menu item: %w", err)
	}

	unitPrice := menu.Price
	portionName := ""
	if in.PortionOptionID != nil {
		opt, ok := findOption(menu.Options, *in.PortionOptionID, models.OptionKindPortion)
		if !ok {
			return nil, ErrInvalidOption
		}
		unitPrice = opt.Price
		portionName = opt.Name
	}

	var addOns []models.CartAddOn
	for _, id := range in.AddOnOptionIDs {
		opt, ok := findOption(menu.Options, id, models.OptionKindAddOn)
		if !ok {
			return nil, ErrInvalidOption
		}
		addOns = append(addOns, models.CartAddOn{Name: opt.Name, Price: opt.Price})
	}

	device, ip := viewer.CartScope()

	q := s.db.WithContext(ctx).
		Preload("AddOns").
		Where("device_id = ? AND client_ip = ? AND menu_id = ?", device, ip, menu.ID)
	if in.PortionOptionID == nil {
		q = q.Where("portion_option_id IS NULL")
	} else {
		q = q.Where("portion_option_id = ?", *in.PortionOptionID)
	}

	var line models.CartLine
	err := q.First(&line).Error

	switch {
	case err == nil:
		// Same (menu, portion) key: bump quantity instead of duplicating.
		line.Quantity += in.Quantity
		if err := s.db.WithContext(ctx).Save(&line).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart line: %w", err)
		}
		return &line, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		line = models.CartLine{
			DeviceID:        device,
			ClientIP:        ip,
			MenuID:          menu.ID,
			Name:            menu.Name,
			PortionOptionID: in.PortionOptionID,
			PortionName:     portionName,
			UnitPrice:       unitPrice,
			Quantity:        in.Quantity,
			Notes:           in.Notes,
			AddOns:          addOns,
		}
		if err := s.db.WithContext(ctx).Create(&line).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart line: %w", err)
		}
		return &line, nil
	default:
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
}

// SetQuantity updates a line's quantity. Values below 1 clamp to 1; use
// RemoveLine to drop a line.
func (s *CartService) SetQuantity(ctx context.Context, viewer models.ViewerIdentity, lineID uint, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		quantity = 1
	}

	device, ip := viewer.CartScope()

	var line models.CartLine
	if err := s.db.WithContext(ctx).
		Preload("AddOns").
		Where("id = ? AND device_id = ? AND client_ip = ?", lineID, device, ip).
		First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartLineNotFound
		}
		return nil, fmt.Errorf("failed to read cart line: %w", err)
	}

	line.Quantity = quantity
	if err := s.db.WithContext(ctx).Save(&line).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}
	return &line, nil
}

// RemoveLine deletes one line from the viewer's cart.
func (s *CartService) RemoveLine(ctx context.Context, viewer models.ViewerIdentity, lineID uint) error {
	device, ip := viewer.CartScope()

	res := s.db.WithContext(ctx).
		Where("id = ? AND device_id = ? AND client_ip = ?", lineID, device, ip).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

// Clear empties the viewer's cart.
func (s *CartService) Clear(ctx context.Context, viewer models.ViewerIdentity) error {
	device, ip := viewer.CartScope()
	if err := s.db.WithContext(ctx).
		Where("device_id = ? AND client_ip = ?", device, ip).
		Delete(&models.CartLine{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Lines returns the viewer's cart lines, oldest first.
func (s *CartService) Lines(ctx context.Context, viewer models.ViewerIdentity) ([]models.CartLine, error) {
	device, ip := viewer.CartScope()

	var lines []models.CartLine
	if err := s.db.WithContext(ctx).
		Preload("AddOns").
		Where("device_id = ? AND client_ip = ?", device, ip).
		Order("created_at asc").
		Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	return lines, nil
}

// Total sums (unit price + add-on prices) x quantity over the lines.
func Total(lines []models.CartLine) float64 {
	var total float64
	for i := range lines {
		total += lines[i].LineTotal()
	}
	return total
}

func findOption(options []models.MenuOption, id uint, kind string) (models.MenuOption, bool) {
	for _, opt := range options {
		if opt.ID == id && opt.Kind == kind {
			return opt, true
		}
	}
	return models.MenuOption{}, false
}
