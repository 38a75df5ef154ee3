package services

import (
	"github.com/dineqr/table-order/models"
)

// StaffPartitions splits the full order list into the three staff tabs.
type StaffPartitions struct {
	Active          []models.Order `json:"active"`
	CompletedPaid   []models.Order `json:"completed_paid"`
	CompletedUnpaid []models.Order `json:"completed_unpaid"`
}

// PartitionForStaff buckets orders for the staff view: Active holds
// everything still needing attention (not completed, or completed but
// unpaid), CompletedPaid is the archive tab, and CompletedUnpaid
// additionally flags outstanding collections.
func PartitionForStaff(orders []models.Order) StaffPartitions {
	p := StaffPartitions{
		Active:          []models.Order{},
		CompletedPaid:   []models.Order{},
		CompletedUnpaid: []models.Order{},
	}
	for _, o := range orders {
		if o.IsActive() {
			p.Active = append(p.Active, o)
			if o.Status == models.OrderStatusCompleted && o.PaymentStatus == models.PaymentStatusUnpaid {
				p.CompletedUnpaid = append(p.CompletedUnpaid, o)
			}
			continue
		}
		p.CompletedPaid = append(p.CompletedPaid, o)
	}
	return p
}

// VisibleToViewer reports whether a customer viewer may see one order:
// submitted from their device, or matching their current table number.
// Table numbers are ephemeral per-session identifiers, so a table match
// alone is acceptable; an order never leaks to a viewer matching on
// neither.
func VisibleToViewer(o models.Order, viewer models.ViewerIdentity) bool {
	if viewer.HasDevice() && o.DeviceID == viewer.DeviceID {
		return true
	}
	return viewer.TableNumber != "" && o.TableNumber == viewer.TableNumber
}

// VisibleToCustomer keeps the orders a customer viewer may see.
func VisibleToCustomer(orders []models.Order, viewer models.ViewerIdentity) []models.Order {
	visible := []models.Order{}
	for _, o := range orders {
		if VisibleToViewer(o, viewer) {
			visible = append(visible, o)
		}
	}
	return visible
}

// VisibleOrders applies the viewer-appropriate filter to a full,
// timestamp-descending snapshot. It is pure and cheap enough to rerun on
// every feed update at the expected scale of tens to low hundreds of
// concurrent orders.
func VisibleOrders(orders []models.Order, viewer models.ViewerIdentity) interface{} {
	if viewer.IsStaff {
		return PartitionForStaff(orders)
	}
	return VisibleToCustomer(orders, viewer)
}
