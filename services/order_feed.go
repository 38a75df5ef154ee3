package services

import (
	"context"

	"github.com/dineqr/table-order/models"
	"github.com/dineqr/table-order/realtime"
)

// RegisterFeed wires the order snapshot provider into the realtime hub.
// Each connected client gets the full ordered snapshot run through the
// viewer filter whenever any order changes.
func RegisterFeed(orders *OrderService) {
	realtime.SetSnapshotProvider(func(viewer models.ViewerIdentity) (interface{}, error) {
		all, err := orders.AllOrders(context.Background())
		if err != nil {
			return nil, err
		}
		return VisibleOrders(all, viewer), nil
	})
}
