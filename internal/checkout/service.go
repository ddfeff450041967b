package checkout

import (
	"context"
	"fmt"

	"github.com/suppcart/storefront/internal/cart"
	"github.com/suppcart/storefront/internal/localstore"
	"github.com/suppcart/storefront/internal/orders"
	pkgerrors "github.com/suppcart/storefront/pkg/errors"
)

// Service places orders. The new order and the emptied cart are written in
// one transaction so an interruption can never leave an emptied cart
// without a recorded order, or the reverse.
type Service interface {
	Place(ctx context.Context, customer orders.Customer) (orders.Order, error)
}

type service struct {
	store  *localstore.Store
	cart   *cart.Store
	orders *orders.Store
}

// NewService builds a checkout service with the required dependencies.
func NewService(store *localstore.Store, cartStore *cart.Store, orderStore *orders.Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("persistence store required")
	}
	if cartStore == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if orderStore == nil {
		return nil, fmt.Errorf("order store required")
	}
	return &service{store: store, cart: cartStore, orders: orderStore}, nil
}

func (s *service) Place(ctx context.Context, customer orders.Customer) (orders.Order, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return orders.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := s.orders.NewOrder(items, customer)

	err := s.store.Update(ctx, func(tx *localstore.Tx) error {
		if err := s.orders.StageCreate(tx, order); err != nil {
			return err
		}
		return s.cart.StageClear(tx)
	})
	if err != nil {
		return orders.Order{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "placing order")
	}

	s.orders.Adopt(order)
	s.cart.Reset()
	return order, nil
}
