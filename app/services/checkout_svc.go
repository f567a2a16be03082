package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/infinitystore/backend/app/models"
	"github.com/infinitystore/backend/app/repositories"
	"github.com/infinitystore/backend/app/utils/calc"
	"github.com/shopspring/decimal"
)

// CheckoutItem is one requested line. Any price sent by the client is not
// part of the type and therefore ignored. Amount is accepted as an alias of
// Quantity for older clients.
type CheckoutItem struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
	Amount    int  `json:"amount,omitempty"`
}

func (it CheckoutItem) quantity() int {
	if it.Quantity == 0 && it.Amount != 0 {
		return it.Amount
	}
	return it.Quantity
}

// MaxLineQuantity caps the units of one product in a single order, before
// and after repeated ids are merged.
const MaxLineQuantity = 10000

type CheckoutInput struct {
	Items []CheckoutItem `json:"items"`
}

type CheckoutService struct {
	store repositories.Store
	now   func() time.Time
}

func NewCheckoutService(store repositories.Store) *CheckoutService {
	return &CheckoutService{store: store, now: time.Now}
}

// mergeItems validates quantities and sums repeated product ids. The returned
// ids are sorted so concurrent checkouts take row locks in the same order.
func mergeItems(items []CheckoutItem) ([]uint, map[uint]int, error) {
	if len(items) == 0 {
		return nil, nil, invalid("items", "the cart is empty; an order needs at least one product.")
	}

	quantities := make(map[uint]int, len(items))
	for i, it := range items {
		if it.ProductID == 0 {
			return nil, nil, invalid(fmt.Sprintf("items[%d].productId", i), "productId is required.")
		}
		q := it.quantity()
		if q < 1 {
			return nil, nil, invalid(fmt.Sprintf("items[%d].quantity", i), "quantity must be at least 1 for product %d.", it.ProductID)
		}
		if q > MaxLineQuantity {
			return nil, nil, invalid(fmt.Sprintf("items[%d].quantity", i), "quantity must be at most %d for product %d.", MaxLineQuantity, it.ProductID)
		}
		merged := quantities[it.ProductID] + q
		if merged > MaxLineQuantity {
			return nil, nil, invalid("items", "total quantity for product %d must be at most %d.", it.ProductID, MaxLineQuantity)
		}
		quantities[it.ProductID] = merged
	}

	ids := make([]uint, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids, quantities, nil
}

// PlaceOrder turns the requested items into a pending order. Stock checks,
// the order row, its details and the stock decrements all happen in one
// transaction; any failure leaves the database untouched.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uint, in CheckoutInput) (*models.Order, error) {
	ids, quantities, err := mergeItems(in.Items)
	if err != nil {
		return nil, err
	}

	var created *models.Order
	err = s.store.Transaction(ctx, func(repos repositories.Repositories) error {
		details := make([]models.OrderDetail, 0, len(ids))
		total := decimal.Zero

		for _, id := range ids {
			qty := quantities[id]
			product, err := repos.Products.GetByIDForUpdate(ctx, id)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return invalid("items", "product %d does not exist.", id)
				}
				return fmt.Errorf("lock product %d: %w", id, err)
			}
			if !product.Active {
				return invalid("items", "product %d is not available.", id)
			}
			if product.Stock < qty {
				return fmt.Errorf("%w for product %d: requested %d, available %d", ErrInsufficientStock, id, qty, product.Stock)
			}

			subtotal := calc.LineSubtotal(product.Price, qty)
			total = total.Add(subtotal)
			details = append(details, models.OrderDetail{
				ProductID: id,
				Quantity:  qty,
				UnitPrice: product.Price,
				Subtotal:  subtotal,
			})
		}

		order := &models.Order{
			Date:   s.now(),
			State:  models.OrderStatePending,
			Total:  total,
			UserID: userID,
		}
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}

		for i := range details {
			details[i].OrderID = order.ID
		}
		if err := repos.OrderDetails.BulkCreate(ctx, details); err != nil {
			return err
		}

		for _, d := range details {
			if err := repos.Products.DecrementStock(ctx, d.ProductID, d.Quantity); err != nil {
				if errors.Is(err, repositories.ErrStockUnavailable) {
					return fmt.Errorf("%w for product %d", ErrInsufficientStock, d.ProductID)
				}
				return err
			}
		}

		reloaded, err := repos.Orders.GetByID(ctx, order.ID, repositories.OrderInclude{Details: true, Products: true})
		if err != nil {
			return err
		}
		created = reloaded
		return nil
	})
	if err != nil {
		var vErr *ValidationError
		if !errors.As(err, &vErr) && !errors.Is(err, ErrInsufficientStock) {
			log.Printf("PlaceOrder: checkout for user %d rolled back: %v", userID, err)
		}
		return nil, err
	}

	return created, nil
}
