package services

import (
	"context"
	"errors"
	"math"
	"time"

	"marketplace-api/models"
	repositories "marketplace-api/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxPlaceAttempts bounds automatic retries when a concurrent writer
// invalidates the in-flight transaction. Each retry re-reads fresh
// stock, so a genuine shortage surfaces as InsufficientStockError.
const maxPlaceAttempts = 3

type CreateOrderRequest struct {
	Items []CartLine `json:"items"`
}

type CartLine struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// OrderEventPublisher pushes order lifecycle events to downstream
// consumers. Publishing is best-effort; a failure never unwinds a
// committed order.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, evt models.OrderPlacedEvent) error
}

// ProductCacheInvalidator drops cached catalog responses after a
// mutation. Stock decrements count as mutations.
type ProductCacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// OrderService owns the order placement transaction and the buyer's
// order history view.
type OrderService struct {
	store  repositories.OrderStore
	events OrderEventPublisher
	cache  ProductCacheInvalidator
	logger *zap.Logger
}

// NewOrderService wires the order service. events and cache may be nil.
func NewOrderService(store repositories.OrderStore, events OrderEventPublisher, cache ProductCacheInvalidator, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		store:  store,
		events: events,
		cache:  cache,
		logger: logger,
	}
}

// validateCart normalizes and type-checks the cart before any storage
// work. It has no side effects; a rejected cart never opens a
// transaction.
func validateCart(req *CreateOrderRequest) error {
	if req == nil || len(req.Items) == 0 {
		return &InvalidCartError{Reason: "cart is empty"}
	}
	for _, line := range req.Items {
		if line.ProductID == 0 {
			return &InvalidCartError{Reason: "missing productId"}
		}
		if line.Quantity <= 0 {
			return &InvalidCartError{Reason: "missing/invalid quantity"}
		}
	}
	return nil
}

// PlaceOrder turns a validated cart into a persisted order and
// decremented stock, or leaves no trace at all.
//
// All reads and writes happen inside one database transaction. Cart
// lines are processed sequentially in the cart's given order: each line
// takes a row lock on its product, checks stock, accumulates the total,
// snapshots the price, and issues a guarded decrement. Any failure
// rolls the entire transaction back.
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID uint, req *CreateOrderRequest) (*models.Order, error) {
	if err := validateCart(req); err != nil {
		return nil, err
	}

	var order *models.Order
	var err error
	for attempt := 1; attempt <= maxPlaceAttempts; attempt++ {
		order, err = s.placeOnce(ctx, buyerID, req)
		if !errors.Is(err, repositories.ErrStockConflict) {
			break
		}
		s.logger.Warn("stock conflict while placing order, retrying",
			zap.Uint("buyer_id", buyerID),
			zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	if s.events != nil {
		evt := models.OrderPlacedEvent{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			BuyerID:     order.BuyerID,
			Total:       order.Total,
			Timestamp:   time.Now(),
		}
		for _, item := range order.Items {
			evt.Items = append(evt.Items, models.OrderPlacedItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}
		if pubErr := s.events.PublishOrderPlaced(ctx, evt); pubErr != nil {
			s.logger.Warn("failed to publish order placed event",
				zap.Uint("order_id", order.ID),
				zap.Error(pubErr))
		}
	}

	return order, nil
}

func (s *OrderService) placeOnce(ctx context.Context, buyerID uint, req *CreateOrderRequest) (*models.Order, error) {
	var placed *models.Order

	err := s.store.InTransaction(ctx, func(tx repositories.OrderStore) error {
		var total int64
		items := make([]models.OrderItem, 0, len(req.Items))

		for _, line := range req.Items {
			product, err := tx.ProductForUpdate(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductNotFoundError{ProductID: line.ProductID}
				}
				return err
			}

			if product.Quantity < line.Quantity {
				return &InsufficientStockError{
					ProductID: product.ID,
					Title:     product.Title,
					Available: product.Quantity,
					Requested: line.Quantity,
				}
			}

			subtotal, err := lineSubtotal(product.Price, line.Quantity)
			if err != nil {
				return err
			}
			if total > math.MaxInt64-subtotal {
				return ErrOrderTotalOverflow
			}
			total += subtotal

			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
			})

			if err := tx.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
				return err
			}
		}

		order := &models.Order{
			OrderNumber: newOrderNumber(),
			BuyerID:     buyerID,
			Total:       total,
			Status:      models.OrderStatusPlaced,
		}
		if err := tx.CreateOrder(ctx, order, items); err != nil {
			return err
		}
		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// GetMyOrders returns the buyer's order history, newest first, with
// product title/vegetable/unit projected into each line item.
func (s *OrderService) GetMyOrders(ctx context.Context, buyerID uint) ([]models.Order, error) {
	return s.store.FindByBuyerID(ctx, buyerID)
}

// lineSubtotal multiplies a unit price by a quantity with an overflow
// check. Price and quantity are validated positive before this point.
func lineSubtotal(price int64, quantity int) (int64, error) {
	subtotal := price * int64(quantity)
	if price != 0 && subtotal/price != int64(quantity) {
		return 0, ErrOrderTotalOverflow
	}
	return subtotal, nil
}

func newOrderNumber() string {
	return "ORD-" + time.Now().Format("20060102-150405") + "-" + uuid.New().String()[:8]
}
