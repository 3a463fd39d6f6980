package repositories

import (
	"context"
	"errors"

	"marketplace-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStockConflict is returned when a guarded stock decrement affects no
// rows: a concurrent writer changed the quantity between the locked read
// and the update. The caller may retry the whole transaction.
var ErrStockConflict = errors.New("stock changed while placing order")

// OrderStore is the storage boundary for order placement and queries.
// Everything called inside InTransaction runs in one database
// transaction; returning an error rolls the whole unit back.
type OrderStore interface {
	InTransaction(ctx context.Context, fn func(tx OrderStore) error) error

	// ProductForUpdate reads a product with a row lock held until the
	// surrounding transaction commits or rolls back.
	ProductForUpdate(ctx context.Context, id uint) (*models.Product, error)

	// DecrementStock subtracts qty guarded so quantity can never go
	// negative; returns ErrStockConflict when the guard rejects the row.
	DecrementStock(ctx context.Context, id uint, qty int) error

	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error

	// FindByBuyerID returns the buyer's orders newest first, with line
	// items and their product metadata preloaded.
	FindByBuyerID(ctx context.Context, buyerID uint) ([]models.Order, error)
}

// GormOrderStore implements OrderStore using GORM
type GormOrderStore struct {
	db *gorm.DB
}

// NewGormOrderStore creates a new instance of GormOrderStore
func NewGormOrderStore(db *gorm.DB) OrderStore {
	return &GormOrderStore{db: db}
}

// InTransaction runs fn inside a single database transaction. The
// store handed to fn is bound to that transaction, so every read and
// write in fn shares its isolation and locks.
func (s *GormOrderStore) InTransaction(ctx context.Context, fn func(tx OrderStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormOrderStore{db: tx})
	})
}

// ProductForUpdate locks the product row (SELECT ... FOR UPDATE) so
// concurrent placements against the same product serialize here.
// Processing cart lines in the cart's given order keeps lock
// acquisition deterministic across transactions.
func (s *GormOrderStore) ProductForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStock issues the conditional decrement. The quantity guard
// in the WHERE clause is a second fence behind the row lock: even if a
// writer slipped past it, stock can never be driven below zero.
func (s *GormOrderStore) DecrementStock(ctx context.Context, id uint, qty int) error {
	result := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}

// CreateOrder inserts the order header and its line items.
func (s *GormOrderStore) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := s.db.WithContext(ctx).Create(&items).Error; err != nil {
		return err
	}
	order.Items = items
	return nil
}

// FindByBuyerID retrieves the buyer's orders, most recent first.
func (s *GormOrderStore) FindByBuyerID(ctx context.Context, buyerID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
