package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce_api/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Order workflow errors mapped to HTTP statuses by the handlers.
var (
	ErrEmptyOrder         = errors.New("order has no items")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidPayment     = errors.New("unknown payment method")
	ErrProductUnavailable = errors.New("product not found or inactive")
)

// OrderLine is one requested line item. It deliberately carries no price
// field: prices always come from the live catalog.
type OrderLine struct {
	ProductID    uint   `json:"product_id" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required"`
	Measurements string `json:"measurements"`
}

// PlaceOrderInput is the checkout request after binding/validation.
type PlaceOrderInput struct {
	Items         []OrderLine    `json:"items" binding:"required"`
	Address       domain.Address `json:"address"`
	PaymentMethod string         `json:"payment_method" binding:"required"`
}

// OrderService runs the checkout workflow: price validation against the live
// catalog, total computation, order-number assignment, persistence, cart
// clearing, and the confirmation mail.
type OrderService struct {
	db             *gorm.DB
	mailer         Mailer
	deliveryCharge float64 // Fixed charge added to every order
	deliveryDays   int     // Estimated delivery offset from creation
}

// NewOrderService wires the workflow with its injected collaborators
func NewOrderService(db *gorm.DB, mailer Mailer, deliveryCharge float64, deliveryDays int) *OrderService {
	return &OrderService{db: db, mailer: mailer, deliveryCharge: deliveryCharge, deliveryDays: deliveryDays}
}

// parsePaymentMethod maps the request string to the enum
func parsePaymentMethod(s string) (domain.PaymentMethod, error) {
	switch domain.PaymentMethod(s) {
	case domain.PaymentMethodCOD, domain.PaymentMethodCard, domain.PaymentMethodUPI:
		return domain.PaymentMethod(s), nil
	default:
		return "", ErrInvalidPayment
	}
}

// PlaceOrder executes the whole checkout for one user. Any missing or
// inactive product aborts the transaction with no order created. Cart
// clearing and the confirmation mail run after commit and are best-effort:
// their failure never rolls the order back.
func (s *OrderService) PlaceOrder(ctx context.Context, user *domain.User, in PlaceOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}
	method, err := parsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := domain.Order{
		UserID:            user.ID,
		Address:           in.Address,
		PaymentMethod:     method,
		Status:            domain.OrderStatusPlaced,
		DeliveryCharge:    s.deliveryCharge,
		EstimatedDelivery: now.AddDate(0, 0, s.deliveryDays),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var itemsTotal float64
		for _, line := range in.Items {
			// Resolve the live product; inactive products are unorderable.
			var product domain.Product
			if err := tx.Where("id = ? AND is_active = ?", line.ProductID, true).First(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d", ErrProductUnavailable, line.ProductID)
				}
				return err
			}
			// Line cost from the catalog price, never from the client.
			itemsTotal += product.Price * float64(line.Quantity)
			order.Items = append(order.Items, domain.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				UnitPrice:    product.Price,
				Quantity:     line.Quantity,
				Measurements: line.Measurements,
			})
		}
		order.ItemsTotal = itemsTotal
		order.TotalAmount = itemsTotal + s.deliveryCharge

		// Assign the order number from the shared counter. The increment is
		// a single atomic UPDATE; the fresh value is read back inside the
		// same transaction, so concurrent checkouts cannot collide.
		seq, err := nextOrderSequence(tx)
		if err != nil {
			return err
		}
		order.OrderNumber = fmt.Sprintf("ORD-%s-%06d", now.Format("20060102"), seq)

		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	// Follow-up steps: the order stands even when these fail.
	if err := s.clearCart(ctx, user.ID); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"order_id": order.ID,
			"error":    err.Error(),
		}).Warn("cart clear after checkout failed")
	}
	go func(email string, o domain.Order) {
		if err := s.mailer.Send(email, "Order "+o.OrderNumber+" confirmed", OrderConfirmationBody(&o)); err != nil {
			logrus.WithFields(logrus.Fields{
				"order_id": o.ID,
				"error":    err.Error(),
			}).Warn("order confirmation mail failed")
		}
	}(user.Email, order)

	logrus.WithFields(logrus.Fields{
		"user_id":      user.ID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.TotalAmount,
	}).Info("Order placed")
	return &order, nil
}

// nextOrderSequence atomically advances the orders counter and returns the
// new value. Never computed from a row count: counts race under concurrent
// creation, the counter row does not.
func nextOrderSequence(tx *gorm.DB) (int64, error) {
	res := tx.Model(&domain.Counter{}).
		Where("name = ?", domain.OrderCounterName).
		Update("value", gorm.Expr("value + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, errors.New("order counter row missing")
	}
	var counter domain.Counter
	if err := tx.Where("name = ?", domain.OrderCounterName).First(&counter).Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}

// clearCart empties the user's cart lines, keeping the cart row itself
func (s *OrderService) clearCart(ctx context.Context, userID uint) error {
	var cart domain.Cart
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // Nothing to clear
		}
		return err
	}
	if err := s.db.WithContext(ctx).Where("cart_id = ?", cart.ID).Delete(&domain.CartItem{}).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&cart).Update("updated_at", time.Now()).Error
}
