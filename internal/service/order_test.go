package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"ecommerce_api/internal/db"
	"ecommerce_api/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingMailer captures sends and optionally fails every one of them.
type recordingMailer struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, to+": "+subject)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // One in-memory database for the whole test
	db.Migrate(conn)
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB) *domain.User {
	t.Helper()
	user := domain.User{Username: "shopper", Email: "shopper@example.com", PasswordHash: "x"}
	require.NoError(t, conn.Create(&user).Error)
	return &user
}

func seedProduct(t *testing.T, conn *gorm.DB, name string, price float64, active bool) *domain.Product {
	t.Helper()
	p := domain.Product{Name: name, Price: price, Category: "test", InStock: true, IsActive: active}
	require.NoError(t, conn.Create(&p).Error)
	return &p
}

func seedCart(t *testing.T, conn *gorm.DB, userID uint, items ...domain.CartItem) *domain.Cart {
	t.Helper()
	cart := domain.Cart{UserID: userID}
	require.NoError(t, conn.Create(&cart).Error)
	for i := range items {
		items[i].CartID = cart.ID
		require.NoError(t, conn.Create(&items[i]).Error)
	}
	return &cart
}

func TestPlaceOrderRecomputesTotal(t *testing.T) {
	conn := newTestDB(t)
	user := seedUser(t, conn)
	productA := seedProduct(t, conn, "Tee", 100, true)
	svc := NewOrderService(conn, &recordingMailer{}, 3, 7)

	order, err := svc.PlaceOrder(context.Background(), user, PlaceOrderInput{
		Items:         []OrderLine{{ProductID: productA.ID, Quantity: 2}},
		PaymentMethod: "cod",
	})
	require.NoError(t, err)
	// 2 x 100 + delivery charge 3, whatever any client might claim
	assert.Equal(t, 203.0, order.TotalAmount)
	assert.Equal(t, 200.0, order.ItemsTotal)
	assert.Equal(t, 3.0, order.DeliveryCharge)
	assert.Equal(t, domain.OrderStatusPlaced, order.Status)
	assert.NotEmpty(t, order.OrderNumber)
}

func TestPlaceOrderInvalidProductAbortsEverything(t *testing.T) {
	conn := newTestDB(t)
	user := seedUser(t, conn)
	valid := seedProduct(t, conn, "Tee", 100, true)
	seedCart(t, conn, user.ID, domain.CartItem{ProductID: valid.ID, Quantity: 1})
	svc := NewOrderService(conn, &recordingMailer{}, 3, 7)

	_, err := svc.PlaceOrder(context.Background(), user, PlaceOrderInput{
		Items: []OrderLine{
			{ProductID: valid.ID, Quantity: 1},
			{ProductID: 9999, Quantity: 1}, // Does not exist
		},
		PaymentMethod: "card",
	})
	require.ErrorIs(t, err, ErrProductUnavailable)

	// No partial order, no orphaned lines
	var orders, items int64
	conn.Model(&domain.Order{}).Count(&orders)
	conn.Model(&domain.OrderItem{}).Count(&items)
	assert.Zero(t, orders)
	assert.Zero(t, items)

	// The cart was never touched
	var cartItems int64
	conn.Model(&domain.CartItem{}).Count(&cartItems)
	assert.Equal(t, int64(1), cartItems)
}

func TestPlaceOrderInactiveProductAborts(t *testing.T) {
	conn := newTestDB(t)
	user := seedUser(t, conn)
	inactive := seedProduct(t, conn, "Discontinued", 50, false)
	svc := NewOrderService(conn, &recordingMailer{}, 3, 7)

	_, err := svc.PlaceOrder(context.Background(), user, PlaceOrderInput{
		Items:         []OrderLine{{ProductID: inactive.ID, Quantity: 1}},
		PaymentMethod: "upi",
	})
	require.ErrorIs(t, err, ErrProductUnavailable)
}

func TestPlaceOrderClearsCartButKeepsIt(t *testing.T) {
	conn := newTestDB(t)
	user := seedUser(t, conn)
	product := seedProduct(t, conn, "Tee", 100, true)
	cart := seedCart(t, conn, user.ID, domain.CartItem{ProductID: product.ID, Quantity: 2})
	svc := NewOrderService(conn, &recordingMailer{}, 3, 7)

	_, err := svc.PlaceOrder(context.Background(), user, PlaceOrderInput{
		Items:         []OrderLine{{ProductID: product.ID, Quantity: 2}},
		PaymentMethod: "cod",
	})
	require.NoError(t, err)

	var items int64
	conn.Model(&domain.CartItem{}).Where("cart_id = ?", cart.ID).Count(&items)
	assert.Zero(t, items, "cart lines should be cleared")
	var kept domain.Cart
	assert.NoError(t, conn.First(&kept, cart.ID).Error, "cart row itself should survive")
}

func TestPlaceOrderSnapshotsPriceAtOrderTime(t *testing.T) {
	conn := newTestDB(t)
	user := seedUser(t, conn)
	product := seedProduct(t, conn, "Tee", 100, true)
	svc := NewOrderService(conn, &recordingMailer{}, 3, 7)

	order, err := svc.PlaceOrder(context.Background(), user, PlaceOrderInput{
		Items:         []OrderLine{{ProductID: product.ID, Quantity: 1}},
		PaymentMethod: "cod",
	})
	require.NoError(t, err)

	// The catalog price moves on; the order keeps yesterday's price
	require.NoError(t, conn.Model(product).Update("price", 999.0).Error)
	var line domain.OrderItem
	require.NoError(t, conn.Where("order_id = ?", order.ID).First(&line).Error)
	assert.Equal(t, 100.0, line.UnitPrice)
	assert.Equal(t, "Tee", line.ProductName)
}

func TestOrderNumbersAreSequentialAndUnique(t *testing.T) {
	conn := newTestDB(t)
	user := seedUser(t, conn)
	product := seedProduct(t, conn, "Tee", 100, true)
	svc := NewOrderService(conn, &recordingMailer{}, 3, 7)

	seen := map[string]bool{}
	for i := 1; i <= 3; i++ {
		order, err := svc.PlaceOrder(context.Background(), user, PlaceOrderInput{
			Items:         []OrderLine{{ProductID: product.ID, Quantity: 1}},
			PaymentMethod: "cod",
		})
		require.NoError(t, err)
		assert.False(t, seen[order.OrderNumber], "order number %s repeated", order.OrderNumber)
		seen[order.OrderNumber] = true
		assert.Equal(t, fmt.Sprintf("-%06d", i), order.OrderNumber[len(order.OrderNumber)-7:])
	}
}

func TestPlaceOrderSurvivesMailFailure(t *testing.T) {
	conn := newTestDB(t)
	user := seedUser(t, conn)
	product := seedProduct(t, conn, "Tee", 100, true)
	svc := NewOrderService(conn, &recordingMailer{fail: true}, 3, 7)

	order, err := svc.PlaceOrder(context.Background(), user, PlaceOrderInput{
		Items:         []OrderLine{{ProductID: product.ID, Quantity: 1}},
		PaymentMethod: "cod",
	})
	require.NoError(t, err)
	var persisted domain.Order
	assert.NoError(t, conn.First(&persisted, order.ID).Error)
}

func TestPlaceOrderValidation(t *testing.T) {
	conn := newTestDB(t)
	user := seedUser(t, conn)
	product := seedProduct(t, conn, "Tee", 100, true)
	svc := NewOrderService(conn, &recordingMailer{}, 3, 7)

	_, err := svc.PlaceOrder(context.Background(), user, PlaceOrderInput{PaymentMethod: "cod"})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.PlaceOrder(context.Background(), user, PlaceOrderInput{
		Items:         []OrderLine{{ProductID: product.ID, Quantity: 0}},
		PaymentMethod: "cod",
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.PlaceOrder(context.Background(), user, PlaceOrderInput{
		Items:         []OrderLine{{ProductID: product.ID, Quantity: 1}},
		PaymentMethod: "cheque",
	})
	assert.ErrorIs(t, err, ErrInvalidPayment)
}
