package domain

import "time"

// OrderStatus is the fixed order lifecycle.
type OrderStatus string

// PaymentMethod enumerates the accepted payment options.
type PaymentMethod string

const (
	// Order statuses
	OrderStatusPlaced     OrderStatus = "placed"     // Created at checkout
	OrderStatusConfirmed  OrderStatus = "confirmed"  // Confirmed by the store
	OrderStatusProcessing OrderStatus = "processing" // Being prepared
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Received by the customer
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled before shipping

	// Payment methods
	PaymentMethodCOD  PaymentMethod = "cod"  // Cash on delivery
	PaymentMethodCard PaymentMethod = "card" // Card payment
	PaymentMethodUPI  PaymentMethod = "upi"  // UPI transfer
)

// Order Model — immutable price/product snapshot once created.
type Order struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	UserID            uint          `gorm:"index;not null" json:"user_id"`
	OrderNumber       string        `gorm:"uniqueIndex;not null" json:"order_number"` // ORD-YYYYMMDD-NNNNNN
	Items             []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	ItemsTotal        float64       `json:"items_total"`     // Sum of line subtotals
	DeliveryCharge    float64       `json:"delivery_charge"` // Fixed charge from config
	TotalAmount       float64       `json:"total_amount"`    // ItemsTotal + DeliveryCharge, always recomputed server-side
	Address           Address       `gorm:"embedded;embeddedPrefix:addr_" json:"address"` // Delivery address snapshot
	PaymentMethod     PaymentMethod `gorm:"type:VARCHAR(20)" json:"payment_method"`
	Status            OrderStatus   `gorm:"type:VARCHAR(20);default:'placed'" json:"status"`
	EstimatedDelivery time.Time     `json:"estimated_delivery"` // CreatedAt + configured day offset
	CreatedAt         time.Time     `json:"created_at"`
}

// OrderItem Model — price is the catalog price at the moment of ordering,
// decoupled from later catalog changes.
type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index" json:"order_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"` // Name snapshot
	UnitPrice    float64 `json:"unit_price"`   // Price snapshot
	Quantity     int     `json:"quantity"`
	Measurements string  `json:"measurements,omitempty"` // Optional free-form sizing info
}
