package domain

// Counter Model — named monotonic sequence. The "orders" row backs order
// number assignment; it is read under a row lock and incremented inside the
// order transaction, never count-then-formatted.
type Counter struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"uniqueIndex;not null"`
	Value int64  `gorm:"not null;default:0"`
}

// OrderCounterName is the counter row backing order numbers.
const OrderCounterName = "orders"
