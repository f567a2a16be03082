package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatePending   = "pending"
	OrderStatePaid      = "paid"
	OrderStateShipped   = "shipped"
	OrderStateCancelled = "cancelled"
)

// orderTransitions lists, per state, the states an admin may move an order to.
var orderTransitions = map[string][]string{
	OrderStatePending: {OrderStatePaid, OrderStateCancelled},
	OrderStatePaid:    {OrderStateShipped, OrderStateCancelled},
}

// IsValidOrderState reports whether s names one of the four order states.
func IsValidOrderState(s string) bool {
	switch s {
	case OrderStatePending, OrderStatePaid, OrderStateShipped, OrderStateCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order in state from may be moved to state to.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	Date    time.Time       `gorm:"not null;index" json:"date"`
	State   string          `gorm:"size:20;not null;default:'pending';index" json:"state"`
	Total   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	UserID  uint            `gorm:"not null;index" json:"user_id"`
	User    *User           `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	Details []OrderDetail   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
}

func (o *Order) TableName() string {
	return "orders"
}
