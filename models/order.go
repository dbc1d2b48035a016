package models

import "time"

type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	CustomerID    *uint       `gorm:"index" json:"customer_id,omitempty"`
	Customer      *User       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CashierID     *uint       `gorm:"index" json:"cashier_id,omitempty"`
	Cashier       *User       `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
	OrderNumber   string      `gorm:"type:varchar(20);not null;index" json:"order_number"`
	Total         float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	Status        string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`   // pending, processing, completed, cancelled
	OrderType     string      `gorm:"type:varchar(20);not null;default:'customer'" json:"order_type"` // customer, cashier
	PaymentMethod *string     `gorm:"type:varchar(20)" json:"payment_method,omitempty"` // cash, card, e-wallet
	PaidAmount    *float64    `gorm:"type:decimal(10,2)" json:"paid_amount,omitempty"`
	ChangeAmount  *float64    `gorm:"type:decimal(10,2)" json:"change_amount,omitempty"`
	Notes         *string     `gorm:"type:text" json:"notes,omitempty"`
	OrderItems    []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
}
