package models

import "time"

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// one-to-one: un turno tiene como máximo un pago
	AppointmentID uint        `gorm:"uniqueIndex;not null" json:"appointment_id"`
	Appointment   Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	UserID uint `gorm:"index" json:"user_id"`

	Amount   float64 `gorm:"not null" json:"amount"`
	Currency string  `gorm:"size:10;default:'ARS'" json:"currency"`

	Status string `gorm:"size:20;default:'initiated';index" json:"status"`

	// referencias externas del gateway
	GatewayPaymentID    string `gorm:"size:255;index" json:"gateway_payment_id"`
	GatewayPreferenceID string `gorm:"size:255" json:"gateway_preference_id"`
	TransactionID       string `gorm:"size:255;uniqueIndex" json:"transaction_id"`

	ErrorMessage string `gorm:"size:255" json:"error_message"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ApprovedAt *time.Time `json:"approved_at"`
	RefundedAt *time.Time `json:"refunded_at"`
}
