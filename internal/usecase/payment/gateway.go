package payment

import (
	"context"

	"github.com/luminance-studio/studio-scheduler/internal/models"
)

// Gateway es el colaborador externo de checkout (MercadoPago). La verificación
// de autenticidad del webhook es problema del transporte; acá llega ya validado.
type Gateway interface {
	CreatePreference(ctx context.Context, in PreferenceInput) (*CheckoutPreference, error)
	GetPayment(ctx context.Context, gatewayPaymentID string) (*GatewayPayment, error)
	Refund(ctx context.Context, gatewayPaymentID string) error
}

type PreferenceInput struct {
	AppointmentID uint
	Title         string
	Description   string
	Amount        float64
	Currency      string
}

type CheckoutPreference struct {
	ID               string
	InitPoint        string
	SandboxInitPoint string
}

type GatewayPayment struct {
	ID                string
	Status            string // approved | rejected | cancelled | refunded | ...
	StatusDetail      string
	ExternalReference string // appointment id que mandamos al crear la preferencia
	Amount            float64
}

// Repository es la porción del repositorio de turnos que necesita el flujo de
// pagos; la implementación gorm de booking la satisface.
type Repository interface {
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	GetAppointmentForUser(ctx context.Context, id uint, userID uint) (*models.Appointment, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)

	CreatePayment(ctx context.Context, p *models.Payment) error
	GetPayment(ctx context.Context, id uint) (*models.Payment, error)
	GetPaymentByAppointment(ctx context.Context, appointmentID uint) (*models.Payment, error)
	UpdatePayment(ctx context.Context, p *models.Payment) error
}
