package gateway

import (
	"context"
	"fmt"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/mercadopago/sdk-go/pkg/refund"

	"github.com/luminance-studio/studio-scheduler/internal/config"
	ucpayment "github.com/luminance-studio/studio-scheduler/internal/usecase/payment"
)

// MercadoPago implementa el Gateway de pagos con el SDK oficial.
type MercadoPago struct {
	cfg        *config.Config
	preference preference.Client
	payment    mppayment.Client
	refund     refund.Client
}

func NewMercadoPago(cfg *config.Config) (*MercadoPago, error) {
	mpCfg, err := mpconfig.New(cfg.MPAccessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPago{
		cfg:        cfg,
		preference: preference.NewClient(mpCfg),
		payment:    mppayment.NewClient(mpCfg),
		refund:     refund.NewClient(mpCfg),
	}, nil
}

func (g *MercadoPago) CreatePreference(
	ctx context.Context,
	in ucpayment.PreferenceInput,
) (*ucpayment.CheckoutPreference, error) {

	externalRef := strconv.FormatUint(uint64(in.AppointmentID), 10)

	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:       in.Title,
				Description: in.Description,
				Quantity:    1,
				UnitPrice:   in.Amount,
				CurrencyID:  in.Currency,
			},
		},
		BackURLs: &preference.BackURLsRequest{
			Success: fmt.Sprintf("%s?external_reference=%s", g.cfg.PaymentSuccessURL, externalRef),
			Failure: fmt.Sprintf("%s?external_reference=%s", g.cfg.PaymentFailureURL, externalRef),
			Pending: fmt.Sprintf("%s?external_reference=%s", g.cfg.PaymentPendingURL, externalRef),
		},
		ExternalReference:   externalRef,
		StatementDescriptor: "LUMINANCE STUDIO",
		Metadata: map[string]any{
			"appointment_id": in.AppointmentID,
		},
	}

	resp, err := g.preference.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}

	return &ucpayment.CheckoutPreference{
		ID:               resp.ID,
		InitPoint:        resp.InitPoint,
		SandboxInitPoint: resp.SandboxInitPoint,
	}, nil
}

func (g *MercadoPago) GetPayment(
	ctx context.Context,
	gatewayPaymentID string,
) (*ucpayment.GatewayPayment, error) {

	id, err := strconv.Atoi(gatewayPaymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment id %q: %w", gatewayPaymentID, err)
	}

	resp, err := g.payment.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	return &ucpayment.GatewayPayment{
		ID:                strconv.Itoa(resp.ID),
		Status:            resp.Status,
		StatusDetail:      resp.StatusDetail,
		ExternalReference: resp.ExternalReference,
		Amount:            resp.TransactionAmount,
	}, nil
}

func (g *MercadoPago) Refund(ctx context.Context, gatewayPaymentID string) error {
	id, err := strconv.Atoi(gatewayPaymentID)
	if err != nil {
		return fmt.Errorf("invalid payment id %q: %w", gatewayPaymentID, err)
	}

	if _, err := g.refund.Create(ctx, id); err != nil {
		return fmt.Errorf("refund payment: %w", err)
	}
	return nil
}

// Compile-time check
var _ ucpayment.Gateway = (*MercadoPago)(nil)
