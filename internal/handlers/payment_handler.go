package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luminance-studio/studio-scheduler/internal/config"
	"github.com/luminance-studio/studio-scheduler/internal/httperr"
	"github.com/luminance-studio/studio-scheduler/internal/httpresp"
	"github.com/luminance-studio/studio-scheduler/internal/middleware"
	ucpayment "github.com/luminance-studio/studio-scheduler/internal/usecase/payment"
)

// ==================================================
// Pagos: checkout del cliente, webhook del gateway,
// reembolso administrativo
// ==================================================

type PaymentHandler struct {
	config   *config.Config
	checkout *ucpayment.CreateCheckout
	webhook  *ucpayment.ProcessWebhook
	refund   *ucpayment.RefundPayment
}

func NewPaymentHandler(
	cfg *config.Config,
	checkout *ucpayment.CreateCheckout,
	webhook *ucpayment.ProcessWebhook,
	refund *ucpayment.RefundPayment,
) *PaymentHandler {
	return &PaymentHandler{
		config:   cfg,
		checkout: checkout,
		webhook:  webhook,
		refund:   refund,
	}
}

// POST /appointments/:id/checkout
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	if h.checkout == nil {
		httperr.BadGateway(c, "payments_disabled", "Los pagos online no están habilitados.")
		return
	}

	userID := c.GetUint(middleware.ContextUserID)

	apID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID de turno inválido.")
		return
	}

	result, err := h.checkout.Execute(
		c.Request.Context(),
		uint(apID),
		userID,
		businessNow(h.config),
	)
	if err != nil {
		httperr.WriteBusiness(c, err, "No se pudo iniciar el pago.")
		return
	}

	httpresp.Created(c, result)
}

// POST /webhooks/mercadopago
//
// MercadoPago pega con query params (?type=payment&data.id=...) o con body
// JSON; se aceptan los dos. Siempre 200 salvo error de dependencia, para que
// el gateway no reintente eternamente notificaciones malformadas.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	if h.webhook == nil {
		c.Status(http.StatusOK)
		return
	}

	notifType := c.Query("type")
	paymentID := c.Query("data.id")

	if paymentID == "" {
		var body struct {
			Type string `json:"type"`
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			notifType = body.Type
			paymentID = body.Data.ID
		}
	}

	if notifType != "payment" || paymentID == "" {
		c.Status(http.StatusOK)
		return
	}

	if err := h.webhook.Execute(
		c.Request.Context(),
		paymentID,
		businessNow(h.config),
	); err != nil {
		if httperr.IsKind(err, httperr.KindDependency) {
			// 502 para que el gateway reintente más tarde
			httperr.BadGateway(c, "payment_gateway_error", "No se pudo consultar el pago.")
			return
		}
		c.Status(http.StatusOK)
		return
	}

	c.Status(http.StatusOK)
}

// POST /admin/payments/:id/refund
func (h *PaymentHandler) AdminRefund(c *gin.Context) {
	if h.refund == nil {
		httperr.BadGateway(c, "payments_disabled", "Los pagos online no están habilitados.")
		return
	}

	adminID := c.GetUint(middleware.ContextUserID)

	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID de pago inválido.")
		return
	}

	p, err := h.refund.Execute(
		c.Request.Context(),
		uint(paymentID),
		adminID,
		businessNow(h.config),
	)
	if err != nil {
		httperr.WriteBusiness(c, err, "No se pudo reembolsar el pago.")
		return
	}

	httpresp.OK(c, p)
}
