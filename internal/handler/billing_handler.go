package handler

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yuvan-fsdev/billing-system/internal/billing"
	"github.com/yuvan-fsdev/billing-system/internal/mailer"
	"github.com/yuvan-fsdev/billing-system/internal/service"
	pgstore "github.com/yuvan-fsdev/billing-system/internal/store/postgres"
	"github.com/yuvan-fsdev/billing-system/pkg/database"
	"github.com/yuvan-fsdev/billing-system/pkg/logger"
	"github.com/yuvan-fsdev/billing-system/prometheus"
)

var invoiceMailer *mailer.Mailer

// Initialize wires the invoice mailer used after bill generation
func Initialize(m *mailer.Mailer) {
	invoiceMailer = m
}

// paid_amount accepts at most 14 digits with 2 decimal places
var maxPaidAmount = decimal.New(1, 12)

func billingService(c echo.Context) *service.Service {
	var notifier service.Notifier
	if invoiceMailer != nil {
		notifier = invoiceMailer
	}
	return service.New(pgstore.New(database.GetDB()), notifier, logger.FromEcho(c))
}

// GenerateBill handles creating a bill, persisting the purchase and
// returning the invoice summary
func GenerateBill(c echo.Context) error {
	log := logger.FromEcho(c)

	var req service.BillRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		log.Warn("Invalid customer email", zap.String("customer_email", req.CustomerEmail))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid customer email"})
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.ProductCode) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Product code must not be empty"})
		}
	}
	if req.Denominations.PaidAmount.IsNegative() ||
		req.Denominations.PaidAmount.Abs().GreaterThanOrEqual(maxPaidAmount) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid paid amount"})
	}

	log.Info("Generating bill",
		zap.String("customer_email", req.CustomerEmail),
		zap.Int("line_count", len(req.Items)))

	summary, err := billingService(c).GenerateBill(c.Request().Context(), &req)
	if err != nil {
		kind := billing.KindOf(err)
		prometheus.RecordBillingFailure(kind.String())
		status := billing.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Error("Failed to generate bill", zap.Error(err))
			return c.JSON(status, echo.Map{"error": "Failed to create purchase"})
		}
		log.Warn("Bill generation rejected",
			zap.String("reason", kind.String()),
			zap.Error(err))
		return c.JSON(status, echo.Map{"error": err.Error()})
	}

	prometheus.RecordBillGenerated(summary.ChangeRemainder)
	log.Info("Bill generated",
		zap.Uint("purchase_id", summary.PurchaseID),
		zap.Int64("rounded_total", summary.RoundedDownNetPrice))
	return c.JSON(http.StatusCreated, summary)
}
