package handler

import (
	"net/http"
	"net/mail"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/yuvan-fsdev/billing-system/internal/billing"
	"github.com/yuvan-fsdev/billing-system/pkg/logger"
)

// GetPurchase handles fetching one purchase invoice by ID
func GetPurchase(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid purchase id"})
	}

	summary, err := billingService(c).PurchaseSummary(c.Request().Context(), uint(id))
	if err != nil {
		if billing.KindOf(err) == billing.KindNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Purchase not found"})
		}
		log.Error("Failed to load purchase",
			zap.Uint64("purchase_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve purchase"})
	}

	return c.JSON(http.StatusOK, summary)
}

// ListPurchaseHistory handles listing a customer's previous purchases
func ListPurchaseHistory(c echo.Context) error {
	log := logger.FromEcho(c)

	email := c.QueryParam("email")
	if _, err := mail.ParseAddress(email); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Valid customer email is required"})
	}

	history, err := billingService(c).PurchaseHistory(c.Request().Context(), email)
	if err != nil {
		log.Error("Failed to list purchase history",
			zap.String("customer_email", email),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve purchases"})
	}

	log.Info("Purchase history retrieved",
		zap.String("customer_email", email),
		zap.Int("count", len(history)))
	return c.JSON(http.StatusOK, history)
}
