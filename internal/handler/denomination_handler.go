package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/yuvan-fsdev/billing-system/internal/model"
	"github.com/yuvan-fsdev/billing-system/pkg/database"
	"github.com/yuvan-fsdev/billing-system/pkg/logger"
)

// ListDenominations handles retrieving the register's denomination stock
func ListDenominations(c echo.Context) error {
	log := logger.FromEcho(c)

	var rows []model.DenominationStock
	result := database.GetDB().Order("value DESC").Find(&rows)
	if result.Error != nil {
		log.Error("Failed to list denomination stock", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve denomination stock",
		})
	}

	return c.JSON(http.StatusOK, rows)
}
