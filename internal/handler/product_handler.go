package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yuvan-fsdev/billing-system/internal/model"
	"github.com/yuvan-fsdev/billing-system/pkg/database"
	"github.com/yuvan-fsdev/billing-system/pkg/logger"
	"github.com/yuvan-fsdev/billing-system/prometheus"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name           string          `json:"name"`
	ProductCode    string          `json:"product_code"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TaxPercentage  decimal.Decimal `json:"tax_percentage"`
	AvailableStock int             `json:"available_stock"`
}

func (r *ProductRequest) validate() string {
	if r.Name == "" {
		return "Product name is required"
	}
	if r.ProductCode == "" {
		return "Product code is required"
	}
	if !r.UnitPrice.IsPositive() {
		return "Unit price must be greater than zero"
	}
	if r.TaxPercentage.IsNegative() {
		return "Tax percentage must not be negative"
	}
	if r.AvailableStock < 0 {
		return "Available stock must not be negative"
	}
	return ""
}

// ListProducts handles retrieving all products
func ListProducts(c echo.Context) error {
	log := logger.FromEcho(c)

	var products []model.Product
	result := database.GetDB().Order("product_code").Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve products",
		})
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var product model.Product
	result := database.GetDB().First(&product, id)
	if result.Error != nil {
		log.Warn("Product not found", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product
func CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	// Check if product with this code already exists
	var count int64
	database.GetDB().Model(&model.Product{}).Where("product_code = ?", req.ProductCode).Count(&count)
	if count > 0 {
		log.Warn("Product with this code already exists", zap.String("product_code", req.ProductCode))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Product with this code already exists",
		})
	}

	product := model.Product{
		Name:           req.Name,
		ProductCode:    req.ProductCode,
		UnitPrice:      req.UnitPrice,
		TaxPercentage:  req.TaxPercentage,
		AvailableStock: req.AvailableStock,
	}

	result := database.GetDB().Create(&product)
	if result.Error != nil {
		log.Error("Failed to create product",
			zap.String("product_code", req.ProductCode),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create product",
		})
	}

	prometheus.RecordProductOperation("create")
	prometheus.UpdateProductInventory(strconv.FormatUint(uint64(product.ID), 10),
		product.ProductCode, float64(product.AvailableStock))
	log.Info("Product created successfully",
		zap.Uint("product_id", product.ID),
		zap.String("product_code", product.ProductCode))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product
func UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.String("product_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	// Find existing product
	var product model.Product
	result := database.GetDB().First(&product, id)
	if result.Error != nil {
		log.Warn("Product not found for update", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	// Check if the code is changed and if the new code already exists
	if req.ProductCode != product.ProductCode {
		var count int64
		database.GetDB().Model(&model.Product{}).
			Where("product_code = ? AND id != ?", req.ProductCode, id).Count(&count)
		if count > 0 {
			log.Warn("Product with this code already exists",
				zap.String("product_code", req.ProductCode))
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "Product with this code already exists",
			})
		}
	}

	product.Name = req.Name
	product.ProductCode = req.ProductCode
	product.UnitPrice = req.UnitPrice
	product.TaxPercentage = req.TaxPercentage
	product.AvailableStock = req.AvailableStock

	result = database.GetDB().Save(&product)
	if result.Error != nil {
		log.Error("Failed to update product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update product",
		})
	}

	prometheus.RecordProductOperation("update")
	prometheus.UpdateProductInventory(strconv.FormatUint(uint64(product.ID), 10),
		product.ProductCode, float64(product.AvailableStock))
	log.Info("Product updated successfully",
		zap.String("product_id", id),
		zap.String("product_code", product.ProductCode))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product
func DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Product{}, id)
	if result.Error != nil {
		log.Error("Failed to delete product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete product",
		})
	}

	if result.RowsAffected == 0 {
		log.Warn("Product not found for deletion", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	prometheus.RecordProductOperation("delete")
	log.Info("Product deleted successfully", zap.String("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product deleted successfully",
	})
}
