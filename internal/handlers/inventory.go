package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zibilo/table-top-orders/internal/models"
)

// InventoryHandler serves the beverage-depot and grocery-store tenants:
// per-establishment stock rows with plain CRUD and stock adjustments.
type InventoryHandler struct {
	DB *gorm.DB
}

func establishmentID(c echo.Context) (uint, error) {
	id := parseIntDefault(c.QueryParam("establishment_id"), 0)
	if id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "establishment_id is required")
	}
	return uint(id), nil
}

func (h *InventoryHandler) ListBeverageTypes(c echo.Context) error {
	est, err := establishmentID(c)
	if err != nil {
		return err
	}

	var types []models.BeverageType
	if err := h.DB.WithContext(c.Request().Context()).
		Where("establishment_id = ?", est).
		Order("name ASC").Find(&types).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, types)
}

func (h *InventoryHandler) CreateBeverageType(c echo.Context) error {
	var req struct {
		EstablishmentID uint    `json:"establishment_id"`
		Name            string  `json:"name"`
		UnitPrice       float64 `json:"unit_price"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.Name == "" || req.EstablishmentID == 0 {
		return errorResponse(c, http.StatusBadRequest, errors.New("name and establishment_id are required"))
	}

	bt := models.BeverageType{
		EstablishmentID: req.EstablishmentID,
		Name:            req.Name,
		UnitPrice:       req.UnitPrice,
	}
	if err := h.DB.Create(&bt).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusCreated, bt)
}

func (h *InventoryHandler) ListCrates(c echo.Context) error {
	bt := parseIntDefault(c.QueryParam("beverage_type_id"), 0)
	if bt <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "beverage_type_id is required")
	}

	var crates []models.Crate
	if err := h.DB.WithContext(c.Request().Context()).
		Where("beverage_type_id = ?", bt).Find(&crates).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, crates)
}

func (h *InventoryHandler) CreateCrate(c echo.Context) error {
	var req struct {
		BeverageTypeID  uint    `json:"beverage_type_id"`
		BottlesPerCrate int     `json:"bottles_per_crate"`
		DepositPrice    float64 `json:"deposit_price"`
		StockQuantity   int     `json:"stock_quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.BeverageTypeID == 0 {
		return errorResponse(c, http.StatusBadRequest, errors.New("beverage_type_id is required"))
	}
	if req.BottlesPerCrate <= 0 {
		req.BottlesPerCrate = 12
	}

	crate := models.Crate{
		BeverageTypeID:  req.BeverageTypeID,
		BottlesPerCrate: req.BottlesPerCrate,
		DepositPrice:    req.DepositPrice,
		StockQuantity:   req.StockQuantity,
	}
	if err := h.DB.Create(&crate).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusCreated, crate)
}

// AdjustCrateStock applies a signed delta to a crate's stock, refusing to go
// below zero.
func (h *InventoryHandler) AdjustCrateStock(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var crate models.Crate
	if err := h.DB.First(&crate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, err)
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	next := crate.StockQuantity + req.Delta
	if next < 0 {
		return errorResponse(c, http.StatusBadRequest, errors.New("stock cannot go negative"))
	}
	crate.StockQuantity = next
	if err := h.DB.Save(&crate).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, crate)
}

func (h *InventoryHandler) ListGroceryProducts(c echo.Context) error {
	est, err := establishmentID(c)
	if err != nil {
		return err
	}

	q := h.DB.WithContext(c.Request().Context()).Where("establishment_id = ?", est)
	if barcode := c.QueryParam("barcode"); barcode != "" {
		q = q.Where("barcode = ?", barcode)
	}

	var products []models.GroceryProduct
	if err := q.Order("name ASC").Find(&products).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *InventoryHandler) CreateGroceryProduct(c echo.Context) error {
	var req struct {
		EstablishmentID uint    `json:"establishment_id"`
		Name            string  `json:"name"`
		Barcode         string  `json:"barcode"`
		Price           float64 `json:"price"`
		StockQuantity   int     `json:"stock_quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.Name == "" || req.EstablishmentID == 0 {
		return errorResponse(c, http.StatusBadRequest, errors.New("name and establishment_id are required"))
	}

	p := models.GroceryProduct{
		EstablishmentID: req.EstablishmentID,
		Name:            req.Name,
		Barcode:         req.Barcode,
		Price:           req.Price,
		StockQuantity:   req.StockQuantity,
	}
	if err := h.DB.Create(&p).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *InventoryHandler) PatchGroceryProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req struct {
		Name          string   `json:"name"`
		Barcode       string   `json:"barcode"`
		Price         *float64 `json:"price"`
		StockQuantity *int     `json:"stock_quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var p models.GroceryProduct
	if err := h.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, err)
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Barcode != "" {
		p.Barcode = req.Barcode
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return errorResponse(c, http.StatusBadRequest, errors.New("stock cannot go negative"))
		}
		p.StockQuantity = *req.StockQuantity
	}

	if err := h.DB.Save(&p).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *InventoryHandler) DeleteGroceryProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.DB.Delete(&models.GroceryProduct{}, id).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.NoContent(http.StatusNoContent)
}
