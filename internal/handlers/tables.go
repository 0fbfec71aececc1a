package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zibilo/table-top-orders/internal/models"
)

type TableHandler struct {
	DB *gorm.DB
}

func (h *TableHandler) ListTables(c echo.Context) error {
	var tables []models.Table
	if err := h.DB.WithContext(c.Request().Context()).
		Order("number ASC").Find(&tables).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, tables)
}

func (h *TableHandler) CreateTable(c echo.Context) error {
	var req struct {
		Number int `json:"table_number"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.Number <= 0 {
		return errorResponse(c, http.StatusBadRequest, errors.New("table number must be positive"))
	}

	var existing models.Table
	err := h.DB.Where("number = ?", req.Number).First(&existing).Error
	if err == nil {
		return errorResponse(c, http.StatusConflict, errors.New("table number already exists"))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	table := models.Table{Number: req.Number, IsActive: true}
	if err := h.DB.Create(&table).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusCreated, table)
}

// ToggleTable flips a table between active and inactive. Tables referenced
// by orders are never deleted; deactivation is the way to retire one.
func (h *TableHandler) ToggleTable(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var table models.Table
	if err := h.DB.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, err)
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	table.IsActive = !table.IsActive
	if err := h.DB.Save(&table).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, table)
}
