package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zibilo/table-top-orders/internal/models"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.WithContext(c.Request().Context()).
		Order("name ASC").Find(&categories).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		ImageURL string `json:"image_url"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.Name == "" {
		return errorResponse(c, http.StatusBadRequest, errors.New("name is required"))
	}

	cat := models.Category{Name: req.Name, ImageURL: req.ImageURL}
	if err := h.DB.Create(&cat).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) PatchCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req struct {
		Name     string `json:"name"`
		ImageURL string `json:"image_url"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var cat models.Category
	if err := h.DB.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, err)
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	if req.Name != "" {
		cat.Name = req.Name
	}
	if req.ImageURL != "" {
		cat.ImageURL = req.ImageURL
	}
	if err := h.DB.Save(&cat).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var count int64
	if err := h.DB.Model(&models.MenuItem{}).
		Where("category_id = ?", id).Count(&count).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	if count > 0 {
		return errorResponse(c, http.StatusConflict, errors.New("category still has menu items"))
	}

	if err := h.DB.Delete(&models.Category{}, id).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.NoContent(http.StatusNoContent)
}
