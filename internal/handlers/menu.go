package handlers

import (
	"errors"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zibilo/table-top-orders/internal/logging"
	"github.com/zibilo/table-top-orders/internal/models"
	"github.com/zibilo/table-top-orders/internal/service/search"
)

type MenuHandler struct {
	DB    *gorm.DB
	ES    *elasticsearch.Client
	Index string
}

type optionInput struct {
	Name             string `json:"name"`
	IsMultipleChoice bool   `json:"is_multiple_choice"`
	Choices          []struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"choices"`
}

type menuItemInput struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	CategoryID  uint          `json:"category_id"`
	IsAvailable *bool         `json:"is_available"`
	Emoji       string        `json:"emoji"`
	ImageURL    string        `json:"image_url"`
	Options     []optionInput `json:"options"`
}

// Browse returns categories with their available items and option groups,
// the customer-facing menu read.
func (h *MenuHandler) Browse(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.WithContext(c.Request().Context()).
		Order("name ASC").Find(&categories).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	var items []models.MenuItem
	if err := h.DB.WithContext(c.Request().Context()).
		Where("is_available = ?", true).
		Preload("Options").
		Preload("Options.Choices").
		Order("name ASC").
		Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	grouped := make(map[uint][]models.MenuItem, len(categories))
	for _, it := range items {
		grouped[it.CategoryID] = append(grouped[it.CategoryID], it)
	}

	type categoryView struct {
		models.Category
		Items []models.MenuItem `json:"items"`
	}
	out := make([]categoryView, 0, len(categories))
	for _, cat := range categories {
		out = append(out, categoryView{Category: cat, Items: grouped[cat.ID]})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) GetMenuItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var item models.MenuItem
	err = h.DB.WithContext(c.Request().Context()).
		Preload("Options").
		Preload("Options.Choices").
		First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, err)
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) CreateMenuItem(c echo.Context) error {
	var req menuItemInput
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.Name == "" || req.CategoryID == 0 {
		return errorResponse(c, http.StatusBadRequest, errors.New("name and category_id are required"))
	}

	item := models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		IsAvailable: true,
		Emoji:       req.Emoji,
		ImageURL:    req.ImageURL,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return insertOptions(tx, item.ID, req.Options)
	})
	if txErr != nil {
		return errorResponse(c, http.StatusInternalServerError, txErr)
	}

	h.index(c, item)
	return c.JSON(http.StatusCreated, item)
}

// PatchMenuItem partially updates an item: only fields present in the
// payload change. When options are sent the option set is replaced
// wholesale, old choices deleted before new ones are inserted so an edit
// can never leave orphaned choices behind; an absent options key keeps the
// existing set.
func (h *MenuHandler) PatchMenuItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req struct {
		Name        *string        `json:"name"`
		Description *string        `json:"description"`
		Price       *float64       `json:"price"`
		CategoryID  *uint          `json:"category_id"`
		IsAvailable *bool          `json:"is_available"`
		Emoji       *string        `json:"emoji"`
		ImageURL    *string        `json:"image_url"`
		Options     *[]optionInput `json:"options"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var item models.MenuItem
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, err)
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.CategoryID != nil {
		item.CategoryID = *req.CategoryID
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.Emoji != nil {
		item.Emoji = *req.Emoji
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		if req.Options == nil {
			return nil
		}
		if err := deleteOptions(tx, item.ID); err != nil {
			return err
		}
		return insertOptions(tx, item.ID, *req.Options)
	})
	if txErr != nil {
		return errorResponse(c, http.StatusInternalServerError, txErr)
	}

	h.index(c, item)
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) DeleteMenuItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteOptions(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.MenuItem{}, id).Error
	})
	if txErr != nil {
		return errorResponse(c, http.StatusInternalServerError, txErr)
	}

	if h.ES != nil {
		if err := search.Delete(c.Request().Context(), h.ES, h.Index, id); err != nil {
			logging.FromContext(c.Request().Context()).Error("es delete failed", "menu_item_id", id, "error", err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func insertOptions(tx *gorm.DB, itemID uint, inputs []optionInput) error {
	for _, in := range inputs {
		opt := models.Option{
			MenuItemID:       itemID,
			Name:             in.Name,
			IsMultipleChoice: in.IsMultipleChoice,
		}
		if err := tx.Create(&opt).Error; err != nil {
			return err
		}
		for _, ch := range in.Choices {
			choice := models.OptionChoice{
				OptionID: opt.ID,
				Name:     ch.Name,
				Price:    ch.Price,
			}
			if err := tx.Create(&choice).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// deleteOptions removes choices before their parent options.
func deleteOptions(tx *gorm.DB, itemID uint) error {
	var optionIDs []uint
	if err := tx.Model(&models.Option{}).
		Where("menu_item_id = ?", itemID).
		Pluck("id", &optionIDs).Error; err != nil {
		return err
	}
	if len(optionIDs) == 0 {
		return nil
	}
	if err := tx.Where("option_id IN ?", optionIDs).
		Delete(&models.OptionChoice{}).Error; err != nil {
		return err
	}
	return tx.Where("menu_item_id = ?", itemID).
		Delete(&models.Option{}).Error
}

func (h *MenuHandler) index(c echo.Context, item models.MenuItem) {
	if h.ES == nil {
		return
	}
	ctx := c.Request().Context()
	if err := search.Index(ctx, h.ES, h.Index, item); err != nil {
		logging.FromContext(ctx).Error("es index failed", "menu_item_id", item.ID, "error", err)
	}
}
