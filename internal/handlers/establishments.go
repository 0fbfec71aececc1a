package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zibilo/table-top-orders/internal/models"
	"github.com/zibilo/table-top-orders/internal/service/token"
)

type EstablishmentHandler struct {
	DB *gorm.DB
}

// Dashboard resolves the establishment for the signed-in user so the client
// can route to the matching dashboard by establishment type. Session comes
// from the auth middleware, never from ambient storage.
func (h *EstablishmentHandler) Dashboard(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var est models.Establishment
	dbErr := h.DB.WithContext(c.Request().Context()).
		Where("owner_id = ?", userID).First(&est).Error
	if dbErr != nil {
		if errors.Is(dbErr, gorm.ErrRecordNotFound) {
			var role models.UserRole
			if err := h.DB.Where("user_id = ?", userID).First(&role).Error; err != nil {
				return errorResponse(c, http.StatusNotFound, errors.New("no establishment for this user"))
			}
			if err := h.DB.First(&est, role.EstablishmentID).Error; err != nil {
				return errorResponse(c, http.StatusNotFound, errors.New("no establishment for this user"))
			}
		} else {
			return errorResponse(c, http.StatusInternalServerError, dbErr)
		}
	}

	return c.JSON(http.StatusOK, est)
}

func (h *EstablishmentHandler) CreateEstablishment(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Name string                   `json:"name"`
		Type models.EstablishmentType `json:"type"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	switch req.Type {
	case models.EstablishmentRestaurant, models.EstablishmentBeverageDepot, models.EstablishmentGroceryStore:
	default:
		return errorResponse(c, http.StatusBadRequest, errors.New("unknown establishment type"))
	}
	if req.Name == "" {
		return errorResponse(c, http.StatusBadRequest, errors.New("name is required"))
	}

	est := models.Establishment{Name: req.Name, Type: req.Type, OwnerID: userID}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&est).Error; err != nil {
			return err
		}
		role := models.UserRole{UserID: userID, EstablishmentID: est.ID, Role: "admin"}
		return tx.Create(&role).Error
	})
	if txErr != nil {
		return errorResponse(c, http.StatusInternalServerError, txErr)
	}

	return c.JSON(http.StatusCreated, est)
}

// GrantRole assigns a staff/manager/admin role in an establishment. Only a
// user already holding admin in that establishment may grant.
func (h *EstablishmentHandler) GrantRole(c echo.Context) error {
	granterID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		UserID          uint   `json:"user_id"`
		EstablishmentID uint   `json:"establishment_id"`
		Role            string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	switch req.Role {
	case "admin", "manager", "staff":
	default:
		return errorResponse(c, http.StatusBadRequest, errors.New("unknown role"))
	}

	if !h.hasRole(granterID, req.EstablishmentID, "admin") {
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	}

	role := models.UserRole{
		UserID:          req.UserID,
		EstablishmentID: req.EstablishmentID,
		Role:            req.Role,
	}
	if err := h.DB.Create(&role).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusCreated, role)
}

func (h *EstablishmentHandler) hasRole(userID, establishmentID uint, want string) bool {
	var role models.UserRole
	err := h.DB.Where("user_id = ? AND establishment_id = ?", userID, establishmentID).
		First(&role).Error
	if err != nil {
		var est models.Establishment
		if h.DB.Where("id = ? AND owner_id = ?", establishmentID, userID).First(&est).Error == nil {
			return true
		}
		return false
	}
	return role.Role == want
}
