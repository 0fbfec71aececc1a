package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zibilo/table-top-orders/internal/storage"
)

type UploadHandler struct {
	Store storage.ObjectStore
}

const maxUploadBytes = 5 << 20

// Upload stores a menu or category image and returns its public URL.
func (h *UploadHandler) Upload(c echo.Context) error {
	bucket := c.FormValue("bucket")
	switch bucket {
	case "menu-images", "category-images":
	default:
		return errorResponse(c, http.StatusBadRequest, errors.New("unknown bucket"))
	}

	file, err := c.FormFile("file")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("file is required"))
	}
	if file.Size > maxUploadBytes {
		return errorResponse(c, http.StatusRequestEntityTooLarge, errors.New("file too large"))
	}

	src, err := file.Open()
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	defer src.Close()

	url, err := h.Store.Upload(c.Request().Context(), bucket, storage.UniqueKey(file.Filename), src)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}
