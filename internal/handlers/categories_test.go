package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zibilo/table-top-orders/internal/models"
)

func TestCreateCategory(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/categories", map[string]string{
		"name": "desserts", "image_url": "/uploads/category-images/d.png",
	})
	require.NoError(t, env.Categories.CreateCategory(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var cat models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cat))
	require.Equal(t, "desserts", cat.Name)
}

func TestCreateCategoryRequiresName(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/categories", map[string]string{})
	require.NoError(t, env.Categories.CreateCategory(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCategoryRefusedWhileReferenced(t *testing.T) {
	env := newTestEnv(t)
	item := env.createMenuItem("brownie", 4.50)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/admin/categories/1", nil)
	pathParam(c, item.CategoryID)
	require.NoError(t, env.Categories.DeleteCategory(c))
	require.Equal(t, http.StatusConflict, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Category{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestDeleteEmptyCategory(t *testing.T) {
	env := newTestEnv(t)
	cat := models.Category{Name: "empty"}
	require.NoError(t, env.DB.Create(&cat).Error)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/admin/categories/1", nil)
	pathParam(c, cat.ID)
	require.NoError(t, env.Categories.DeleteCategory(c))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPatchCategoryKeepsUnsetFields(t *testing.T) {
	env := newTestEnv(t)
	cat := models.Category{Name: "mains", ImageURL: "/uploads/category-images/m.png"}
	require.NoError(t, env.DB.Create(&cat).Error)

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/admin/categories/1", map[string]string{
		"name": "main courses",
	})
	pathParam(c, cat.ID)
	require.NoError(t, env.Categories.PatchCategory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Category
	require.NoError(t, env.DB.First(&stored, cat.ID).Error)
	require.Equal(t, "main courses", stored.Name)
	require.Equal(t, "/uploads/category-images/m.png", stored.ImageURL)
}
