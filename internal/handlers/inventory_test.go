package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zibilo/table-top-orders/internal/models"
)

func (env *testEnv) createEstablishment(kind models.EstablishmentType) models.Establishment {
	est := models.Establishment{Name: "depot", Type: kind}
	require.NoError(env.T, env.DB.Create(&est).Error)
	return est
}

func TestCreateAndListBeverageTypes(t *testing.T) {
	env := newTestEnv(t)
	est := env.createEstablishment(models.EstablishmentBeverageDepot)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/beverage_types", map[string]any{
		"establishment_id": est.ID, "name": "Pilsner", "unit_price": 0.90,
	})
	require.NoError(t, env.Inventory.CreateBeverageType(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/admin/beverage_types?establishment_id=1", nil)
	require.NoError(t, env.Inventory.ListBeverageTypes(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var types []models.BeverageType
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &types))
	require.Len(t, types, 1)
	require.Equal(t, "Pilsner", types[0].Name)
}

func TestAdjustCrateStock(t *testing.T) {
	env := newTestEnv(t)
	est := env.createEstablishment(models.EstablishmentBeverageDepot)
	bt := models.BeverageType{EstablishmentID: est.ID, Name: "Weizen", UnitPrice: 1.10}
	require.NoError(t, env.DB.Create(&bt).Error)
	crate := models.Crate{BeverageTypeID: bt.ID, BottlesPerCrate: 20, StockQuantity: 3}
	require.NoError(t, env.DB.Create(&crate).Error)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/crates/1/stock", map[string]int{"delta": 2})
	pathParam(c, crate.ID)
	require.NoError(t, env.Inventory.AdjustCrateStock(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Crate
	require.NoError(t, env.DB.First(&stored, crate.ID).Error)
	require.Equal(t, 5, stored.StockQuantity)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/admin/crates/1/stock", map[string]int{"delta": -6})
	pathParam(c, crate.ID)
	require.NoError(t, env.Inventory.AdjustCrateStock(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	require.NoError(t, env.DB.First(&stored, crate.ID).Error)
	require.Equal(t, 5, stored.StockQuantity)
}

func TestGroceryProductBarcodeLookup(t *testing.T) {
	env := newTestEnv(t)
	est := env.createEstablishment(models.EstablishmentGroceryStore)

	for _, p := range []models.GroceryProduct{
		{EstablishmentID: est.ID, Name: "Milk", Barcode: "4001234", Price: 1.20, StockQuantity: 10},
		{EstablishmentID: est.ID, Name: "Bread", Barcode: "4005678", Price: 2.10, StockQuantity: 4},
	} {
		require.NoError(t, env.DB.Create(&p).Error)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/admin/grocery_products?establishment_id=1&barcode=4005678", nil)
	require.NoError(t, env.Inventory.ListGroceryProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var products []models.GroceryProduct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	require.Equal(t, "Bread", products[0].Name)
}

func TestPatchGroceryProductRejectsNegativeStock(t *testing.T) {
	env := newTestEnv(t)
	est := env.createEstablishment(models.EstablishmentGroceryStore)
	p := models.GroceryProduct{EstablishmentID: est.ID, Name: "Eggs", Price: 3.0, StockQuantity: 6}
	require.NoError(t, env.DB.Create(&p).Error)

	neg := -1
	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/admin/grocery_products/1", map[string]any{
		"stock_quantity": neg,
	})
	pathParam(c, p.ID)
	require.NoError(t, env.Inventory.PatchGroceryProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var stored models.GroceryProduct
	require.NoError(t, env.DB.First(&stored, p.ID).Error)
	require.Equal(t, 6, stored.StockQuantity)
}

