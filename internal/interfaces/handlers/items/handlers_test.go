package items

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	itemsvc "yardloop-backend/internal/application/items"
	"yardloop-backend/internal/domain"
	"yardloop-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type itemsFixture struct {
	app     *fiber.App
	db      *gorm.DB
	seller  *domain.User
	listing *domain.Listing
}

func setupItemsTest(t *testing.T) *itemsFixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Listing{}, &domain.Item{}, &domain.Category{},
		&domain.Photo{}, &domain.ItemFavorite{},
	))

	seller := &domain.User{Username: "seller", Email: "seller@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(seller).Error)
	listing := &domain.Listing{SellerID: seller.UserID, Title: "Garage Sale", IsActive: true}
	require.NoError(t, db.Create(listing).Error)

	h := &Handlers{Service: &itemsvc.Service{DB: db}}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &middleware.SessionUser{UserID: seller.UserID.String(), Username: seller.Username, Email: seller.Email})
		return c.Next()
	})
	app.Get("/items", h.SearchItems)
	app.Post("/listings/:listing_id/items", h.CreateItem)
	app.Put("/items/:item_id", h.UpdateItem)
	app.Post("/items/:item_id/sold", h.MarkSold)
	app.Delete("/items/:item_id", h.DeleteItem)
	return &itemsFixture{app: app, db: db, seller: seller, listing: listing}
}

func (f *itemsFixture) request(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	r := httptest.NewRequest(method, path, nil)
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = httptest.NewRequest(method, path, bytes.NewReader(b))
		r.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(r, -1)
	require.NoError(t, err)
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

func (f *itemsFixture) seedItem(t *testing.T, title string, sold bool) *domain.Item {
	it := &domain.Item{ListingID: f.listing.ListingID, Title: title, Price: 10, Condition: domain.ConditionGood, IsSold: sold}
	require.NoError(t, f.db.Create(it).Error)
	return it
}

func TestCreateItem(t *testing.T) {
	f := setupItemsTest(t)
	code, result := f.request(t, "POST", "/listings/"+f.listing.ListingID.String()+"/items", map[string]interface{}{
		"title":     "Record Player",
		"price":     35.5,
		"condition": "excellent",
	})
	assert.Equal(t, 201, code)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "Record Player", data["title"])
	assert.Equal(t, 35.5, data["price"])
}

func TestCreateItem_InvalidCondition(t *testing.T) {
	f := setupItemsTest(t)
	code, result := f.request(t, "POST", "/listings/"+f.listing.ListingID.String()+"/items", map[string]interface{}{
		"title":     "Mystery Box",
		"price":     5,
		"condition": "mint",
	})
	assert.Equal(t, 400, code)
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "Invalid condition", errObj["message"])
}

func TestCreateItem_NotOwner(t *testing.T) {
	f := setupItemsTest(t)
	foreign := &domain.Listing{SellerID: uuid.New(), Title: "Someone Else", IsActive: true}
	require.NoError(t, f.db.Create(foreign).Error)

	code, _ := f.request(t, "POST", "/listings/"+foreign.ListingID.String()+"/items", map[string]interface{}{
		"title":     "Sneaky",
		"price":     1,
		"condition": "good",
	})
	assert.Equal(t, 403, code)
}

func TestCreateItem_UnknownCategory(t *testing.T) {
	f := setupItemsTest(t)
	code, _ := f.request(t, "POST", "/listings/"+f.listing.ListingID.String()+"/items", map[string]interface{}{
		"title":       "Vase",
		"price":       3,
		"condition":   "fair",
		"category_id": uuid.New().String(),
	})
	assert.Equal(t, 404, code)
}

func TestSearchItems_ExcludesSoldAndMatchesCase(t *testing.T) {
	f := setupItemsTest(t)
	f.seedItem(t, "VINTAGE Radio", false)
	f.seedItem(t, "Vintage Clock", true)
	f.seedItem(t, "Toaster", false)

	code, result := f.request(t, "GET", "/items?q=vintage", nil)
	require.Equal(t, 200, code)
	data := result["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "VINTAGE Radio", data[0].(map[string]interface{})["title"])
}

func TestSearchItems_RadiusUsesParentCoordinates(t *testing.T) {
	f := setupItemsTest(t)
	lat, lng := 28.5383, -81.3792
	require.NoError(t, f.db.Model(f.listing).Updates(map[string]interface{}{"latitude": lat, "longitude": lng}).Error)
	near := f.seedItem(t, "Lawn Mower", false)

	far := &domain.Listing{SellerID: f.seller.UserID, Title: "Far Away", IsActive: true}
	farLat, farLng := 40.7128, -74.006
	far.Latitude, far.Longitude = &farLat, &farLng
	require.NoError(t, f.db.Create(far).Error)
	require.NoError(t, f.db.Create(&domain.Item{ListingID: far.ListingID, Title: "Distant Thing", Price: 2, Condition: domain.ConditionGood}).Error)

	code, result := f.request(t, "GET", "/items?lat=28.5383&lng=-81.3792&radius_km=5", nil)
	require.Equal(t, 200, code)
	data := result["data"].([]interface{})
	require.Len(t, data, 1)
	row := data[0].(map[string]interface{})
	assert.Equal(t, near.ItemID.String(), row["item_id"])
	assert.InDelta(t, 0.0, row["distance_km"].(float64), 0.001)
}

func TestMarkSold_ThenUnsold(t *testing.T) {
	f := setupItemsTest(t)
	it := f.seedItem(t, "Couch", false)

	code, _ := f.request(t, "POST", "/items/"+it.ItemID.String()+"/sold", map[string]interface{}{})
	require.Equal(t, 200, code)
	var reloaded domain.Item
	require.NoError(t, f.db.First(&reloaded, "item_id = ?", it.ItemID).Error)
	assert.True(t, reloaded.IsSold)

	code, _ = f.request(t, "POST", "/items/"+it.ItemID.String()+"/sold", map[string]interface{}{"sold": false})
	require.Equal(t, 200, code)
	require.NoError(t, f.db.First(&reloaded, "item_id = ?", it.ItemID).Error)
	assert.False(t, reloaded.IsSold)
}

func TestUpdateItem_NoChanges(t *testing.T) {
	f := setupItemsTest(t)
	it := f.seedItem(t, "Mirror", false)
	code, result := f.request(t, "PUT", "/items/"+it.ItemID.String(), map[string]interface{}{})
	assert.Equal(t, 400, code)
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "No valid changes provided", errObj["message"])
}

func TestDeleteItem_RemovesPhotosAndFavorites(t *testing.T) {
	f := setupItemsTest(t)
	it := f.seedItem(t, "Bookshelf", false)
	require.NoError(t, f.db.Create(&domain.Photo{ItemID: &it.ItemID, URL: "http://img/x.jpg"}).Error)
	require.NoError(t, f.db.Create(&domain.ItemFavorite{UserID: uuid.New(), ItemID: it.ItemID}).Error)

	code, _ := f.request(t, "DELETE", "/items/"+it.ItemID.String(), nil)
	require.Equal(t, 200, code)

	var photos, favs, items int64
	f.db.Model(&domain.Photo{}).Count(&photos)
	f.db.Model(&domain.ItemFavorite{}).Count(&favs)
	f.db.Model(&domain.Item{}).Count(&items)
	assert.Equal(t, int64(0), photos)
	assert.Equal(t, int64(0), favs)
	assert.Equal(t, int64(0), items)
}
