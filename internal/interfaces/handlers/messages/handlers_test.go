package messages

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	msgsvc "yardloop-backend/internal/application/messages"
	"yardloop-backend/internal/domain"
	"yardloop-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type messagesFixture struct {
	db      *gorm.DB
	h       *Handlers
	seller  *domain.User
	buyer   *domain.User
	listing *domain.Listing
}

func setupMessagesTest(t *testing.T) *messagesFixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Listing{}, &domain.Conversation{}, &domain.Message{},
	))

	seller := &domain.User{Username: "seller", Email: "seller@example.com", PasswordHash: "x"}
	buyer := &domain.User{Username: "buyer", Email: "buyer@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(seller).Error)
	require.NoError(t, db.Create(buyer).Error)
	listing := &domain.Listing{SellerID: seller.UserID, Title: "Estate Sale", IsActive: true}
	require.NoError(t, db.Create(listing).Error)

	h := &Handlers{Service: &msgsvc.Service{DB: db}}
	return &messagesFixture{db: db, h: h, seller: seller, buyer: buyer, listing: listing}
}

// appAs mounts the routes with the given user injected as the session user.
func (f *messagesFixture) appAs(u *domain.User) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &middleware.SessionUser{UserID: u.UserID.String(), Username: u.Username, Email: u.Email})
		return c.Next()
	})
	app.Post("/conversations", f.h.GetOrCreateConversation)
	app.Get("/conversations", f.h.ListConversations)
	app.Get("/conversations/:conversation_id/messages", f.h.ListMessages)
	app.Post("/conversations/:conversation_id/messages", f.h.SendMessage)
	app.Post("/conversations/:conversation_id/read", f.h.MarkRead)
	return app
}

func exec(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	r := httptest.NewRequest(method, path, nil)
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = httptest.NewRequest(method, path, bytes.NewReader(b))
		r.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(r, -1)
	require.NoError(t, err)
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

func TestGetOrCreateConversation_Reuses(t *testing.T) {
	f := setupMessagesTest(t)
	app := f.appAs(f.buyer)
	body := map[string]string{"listing_id": f.listing.ListingID.String()}

	code, first := exec(t, app, "POST", "/conversations", body)
	require.Equal(t, 200, code)
	firstID := first["data"].(map[string]interface{})["conversation_id"]

	code, second := exec(t, app, "POST", "/conversations", body)
	require.Equal(t, 200, code)
	assert.Equal(t, firstID, second["data"].(map[string]interface{})["conversation_id"])

	var n int64
	f.db.Model(&domain.Conversation{}).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestGetOrCreateConversation_OwnListing(t *testing.T) {
	f := setupMessagesTest(t)
	app := f.appAs(f.seller)

	code, result := exec(t, app, "POST", "/conversations", map[string]string{"listing_id": f.listing.ListingID.String()})
	assert.Equal(t, 400, code)
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "Cannot message your own listing", errObj["message"])
}

func TestSendMessage_RequiresParticipant(t *testing.T) {
	f := setupMessagesTest(t)
	conv := &domain.Conversation{ListingID: f.listing.ListingID, BuyerID: f.buyer.UserID, SellerID: f.seller.UserID}
	require.NoError(t, f.db.Create(conv).Error)

	stranger := &domain.User{Username: "stranger", Email: "stranger@example.com", PasswordHash: "x"}
	require.NoError(t, f.db.Create(stranger).Error)

	app := f.appAs(stranger)
	code, _ := exec(t, app, "POST", "/conversations/"+conv.ConversationID.String()+"/messages",
		map[string]string{"body": "hello?"})
	assert.Equal(t, 403, code)
}

func TestSendMessage_EmptyBody(t *testing.T) {
	f := setupMessagesTest(t)
	conv := &domain.Conversation{ListingID: f.listing.ListingID, BuyerID: f.buyer.UserID, SellerID: f.seller.UserID}
	require.NoError(t, f.db.Create(conv).Error)

	app := f.appAs(f.buyer)
	code, _ := exec(t, app, "POST", "/conversations/"+conv.ConversationID.String()+"/messages",
		map[string]string{"body": "   "})
	assert.Equal(t, 400, code)
}

func TestMessagesFlow_UnreadAndMarkRead(t *testing.T) {
	f := setupMessagesTest(t)
	conv := &domain.Conversation{ListingID: f.listing.ListingID, BuyerID: f.buyer.UserID, SellerID: f.seller.UserID}
	require.NoError(t, f.db.Create(conv).Error)

	buyerApp := f.appAs(f.buyer)
	sellerApp := f.appAs(f.seller)
	msgPath := "/conversations/" + conv.ConversationID.String() + "/messages"

	code, _ := exec(t, buyerApp, "POST", msgPath, map[string]string{"body": "Is the table still there?"})
	require.Equal(t, 201, code)
	code, _ = exec(t, buyerApp, "POST", msgPath, map[string]string{"body": "And the chairs?"})
	require.Equal(t, 201, code)

	// seller sees two unread
	code, result := exec(t, sellerApp, "GET", "/conversations", nil)
	require.Equal(t, 200, code)
	metadata := result["metadata"].(map[string]interface{})
	assert.Equal(t, float64(2), metadata["unread_total"])
	summaries := result["data"].([]interface{})
	require.Len(t, summaries, 1)
	summary := summaries[0].(map[string]interface{})
	assert.Equal(t, float64(2), summary["unread_count"])
	assert.Equal(t, "And the chairs?", summary["last_message"].(map[string]interface{})["body"])

	// buyer's own messages are not unread for the buyer
	code, result = exec(t, buyerApp, "GET", "/conversations", nil)
	require.Equal(t, 200, code)
	assert.Equal(t, float64(0), result["metadata"].(map[string]interface{})["unread_total"])

	code, _ = exec(t, sellerApp, "POST", "/conversations/"+conv.ConversationID.String()+"/read", nil)
	require.Equal(t, 200, code)
	code, result = exec(t, sellerApp, "GET", "/conversations", nil)
	require.Equal(t, 200, code)
	assert.Equal(t, float64(0), result["metadata"].(map[string]interface{})["unread_total"])
}

func TestListMessages_ChronologicalOrder(t *testing.T) {
	f := setupMessagesTest(t)
	conv := &domain.Conversation{ListingID: f.listing.ListingID, BuyerID: f.buyer.UserID, SellerID: f.seller.UserID}
	require.NoError(t, f.db.Create(conv).Error)

	app := f.appAs(f.buyer)
	msgPath := "/conversations/" + conv.ConversationID.String() + "/messages"
	for _, text := range []string{"first", "second", "third"} {
		code, _ := exec(t, app, "POST", msgPath, map[string]string{"body": text})
		require.Equal(t, 201, code)
	}

	code, result := exec(t, app, "GET", msgPath, nil)
	require.Equal(t, 200, code)
	data := result["data"].([]interface{})
	require.Len(t, data, 3)
	assert.Equal(t, "first", data[0].(map[string]interface{})["body"])
	assert.Equal(t, "third", data[2].(map[string]interface{})["body"])
}

func TestListMessages_ConversationMissing(t *testing.T) {
	f := setupMessagesTest(t)
	app := f.appAs(f.buyer)
	code, _ := exec(t, app, "GET", "/conversations/"+uuid.New().String()+"/messages", nil)
	assert.Equal(t, 404, code)
}
