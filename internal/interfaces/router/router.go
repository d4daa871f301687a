package router

import (
	"net/http"

	authsvc "yardloop-backend/internal/application/auth"
	catsvc "yardloop-backend/internal/application/categories"
	checkinsvc "yardloop-backend/internal/application/checkins"
	favsvc "yardloop-backend/internal/application/favorites"
	itemsvc "yardloop-backend/internal/application/items"
	lesvc "yardloop-backend/internal/application/listingevents"
	listsvc "yardloop-backend/internal/application/listings"
	msgsvc "yardloop-backend/internal/application/messages"
	uploadsvc "yardloop-backend/internal/application/uploads"
	usersvc "yardloop-backend/internal/application/user"
	"yardloop-backend/internal/config"
	"yardloop-backend/internal/infrastructure/database"
	authhandler "yardloop-backend/internal/interfaces/handlers/auth"
	cathandler "yardloop-backend/internal/interfaces/handlers/categories"
	checkinhandler "yardloop-backend/internal/interfaces/handlers/checkins"
	favhandler "yardloop-backend/internal/interfaces/handlers/favorites"
	healthhandler "yardloop-backend/internal/interfaces/handlers/health"
	itemhandler "yardloop-backend/internal/interfaces/handlers/items"
	lehandler "yardloop-backend/internal/interfaces/handlers/listingevents"
	listhandler "yardloop-backend/internal/interfaces/handlers/listings"
	msghandler "yardloop-backend/internal/interfaces/handlers/messages"
	uploadhandler "yardloop-backend/internal/interfaces/handlers/uploads"
	userhandler "yardloop-backend/internal/interfaces/handlers/user"
	"yardloop-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{
		RedisURL:     cfg.RedisURL,
		IsProduction: cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{Rdb: rdb}
	app.Get("/api/v1/health/json", hh.JSON)
	app.Get("/api/v1/health/errors", hh.Errors)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	if db != nil && rdb != nil {
		RegisterRoutes(app, db, rdb, cfg)
	}

	return app, db, rdb, nil
}

// RegisterRoutes mounts every domain route under /api/v1. Split out of
// CreateApp so tests can mount against sqlite + miniredis directly.
func RegisterRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	// Auth
	ah := &authhandler.Handlers{
		DB:         db,
		UserFinder: &authsvc.GormUserFinder{DB: db},
		Rdb:        rdb,
	}
	ag := app.Group("/api/v1/auth")
	ag.Post("/register", ah.Register)
	ag.Post("/login", ah.Login)
	ag.Get("/me", ah.Me)
	ag.Delete("/logout", ah.Logout)

	// Users
	us := &usersvc.Service{DB: db}
	uh := &userhandler.Handlers{Service: us}
	app.Put("/api/v1/users/me", middleware.RequireAuth(), uh.UpdateProfile)
	app.Get("/api/v1/users/:user_id", uh.ViewProfile)

	// Listings
	ls := &listsvc.Service{DB: db}
	lh := &listhandler.Handlers{Service: ls}
	app.Get("/api/v1/listings", lh.SearchListings)
	app.Get("/api/v1/listings/mine", middleware.RequireAuth(), lh.GetMyListings)
	app.Get("/api/v1/listings/:listing_id", lh.GetListing)
	app.Post("/api/v1/listings", middleware.RequireAuth(), lh.CreateListing)
	app.Put("/api/v1/listings/:listing_id", middleware.RequireAuth(), lh.UpdateListing)
	app.Post("/api/v1/listings/:listing_id/deactivate", middleware.RequireAuth(), lh.DeactivateListing)
	app.Delete("/api/v1/listings/:listing_id", middleware.RequireAuth(), lh.DeleteListing)

	// Items
	is := &itemsvc.Service{DB: db}
	ih := &itemhandler.Handlers{Service: is}
	app.Get("/api/v1/items", ih.SearchItems)
	app.Post("/api/v1/listings/:listing_id/items", middleware.RequireAuth(), ih.CreateItem)
	app.Put("/api/v1/items/:item_id", middleware.RequireAuth(), ih.UpdateItem)
	app.Post("/api/v1/items/:item_id/sold", middleware.RequireAuth(), ih.MarkSold)
	app.Delete("/api/v1/items/:item_id", middleware.RequireAuth(), ih.DeleteItem)

	// Categories
	cs := &catsvc.Service{DB: db}
	ch := &cathandler.Handlers{Service: cs}
	app.Get("/api/v1/categories", ch.List)
	app.Post("/api/v1/categories", middleware.RequireAuth(), ch.Create)

	// Favorites
	fs := &favsvc.Service{DB: db}
	fh := &favhandler.Handlers{Service: fs}
	fg := app.Group("/api/v1/favorites", middleware.RequireAuth())
	fg.Get("/listings", fh.ListListingFavorites)
	fg.Post("/listings/:listing_id", fh.AddListingFavorite)
	fg.Delete("/listings/:listing_id", fh.RemoveListingFavorite)
	fg.Get("/items", fh.ListItemFavorites)
	fg.Post("/items/:item_id", fh.AddItemFavorite)
	fg.Delete("/items/:item_id", fh.RemoveItemFavorite)

	// CheckIns
	cks := &checkinsvc.Service{DB: db}
	ckh := &checkinhandler.Handlers{Service: cks}
	app.Get("/api/v1/checkins/:listing_id", ckh.Participants)
	app.Post("/api/v1/checkins/:listing_id", middleware.RequireAuth(), ckh.CheckIn)
	app.Delete("/api/v1/checkins/:listing_id", middleware.RequireAuth(), ckh.CheckOut)

	// Messages
	ms := &msgsvc.Service{DB: db}
	mh := &msghandler.Handlers{Service: ms}
	cg := app.Group("/api/v1/conversations", middleware.RequireAuth())
	cg.Post("/", mh.GetOrCreateConversation)
	cg.Get("/", mh.ListConversations)
	cg.Get("/:conversation_id/messages", mh.ListMessages)
	cg.Post("/:conversation_id/messages", mh.SendMessage)
	cg.Post("/:conversation_id/read", mh.MarkRead)

	// Uploads and photos
	sc := &uploadsvc.SupabaseClient{BaseURL: cfg.SupabaseURL, SecretKey: cfg.SupabaseSecretKey}
	ups := &uploadsvc.Service{DB: db, Client: sc, StorageURL: cfg.SupabaseURL, Bucket: cfg.PhotoBucket}
	uph := &uploadhandler.Handlers{Service: ups}
	app.Post("/api/v1/uploads/photo", middleware.RequireAuth(), uph.GetSignedUploadURL)
	app.Post("/api/v1/listings/:listing_id/photos", middleware.RequireAuth(), uph.AddListingPhoto)
	app.Post("/api/v1/items/:item_id/photos", middleware.RequireAuth(), uph.AddItemPhoto)
	app.Post("/api/v1/photos/:photo_id/primary", middleware.RequireAuth(), uph.SetPrimaryPhoto)
	app.Delete("/api/v1/photos/:photo_id", middleware.RequireAuth(), uph.DeletePhoto)

	// ListingEvents
	les := &lesvc.Service{DB: db}
	leh := &lehandler.Handlers{Service: les}
	app.Get("/api/v1/listings/:listing_id/events", leh.GetListingEvents)
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
