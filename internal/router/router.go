package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"shelfwise/internal/config"
	"shelfwise/internal/handler"
	"shelfwise/internal/middleware"
	"shelfwise/internal/repository"
	"shelfwise/internal/service"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// ── Repositories ─────────────────────────────────────────────────────────
	itemRepo := repository.NewItemRepository(rdb, cfg.ItemsTable)
	userRepo := repository.NewUserRepository(db)
	denylist := repository.NewTokenDenylist(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	itemSvc := service.NewItemService(itemRepo)
	authSvc := service.NewAuthService(userRepo, denylist, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	itemsH := handler.NewItemsHandler(itemSvc)
	authH := handler.NewAuthHandler(authSvc)

	// Global middleware chain (order matters). Identity never aborts: item
	// handlers answer missing callers with their own contract-mandated codes.
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP
	r.Use(middleware.Identity(cfg.JWTSecret, denylist))

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/auth")
	{
		auth.POST("/signup", authH.SignUp)
		auth.POST("/confirm", authH.ConfirmSignUp)
		auth.POST("/signin", middleware.SignInRateLimiter(), authH.SignIn)

		authed := auth.Group("", middleware.RequireAuth())
		{
			authed.POST("/signout", authH.SignOut)
			authed.GET("/me", authH.CurrentUser)
		}
	}

	items := r.Group("/items")
	{
		items.POST("", itemsH.Create)
		items.GET("", itemsH.List)
		// The update contract accepts the item id from the path or the body.
		items.PUT("", itemsH.Update)
		items.PUT("/:id", itemsH.Update)
		items.DELETE("/:id", itemsH.Delete)
	}

	return r
}
