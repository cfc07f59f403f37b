package server

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/Rendyzzx/jawa/internal/auth"
	"github.com/Rendyzzx/jawa/internal/config"
	"github.com/Rendyzzx/jawa/internal/handlers"
	"github.com/Rendyzzx/jawa/internal/middleware"
	"github.com/Rendyzzx/jawa/internal/models"
	"github.com/Rendyzzx/jawa/internal/numbers"
	"github.com/Rendyzzx/jawa/internal/store"
)

// Sessions end after half an hour without a request.
const sessionIdleSeconds = 30 * 60

func NewRouter(cfg *config.Config, svc *auth.Service, users *store.UserStore, nums *numbers.Store) *gin.Engine {
	r := gin.Default()

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionIdleSeconds,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("jawa_session", sessionStore))

	r.Use(middleware.InjectUser(users))

	authHandlers := &handlers.Auth{Service: svc}
	userHandlers := &handlers.Users{Store: users}
	numberHandlers := &handlers.Numbers{Store: nums}

	api := r.Group("/api")

	// AUTH
	api.POST("/auth/login", authHandlers.Login)
	api.POST("/auth/logout", authHandlers.Logout)
	api.GET("/auth/me", authHandlers.Me)

	// credential changes are admin only
	api.POST("/auth/change-credentials",
		middleware.RequireRole(models.RoleAdmin),
		authHandlers.ChangeCredentials,
	)

	// USERS
	api.POST("/users",
		middleware.RequireRole(models.RoleAdmin),
		userHandlers.Create,
	)
	api.GET("/users",
		middleware.RequireRole(models.RoleAdmin),
		userHandlers.List,
	)

	// NUMBERS
	numbersAPI := api.Group("/numbers")
	numbersAPI.Use(middleware.RequireAuth())

	numbersAPI.GET("", numberHandlers.List)
	numbersAPI.POST("", numberHandlers.Add)

	// deleting numbers is admin only
	numbersAPI.DELETE("/:id",
		middleware.RequireRole(models.RoleAdmin),
		numberHandlers.Delete,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
