package httpapi

import (
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires middleware and routes:
//
//	GET  /health
//	POST /api/auth/sign-up
//	POST /api/auth/sign-in
//	POST /api/auth/sign-out
//	GET  /api/auth/me
func NewRouter(h *Handler, allowedOrigins []string, log logging.Logger) *gin.Engine {
	registerValidators()

	router := gin.New()
	router.Use(RequestID(), RequestLogger(log), Recovery(log))

	if len(allowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = allowedOrigins
		// the token travels in a cookie
		corsConfig.AllowCredentials = true
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", common.RequestIDHeaderName}
		corsConfig.ExposeHeaders = []string{common.RequestIDHeaderName}
		corsConfig.MaxAge = 12 * time.Hour
		router.Use(cors.New(corsConfig))
	}

	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/sign-up", h.SignUp)
			authRoutes.POST("/sign-in", h.SignIn)
			authRoutes.POST("/sign-out", h.SignOut)
			authRoutes.GET("/me", h.RequireAuth(), h.Me)
		}
	}

	return router
}
