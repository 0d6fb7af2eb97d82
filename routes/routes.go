package routes

import (
	"net/http"
	"time"

	"smartbite/config"
	"smartbite/handlers"
	"smartbite/middleware"
	"smartbite/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the engine with CORS, metrics and every route mounted.
func NewRouter(cfg config.Server, reg *prometheus.Registry) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !containsWildcard(cfg.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	metrics := middleware.NewMetrics(reg)
	r.Use(metrics.Handler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "ServeSoft development backend",
			"version": "1.0.0",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	SetupRoutes(r, middleware.NewIPLimiter(cfg.LoginRatePerMin))
	return r
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func SetupRoutes(r *gin.Engine, loginLimiter *middleware.IPLimiter) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", middleware.RateLimited(loginLimiter), handlers.Register)
		public.POST("/auth/login", middleware.RateLimited(loginLimiter), handlers.Login)

		// Restaurants & menus (no auth needed)
		public.GET("/restaurants", handlers.ListRestaurants)
		public.GET("/restaurants/:id", handlers.GetRestaurant)
		public.GET("/restaurants/:id/menu", handlers.GetMenu)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/auth/verify", handlers.Verify)
		auth.POST("/auth/logout", handlers.Logout)
		auth.GET("/profile", handlers.GetProfile)
	}

	// ── Cart routes ────────────────────────────────────────────────
	cart := r.Group("/api/cart")
	cart.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		cart.GET("", handlers.GetCart)
		cart.DELETE("", handlers.ClearCart)
		cart.POST("/items", handlers.AddToCart)
		cart.PUT("/items/:id", handlers.SetCartQuantity)
		cart.DELETE("/items/:id", handlers.RemoveFromCart)
	}

	// ── Manager routes ─────────────────────────────────────────────
	manager := r.Group("/api/manager")
	manager.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleManager))
	{
		manager.POST("/restaurant", handlers.CreateRestaurant)
		manager.GET("/restaurant", handlers.GetMyRestaurant)
		manager.PUT("/restaurant", handlers.UpdateRestaurant)

		manager.POST("/menu", handlers.AddMenuItem)
		manager.PUT("/menu/:itemId", handlers.UpdateMenuItem)
		manager.DELETE("/menu/:itemId", handlers.DeleteMenuItem)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/users", handlers.AdminGetAllUsers)
		admin.GET("/restaurants", handlers.AdminGetAllRestaurants)
		admin.DELETE("/revoked-tokens", handlers.AdminPurgeRevokedTokens)
	}
}
