package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"elpro/pkg/logger"
	"elpro/pkg/metrics"
)

// Handlers все обработчики приложения для сборки роутера
type Handlers struct {
	Catalog  *CatalogHandler
	Product  *ProductHandler
	Section  *SectionHandler
	Banner   *BannerHandler
	Settings *SettingsHandler
	Order    *OrderHandler
	User     *UserHandler
	Site     *SiteHandler
	System   *SystemHandler
}

// SetupRoutes собирает роутер: публичная витрина, оформление заказа
// и защищенная JWT админка. Управление пользователями только для admin
func SetupRoutes(h *Handlers, authMiddleware *AuthMiddleware, allowedOrigins []string, uploadsDir string) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("elpro"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "elpro",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.Static("/uploads", uploadsDir)

	// Публичная витрина
	site := router.Group("/site")
	{
		site.GET("/navigation", h.Site.Navigation)
		site.GET("/home", h.Site.Home)
		site.GET("/categories/:url", h.Site.CategoryProducts)
		site.GET("/products/:id", h.Site.ProductPage)
		site.POST("/orders", h.Order.CreateOrder)
	}

	// Аутентификация
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.User.Register)
		auth.POST("/login", h.User.Login)
	}

	// Админка, все ручки за JWT
	admin := router.Group("/admin")
	admin.Use(authMiddleware.Authenticate())
	{
		categories := admin.Group("/categories")
		{
			categories.POST("", h.Catalog.CreateCategory)
			categories.GET("", h.Catalog.GetCategories)
			categories.GET("/:id", h.Catalog.GetCategory)
			categories.PATCH("/:id", h.Catalog.UpdateCategory)
			categories.DELETE("/:id", h.Catalog.DeleteCategory)
		}

		subcategories := admin.Group("/subcategories")
		{
			subcategories.POST("", h.Catalog.CreateSubcategory)
			subcategories.GET("", h.Catalog.GetSubcategories)
			subcategories.GET("/:id", h.Catalog.GetSubcategory)
			subcategories.PATCH("/:id", h.Catalog.UpdateSubcategory)
			subcategories.DELETE("/:id", h.Catalog.DeleteSubcategory)
			subcategories.POST("/selected", h.Catalog.SelectedSubcategories)
		}

		products := admin.Group("/products")
		{
			products.POST("", h.Product.CreateProduct)
			products.GET("", h.Product.GetProducts)
			products.GET("/search", h.Product.SearchProducts)
			products.GET("/:id", h.Product.GetProduct)
			products.PATCH("/:id", h.Product.UpdateProduct)
			products.DELETE("/:id", h.Product.DeleteProduct)
		}

		sections := admin.Group("/sections")
		{
			sections.POST("", h.Section.CreateSection)
			sections.GET("", h.Section.GetSections)
			sections.GET("/:id", h.Section.GetSection)
			sections.PATCH("/:id", h.Section.UpdateSection)
			sections.DELETE("/:id", h.Section.DeleteSection)
		}

		banners := admin.Group("/banners")
		{
			banners.POST("", h.Banner.CreateBanner)
			banners.GET("", h.Banner.GetBanners)
			banners.GET("/:id", h.Banner.GetBanner)
			banners.PATCH("/:id", h.Banner.UpdateBanner)
			banners.DELETE("/:id", h.Banner.DeleteBanner)
		}

		settings := admin.Group("/settings")
		{
			settings.POST("", h.Settings.CreateSettings)
			settings.GET("", h.Settings.GetSettings)
			settings.PATCH("", h.Settings.UpdateSettings)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", h.Order.GetOrders)
			orders.GET("/:id", h.Order.GetOrder)
			orders.PATCH("/:id/status", h.Order.UpdateOrderStatus)
		}

		system := admin.Group("/system")
		system.Use(authMiddleware.RequireAdmin())
		{
			system.POST("/reconcile", h.System.Reconcile)
		}

		users := admin.Group("/users")
		users.Use(authMiddleware.RequireAdmin())
		{
			users.POST("", h.User.CreateUser)
			users.GET("", h.User.GetUsers)
			users.PATCH("/:id", h.User.UpdateUser)
			users.DELETE("/:id", h.User.DeleteUser)
		}
	}

	return router
}
