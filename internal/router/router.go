// Package router assembles the gin engine that serves the ledger API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "budgetree/internal/docs" // Register swagger docs
	"budgetree/internal/handlers"
	"budgetree/internal/middleware"
	"budgetree/internal/services"
	"budgetree/internal/validator"
)

// New builds the engine with middleware, documentation and the v1 routes
// backed by ledgerService.
func New(ledgerService services.LedgerServicer) *gin.Engine {
	validator.Register()

	categoryHandler := handlers.NewCategoryHandler(ledgerService)
	summaryHandler := handlers.NewSummaryHandler(ledgerService)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())
	router.NoRoute(middleware.NotFound())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	categories := v1.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.GET("/:id/children", categoryHandler.GetChildren)
	categories.GET("/:id/descendants", categoryHandler.GetDescendants)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.PUT("/:id/amount", categoryHandler.UpdateAmount)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	v1.GET("/income-sources", summaryHandler.GetIncomeSources)
	v1.GET("/summary", summaryHandler.GetSummary)
	v1.GET("/chart", summaryHandler.GetChart)
	v1.GET("/currencies", summaryHandler.GetCurrencies)

	return router
}
