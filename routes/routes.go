package routes

import (
	"DentServe/cache"
	"DentServe/config"
	"DentServe/controllers"
	"DentServe/handlers"
	"DentServe/middlewares"
	"DentServe/models"
	"DentServe/repositories"
	"DentServe/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()

	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://dentserve.example.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15,
		Burst:             30,
	}))

	router.Use(middlewares.LoggingMiddleware())

	// Record store
	patientRepo := repositories.NewPatientRepository(db, cache)
	serviceRepo := repositories.NewServiceRepository(db, cache)
	transactionRepo := repositories.NewTransactionRepository(db, cache)
	installmentRepo := repositories.NewInstallmentRepository(db, cache)
	expenseRepo := repositories.NewExpenseRepository(db, cache)

	sectionRepos := make(map[string]*repositories.SectionRepository, len(models.SectionTables))
	for name, table := range models.SectionTables {
		sectionRepos[name] = repositories.NewSectionRepository(db, cache, table, name)
	}

	// Services
	ledgerService := services.NewLedgerService(db, transactionRepo, installmentRepo, serviceRepo)
	reportService := services.NewReportService(ledgerService, transactionRepo, installmentRepo, expenseRepo)
	patientService := services.NewPatientService(patientRepo)
	catalogService := services.NewCatalogService(serviceRepo)
	expenseService := services.NewExpenseService(expenseRepo)
	sectionService := services.NewSectionService(sectionRepos)

	// Handlers
	patientHandler := handlers.NewPatientHandler(patientService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	reportHandler := handlers.NewReportHandler(reportService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	sectionHandler := handlers.NewSectionHandler(sectionService)

	controllers.SetupClinicRoutes(
		router,
		patientHandler,
		catalogHandler,
		ledgerHandler,
		reportHandler,
		expenseHandler,
		sectionHandler,
	)

	controllers.SetupRootRoute(router)

	return router
}
