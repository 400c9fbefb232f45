package config

import (
	"Invoice-Service/internal/api/handlers"
	"Invoice-Service/internal/api/routes"
	"Invoice-Service/internal/middleware"
	"Invoice-Service/internal/utils"
	"Invoice-Service/internal/utils/storage"
	"Invoice-Service/pkg/classifier"
	"Invoice-Service/pkg/embedding"
	"Invoice-Service/pkg/extraction"
	"Invoice-Service/pkg/invoice"
	"Invoice-Service/pkg/jwt"
	"Invoice-Service/pkg/llm"
	"Invoice-Service/pkg/parser"
	"Invoice-Service/pkg/search"
	"Invoice-Service/pkg/user"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         110 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Models
	claudeModel := llm.NewClaude(utils.GetConfig("ANTHROPIC_API_KEY"), utils.GetConfig("CLAUDE_MODEL"))
	openAIModel := llm.NewOpenAI(utils.GetConfig("OPENAI_API_KEY"), utils.GetConfig("OPENAI_MODEL"))
	azureModel := llm.NewAzureOpenAI(
		utils.GetConfig("AZURE_OPENAI_API_KEY"),
		utils.GetConfig("AZURE_OPENAI_ENDPOINT"),
		utils.GetConfig("AZURE_DEPLOYMENT_NAME"),
	)

	// Repository
	userRepository := user.NewUserRepository(db)
	invoiceRepository := invoice.NewInvoiceRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	parserService := parser.NewParserService()
	extractionService := extraction.NewExtractionService(claudeModel, azureModel)
	classifierService := classifier.NewClassifierService(claudeModel, openAIModel)
	embeddingService := embedding.NewEmbeddingService()
	invoiceService := invoice.NewInvoiceService(
		invoiceRepository,
		parserService,
		extractionService,
		classifierService,
		embeddingService,
		s3,
	)
	searchService := search.NewSearchService(embeddingService, invoiceRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, searchService, validator)
	parseHandler := handlers.NewParseHandler(invoiceService)

	// routes
	routesConfig := routes.Config{
		App:            app,
		UserHandler:    userHandler,
		InvoiceHandler: invoiceHandler,
		ParseHandler:   parseHandler,
		Middleware:     middlewares,
		JWTService:     jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
