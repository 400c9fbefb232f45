package routes

import (
	"Invoice-Service/internal/api/handlers"
	"Invoice-Service/internal/middleware"
	"Invoice-Service/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App            *fiber.App
	UserHandler    handlers.UserHandler
	InvoiceHandler handlers.InvoiceHandler
	ParseHandler   handlers.ParseHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Auth()
	c.Invoices()
	c.Parsing()
}

func (c *Config) Auth() {
	auth := c.App.Group("/auth")
	{
		auth.Post("/register", c.UserHandler.Register)
		auth.Post("/login", c.UserHandler.Login)
		auth.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) Invoices() {
	invoices := c.App.Group("/api/v1/invoices", c.Middleware.AuthMiddleware(c.JWTService))

	invoices.Post("/upload", c.InvoiceHandler.UploadInvoice)
	invoices.Get("/", c.InvoiceHandler.GetInvoices)
	invoices.Post("/search", c.InvoiceHandler.SearchInvoices)
	invoices.Get("/:id", c.InvoiceHandler.GetInvoiceDetails)
	invoices.Post("/:id/export", c.InvoiceHandler.ExportInvoice)
}

func (c *Config) Parsing() {
	c.App.Post("/parse-invoices", c.ParseHandler.ParseInvoices)
	c.App.Get("/last-processed-invoices", c.ParseHandler.LastProcessedInvoices)
	c.App.Get("/invoices/:id/original", c.ParseHandler.GetOriginalInvoice)
	c.App.Get("/health", c.ParseHandler.HealthCheck)
}
