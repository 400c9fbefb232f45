package main

import (
	"Invoice-Service/cmd/config"
	migration "Invoice-Service/cmd/database/migrate"
	"Invoice-Service/internal/utils"
	"log"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	if err := app.Listen(":" + utils.GetConfig("APP_PORT")); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
