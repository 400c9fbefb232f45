package migration

import (
	"Invoice-Service/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// Extensions for uuid generation and vector similarity search
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"vector\";")
	db.Exec(`CREATE OR REPLACE FUNCTION cosine_similarity(a vector, b vector)
	RETURNS float
	LANGUAGE sql
	IMMUTABLE STRICT
	AS $$
		SELECT 1 - (a <=> b)
	$$;`)

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Invoice{}); err != nil {
		log.Fatalf("Error migrating invoice database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
