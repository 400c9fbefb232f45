package entities

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Invoice struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID         uuid.UUID       `gorm:"index:ix_invoices_user_id_created_at;index:ix_invoices_user_id_status" json:"user_id"`
	Filename       string          `gorm:"not null" json:"filename"`
	ExtractedData  string          `gorm:"type:jsonb" json:"extracted_data"`
	ClassifiedData string          `gorm:"type:jsonb" json:"classified_data"`
	Embeddings     pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
	Status         string          `gorm:"default:processing;index:ix_invoices_user_id_status" json:"status"` // "processing", "processed"

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
