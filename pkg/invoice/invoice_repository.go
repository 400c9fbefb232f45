package invoice

import (
	"Invoice-Service/entities"
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type (
	InvoiceRepository interface {
		CreateInvoice(ctx context.Context, invoice *entities.Invoice) error
		UpdateInvoice(ctx context.Context, invoice *entities.Invoice) error
		DeleteInvoice(ctx context.Context, invoice *entities.Invoice) error
		GetInvoiceByID(ctx context.Context, id string) (*entities.Invoice, error)
		GetInvoices(ctx context.Context, userID string, page, limit int) ([]*entities.Invoice, int64, error)
		FindSimilarInvoices(ctx context.Context, userID string, query pgvector.Vector, threshold float64, limit int) ([]SimilarInvoice, error)
	}

	invoiceRepository struct {
		db *gorm.DB
	}

	// SimilarInvoice is one row of the vector similarity query.
	SimilarInvoice struct {
		ID            string  `gorm:"column:id"`
		Filename      string  `gorm:"column:filename"`
		ExtractedData string  `gorm:"column:extracted_data"`
		Similarity    float64 `gorm:"column:similarity"`
	}
)

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) CreateInvoice(ctx context.Context, invoice *entities.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) UpdateInvoice(ctx context.Context, invoice *entities.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *invoiceRepository) DeleteInvoice(ctx context.Context, invoice *entities.Invoice) error {
	return r.db.WithContext(ctx).Delete(invoice).Error
}

func (r *invoiceRepository) GetInvoiceByID(ctx context.Context, id string) (*entities.Invoice, error) {
	var invoice entities.Invoice
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetInvoices(ctx context.Context, userID string, page, limit int) ([]*entities.Invoice, int64, error) {
	var invoices []*entities.Invoice
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if err := query.Model(&entities.Invoice{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, count, nil
}

// FindSimilarInvoices runs the cosine similarity search against the vector
// column, scoped to the owning user.
func (r *invoiceRepository) FindSimilarInvoices(ctx context.Context, userID string, query pgvector.Vector, threshold float64, limit int) ([]SimilarInvoice, error) {
	var results []SimilarInvoice

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			filename,
			extracted_data,
			1 - (embeddings <=> ?) AS similarity
		FROM invoices
		WHERE user_id = ?
		AND embeddings IS NOT NULL
		AND 1 - (embeddings <=> ?) >= ?
		ORDER BY similarity DESC
		LIMIT ?`,
		query, userID, query, threshold, limit,
	).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
