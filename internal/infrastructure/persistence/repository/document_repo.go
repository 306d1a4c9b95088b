package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/stormline/roofcrm/internal/application/port"
	"github.com/stormline/roofcrm/internal/domain/entity"
)

// DocumentRepository implements port.DocumentRepository
type DocumentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB, logger *zap.Logger) port.DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a generated document
func (r *DocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (deal_id, kind, file_path, created_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		doc.DealID, doc.Kind, doc.FilePath, doc.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create document", zap.Int64("deal_id", doc.DealID), zap.Error(err))
		return fmt.Errorf("failed to create document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	doc.ID = id
	return nil
}

// ListByDealID retrieves a deal's documents, newest first
func (r *DocumentRepository) ListByDealID(ctx context.Context, dealID int64) ([]*entity.Document, error) {
	query := `
		SELECT id, deal_id, kind, file_path, created_at
		FROM documents WHERE deal_id = ? ORDER BY created_at DESC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, dealID)
	if err != nil {
		r.logger.Error("Failed to list documents", zap.Int64("deal_id", dealID), zap.Error(err))
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		var doc entity.Document
		if err := rows.Scan(&doc.ID, &doc.DealID, &doc.Kind, &doc.FilePath, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

// Verify interface compliance
var _ port.DocumentRepository = (*DocumentRepository)(nil)
