package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Document Repository
// ============================================

type pgDocumentRepository struct {
	pool *pgxpool.Pool
}

const documentColumns = `id, project_id, file_name, content_type, size_bytes, storage_key, version, uploaded_by, created_at`

func (r *pgDocumentRepository) Create(ctx context.Context, doc *Document) error {
	query := `
		INSERT INTO documents (project_id, file_name, content_type, size_bytes, storage_key, version, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	if doc.Version == 0 {
		doc.Version = 1
	}
	return r.pool.QueryRow(ctx, query,
		doc.ProjectID, doc.FileName, doc.ContentType, doc.SizeBytes,
		doc.StorageKey, doc.Version, doc.UploadedBy,
	).Scan(&doc.ID, &doc.CreatedAt)
}

func (r *pgDocumentRepository) FindByID(ctx context.Context, id string) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	doc := &Document{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&doc.ID, &doc.ProjectID, &doc.FileName, &doc.ContentType,
		&doc.SizeBytes, &doc.StorageKey, &doc.Version, &doc.UploadedBy, &doc.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *pgDocumentRepository) FindByProjectID(ctx context.Context, projectID string) ([]*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE project_id = $1 ORDER BY file_name, version DESC`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc := &Document{}
		if err := rows.Scan(
			&doc.ID, &doc.ProjectID, &doc.FileName, &doc.ContentType,
			&doc.SizeBytes, &doc.StorageKey, &doc.Version, &doc.UploadedBy, &doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *pgDocumentRepository) NextVersion(ctx context.Context, projectID, fileName string) (int, error) {
	query := `SELECT COALESCE(MAX(version), 0) + 1 FROM documents WHERE project_id = $1 AND file_name = $2`
	var version int
	if err := r.pool.QueryRow(ctx, query, projectID, fileName).Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

func (r *pgDocumentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM documents WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
