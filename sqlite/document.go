package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/apiguard/apiguard"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ apiguard.DocumentService = (*DocumentService)(nil)

// DocumentService implements apiguard.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// hashContent computes xxHash of content and returns a hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// CreateDocument creates a new document.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *apiguard.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.ID = uuid.New().String()
	doc.ScrapedAt = time.Now().UTC()
	doc.ContentHash = hashContent(doc.Content)

	codeExamples, err := json.Marshal(doc.CodeExamples)
	if err != nil {
		return fmt.Errorf("failed to encode code examples: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_url, title, content, code_examples, content_hash, position, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.SourceURL, doc.Title, doc.Content, string(codeExamples), doc.ContentHash,
		doc.Position, doc.ScrapedAt.Format(time.RFC3339))

	return err
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*apiguard.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source_url, title, content, code_examples, content_hash, position, scraped_at
		FROM documents
		WHERE id = ?
	`, id)

	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apiguard.Errorf(apiguard.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// FindDocuments retrieves documents matching the filter, ordered by position.
func (s *DocumentService) FindDocuments(ctx context.Context, filter apiguard.DocumentFilter) ([]*apiguard.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source_url, title, content, code_examples, content_hash, position, scraped_at FROM documents WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*apiguard.Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// DeleteDocument permanently removes a document.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return apiguard.Errorf(apiguard.ENOTFOUND, "document not found")
	}

	return nil
}

// scanDocument scans one documents row through the given scan function.
func scanDocument(scan func(dest ...any) error) (*apiguard.Document, error) {
	var doc apiguard.Document
	var codeExamples, scrapedAt string

	if err := scan(&doc.ID, &doc.SourceURL, &doc.Title, &doc.Content, &codeExamples,
		&doc.ContentHash, &doc.Position, &scrapedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(codeExamples), &doc.CodeExamples); err != nil {
		return nil, fmt.Errorf("failed to decode code examples: %w", err)
	}

	var err error
	doc.ScrapedAt, err = parseRFC3339(scrapedAt, "scraped_at")
	if err != nil {
		return nil, err
	}

	return &doc, nil
}
