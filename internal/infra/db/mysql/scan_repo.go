package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/bryanwahyu/purelabel/internal/domain/labels"
)

type ScanRepository struct {
	db *sql.DB
}

func NewScanRepository(db *sql.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

const scanColumns = `id, engine, input_kind, product_name, verdict, insight_count, image_url, result_json, created_at`

// Save insert/update a scan record
func (r *ScanRepository) Save(ctx context.Context, s *domain.Scan) error {
	const q = `
INSERT INTO label_scans
(` + scanColumns + `)
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 product_name=VALUES(product_name), verdict=VALUES(verdict),
 insight_count=VALUES(insight_count), image_url=VALUES(image_url), result_json=VALUES(result_json);
`
	created := s.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q,
		s.ID, stringOrDash(string(s.Engine)), stringOrDash(string(s.InputKind)),
		s.ProductName, s.Verdict, s.InsightCount, s.ImageURL, resultOrEmpty(s.Result), created,
	)
	return err
}

// Get by ID
func (r *ScanRepository) Get(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	const q = `SELECT ` + scanColumns + ` FROM label_scans WHERE id=? LIMIT 1;`
	s, err := scanRow(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return s, err
}

// Latest scans, newest first
func (r *ScanRepository) Latest(ctx context.Context, limit int) ([]*domain.Scan, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `SELECT ` + scanColumns + ` FROM label_scans ORDER BY created_at DESC, id DESC LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Scan
	for rows.Next() {
		s, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (*domain.Scan, error) {
	var s domain.Scan
	var result []byte
	if err := row.Scan(
		&s.ID, &s.Engine, &s.InputKind, &s.ProductName, &s.Verdict,
		&s.InsightCount, &s.ImageURL, &result, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	s.Result = result
	return &s, nil
}
