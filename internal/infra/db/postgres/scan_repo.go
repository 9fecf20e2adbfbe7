package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
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

// Save inserts or updates a scan record
func (r *ScanRepository) Save(ctx context.Context, s *domain.Scan) error {
	const q = `
INSERT INTO label_scans
  (` + scanColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  product_name=EXCLUDED.product_name,
  verdict=EXCLUDED.verdict,
  insight_count=EXCLUDED.insight_count,
  image_url=EXCLUDED.image_url,
  result_json=EXCLUDED.result_json;
`
	result := "{}"
	if len(s.Result) > 0 && json.Valid(s.Result) {
		result = string(s.Result)
	}
	created := s.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q,
		s.ID, stringOrDash(string(s.Engine)), stringOrDash(string(s.InputKind)),
		s.ProductName, s.Verdict, s.InsightCount, s.ImageURL, result, created,
	)
	return err
}

// Get returns one scan or domain.ErrNotFound
func (r *ScanRepository) Get(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	const q = `SELECT ` + scanColumns + ` FROM label_scans WHERE id=$1 LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, id)
	var s domain.Scan
	var result []byte
	if err := row.Scan(&s.ID, &s.Engine, &s.InputKind, &s.ProductName, &s.Verdict,
		&s.InsightCount, &s.ImageURL, &result, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	s.Result = result
	return &s, nil
}

// Latest returns scans ordered by created_at desc
func (r *ScanRepository) Latest(ctx context.Context, limit int) ([]*domain.Scan, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `SELECT ` + scanColumns + ` FROM label_scans ORDER BY created_at DESC, id DESC LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Scan
	for rows.Next() {
		var s domain.Scan
		var result []byte
		if err := rows.Scan(&s.ID, &s.Engine, &s.InputKind, &s.ProductName, &s.Verdict,
			&s.InsightCount, &s.ImageURL, &result, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Result = result
		out = append(out, &s)
	}
	return out, rows.Err()
}

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
