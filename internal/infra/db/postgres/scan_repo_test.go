package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/purelabel/internal/domain/labels"
)

func TestScanRepository_SaveAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewScanRepository(db)
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE")).
		WithArgs("scan-1", "cloud", "image", "Coca Cola", "Sugar Rush", 1, "http://minio/x.jpg", `{"a":1}`, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), &domain.Scan{
		ID: "scan-1", Engine: domain.EngineCloud, InputKind: domain.InputImage,
		ProductName: "Coca Cola", Verdict: "Sugar Rush", InsightCount: 1,
		ImageURL: "http://minio/x.jpg", Result: json.RawMessage(`{"a":1}`), CreatedAt: created,
	}))

	cols := []string{"id", "engine", "input_kind", "product_name", "verdict", "insight_count", "image_url", "result_json", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id=$1")).
		WithArgs("scan-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("scan-1", "cloud", "image", "Coca Cola", "Sugar Rush", 1, "http://minio/x.jpg", []byte(`{"a":1}`), created))

	s, err := repo.Get(context.Background(), "scan-1")
	require.NoError(t, err)
	assert.Equal(t, "Sugar Rush", s.Verdict)
	assert.Equal(t, created, s.CreatedAt)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id=$1")).WithArgs("nope").WillReturnError(sql.ErrNoRows)
	_, err = repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScanRepository_Latest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "engine", "input_kind", "product_name", "verdict", "insight_count", "image_url", "result_json", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("a", "local", "text", "Local Scan", "Balanced Choice", 0, "", []byte(`{}`), time.Now()))

	list, err := NewScanRepository(db).Latest(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
