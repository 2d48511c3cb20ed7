package legacy

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var legacyColumns = []string{"email", "name", "company_name", "phone", "message", "wants_demo", "wants_quote", "created_at"}

func setupMockSource(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresSource) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresSource(db)
}

func TestFetchLeadsMapsNullableColumns(t *testing.T) {
	db, mock, src := setupMockSource(t)
	defer db.Close()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(legacyColumns).
		AddRow("ana@acme.com", "Ana", "Acme", "+5511999999999", "hello", true, false, created).
		AddRow("bob@beta.io", nil, nil, nil, nil, nil, nil, created)

	mock.ExpectQuery(`FROM b2b_leads`).WillReturnRows(rows)

	leads, err := src.FetchLeads(context.Background(), entity.SegmentB2B)

	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Acme", leads[0].OrganizationName)
	assert.True(t, leads[0].DemoRequested)
	assert.False(t, leads[0].QuoteRequested)
	assert.Equal(t, created, leads[0].CreatedAt)
	assert.Equal(t, "bob@beta.io", leads[1].Email)
	assert.Empty(t, leads[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchLeadsUsesSegmentTable(t *testing.T) {
	db, mock, src := setupMockSource(t)
	defer db.Close()

	mock.ExpectQuery(`FROM b2e_leads`).WillReturnRows(sqlmock.NewRows(legacyColumns))

	leads, err := src.FetchLeads(context.Background(), entity.SegmentB2E)

	require.NoError(t, err)
	assert.Empty(t, leads)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchLeadsRejectsUnknownSegment(t *testing.T) {
	db, _, src := setupMockSource(t)
	defer db.Close()

	_, err := src.FetchLeads(context.Background(), entity.Segment("OTHER"))
	assert.Error(t, err)
}

func TestFetchLeadsWrapsQueryError(t *testing.T) {
	db, mock, src := setupMockSource(t)
	defer db.Close()

	mock.ExpectQuery(`FROM b2b_leads`).WillReturnError(errors.New("relation does not exist"))

	_, err := src.FetchLeads(context.Background(), entity.SegmentB2B)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "query b2b_leads")
}
