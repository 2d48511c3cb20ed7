package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// Open connects to the legacy lead database and checks it answers.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// PostgresSource reads the per-segment form tables used before leads were
// unified.
type PostgresSource struct {
	DB *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{DB: db}
}

var legacyTables = map[entity.Segment]string{
	entity.SegmentB2B: "b2b_leads",
	entity.SegmentB2E: "b2e_leads",
}

func (s *PostgresSource) FetchLeads(ctx context.Context, segment entity.Segment) ([]usecase.LegacyLead, error) {
	table, ok := legacyTables[segment]
	if !ok {
		return nil, fmt.Errorf("no legacy table for segment %q", segment)
	}

	query := fmt.Sprintf(`
		SELECT email, name, company_name, phone, message, wants_demo, wants_quote, created_at
		FROM %s
		ORDER BY created_at ASC`, table)

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []usecase.LegacyLead
	for rows.Next() {
		var (
			lead                          usecase.LegacyLead
			name, company, phone, message sql.NullString
			demo, quote                   sql.NullBool
		)
		if err := rows.Scan(&lead.Email, &name, &company, &phone, &message, &demo, &quote, &lead.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		lead.Name = name.String
		lead.OrganizationName = company.String
		lead.Phone = phone.String
		lead.Message = message.String
		lead.DemoRequested = demo.Bool
		lead.QuoteRequested = quote.Bool
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}
