package lookup

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/lgmartins/triagem/internal/model"
)

// AvailabilityStore answers which subsidy types the bank can produce for a
// given tax id. Backed by the document-inventory database.
type AvailabilityStore interface {
	Available(ctx context.Context, taxID string) (map[string]bool, error)
	Close() error
}

// SQLAvailabilityStore queries the inventory over Postgres
type SQLAvailabilityStore struct {
	db *sql.DB
}

// NewSQLAvailabilityStore opens the inventory database
func NewSQLAvailabilityStore(cfg model.AvailabilityConfig) (*SQLAvailabilityStore, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Database, cfg.Username, cfg.Password, sslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open availability store: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("availability store unreachable: %w", err)
	}

	return &SQLAvailabilityStore{db: db}, nil
}

// Available returns the subsidy type codes on file for the tax id
func (s *SQLAvailabilityStore) Available(ctx context.Context, taxID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cod_tipo_ctud FROM tb_subsidios_di4 WHERE num_cpf_cnpj = $1`, taxID)
	if err != nil {
		return nil, fmt.Errorf("query availability: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := map[string]bool{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		out[code] = true
	}
	return out, rows.Err()
}

// Close releases the database handle
func (s *SQLAvailabilityStore) Close() error {
	return s.db.Close()
}

// MarkAvailability annotates matches with whether the store holds each
// subsidy for any of the given tax ids. Store errors leave matches
// unannotated; absence of an answer is not absence of the document.
func MarkAvailability(ctx context.Context, store AvailabilityStore, taxIDs []string, matches []model.SubsidyMatch) []string {
	if store == nil || len(taxIDs) == 0 {
		return nil
	}

	available := map[string]bool{}
	var alerts []string
	answered := false
	for _, id := range taxIDs {
		codes, err := store.Available(ctx, id)
		if err != nil {
			alerts = append(alerts, fmt.Sprintf("availability check failed for one tax id: %v", err))
			continue
		}
		answered = true
		for code := range codes {
			available[code] = true
		}
	}
	if !answered {
		return alerts
	}

	for i := range matches {
		v := available[matches[i].SubsidyID]
		matches[i].Available = &v
	}
	return alerts
}
